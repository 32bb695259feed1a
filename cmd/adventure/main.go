// adventure is a small text adventure driven by a quarterdeck command
// tree. It exists to exercise the full option surface: groups, dynamic
// matches, key-value defaults, hidden options and path completion.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tbeaumont/quarterdeck/pkg/cmdtree"
	"github.com/tbeaumont/quarterdeck/pkg/shell"
)

// game holds the player state shared by all handlers via the session.
type game struct {
	inventory map[string]int
	order     []string
}

func newGame() *game {
	return &game{
		inventory: map[string]int{"dagger": 1, "chupachup": 2},
		order:     []string{"dagger", "chupachup"},
	}
}

// items lists held item names as completion candidates, in pickup order.
func (g *game) items(_ cmdtree.Values) []cmdtree.Candidate {
	var out []cmdtree.Candidate
	for _, name := range g.order {
		if g.inventory[name] > 0 {
			out = append(out, cmdtree.Candidate{Name: name})
		}
	}
	return out
}

func (g *game) add(item string) {
	if g.inventory[item] == 0 {
		g.order = append(g.order, item)
	}
	g.inventory[item]++
}

func session(inv *cmdtree.Invocation) *game {
	return inv.Session.(*game)
}

func useWeapon(_ context.Context, inv *cmdtree.Invocation) error {
	g := session(inv)
	item, _ := inv.GetGroupOption("item")
	if g.inventory[item] == 0 {
		inv.Printf("You dont have a %s to attack with!\n", item)
		return nil
	}
	inv.Printf("You attempt to use a %s as a weapon.\n", item)
	inv.Println("There is nothing here to attack.")
	return nil
}

func useFood(_ context.Context, inv *cmdtree.Invocation) error {
	g := session(inv)
	item, _ := inv.GetGroupOption("item")
	if g.inventory[item] == 0 {
		inv.Printf("You dont have a %s to eat!\n", item)
		return nil
	}
	inv.Printf("You attempt to eat a %s.\n", item)
	if item == "chupachup" {
		g.inventory[item]--
		inv.Println("*suck suck suck*")
		inv.Println("Yum!")
		return nil
	}
	inv.Println("You are not a trained sword swallower.")
	inv.Println("You die from internal bleeding.")
	return shell.ErrExit
}

func pickup(_ context.Context, inv *cmdtree.Invocation) error {
	g := session(inv)
	item, _ := inv.GetGroupOption("items")
	if item == "chupachups" {
		inv.Println("You picked up the chupachups.")
		g.add("chupachup")
		return nil
	}
	inv.Printf("I dont see a %s.\n", item)
	return nil
}

func set(_ context.Context, inv *cmdtree.Invocation) error {
	if _, ok := inv.GetOption("error"); ok {
		return fmt.Errorf("boo!")
	}
	colour, _ := inv.GetOption("colour")
	file, _ := inv.GetOption("file")
	pager, _ := inv.GetOption("pager")
	strength, _ := inv.GetOption("strength")
	inv.Printf("Colour is: %s\n", colour)
	inv.Printf("File is: %s\n", file)
	inv.Printf("Pager is: %s\n", pager)
	inv.Printf("Strength is: %s\n", strength)
	return nil
}

func look(_ context.Context, inv *cmdtree.Invocation) error {
	direction, supplied := inv.GetOption("direction")
	switch {
	case !supplied && direction == "":
		inv.Println("You see various things in different places. Look where?")
	case direction == "north", direction == "south", direction == "east", direction == "west":
		inv.Printf("You see a corridor to the %s\n", direction)
	case direction == "up":
		inv.Println("There is a wet stone ceiling above your head.")
	case direction == "down":
		inv.Println("You see Chupa Chups on the floor. Looks tasty.")
	default:
		inv.Printf("I dont know how to look %s\n", direction)
	}
	return nil
}

func walk(_ context.Context, inv *cmdtree.Invocation) error {
	direction, _ := inv.GetOption("direction")
	inv.Printf("Walking %s\n", direction)
	if rand.Intn(8) == 0 {
		inv.Println("You are eaten by a grue.")
		return shell.ErrExit
	}
	if direction == "east" || direction == "west" {
		inv.Println("You walk down a long corridor.")
	} else {
		inv.Println("You have entered a room with four exits.")
	}
	return nil
}

func inventory(_ context.Context, inv *cmdtree.Invocation) error {
	g := session(inv)
	inv.Println("Current inventory items:")
	for _, item := range g.order {
		inv.Printf("%d %s(s)\n", g.inventory[item], item)
	}
	return nil
}

func fight(_ context.Context, inv *cmdtree.Invocation) error {
	enemy, _ := inv.GetOption("enemy")
	weapon, _ := inv.GetOption("weapon")
	inv.Printf("Fighting %s with a %s...\n", enemy, weapon)
	return nil
}

func say(_ context.Context, inv *cmdtree.Invocation) error {
	tone := "mutter"
	if _, ok := inv.GetOption("shout"); ok {
		tone = "shout"
	}
	words, _ := inv.GetOption("words")
	inv.Printf("You %s, %q.\n", tone, words)
	return nil
}

func buildTree(g *game) (*cmdtree.Tree, error) {
	held := cmdtree.NewDynamicMatch(g.items)
	strengths := cmdtree.NewEnumHelpMatch(
		cmdtree.Candidate{Name: "pissweak", Help: "Pointless!"},
		cmdtree.Candidate{Name: "weak", Help: "Meh"},
		cmdtree.Candidate{Name: "strong", Help: "Better"},
		cmdtree.Candidate{Name: "superman", Help: "Now we're talking!"},
	)

	return cmdtree.Build(cmdtree.Spec{
		Prompt: "adventure> ",
		Children: []cmdtree.Spec{
			{
				Name: "use", Help: "Use an item",
				Children: []cmdtree.Spec{
					{
						Name: "weapon", Help: "Use a weapon", Handler: useWeapon,
						Options: []*cmdtree.Option{
							{Name: "item", Help: "Weapon to use", Group: "item", Required: true, Match: held},
						},
					},
					{
						Name: "food", Help: "Eat some food", Handler: useFood,
						Options: []*cmdtree.Option{
							{Name: "item", Help: "Food to eat.", Group: "item", Required: true, Match: held},
						},
					},
				},
			},
			{
				Name: "pickup", Help: "Pickup an item.", Handler: pickup,
				Options: []*cmdtree.Option{
					{Name: "item", Help: "Item to pickup.", Group: "items", Required: true, Match: cmdtree.MustRegexMatch(`\w+`)},
					{Name: "chupachups", Group: "items", Required: true, Boolean: true},
				},
			},
			{
				Name: "set", Help: "Set something.", Handler: set,
				Options: []*cmdtree.Option{
					{Name: "colour", Help: "Cli colour", KeyValue: true, Default: "white", Match: cmdtree.MustRegexMatch(`[a-z]+`)},
					{Name: "error", Help: "Make an error", Boolean: true},
					{Name: "file", Help: "Dump gold to file", KeyValue: true, Default: "default.txt", Match: &cmdtree.PathMatch{}},
					{Name: "pager", Help: "Change screen pager", KeyValue: true, Match: cmdtree.NewEnumHelpMatch(
						cmdtree.Candidate{Name: "on", Help: "Enable the pager"},
						cmdtree.Candidate{Name: "off", Help: "Disable the pager"},
					)},
					{Name: "power", Help: "Change power", KeyValue: true, Match: cmdtree.NewEnumHelpMatch(
						cmdtree.Candidate{Name: "low", Help: "Set power low"},
						cmdtree.Candidate{Name: "high", Help: "Set power high"},
					)},
					{Name: "linewrap", Help: "Change linewrap", KeyValue: true, Match: cmdtree.NewEnumHelpMatch(
						cmdtree.Candidate{Name: "on", Help: "Set linewrap on"},
						cmdtree.Candidate{Name: "off", Help: "Set linewrap off"},
					)},
					{Name: "strength", Help: "Set strength", KeyValue: true, Hidden: true, Default: "strong", Match: strengths},
				},
			},
			{
				Name: "look", Help: "Look around the room", Handler: look,
				Options: []*cmdtree.Option{
					{Name: "direction", Help: "Direction to look", Match: cmdtree.MustRegexMatch(`\w+`)},
				},
			},
			{
				Name: "fight", Help: "Fight an enemy", Handler: fight,
				Options: []*cmdtree.Option{
					{Name: "enemy", Help: "Enemy to fight", KeyValue: true, Match: cmdtree.MustRegexMatch(`\S+`)},
					{Name: "weapon", Help: "Weapon to use", KeyValue: true, Match: cmdtree.MustRegexMatch(`\S+`)},
				},
			},
			{
				Name: "walk", Help: "Walk somewhere", Handler: walk,
				Options: []*cmdtree.Option{
					{Name: "direction", Help: "Direction to walk", Required: true,
						Match: cmdtree.NewEnumMatch("north", "northeast", "south", "east", "west")},
				},
			},
			{Name: "inventory", Help: "See your inventory", Handler: inventory},
			{
				Name: "say", Help: "Say something", Handler: say,
				Options: []*cmdtree.Option{
					{Name: "shout", Help: "Shout it out!", Boolean: true},
					{Name: "words", Help: "Words to say", KeyValue: true, Match: cmdtree.MustRegexMatch(`.+`)},
				},
			},
			{
				Name: "quit", Help: "Leave the game",
				Handler: func(context.Context, *cmdtree.Invocation) error { return shell.ErrExit },
			},
		},
	})
}

func main() {
	historyFile := flag.String("history", "", "readline history file")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus listen address (empty to disable)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	g := newGame()
	tree, err := buildTree(g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "adventure: %v\n", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics listener", "err", err)
			}
		}()
	}

	fmt.Println("Welcome to Adventure! Press <tab> or '?' for help.")

	sh := shell.New(tree, shell.Config{
		HistoryFile: *historyFile,
		Session:     g,
		Logger:      logger,
		Registry:    registry,
	})
	if err := sh.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "adventure: %v\n", err)
		os.Exit(1)
	}
}

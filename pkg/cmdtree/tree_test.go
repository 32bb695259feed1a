package cmdtree

import (
	"context"
	"errors"
	"testing"
)

func buildTestTree(t *testing.T) *Tree {
	t.Helper()
	tree, err := Build(Spec{
		Prompt: "test> ",
		Children: []Spec{
			{Name: "show", Help: "Show state", Children: []Spec{
				{Name: "version", Help: "Software version", Runnable: true},
				{Name: "vlans", Help: "VLAN table", Runnable: true},
				{Name: "debug", Hidden: true, Runnable: true},
			}},
			{Name: "clear", Help: "Clear state", Runnable: true},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

func TestLookupAndPath(t *testing.T) {
	tree := buildTestTree(t)

	n, err := tree.Lookup([]string{"show", "version"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if n.Name != "version" {
		t.Errorf("node name = %q, want version", n.Name)
	}
	path := n.Path()
	if len(path) != 2 || path[0] != "show" || path[1] != "version" {
		t.Errorf("Path() = %v, want [show version]", path)
	}

	_, err = tree.Lookup([]string{"show", "nothing"})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(nf.Path) != 2 || nf.Path[1] != "nothing" {
		t.Errorf("NotFoundError.Path = %v, want failing prefix", nf.Path)
	}
}

func TestChildLookupIsCaseInsensitive(t *testing.T) {
	tree := buildTestTree(t)
	n := tree.Root().Child("SHOW")
	if n == nil {
		t.Fatal("Child(SHOW) = nil, want show")
	}
	// The declared case is what callers see.
	if n.Name != "show" {
		t.Errorf("node name = %q, want show", n.Name)
	}
}

func TestChildrenOrderAndHidden(t *testing.T) {
	tree := buildTestTree(t)
	show, _ := tree.Lookup([]string{"show"})

	visible := show.Children(false)
	if len(visible) != 2 || visible[0].Name != "version" || visible[1].Name != "vlans" {
		t.Errorf("visible children = %v, want [version vlans] in declaration order", names(visible))
	}
	all := show.Children(true)
	if len(all) != 3 || all[2].Name != "debug" {
		t.Errorf("all children = %v, want hidden debug last", names(all))
	}
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestInsert(t *testing.T) {
	tree := buildTestTree(t)

	if err := tree.Insert([]string{"show"}, &Node{Name: "sessions", Runnable: true}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if n, _ := tree.Lookup([]string{"show", "sessions"}); n == nil {
		t.Error("inserted node not found")
	}

	err := tree.Insert([]string{"no", "such"}, &Node{Name: "x"})
	var ua *UnknownAncestorError
	if !errors.As(err, &ua) {
		t.Fatalf("expected UnknownAncestorError, got %v", err)
	}
	if ua.Missing != "no" {
		t.Errorf("Missing = %q, want no", ua.Missing)
	}
}

func TestDuplicateChild(t *testing.T) {
	tree := buildTestTree(t)
	err := tree.Insert(nil, &Node{Name: "SHOW"})
	var dup *DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateNameError for case-colliding sibling, got %v", err)
	}
}

func TestBuildRejectsBadOptions(t *testing.T) {
	cases := []struct {
		name string
		opt  *Option
	}{
		{"empty name", &Option{Name: "", Boolean: true}},
		{"whitespace name", &Option{Name: "two words", Boolean: true}},
		{"boolean with matcher", &Option{Name: "b", Boolean: true, Match: NewEnumMatch("x")}},
		{"boolean keyvalue", &Option{Name: "b", Boolean: true, KeyValue: true}},
		{"no matcher", &Option{Name: "v"}},
		{"keyvalue positional", &Option{Name: "v", KeyValue: true, Positional: true, Match: NewEnumMatch("x")}},
		{"negative position", &Option{Name: "v", Positional: true, Position: -1, Match: NewEnumMatch("x")}},
		{"default on non-keyvalue", &Option{Name: "v", Default: "x", Match: NewEnumMatch("x")}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Build(Spec{Children: []Spec{
				{Name: "cmd", Runnable: true, Options: []*Option{c.opt}},
			}})
			var inv *InvalidOptionError
			if !errors.As(err, &inv) {
				t.Fatalf("expected InvalidOptionError, got %v", err)
			}
		})
	}
}

func TestBuildHandlerImpliesRunnable(t *testing.T) {
	tree, err := Build(Spec{Children: []Spec{
		{Name: "go", Handler: func(_ context.Context, _ *Invocation) error { return nil }},
	}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	n, _ := tree.Lookup([]string{"go"})
	if !n.Runnable {
		t.Error("node with handler should be runnable")
	}
}

func TestExecuteLabel(t *testing.T) {
	n := &Node{Name: "x"}
	if n.ExecuteLabel() != DefaultExecuteHelp {
		t.Errorf("ExecuteLabel = %q, want default", n.ExecuteLabel())
	}
	n.ExecuteHelp = "Apply the thing"
	if n.ExecuteLabel() != "Apply the thing" {
		t.Errorf("ExecuteLabel = %q, want override", n.ExecuteLabel())
	}
}

func TestInvocationGetOption(t *testing.T) {
	tree, err := Build(Spec{Children: []Spec{
		{Name: "set", Runnable: true, Options: []*Option{
			{Name: "colour", KeyValue: true, Default: "white", Match: MustRegexMatch(`[a-z]+`)},
			{Name: "pager", KeyValue: true, Match: NewEnumMatch("on", "off")},
		}},
	}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	node, _ := tree.Lookup([]string{"set"})

	inv := &Invocation{Node: node, Values: Values{"pager": "on"}}

	if v, ok := inv.GetOption("pager"); !ok || v != "on" {
		t.Errorf("GetOption(pager) = %q, %v; want on, true", v, ok)
	}
	// Absent option with a default reports the default but stays absent.
	if v, ok := inv.GetOption("colour"); ok || v != "white" {
		t.Errorf("GetOption(colour) = %q, %v; want white, false", v, ok)
	}
	if v, ok := inv.GetOption("nothing"); ok || v != "" {
		t.Errorf("GetOption(nothing) = %q, %v; want empty, false", v, ok)
	}
}

func TestInvocationGetGroupOption(t *testing.T) {
	inv := &Invocation{
		Values: Values{"chupachups": "chupachups"},
		Groups: map[string]string{"items": "chupachups"},
	}
	if v, ok := inv.GetGroupOption("items"); !ok || v != "chupachups" {
		t.Errorf("GetGroupOption(items) = %q, %v; want chupachups, true", v, ok)
	}
	if _, ok := inv.GetGroupOption("other"); ok {
		t.Error("GetGroupOption(other) should report absent")
	}
}

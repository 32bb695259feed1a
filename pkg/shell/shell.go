// Package shell runs the interactive front-end: a readline loop that
// re-invokes the resolver on every completion request and dispatches
// submitted lines to command handlers. It is a thin layer over
// pkg/resolve; all grammar knowledge lives in the command tree.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tbeaumont/quarterdeck/pkg/cmdtree"
	"github.com/tbeaumont/quarterdeck/pkg/pipeline"
	"github.com/tbeaumont/quarterdeck/pkg/resolve"
)

// ErrExit terminates the shell loop cleanly when returned by a handler.
var ErrExit = errors.New("exit")

// Config carries the optional knobs of a Shell. The zero value is
// usable: prompt from the tree root, stdio streams, no history file.
type Config struct {
	// Prompt overrides the root node's prompt.
	Prompt string

	// HistoryFile persists readline history between sessions.
	HistoryFile string

	// Session is handed to every handler invocation untouched.
	Session any

	Stdin  io.ReadCloser
	Stdout io.Writer
	Stderr io.Writer

	// Logger receives debug-level shell events. Log output never mixes
	// into the terminal stream.
	Logger *slog.Logger

	// Registry, when set, receives the shell's counters.
	Registry prometheus.Registerer

	// DisablePipes turns off "| match" style output filters.
	DisablePipes bool
}

// Shell is the interactive command-line front-end over one command tree.
type Shell struct {
	tree    *cmdtree.Tree
	cfg     Config
	rl      *readline.Instance
	metrics *metrics
	log     *slog.Logger

	stdout io.Writer
	stderr io.Writer
}

// New creates a shell over tree. The tree must be fully built; it is
// treated as read-only for the life of the shell.
func New(tree *cmdtree.Tree, cfg Config) *Shell {
	s := &Shell{
		tree:   tree,
		cfg:    cfg,
		stdout: cfg.Stdout,
		stderr: cfg.Stderr,
		log:    cfg.Logger,
	}
	if s.stdout == nil {
		s.stdout = os.Stdout
	}
	if s.stderr == nil {
		s.stderr = os.Stderr
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(reg)
	return s
}

// SetPrompt changes the prompt for subsequent reads. Safe to call from
// a handler mid-session.
func (s *Shell) SetPrompt(p string) {
	s.cfg.Prompt = p
	if s.rl != nil {
		s.rl.SetPrompt(p)
	}
}

func (s *Shell) prompt() string {
	if s.cfg.Prompt != "" {
		return s.cfg.Prompt
	}
	if p := s.tree.Root().Prompt; p != "" {
		return p
	}
	return "> "
}

// Run starts the interactive loop and blocks until the user exits or a
// handler returns ErrExit.
func (s *Shell) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		HistoryFile:     s.cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    &completer{s: s},
		Stdin:           s.cfg.Stdin,
		Stdout:          s.stdout,
		Stderr:          s.stderr,
		Listener:        readline.FuncListener(s.helpListener),
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer rl.Close()
	s.rl = rl

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := s.Submit(context.Background(), line); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			s.report(err)
		}
	}
}

// Submit resolves and executes one submitted line, applying any trailing
// pipe filter to the captured output. Resolution failures are returned
// as data for the caller to render; the session survives them.
func (s *Shell) Submit(ctx context.Context, line string) error {
	s.metrics.commands.Inc()

	cmd, filter, arg := line, "", ""
	if !s.cfg.DisablePipes {
		if c, f, a, ok := pipeline.Split(line); ok {
			cmd, filter, arg = c, f, a
		}
	}

	var out io.Writer = s.stdout
	var buf bytes.Buffer
	if filter != "" {
		out = &buf
	}

	s.log.Debug("submit", "line", cmd, "filter", filter)
	if err := resolve.Execute(ctx, s.tree, cmd, s.cfg.Session, out); err != nil {
		if !errors.Is(err, ErrExit) {
			s.metrics.failures.WithLabelValues(failureKind(err)).Inc()
		}
		return err
	}

	if filter != "" {
		io.WriteString(s.stdout, pipeline.Apply(filter, arg, buf.String()))
	}
	return nil
}

// report renders a resolution failure, one line per collected error,
// with a correction hint for unknown commands.
func (s *Shell) report(err error) {
	red := color.New(color.FgRed)
	for _, e := range flatten(err) {
		red.Fprintf(s.stderr, "error: %v\n", e)
		var unknown *resolve.UnknownTokenError
		if errors.As(e, &unknown) {
			if hint := suggest(unknown.Token, unknown.Near); hint != "" {
				fmt.Fprintf(s.stderr, "       did you mean %s?\n", hint)
			}
		}
	}
}

// flatten unwraps an errors.Join into its members.
func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

// helpListener implements the '?' contextual help key: it prints the
// aligned candidate list and puts the line back without the '?'.
func (s *Shell) helpListener(line []rune, pos int, key rune) ([]rune, int, bool) {
	if key != '?' || pos < 1 {
		return line, pos, false
	}
	// Readline has already inserted the '?'; take it back out.
	clean := make([]rune, 0, len(line)-1)
	clean = append(clean, line[:pos-1]...)
	clean = append(clean, line[pos:]...)
	text := string(clean[:pos-1])

	cands := s.complete(text)
	if len(cands) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "  (no completions)")
		return clean, pos - 1, true
	}
	writeHelp(s.rl.Stdout(), cands)
	return clean, pos - 1, true
}

// complete produces candidates for the text left of the cursor, routing
// to pipe-filter completion when a pipe is present.
func (s *Shell) complete(text string) []cmdtree.Candidate {
	s.metrics.completions.Inc()
	if !s.cfg.DisablePipes {
		if cands, handled := pipeline.Complete(text); handled {
			return cands
		}
	}
	return resolve.Complete(s.tree, text, len(text))
}

package shell

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbeaumont/quarterdeck/pkg/cmdtree"
	"github.com/tbeaumont/quarterdeck/pkg/resolve"
)

func testTree(t *testing.T) *cmdtree.Tree {
	t.Helper()
	tree, err := cmdtree.Build(cmdtree.Spec{
		Prompt: "test> ",
		Children: []cmdtree.Spec{
			{Name: "greet", Help: "Print greetings", Handler: func(_ context.Context, inv *cmdtree.Invocation) error {
				inv.Println("hello world")
				inv.Println("goodbye world")
				return nil
			}},
			{Name: "quit", Help: "Leave", Handler: func(context.Context, *cmdtree.Invocation) error {
				return ErrExit
			}},
			{Name: "walk", Help: "Walk somewhere", Handler: func(context.Context, *cmdtree.Invocation) error {
				return nil
			}, Options: []*cmdtree.Option{
				{Name: "direction", Help: "Where to", Required: true,
					Match: cmdtree.NewEnumMatch("north", "south")},
			}},
		},
	})
	require.NoError(t, err)
	return tree
}

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer, *prometheus.Registry) {
	t.Helper()
	var out bytes.Buffer
	reg := prometheus.NewRegistry()
	s := New(testTree(t), Config{
		Stdout:   &out,
		Stderr:   &bytes.Buffer{},
		Registry: reg,
	})
	return s, &out, reg
}

func TestSubmit(t *testing.T) {
	s, out, _ := newTestShell(t)

	require.NoError(t, s.Submit(context.Background(), "greet"))
	assert.Equal(t, "hello world\ngoodbye world\n", out.String())
}

func TestSubmitAbbreviated(t *testing.T) {
	s, out, _ := newTestShell(t)

	require.NoError(t, s.Submit(context.Background(), "gr"))
	assert.Equal(t, "hello world\ngoodbye world\n", out.String())
}

func TestSubmitPipe(t *testing.T) {
	s, out, _ := newTestShell(t)

	require.NoError(t, s.Submit(context.Background(), "greet | match hello"))
	assert.Equal(t, "hello world\n", out.String())

	out.Reset()
	require.NoError(t, s.Submit(context.Background(), "greet | count"))
	assert.Equal(t, "Count: 2 lines\n", out.String())
}

func TestSubmitPipeDisabled(t *testing.T) {
	var out bytes.Buffer
	s := New(testTree(t), Config{Stdout: &out, DisablePipes: true})

	// With pipes off the whole line goes to the resolver and fails.
	err := s.Submit(context.Background(), "greet | match hello")
	require.Error(t, err)
}

func TestSubmitExit(t *testing.T) {
	s, _, _ := newTestShell(t)

	err := s.Submit(context.Background(), "quit")
	assert.ErrorIs(t, err, ErrExit)

	// A clean exit is not a resolution failure.
	assert.Zero(t, testutil.CollectAndCount(s.metrics.failures))
}

func TestSubmitFailureMetrics(t *testing.T) {
	s, _, _ := newTestShell(t)

	err := s.Submit(context.Background(), "frobnicate")
	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.failures.WithLabelValues("unknown_token")))

	err = s.Submit(context.Background(), "walk")
	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.failures.WithLabelValues("missing_required")))

	assert.Equal(t, float64(2), testutil.ToFloat64(s.metrics.commands))
}

func TestFailureKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&resolve.UnknownTokenError{Token: "x"}, "unknown_token"},
		{&resolve.AmbiguousTokenError{Token: "x"}, "ambiguous_token"},
		{&resolve.IncompleteCommandError{}, "incomplete_command"},
		{&resolve.MissingRequiredError{Missing: []string{"a"}}, "missing_required"},
		{&resolve.InvalidValueError{Option: "a", Token: "b"}, "invalid_value"},
		{&resolve.GroupConflictError{Group: "g"}, "group_conflict"},
		{errors.New("handler blew up"), "handler"},
	}
	for _, c := range cases {
		if got := failureKind(c.err); got != c.want {
			t.Errorf("failureKind(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

func TestFlatten(t *testing.T) {
	a := errors.New("a")
	b := errors.New("b")
	joined := errors.Join(a, errors.Join(b))

	got := flatten(joined)
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0])
	assert.Equal(t, b, got[1])

	assert.Equal(t, []error{a}, flatten(a))
}

func TestSuggest(t *testing.T) {
	hint := suggest("shw", []string{"show", "walk", "set"})
	assert.Contains(t, hint, "show")

	assert.Empty(t, suggest("zzz", []string{"show", "walk"}))
}

func TestPartialWord(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"", ""},
		{"show", "show"},
		{"show ", ""},
		{"show ver", "ver"},
		{"show sessions | ma", "ma"},
		{"show sessions | ", ""},
	}
	for _, c := range cases {
		if got := partialWord(c.text); got != c.want {
			t.Errorf("partialWord(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}

func TestWriteHelp(t *testing.T) {
	var buf bytes.Buffer
	writeHelp(&buf, []cmdtree.Candidate{
		{Name: "greet", Help: "Print greetings"},
		{Name: "go"},
	})
	want := "Possible completions:\n" +
		"  greet   Print greetings\n" +
		"  go\n"
	assert.Equal(t, want, buf.String())
}

func TestCompleterDo(t *testing.T) {
	s, _, _ := newTestShell(t)
	c := &completer{s: s}

	line := []rune("gr")
	got, n := c.Do(line, len(line))
	require.Len(t, got, 1)
	assert.Equal(t, "eet ", string(got[0]))
	assert.Equal(t, 2, n)

	// Value completion after a trailing space.
	line = []rune("walk ")
	got, n = c.Do(line, len(line))
	require.Len(t, got, 2)
	assert.Equal(t, "north ", string(got[0]))
	assert.Equal(t, "south ", string(got[1]))
	assert.Equal(t, 0, n)
}

func TestCompleterSkipsPlaceholders(t *testing.T) {
	tree, err := cmdtree.Build(cmdtree.Spec{Children: []cmdtree.Spec{
		{Name: "fight", Handler: func(context.Context, *cmdtree.Invocation) error { return nil },
			Options: []*cmdtree.Option{
				{Name: "enemy", Help: "Who", KeyValue: true, Match: cmdtree.MustRegexMatch(`\S+`)},
			}},
	}})
	require.NoError(t, err)
	s := New(tree, Config{Stdout: &bytes.Buffer{}})
	c := &completer{s: s}

	// "<enemy>" and "<cr>" describe, they do not complete.
	line := []rune("fight enemy ")
	got, _ := c.Do(line, len(line))
	assert.Nil(t, got)
}

package resolve

import (
	"fmt"
	"strings"
)

// Resolution failures are returned as data, never panicked across the
// line-editor boundary; the caller renders them and re-prompts. Where
// feasible several failures are collected into one error (errors.Join)
// so the user sees a complete diagnosis in a single pass.

// UnknownTokenError reports a token that matched neither a child command
// nor any option of the selected node. Near carries the visible
// vocabulary at the failure point, for "did you mean" style hints.
type UnknownTokenError struct {
	Token string
	Near  []string
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Token)
}

// AmbiguousTokenError reports a token that prefix-matched more than one
// child command. Informational in completion mode, a rejection at commit.
type AmbiguousTokenError struct {
	Token   string
	Matches []string
}

func (e *AmbiguousTokenError) Error() string {
	return fmt.Sprintf("ambiguous command %q: matches %s", e.Token, strings.Join(e.Matches, ", "))
}

// IncompleteCommandError reports a bare invocation of a node that needs
// a deeper subcommand.
type IncompleteCommandError struct {
	Path []string
}

func (e *IncompleteCommandError) Error() string {
	if len(e.Path) == 0 {
		return "incomplete command"
	}
	return fmt.Sprintf("incomplete command %q", strings.Join(e.Path, " "))
}

// PositionMismatchError reports a token that failed to satisfy the
// option pinned to its slot.
type PositionMismatchError struct {
	Option   string
	Position int
	Token    string
}

func (e *PositionMismatchError) Error() string {
	return fmt.Sprintf("option %q must be option token %d, got %q", e.Option, e.Position, e.Token)
}

// MissingKeyValueError reports a key-value option name with no value
// token following it.
type MissingKeyValueError struct {
	Option string
}

func (e *MissingKeyValueError) Error() string {
	return fmt.Sprintf("option %q requires a value", e.Option)
}

// InvalidValueError reports a key-value option whose value token failed
// its match specification.
type InvalidValueError struct {
	Option string
	Token  string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for option %q", e.Token, e.Option)
}

// GroupConflictError reports two members of one mutual-exclusion group
// on the same line.
type GroupConflictError struct {
	Group  string
	First  string
	Second string
}

func (e *GroupConflictError) Error() string {
	return fmt.Sprintf("options %q and %q are mutually exclusive (group %q)", e.First, e.Second, e.Group)
}

// UnknownOptionError reports a token in the option phase that matched no
// option by name or by value.
type UnknownOptionError struct {
	Token string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option %q", e.Token)
}

// MissingRequiredError reports every required option or group absent
// from the line, not just the first.
type MissingRequiredError struct {
	Missing []string
}

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("missing required option(s): %s", strings.Join(e.Missing, ", "))
}

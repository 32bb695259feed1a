package cmdtree

import "strings"

// Option is a named, constrained input slot attached to a command node.
//
// A boolean option carries no Matcher; its value is its presence. A
// key-value option consumes two tokens, its name then its value. A
// positional option must occupy exactly its declared ordinal slot among
// the option tokens supplied to the node, counting from zero.
type Option struct {
	Name     string
	Help     string
	Required bool
	Boolean  bool
	KeyValue bool
	Hidden   bool

	// Group names a mutual-exclusion set: at most one option of each
	// group may be supplied on a line.
	Group string

	// Positional pins this option to the token slot Position.
	Positional bool
	Position   int

	// Default is the value reported for an absent key-value option.
	Default string

	Match Matcher
}

// validate enforces declaration-time constraints, so that malformed
// options fail tree construction rather than resolution.
func (o *Option) validate(node string) error {
	fail := func(reason string) error {
		return &InvalidOptionError{Node: node, Option: o.Name, Reason: reason}
	}
	switch {
	case o.Name == "":
		return fail("option name is empty")
	case strings.ContainsAny(o.Name, " \t"):
		return fail("option name contains whitespace")
	case o.Boolean && o.Match != nil:
		return fail("boolean option cannot carry a match specification")
	case o.Boolean && o.KeyValue:
		return fail("boolean and key-value are mutually exclusive")
	case !o.Boolean && o.Match == nil:
		return fail("non-boolean option requires a match specification")
	case o.KeyValue && o.Positional:
		return fail("key-value and positional are mutually exclusive")
	case o.Positional && o.Position < 0:
		return fail("position must be non-negative")
	case o.Default != "" && !o.KeyValue:
		return fail("default is only valid for key-value options")
	}
	return nil
}

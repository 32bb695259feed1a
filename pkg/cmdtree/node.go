package cmdtree

import (
	"context"
	"strings"
)

// HandlerFunc executes a fully resolved command. The invocation carries
// the bound option values and the caller's session state; there is no
// ambient global.
type HandlerFunc func(ctx context.Context, inv *Invocation) error

// Node is one point in the command hierarchy: a name, help text, an
// optional handler, ordered children, and ordered option declarations.
type Node struct {
	Name string
	Help string

	// Runnable marks the node executable without a deeper child. A bare
	// invocation of a non-runnable node is an incomplete command.
	Runnable bool

	// Hidden suppresses the node from completion listings. It still
	// parses and executes.
	Hidden bool

	// Prompt is the shell prompt. Meaningful only at the root.
	Prompt string

	// ExecuteHelp labels the implicit "<cr>" completion shown when the
	// node is runnable and its required options are satisfied.
	ExecuteHelp string

	Handler HandlerFunc

	parent   *Node
	children []*Node
	options  []*Option
}

// DefaultExecuteHelp labels the "<cr>" candidate when a node does not
// set its own.
const DefaultExecuteHelp = "Execute this command"

// AddChild attaches child below n, keeping declaration order. Sibling
// names are unique, compared case-insensitively.
func (n *Node) AddChild(child *Node) error {
	if n.Child(child.Name) != nil {
		return &DuplicateNameError{Path: n.Path(), Name: child.Name}
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// AddOption declares an option on n. The declaration is validated now so
// malformed options never reach resolution.
func (n *Node) AddOption(o *Option) error {
	if err := o.validate(n.Name); err != nil {
		return err
	}
	if n.Option(o.Name) != nil {
		return &InvalidOptionError{Node: n.Name, Option: o.Name, Reason: "duplicate option name"}
	}
	n.options = append(n.options, o)
	return nil
}

// Child returns the child with the given name, or nil. Matching is
// case-insensitive; the declared case is preserved on the node.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// Children returns the children in declaration order. That order is the
// displayed completion order and is never sorted. Hidden children are
// filtered out unless includeHidden is set.
func (n *Node) Children(includeHidden bool) []*Node {
	if includeHidden {
		out := make([]*Node, len(n.children))
		copy(out, n.children)
		return out
	}
	var out []*Node
	for _, c := range n.children {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

// Option returns the declared option with the given name, or nil.
func (n *Node) Option(name string) *Option {
	for _, o := range n.options {
		if strings.EqualFold(o.Name, name) {
			return o
		}
	}
	return nil
}

// Options returns the option declarations in declaration order.
func (n *Node) Options() []*Option {
	out := make([]*Option, len(n.options))
	copy(out, n.options)
	return out
}

// Parent returns the parent node, nil at the root. The back-reference is
// used for ancestor-path queries only; the tree owns its nodes.
func (n *Node) Parent() *Node { return n.parent }

// Path returns the names from the root to n, excluding the root itself.
func (n *Node) Path() []string {
	var path []string
	for c := n; c.parent != nil; c = c.parent {
		path = append(path, c.Name)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// ExecuteLabel returns the "<cr>" label for this node.
func (n *Node) ExecuteLabel() string {
	if n.ExecuteHelp != "" {
		return n.ExecuteHelp
	}
	return DefaultExecuteHelp
}

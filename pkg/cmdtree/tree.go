// Package cmdtree models a hierarchical command grammar: a rooted tree
// of command nodes, each carrying ordered option declarations built on
// match specifications.
//
// This is the SINGLE SOURCE OF TRUTH for what input is legal at any
// point of a command line. The tree is built once at startup, validated
// as it is built, and treated as read-only for the rest of the session;
// pkg/resolve walks it to produce tab completions and bound option
// values.
package cmdtree

import "errors"

// Tree is the rooted command tree. It exclusively owns its nodes: a node
// belongs to exactly one tree and sharing is not supported.
type Tree struct {
	root *Node
}

// New creates a tree whose root carries the given prompt. The root is
// never matched by input tokens; descent starts at its children.
func New(prompt string) *Tree {
	return &Tree{root: &Node{Name: "<root>", Prompt: prompt}}
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// Insert attaches node as a child of the node reached by path. An empty
// path attaches directly below the root.
func (t *Tree) Insert(path []string, node *Node) error {
	parent, err := t.Lookup(path)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return &UnknownAncestorError{Path: path, Missing: nf.Path[len(nf.Path)-1]}
		}
		return err
	}
	return parent.AddChild(node)
}

// Lookup returns the node at path, or a NotFoundError naming the prefix
// that failed.
func (t *Tree) Lookup(path []string) (*Node, error) {
	n := t.root
	for i, name := range path {
		c := n.Child(name)
		if c == nil {
			return nil, &NotFoundError{Path: path[:i+1]}
		}
		n = c
	}
	return n, nil
}

// ChildrenOf returns node's children in declaration order, optionally
// filtering hidden ones.
func ChildrenOf(node *Node, includeHidden bool) []*Node {
	return node.Children(includeHidden)
}

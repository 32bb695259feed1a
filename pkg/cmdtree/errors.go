package cmdtree

import (
	"fmt"
	"strings"
)

// DuplicateNameError reports an attempt to attach a child whose name is
// already taken among its siblings. Fatal at construction time.
type DuplicateNameError struct {
	Path []string
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate command %q under %q", e.Name, pathString(e.Path))
}

// UnknownAncestorError reports an Insert whose path names a node that
// does not exist.
type UnknownAncestorError struct {
	Path    []string
	Missing string
}

func (e *UnknownAncestorError) Error() string {
	return fmt.Sprintf("unknown ancestor %q in path %q", e.Missing, pathString(e.Path))
}

// NotFoundError reports a Lookup of a path with no node.
type NotFoundError struct {
	Path []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no command at %q", pathString(e.Path))
}

// InvalidOptionError reports an option declaration that violates a
// declaration-time constraint.
type InvalidOptionError struct {
	Node   string
	Option string
	Reason string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("option %q on %q: %s", e.Option, e.Node, e.Reason)
}

func pathString(path []string) string {
	if len(path) == 0 {
		return "<root>"
	}
	return strings.Join(path, " ")
}

package cmdtree

import (
	"fmt"
	"io"
	"os"
)

// Invocation carries the resolved state of a committed command line into
// its handler.
type Invocation struct {
	// Node is the command node selected by descent.
	Node *Node

	// Values maps option name to resolved value. Boolean options map to
	// their own name.
	Values Values

	// Groups maps a group name to the name of the member that was
	// supplied on the line.
	Groups map[string]string

	// Args is the full token sequence, after prefix expansion.
	Args []string

	// Session is the caller's shared state, passed through untouched.
	Session any

	// Out is where the handler writes its output. The shell may point it
	// at a buffer to apply pipe filters.
	Out io.Writer
}

// GetOption returns the resolved value of the named option. The second
// return is false when the option was absent from the line; for absent
// key-value options with a declared default, the default is returned
// alongside false.
func (inv *Invocation) GetOption(name string) (string, bool) {
	if v, ok := inv.Values.Get(name); ok {
		return v, true
	}
	if opt := inv.Node.Option(name); opt != nil && opt.Default != "" {
		return opt.Default, false
	}
	return "", false
}

// GetGroupOption returns the value of whichever member of the named
// group was supplied. For boolean members this is the option name. The
// second return is false when no member was supplied.
func (inv *Invocation) GetGroupOption(group string) (string, bool) {
	name, ok := inv.Groups[group]
	if !ok {
		return "", false
	}
	return inv.Values[name], true
}

// Printf writes formatted output to the invocation's output stream.
func (inv *Invocation) Printf(format string, args ...any) {
	fmt.Fprintf(inv.output(), format, args...)
}

// Println writes a line to the invocation's output stream.
func (inv *Invocation) Println(args ...any) {
	fmt.Fprintln(inv.output(), args...)
}

func (inv *Invocation) output() io.Writer {
	if inv.Out != nil {
		return inv.Out
	}
	return os.Stdout
}

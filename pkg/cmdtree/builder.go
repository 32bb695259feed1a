package cmdtree

// Spec declaratively describes a command subtree: the node's attributes,
// its option declarations, and nested children. A Spec is consumed once
// by Build; malformed descriptions fail construction immediately with a
// descriptive error rather than later at resolution time.
type Spec struct {
	Name        string
	Help        string
	Runnable    bool
	Hidden      bool
	Prompt      string
	ExecuteHelp string
	Handler     HandlerFunc
	Options     []*Option
	Children    []Spec
}

// Build constructs a validated command tree from the root spec. The root
// spec's Name is ignored; its Prompt, Options and Children apply to the
// root node. A spec with a handler is runnable even when Runnable is
// left unset, matching the common case of leaf commands.
func Build(root Spec) (*Tree, error) {
	t := New(root.Prompt)
	for _, o := range root.Options {
		if err := t.root.AddOption(o); err != nil {
			return nil, err
		}
	}
	t.root.Handler = root.Handler
	t.root.Runnable = root.Runnable || root.Handler != nil
	for _, c := range root.Children {
		if err := attach(t.root, c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func attach(parent *Node, s Spec) error {
	n := &Node{
		Name:        s.Name,
		Help:        s.Help,
		Runnable:    s.Runnable || s.Handler != nil,
		Hidden:      s.Hidden,
		ExecuteHelp: s.ExecuteHelp,
		Handler:     s.Handler,
	}
	if err := parent.AddChild(n); err != nil {
		return err
	}
	for _, o := range s.Options {
		if err := n.AddOption(o); err != nil {
			return err
		}
	}
	for _, c := range s.Children {
		if err := attach(n, c); err != nil {
			return err
		}
	}
	return nil
}

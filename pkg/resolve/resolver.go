// Package resolve is the engine that maps a token stream and cursor
// position onto a command tree, producing either completion candidates
// or a bound, validated option set ready for execution.
//
// The resolver is pure given its inputs: it holds no state across calls,
// so the caller re-invokes it on every keystroke or on Enter and
// identical inputs always yield identical results.
package resolve

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/tbeaumont/quarterdeck/pkg/cmdtree"
)

// Result is a successful resolution: the selected node plus the bound
// option values, ready for handler invocation.
type Result struct {
	Node   *cmdtree.Node
	Values cmdtree.Values
	Groups map[string]string
	Args   []string
}

// Invocation packages the result for a handler, attaching the caller's
// session state and output stream.
func (r *Result) Invocation(session any, out io.Writer) *cmdtree.Invocation {
	return &cmdtree.Invocation{
		Node:    r.Node,
		Values:  r.Values,
		Groups:  r.Groups,
		Args:    r.Args,
		Session: session,
		Out:     out,
	}
}

// Resolve runs tree descent and option matching over a complete token
// sequence, with no cursor ambiguity handling. On failure the returned
// error is one of, or an errors.Join of, the taxonomy in this package.
func Resolve(tree *cmdtree.Tree, tokens []string) (*Result, error) {
	node, rest, amb := descend(tree.Root(), tokens)
	if amb != nil {
		return nil, amb
	}

	st := newMatchState(node)
	errs := st.consume(tokens[rest:], true)

	// The token that stopped descent matching nothing at all is an
	// unknown command, not merely an unknown option.
	if len(errs) > 0 {
		if uo, ok := errs[0].(*UnknownOptionError); ok && rest < len(tokens) && uo.Token == tokens[rest] {
			errs[0] = &UnknownTokenError{Token: uo.Token, Near: vocabulary(node)}
		}
	}

	if missing := st.missingRequired(); len(missing) > 0 {
		errs = append(errs, &MissingRequiredError{Missing: missing})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if !node.Runnable {
		return nil, &IncompleteCommandError{Path: node.Path()}
	}
	return &Result{
		Node:   node,
		Values: st.values,
		Groups: st.groups,
		Args:   tokens,
	}, nil
}

// Execute resolves line and, on success, invokes the selected node's
// handler with the given session and output stream.
func Execute(ctx context.Context, tree *cmdtree.Tree, line string, session any, out io.Writer) error {
	res, err := Resolve(tree, Disambiguate(tree, Split(line)))
	if err != nil {
		return err
	}
	if res.Node.Handler == nil {
		return &IncompleteCommandError{Path: res.Node.Path()}
	}
	return res.Node.Handler(ctx, res.Invocation(session, out))
}

// descend walks node children for each leading token: an exact name
// match wins immediately, a single prefix match auto-expands, zero
// matches hands the remaining tokens to the option phase. It returns the
// deepest node reached, the index of the first token descent did not
// consume, and a non-nil ambiguity when a token prefix-matched several
// children.
func descend(root *cmdtree.Node, tokens []string) (*cmdtree.Node, int, *AmbiguousTokenError) {
	node := root
	for i, tok := range tokens {
		if c := node.Child(tok); c != nil {
			node = c
			continue
		}
		var matches []*cmdtree.Node
		lower := strings.ToLower(tok)
		for _, c := range node.Children(true) {
			if strings.HasPrefix(strings.ToLower(c.Name), lower) {
				matches = append(matches, c)
			}
		}
		switch len(matches) {
		case 1:
			node = matches[0]
		case 0:
			return node, i, nil
		default:
			names := make([]string, len(matches))
			for j, m := range matches {
				names[j] = m.Name
			}
			return node, i, &AmbiguousTokenError{Token: tok, Matches: names}
		}
	}
	return node, len(tokens), nil
}

// vocabulary lists the visible child and option names at node, used to
// suggest a correction for an unknown command.
func vocabulary(node *cmdtree.Node) []string {
	var names []string
	for _, c := range node.Children(false) {
		names = append(names, c.Name)
	}
	for _, o := range node.Options() {
		if !o.Hidden {
			names = append(names, o.Name)
		}
	}
	return names
}

// matchState tracks one resolution pass over a node's options: which
// declarations are consumed, which groups are satisfied, and how many
// option tokens have gone by (for positional slots). It is created per
// resolver invocation and discarded on return.
type matchState struct {
	node     *cmdtree.Node
	values   cmdtree.Values
	groups   map[string]string
	consumed map[string]bool

	// tokensSeen counts option tokens consumed so far; positional
	// options must land exactly on their declared slot of this count.
	tokensSeen int

	// pendingKV is the key-value option whose name was the final token,
	// leaving its value to be completed.
	pendingKV *cmdtree.Option
}

func newMatchState(node *cmdtree.Node) *matchState {
	return &matchState{
		node:     node,
		values:   cmdtree.Values{},
		groups:   map[string]string{},
		consumed: map[string]bool{},
	}
}

// consume matches tokens left-to-right against the node's option
// declarations. In commit mode every failure is collected; otherwise the
// pass is tolerant, recording state for completion.
func (st *matchState) consume(tokens []string, commit bool) []error {
	var errs []error
	i := 0
	for i < len(tokens) {
		tok := tokens[i]

		// A positional option pinned to the current slot is a forced
		// candidate: the token must satisfy it.
		if opt := st.positionalAt(st.tokensSeen); opt != nil {
			if !opt.Match.Matches(tok, st.values) {
				if commit {
					errs = append(errs, &PositionMismatchError{
						Option:   opt.Name,
						Position: opt.Position,
						Token:    tok,
					})
				}
				st.tokensSeen++
				i++
				continue
			}
			if err := st.take(opt, tok); err != nil && commit {
				errs = append(errs, err)
			}
			st.tokensSeen++
			i++
			continue
		}

		opt := st.matchOne(tok)
		if opt == nil {
			if commit {
				errs = append(errs, &UnknownOptionError{Token: tok})
			}
			st.tokensSeen++
			i++
			continue
		}

		if opt.KeyValue {
			if i+1 >= len(tokens) {
				if commit {
					errs = append(errs, &MissingKeyValueError{Option: opt.Name})
				} else {
					st.pendingKV = opt
				}
				st.consumed[opt.Name] = true
				st.tokensSeen++
				i++
				continue
			}
			value := tokens[i+1]
			if !opt.Match.Matches(value, st.values) {
				if commit {
					errs = append(errs, &InvalidValueError{Option: opt.Name, Token: value})
				}
				st.consumed[opt.Name] = true
				st.tokensSeen += 2
				i += 2
				continue
			}
			if err := st.take(opt, value); err != nil && commit {
				errs = append(errs, err)
			}
			st.tokensSeen += 2
			i += 2
			continue
		}

		value := tok
		if opt.Boolean {
			value = opt.Name
		}
		if err := st.take(opt, value); err != nil && commit {
			errs = append(errs, err)
		}
		st.tokensSeen++
		i++
	}
	return errs
}

// matchOne returns the first unconsumed declaration matching tok, in
// declaration order: boolean and key-value options match by name, plain
// options by value.
func (st *matchState) matchOne(tok string) *cmdtree.Option {
	for _, opt := range st.node.Options() {
		if st.consumed[opt.Name] {
			continue
		}
		if opt.Positional && opt.Position != st.tokensSeen {
			continue
		}
		switch {
		case opt.Boolean, opt.KeyValue:
			if strings.EqualFold(opt.Name, tok) {
				return opt
			}
		default:
			if opt.Match.Matches(tok, st.values) {
				return opt
			}
		}
	}
	return nil
}

// take marks opt consumed with the given value, enforcing group
// exclusivity.
func (st *matchState) take(opt *cmdtree.Option, value string) error {
	st.consumed[opt.Name] = true
	if opt.Group != "" {
		if first, ok := st.groups[opt.Group]; ok && first != opt.Name {
			return &GroupConflictError{Group: opt.Group, First: first, Second: opt.Name}
		}
		st.groups[opt.Group] = opt.Name
	}
	st.values[opt.Name] = value
	return nil
}

func (st *matchState) positionalAt(slot int) *cmdtree.Option {
	for _, opt := range st.node.Options() {
		if opt.Positional && opt.Position == slot && !st.consumed[opt.Name] {
			return opt
		}
	}
	return nil
}

// missingRequired lists required options and required groups with no
// member supplied, in declaration order.
func (st *matchState) missingRequired() []string {
	var missing []string
	seenGroup := map[string]bool{}
	for _, opt := range st.node.Options() {
		if !opt.Required || st.consumed[opt.Name] {
			continue
		}
		if opt.Group != "" {
			if _, ok := st.groups[opt.Group]; ok || seenGroup[opt.Group] {
				continue
			}
			seenGroup[opt.Group] = true
			missing = append(missing, opt.Group)
			continue
		}
		missing = append(missing, opt.Name)
	}
	return missing
}

// groupSatisfied reports whether another member of opt's group was
// already supplied.
func (st *matchState) groupSatisfied(opt *cmdtree.Option) bool {
	if opt.Group == "" {
		return false
	}
	first, ok := st.groups[opt.Group]
	return ok && first != opt.Name
}

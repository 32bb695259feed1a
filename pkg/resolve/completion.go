package resolve

import (
	"strings"

	"github.com/samber/lo"

	"github.com/tbeaumont/quarterdeck/pkg/cmdtree"
)

// ExecuteMarker is the synthetic candidate offered when the line as
// typed can be executed.
const ExecuteMarker = "<cr>"

// Complete returns the completion candidates for line at cursor, in
// declaration order. Zero candidates is a valid result, not an error.
func Complete(tree *cmdtree.Tree, line string, cursor int) []cmdtree.Candidate {
	tokens, idx := Tokenize(line, cursor)
	fragment := Fragment(tokens, idx, cursor)

	prior := make([]string, 0, idx)
	for _, t := range tokens[:idx] {
		prior = append(prior, t.Text)
	}

	node, rest, amb := descend(tree.Root(), prior)
	if amb != nil {
		// Informational: show every child the ambiguous token matched.
		var out []cmdtree.Candidate
		lower := strings.ToLower(amb.Token)
		for _, c := range node.Children(false) {
			if strings.HasPrefix(strings.ToLower(c.Name), lower) {
				out = append(out, cmdtree.Candidate{Name: c.Name, Help: c.Help})
			}
		}
		return out
	}

	st := newMatchState(node)
	st.consume(prior[rest:], false)

	var out []cmdtree.Candidate

	// Child names are still in play only while every prior token was
	// consumed by descent; descent takes priority over option matching.
	if rest == len(prior) {
		lower := strings.ToLower(fragment)
		for _, c := range node.Children(false) {
			if strings.HasPrefix(strings.ToLower(c.Name), lower) {
				out = append(out, cmdtree.Candidate{Name: c.Name, Help: c.Help})
			}
		}
	}

	if st.pendingKV != nil {
		// The key token was supplied; candidates are the value
		// completions of its match specification alone.
		return valueCandidates(st.pendingKV, fragment, st.values)
	}

	out = append(out, st.optionCandidates(fragment)...)

	if node.Runnable && fragment == "" && len(st.missingRequired()) == 0 {
		out = append(out, cmdtree.Candidate{Name: ExecuteMarker, Help: node.ExecuteLabel()})
	}

	return stripPlaceholders(out, fragment)
}

// optionCandidates lists the not-yet-consumed, non-hidden declarations
// compatible with the current position and group state, in declaration
// order.
func (st *matchState) optionCandidates(fragment string) []cmdtree.Candidate {
	var out []cmdtree.Candidate
	force := st.positionalAt(st.tokensSeen)
	for _, opt := range st.node.Options() {
		if st.consumed[opt.Name] || opt.Hidden || st.groupSatisfied(opt) {
			continue
		}
		if opt.Positional && opt.Position != st.tokensSeen {
			continue
		}
		// A positional option pinned to this slot is the only candidate.
		if force != nil && opt != force {
			continue
		}
		if opt.Boolean || opt.KeyValue {
			if strings.HasPrefix(strings.ToLower(opt.Name), strings.ToLower(fragment)) {
				out = append(out, cmdtree.Candidate{Name: opt.Name, Help: opt.Help})
			}
			continue
		}
		out = append(out, valueCandidates(opt, fragment, st.values)...)
	}
	return out
}

// valueCandidates produces the completions of an option's match
// specification, annotating the declared default. Regex specifications
// have no enumerable set and show a "<name>" placeholder instead.
func valueCandidates(opt *cmdtree.Option, fragment string, prior cmdtree.Values) []cmdtree.Candidate {
	if _, ok := opt.Match.(*cmdtree.RegexMatch); ok {
		return []cmdtree.Candidate{{Name: "<" + opt.Name + ">", Help: opt.Help}}
	}
	cands := opt.Match.Complete(fragment, prior)
	return lo.Map(cands, func(c cmdtree.Candidate, _ int) cmdtree.Candidate {
		if opt.Default != "" && c.Name == opt.Default {
			c.Help = strings.TrimSpace(c.Help + " [Default]")
		}
		if c.Help == "" {
			c.Help = opt.Help
		}
		return c
	})
}

// stripPlaceholders hides "<name>" placeholders once the user is typing
// a word that real candidates could complete.
func stripPlaceholders(cands []cmdtree.Candidate, fragment string) []cmdtree.Candidate {
	if fragment == "" {
		return cands
	}
	real := lo.Filter(cands, func(c cmdtree.Candidate, _ int) bool {
		return !strings.HasPrefix(c.Name, "<")
	})
	if len(real) == 0 {
		return cands
	}
	return real
}

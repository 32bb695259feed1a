package resolve

import (
	"strings"

	"github.com/tbeaumont/quarterdeck/pkg/cmdtree"
)

// Disambiguate expands every unambiguous prefix token of a submitted
// line to its declared form, so committing an abbreviated line behaves
// exactly as if the full names had been typed. Ambiguous or unknown
// tokens are left untouched for the resolver to report.
func Disambiguate(tree *cmdtree.Tree, tokens []string) []string {
	out := make([]string, len(tokens))
	copy(out, tokens)

	node := tree.Root()
	i := 0
	for i < len(out) {
		c := node.Child(out[i])
		if c == nil {
			var matches []*cmdtree.Node
			lower := strings.ToLower(out[i])
			for _, ch := range node.Children(true) {
				if strings.HasPrefix(strings.ToLower(ch.Name), lower) {
					matches = append(matches, ch)
				}
			}
			if len(matches) != 1 {
				break
			}
			c = matches[0]
		}
		out[i] = c.Name
		node = c
		i++
	}

	// Remaining tokens are options: expand unique option-name prefixes
	// and unique value prefixes of enumerated sets.
	st := newMatchState(node)
	for ; i < len(out); i++ {
		if st.matchOne(out[i]) == nil {
			if exp, ok := expandOption(st, out[i]); ok {
				out[i] = exp
			}
		}
		st.consume(out[i:i+1], false)
		if st.pendingKV != nil {
			// The next token is this option's value.
			if i+1 < len(out) {
				kv := st.pendingKV
				if !kv.Match.Matches(out[i+1], st.values) {
					if exp, ok := expandValue(kv, st, out[i+1]); ok {
						out[i+1] = exp
					}
				}
				st.pendingKV = nil
				st.take(kv, out[i+1])
				st.tokensSeen++
				i++
			}
		}
	}
	return out
}

// expandOption returns the full form of tok when it is a unique prefix
// of exactly one matchable option name or enumerated value.
func expandOption(st *matchState, tok string) (string, bool) {
	var cands []string
	lower := strings.ToLower(tok)
	for _, opt := range st.node.Options() {
		if st.consumed[opt.Name] || st.groupSatisfied(opt) {
			continue
		}
		if opt.Positional && opt.Position != st.tokensSeen {
			continue
		}
		if opt.Boolean || opt.KeyValue {
			if strings.HasPrefix(strings.ToLower(opt.Name), lower) {
				cands = append(cands, opt.Name)
			}
			continue
		}
		for _, c := range opt.Match.Complete(tok, st.values) {
			if !strings.HasPrefix(c.Name, "<") {
				cands = append(cands, c.Name)
			}
		}
	}
	if len(cands) == 1 {
		return cands[0], true
	}
	return tok, false
}

// expandValue expands a unique prefix of a key-value option's value.
func expandValue(opt *cmdtree.Option, st *matchState, tok string) (string, bool) {
	var cands []string
	for _, c := range opt.Match.Complete(tok, st.values) {
		if !strings.HasPrefix(c.Name, "<") {
			cands = append(cands, c.Name)
		}
	}
	if len(cands) == 1 {
		return cands[0], true
	}
	return tok, false
}

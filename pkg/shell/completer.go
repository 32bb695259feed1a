package shell

import (
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"

	"github.com/tbeaumont/quarterdeck/pkg/cmdtree"
)

// completer adapts the resolver's candidate list to readline's tab
// completion interface.
type completer struct {
	s *Shell
}

// Do returns the suffix runes readline should offer for the text left of
// the cursor. Placeholder candidates such as <filename> and the <cr>
// marker describe rather than complete, so they never reach the tab key.
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	cands := c.s.complete(text)

	names := lo.FilterMap(cands, func(cand cmdtree.Candidate, _ int) (string, bool) {
		return cand.Name, !strings.HasPrefix(cand.Name, "<")
	})
	if len(names) == 0 {
		return nil, 0
	}

	partial := partialWord(text)
	var result [][]rune
	for _, name := range names {
		if len(name) < len(partial) {
			continue
		}
		suffix := name[len(partial):]
		result = append(result, []rune(suffix+" "))
	}
	return result, len(partial)
}

// partialWord is the word being completed: the text after the last
// whitespace (or after a pipe char, trimmed), empty on a trailing space.
func partialWord(text string) string {
	if text == "" || text[len(text)-1] == ' ' {
		return ""
	}
	if idx := strings.LastIndex(text, "|"); idx >= 0 {
		return strings.TrimLeft(text[idx+1:], " ")
	}
	words := strings.Fields(text)
	return words[len(words)-1]
}

// suggest returns a comma-joined list of near-misses for an unrecognized
// token, best matches first.
func suggest(token string, near []string) string {
	matches := fuzzy.Find(token, near)
	if len(matches) == 0 {
		return ""
	}
	if len(matches) > 3 {
		matches = matches[:3]
	}
	names := lo.Map(matches, func(m fuzzy.Match, _ int) string { return m.Str })
	return strings.Join(names, ", ")
}

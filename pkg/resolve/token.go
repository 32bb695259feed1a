package resolve

import "strings"

// Token is one whitespace-delimited word of an input line, with the byte
// offset where it starts. There is no quoting support.
type Token struct {
	Text  string
	Start int
}

// Tokenize splits line on whitespace and locates the token under the
// cursor. The returned index is the first token whose span ends at or
// after cursor; it equals len(tokens) when the cursor rests on an
// implicit empty fragment after trailing whitespace (an empty line
// yields zero tokens and index 0). Side-effect free.
func Tokenize(line string, cursor int) ([]Token, int) {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(line) {
		cursor = len(line)
	}

	var tokens []Token
	i := 0
	for i < len(line) {
		if isSpace(line[i]) {
			i++
			continue
		}
		start := i
		for i < len(line) && !isSpace(line[i]) {
			i++
		}
		tokens = append(tokens, Token{Text: line[start:i], Start: start})
	}

	idx := len(tokens)
	for j, t := range tokens {
		if t.Start+len(t.Text) >= cursor {
			idx = j
			break
		}
	}
	return tokens, idx
}

// Fragment returns the part of the cursor token left of the cursor, or
// "" when the cursor does not sit inside a token.
func Fragment(tokens []Token, idx, cursor int) string {
	if idx >= len(tokens) {
		return ""
	}
	t := tokens[idx]
	if cursor < t.Start {
		return ""
	}
	return t.Text[:cursor-t.Start]
}

// Split tokenizes a submitted line with no cursor bookkeeping.
func Split(line string) []string {
	return strings.Fields(line)
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }

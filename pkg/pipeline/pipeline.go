// Package pipeline implements the output filters available after a pipe
// character, in the manner of "show sessions | match established". The
// resolver core is pipe-agnostic: the shell splits the line before
// resolving and applies the filter to the captured output.
package pipeline

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/tbeaumont/quarterdeck/pkg/cmdtree"
)

// PipeChar splits a command from its output filter.
const PipeChar = "|"

// Filter transforms the line-split output of a command.
type Filter struct {
	Name  string
	Help  string
	apply func(lines []string, arg string) []string
}

// filters holds the available filters in display order.
var filters = []Filter{
	{"count", "Count output lines", func(lines []string, _ string) []string {
		return []string{"Count: " + strconv.Itoa(len(lines)) + " lines"}
	}},
	{"except", "Show only text that does not match a pattern", func(lines []string, arg string) []string {
		needle := strings.ToLower(arg)
		return lo.Filter(lines, func(l string, _ int) bool {
			return !strings.Contains(strings.ToLower(l), needle)
		})
	}},
	{"find", "Show output starting at the first match", func(lines []string, arg string) []string {
		needle := strings.ToLower(arg)
		_, idx, ok := lo.FindIndexOf(lines, func(l string) bool {
			return strings.Contains(strings.ToLower(l), needle)
		})
		if !ok {
			return nil
		}
		return lines[idx:]
	}},
	{"grep", "Show only text that matches a pattern", matchLines},
	{"last", "Display end of output only [lines]", func(lines []string, arg string) []string {
		n := 10
		if v, err := strconv.Atoi(arg); err == nil && v > 0 {
			n = v
		}
		if len(lines) > n {
			return lines[len(lines)-n:]
		}
		return lines
	}},
	{"match", "Show only text that matches a pattern", matchLines},
	{"no-more", "Don't paginate output", func(lines []string, _ string) []string {
		return lines
	}},
}

func matchLines(lines []string, arg string) []string {
	needle := strings.ToLower(arg)
	return lo.Filter(lines, func(l string, _ int) bool {
		return strings.Contains(strings.ToLower(l), needle)
	})
}

// Filters returns the filter set as completion candidates, in display
// order.
func Filters() []cmdtree.Candidate {
	return lo.Map(filters, func(f Filter, _ int) cmdtree.Candidate {
		return cmdtree.Candidate{Name: f.Name, Help: f.Help}
	})
}

// Split divides a submitted line at its trailing "| filter [arg]"
// expression. ok is false when the line carries no recognised filter.
func Split(line string) (cmd, name, arg string, ok bool) {
	idx := strings.LastIndex(line, " "+PipeChar+" ")
	if idx < 0 {
		return line, "", "", false
	}
	rest := strings.TrimSpace(line[idx+3:])
	parts := strings.SplitN(rest, " ", 2)
	name = parts[0]
	if len(parts) > 1 {
		arg = parts[1]
	}
	if lookup(name) == nil {
		return line, "", "", false
	}
	return strings.TrimSpace(line[:idx]), name, arg, true
}

// Apply runs the named filter over output. Unrecognised names return the
// output unchanged.
func Apply(name, arg, output string) string {
	f := lookup(name)
	if f == nil {
		return output
	}
	lines := strings.Split(output, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	out := f.apply(lines, arg)
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

func lookup(name string) *Filter {
	for i := range filters {
		if filters[i].Name == name {
			return &filters[i]
		}
	}
	return nil
}

// Complete returns filter-name candidates when the cursor sits after a
// pipe. handled is false when the line contains no pipe and ordinary
// completion should proceed.
func Complete(text string) (cands []cmdtree.Candidate, handled bool) {
	idx := strings.LastIndex(text, PipeChar)
	if idx < 0 {
		return nil, false
	}
	after := strings.TrimSpace(text[idx+1:])
	trailingSpace := len(text) > 0 && text[len(text)-1] == ' '

	// Right after "|" — show all filters.
	if after == "" {
		return Filters(), true
	}

	// A complete filter name followed by a space: the argument is
	// freeform text, nothing to complete.
	if trailingSpace {
		return nil, true
	}

	for _, f := range filters {
		if strings.HasPrefix(f.Name, after) {
			cands = append(cands, cmdtree.Candidate{Name: f.Name, Help: f.Help})
		}
	}
	return cands, true
}

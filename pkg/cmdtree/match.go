package cmdtree

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Candidate holds a completion value and its description for display.
type Candidate struct {
	Name   string
	Help   string
	Hidden bool
}

// Values holds resolved option values for a command line, keyed by option
// name. Boolean options resolve to their own name.
type Values map[string]string

// Get returns the value for name. The second return is false when the
// option was not supplied on the line.
func (v Values) Get(name string) (string, bool) {
	val, ok := v[name]
	return val, ok
}

// Matcher validates a single option value and produces completion
// candidates for it. The implementations below form a closed set;
// consumers that need per-kind behaviour switch over the concrete types.
type Matcher interface {
	// Matches reports whether token is a valid value for this option.
	// prior carries the values already resolved on the line, for matchers
	// whose valid set depends on runtime state.
	Matches(token string, prior Values) bool

	// Complete returns the candidates beginning with fragment, in the
	// order this matcher produces them. An empty fragment returns the
	// full set. Matchers with no enumerable set return nil.
	Complete(fragment string, prior Values) []Candidate
}

// RegexMatch validates a value against an anchored regular expression.
// It has no enumerable completion set.
type RegexMatch struct {
	Pattern string
	re      *regexp.Regexp
}

// NewRegexMatch compiles pattern. The value must match the whole pattern,
// not just a prefix of it.
func NewRegexMatch(pattern string) (*RegexMatch, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("match pattern %q: %w", pattern, err)
	}
	return &RegexMatch{Pattern: pattern, re: re}, nil
}

// MustRegexMatch is NewRegexMatch that panics on a bad pattern. For use
// in declarative tree literals, where construction happens at startup.
func MustRegexMatch(pattern string) *RegexMatch {
	m, err := NewRegexMatch(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *RegexMatch) Matches(token string, _ Values) bool {
	return token != "" && m.re.MatchString(token)
}

func (m *RegexMatch) Complete(string, Values) []Candidate { return nil }

// EnumMatch validates a value against a fixed set. Candidate order is the
// declaration order of the values, never re-sorted.
type EnumMatch struct {
	values []string
}

func NewEnumMatch(values ...string) *EnumMatch {
	return &EnumMatch{values: values}
}

func (m *EnumMatch) Matches(token string, _ Values) bool {
	for _, v := range m.values {
		if v == token {
			return true
		}
	}
	return false
}

func (m *EnumMatch) Complete(fragment string, _ Values) []Candidate {
	var out []Candidate
	for _, v := range m.values {
		if strings.HasPrefix(v, fragment) {
			out = append(out, Candidate{Name: v})
		}
	}
	return out
}

// Values returns the declared value set in order.
func (m *EnumMatch) Values() []string { return m.values }

// EnumHelpMatch is EnumMatch with per-value help text.
type EnumHelpMatch struct {
	entries []Candidate
}

// NewEnumHelpMatch builds a matcher from (value, help) pairs, kept in the
// given order.
func NewEnumHelpMatch(entries ...Candidate) *EnumHelpMatch {
	return &EnumHelpMatch{entries: entries}
}

func (m *EnumHelpMatch) Matches(token string, _ Values) bool {
	for _, e := range m.entries {
		if e.Name == token {
			return true
		}
	}
	return false
}

func (m *EnumHelpMatch) Complete(fragment string, _ Values) []Candidate {
	var out []Candidate
	for _, e := range m.entries {
		if strings.HasPrefix(e.Name, fragment) {
			out = append(out, e)
		}
	}
	return out
}

// DynamicMatch produces its valid set at resolution time, typically from
// runtime state such as a live inventory or a remote system. The generator
// is called once per Matches or Complete invocation with the values
// already resolved on the line; it must return within whatever limits the
// caller imposes, or completion degrades to an empty candidate set.
type DynamicMatch struct {
	Fn func(prior Values) []Candidate
}

func NewDynamicMatch(fn func(prior Values) []Candidate) *DynamicMatch {
	return &DynamicMatch{Fn: fn}
}

func (m *DynamicMatch) Matches(token string, prior Values) bool {
	for _, c := range m.Fn(prior) {
		if c.Name == token {
			return true
		}
	}
	return false
}

func (m *DynamicMatch) Complete(fragment string, prior Values) []Candidate {
	var out []Candidate
	for _, c := range m.Fn(prior) {
		if strings.HasPrefix(c.Name, fragment) {
			out = append(out, c)
		}
	}
	return out
}

// DirEntry is one result from a DirLister.
type DirEntry struct {
	Name  string
	IsDir bool
}

// DirLister lists a directory, decoupling path completion from the real
// filesystem. Entries are returned in the order they should be displayed.
type DirLister func(dir string) ([]DirEntry, error)

// OSLister is the DirLister backed by the os package.
func OSLister(dir string) ([]DirEntry, error) {
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, DirEntry{Name: e.Name(), IsDir: e.IsDir()})
	}
	return out, nil
}

// PathMatch completes option values from a directory listing. Directories
// complete with a trailing separator so the user can keep typing into them.
type PathMatch struct {
	// Lister supplies directory contents. Defaults to OSLister.
	Lister DirLister
	// OnlyExisting requires the supplied path to exist to be valid.
	OnlyExisting bool
	// OnlyDirs completes and validates directories only.
	OnlyDirs bool
	// DefaultDir is prepended to relative fragments.
	DefaultDir string
}

func (m *PathMatch) lister() DirLister {
	if m.Lister != nil {
		return m.Lister
	}
	return OSLister
}

func (m *PathMatch) Matches(token string, _ Values) bool {
	if token == "" {
		return false
	}
	if !m.OnlyExisting {
		return true
	}
	full := token
	if m.DefaultDir != "" && !filepath.IsAbs(token) {
		full = filepath.Join(m.DefaultDir, token)
	}
	entries, err := m.lister()(filepath.Dir(full))
	if err != nil {
		return false
	}
	base := filepath.Base(full)
	for _, e := range entries {
		if e.Name != base {
			continue
		}
		if m.OnlyDirs && !e.IsDir {
			return false
		}
		return true
	}
	return false
}

func (m *PathMatch) Complete(fragment string, _ Values) []Candidate {
	sep := string(os.PathSeparator)

	full := fragment
	if m.DefaultDir != "" && !filepath.IsAbs(fragment) {
		full = strings.TrimSuffix(m.DefaultDir, sep) + sep + fragment
	}

	var dir, base string
	if i := strings.LastIndex(full, sep); i >= 0 {
		dir, base = full[:i], full[i+1:]
		if dir == "" {
			// The fragment sits directly under the filesystem root.
			dir = sep
		}
	} else {
		base = full
	}

	entries, err := m.lister()(dir)
	if err != nil {
		return nil
	}

	// Candidates keep the fragment's directory prefix so that completion
	// replaces the whole token.
	fragDir := ""
	if i := strings.LastIndex(fragment, sep); i >= 0 {
		fragDir = fragment[:i+1]
	}

	var out []Candidate
	for _, e := range entries {
		if !strings.HasPrefix(e.Name, base) {
			continue
		}
		if m.OnlyDirs && !e.IsDir {
			continue
		}
		name := fragDir + e.Name
		if e.IsDir {
			name += sep
		}
		out = append(out, Candidate{Name: name})
	}
	return out
}

package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/tbeaumont/quarterdeck/pkg/cmdtree"
)

// writeHelp prints the aligned "Possible completions:" block. Candidates
// are printed in the order given; declaration order carries meaning, so
// they are never sorted here.
func writeHelp(w io.Writer, candidates []cmdtree.Candidate) {
	maxWidth := 0
	for _, c := range candidates {
		if len(c.Name)+2 > maxWidth {
			maxWidth = len(c.Name) + 2
		}
	}
	var sb strings.Builder
	sb.WriteString("Possible completions:\n")
	for _, c := range candidates {
		if c.Help != "" {
			fmt.Fprintf(&sb, "  %-*s %s\n", maxWidth, c.Name, c.Help)
		} else {
			fmt.Fprintf(&sb, "  %s\n", c.Name)
		}
	}
	io.WriteString(w, sb.String())
}

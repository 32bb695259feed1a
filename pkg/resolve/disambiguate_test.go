package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisambiguateCommands(t *testing.T) {
	tree := gameTree(t)

	assert.Equal(t, []string{"show", "version"}, Disambiguate(tree, []string{"sh", "vers"}))

	// Ambiguous tokens are left untouched for the resolver to report.
	assert.Equal(t, []string{"show", "v"}, Disambiguate(tree, []string{"sh", "v"}))

	// Unknown tokens too.
	assert.Equal(t, []string{"teleport"}, Disambiguate(tree, []string{"teleport"}))
}

func TestDisambiguateOptionNames(t *testing.T) {
	tree := gameTree(t)

	assert.Equal(t, []string{"set", "colour", "blue"},
		Disambiguate(tree, []string{"se", "col", "blue"}))

	// "pa" expands to pager; its value "of" expands to off.
	assert.Equal(t, []string{"set", "pager", "off"},
		Disambiguate(tree, []string{"set", "pa", "of"}))
}

func TestDisambiguateEnumValues(t *testing.T) {
	tree := gameTree(t)

	assert.Equal(t, []string{"walk", "south"}, Disambiguate(tree, []string{"walk", "sou"}))

	// "nor" prefixes both north and northeast; no expansion.
	assert.Equal(t, []string{"walk", "nor"}, Disambiguate(tree, []string{"walk", "nor"}))

	// Exact values pass through even when another value extends them.
	assert.Equal(t, []string{"walk", "north"}, Disambiguate(tree, []string{"walk", "north"}))
}

func TestDisambiguateDoesNotTouchValidTokens(t *testing.T) {
	tree := gameTree(t)

	in := []string{"set", "colour", "blu"}
	// "blu" satisfies the colour regex as-is; nothing to expand.
	assert.Equal(t, in, Disambiguate(tree, in))
}

package preprocessor

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func configNames(configs []Configuration) []string {
	names := make([]string, len(configs))
	for i, c := range configs {
		names[i] = c.Name
	}
	sort.Strings(names)
	return names
}

func TestEnumeratePresenceChainTwoConfigurations(t *testing.T) {
	text := "#ifdef A\nX\n#else\nY\n#endif"
	lines := splitLines(text)
	items := parseDocument(lines)
	configs := enumerate(items, len(lines), nil)

	assert.Equal(t, []string{"", "A"}, configNames(configs))

	byName := map[string][]string{}
	for _, c := range configs {
		byName[c.Name] = c.Lines
	}
	assert.Equal(t, []string{"", "X", "", "", ""}, byName["A"])
	assert.Equal(t, []string{"", "", "", "Y", ""}, byName[""])
}

func TestEnumerateDeterministicChainSingleConfiguration(t *testing.T) {
	text := "#if VERSION >= 2\nNEW\n#else\nOLD\n#endif"
	lines := splitLines(text)
	items := parseDocument(lines)
	configs := enumerate(items, len(lines), map[string]string{"VERSION": "3"})

	assert.Len(t, configs, 1)
	assert.Equal(t, "", configs[0].Name)
	assert.Equal(t, []string{"", "NEW", "", "", ""}, configs[0].Lines)
}

func TestEnumerateNestedPresenceChainsMultiply(t *testing.T) {
	text := "#ifdef A\n#ifdef B\nAB\n#endif\n#endif"
	lines := splitLines(text)
	items := parseDocument(lines)
	configs := enumerate(items, len(lines), nil)

	assert.Equal(t, []string{"", "A", "A;B"}, configNames(configs))
}

func TestEnumeratePlainLinesPassThroughUnchanged(t *testing.T) {
	text := "int a;\nint b;"
	lines := splitLines(text)
	items := parseDocument(lines)
	configs := enumerate(items, len(lines), nil)

	assert.Len(t, configs, 1)
	assert.Equal(t, []string{"int a;", "int b;"}, configs[0].Lines)
}

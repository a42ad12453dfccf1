package grammar

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordLookup(t *testing.T) {
	t.Parallel()
	table := Default()

	assert.True(t, table.IsKeyword("define"))
	assert.True(t, table.IsKeyword("DEFINE"))
	assert.True(t, table.IsKeyword("Where"))
	assert.False(t, table.IsKeyword("definesomething"))
	assert.False(t, table.IsKeyword(""))
}

func TestFunctionAndTypeLookupAreCaseSensitive(t *testing.T) {
	t.Parallel()
	table := Default()

	assert.True(t, table.IsFunction("AgeInYears"))
	assert.False(t, table.IsFunction("ageinyears"))
	assert.True(t, table.IsDataType("Quantity"))
	assert.False(t, table.IsDataType("quantity"))
}

func TestPhraseCompletions(t *testing.T) {
	t.Parallel()
	table := Default()

	seconds := table.PhraseCompletions("or")
	require.NotEmpty(t, seconds)
	assert.Contains(t, seconds, "before")
	assert.Contains(t, seconds, "after")
	assert.Contains(t, seconds, "less")
	assert.Contains(t, seconds, "more")

	assert.Contains(t, table.PhraseCompletions("such"), "that")
	assert.Nil(t, table.PhraseCompletions("define"))
}

func TestOperatorsLongestFirst(t *testing.T) {
	t.Parallel()
	ops := Default().Operators
	for i := 1; i < len(ops); i++ {
		assert.GreaterOrEqual(t, len(ops[i-1]), len(ops[i]),
			"operator %q listed after shorter %q", ops[i], ops[i-1])
	}
}

func TestRecognizerPatterns(t *testing.T) {
	t.Parallel()
	table := Default()

	tests := []struct {
		input string
		want  string
	}{
		{`"quoted id" rest`, `"quoted id"`},
		{`'str\'ing' rest`, `'str\'ing'`},
	}
	for _, tt := range tests {
		loc := table.String.FindStringIndex(tt.input)
		require.NotNil(t, loc, "input %q", tt.input)
		assert.Equal(t, tt.want, tt.input[loc[0]:loc[1]])
	}

	assert.Equal(t, "42L", table.Number.FindString("42L more"))
	assert.Equal(t, "3.14", table.Number.FindString("3.14"))
	assert.Equal(t, "@2024-06-01T12:00:00Z", table.DateTime.FindString("@2024-06-01T12:00:00Z and later"))
	assert.Equal(t, "abc_123", table.Identifier.FindString("abc_123+x"))
	assert.Nil(t, table.Identifier.FindStringIndex("9abc"))
}

func TestCompletions(t *testing.T) {
	t.Parallel()
	words := Default().Completions()

	assert.True(t, sort.StringsAreSorted(words))
	for _, want := range []string{"define", "or before", "AgeInYears", "Quantity"} {
		assert.Contains(t, words, want)
	}

	// No duplicates.
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		assert.False(t, seen[w], "duplicate completion %q", w)
		seen[w] = true
	}
}

func TestOperatorChars(t *testing.T) {
	t.Parallel()
	table := Default()
	for _, op := range table.Operators {
		assert.True(t, table.IsOperatorChar(op[0]), "operator %q", op)
	}
	assert.True(t, table.IsOperatorChar('!'))
	assert.False(t, table.IsOperatorChar('a'))
	assert.False(t, strings.ContainsAny("{}[]()", string(table.Operators[0][0])))
}

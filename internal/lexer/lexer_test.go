package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "simple define",
			input: `define "Foo": 1+2`,
			expected: []Token{
				{Kind: Keyword, Text: "define", Start: 0, End: 6},
				{Kind: String, Text: `"Foo"`, Start: 7, End: 12},
				{Kind: Punctuation, Text: ":", Start: 12, End: 13},
				{Kind: Number, Text: "1", Start: 14, End: 15},
				{Kind: Operator, Text: "+", Start: 15, End: 16},
				{Kind: Number, Text: "2", Start: 16, End: 17},
			},
		},
		{
			name:  "builtin function call",
			input: "Count(Items)",
			expected: []Token{
				{Kind: Function, Text: "Count", Start: 0, End: 5},
				{Kind: Bracket, Text: "(", Start: 5, End: 6},
				{Kind: Identifier, Text: "Items", Start: 6, End: 11},
				{Kind: Bracket, Text: ")", Start: 11, End: 12},
			},
		},
		{
			name:  "data type",
			input: "x as Quantity",
			expected: []Token{
				{Kind: Identifier, Text: "x", Start: 0, End: 1},
				{Kind: Keyword, Text: "as", Start: 2, End: 4},
				{Kind: DataType, Text: "Quantity", Start: 5, End: 13},
			},
		},
		{
			name:  "line comment",
			input: "1 // trailing note",
			expected: []Token{
				{Kind: Number, Text: "1", Start: 0, End: 1},
				{Kind: Comment, Text: "// trailing note", Start: 2, End: 18},
			},
		},
		{
			name:  "long and decimal numbers",
			input: "10L 1.5",
			expected: []Token{
				{Kind: Number, Text: "10L", Start: 0, End: 3},
				{Kind: Number, Text: "1.5", Start: 4, End: 7},
			},
		},
		{
			name:  "datetime literal",
			input: "@2024-01-15T10:30:00.0Z",
			expected: []Token{
				{Kind: DateTime, Text: "@2024-01-15T10:30:00.0Z", Start: 0, End: 23},
			},
		},
		{
			name:  "time literal",
			input: "@T14:30",
			expected: []Token{
				{Kind: DateTime, Text: "@T14:30", Start: 0, End: 7},
			},
		},
		{
			name:  "compound operators",
			input: "a<=b<>c",
			expected: []Token{
				{Kind: Identifier, Text: "a", Start: 0, End: 1},
				{Kind: Operator, Text: "<=", Start: 1, End: 3},
				{Kind: Identifier, Text: "b", Start: 3, End: 4},
				{Kind: Operator, Text: "<>", Start: 4, End: 6},
				{Kind: Identifier, Text: "c", Start: 6, End: 7},
			},
		},
		{
			name:  "single quoted string with escape",
			input: `'it\'s'`,
			expected: []Token{
				{Kind: String, Text: `'it\'s'`, Start: 0, End: 7},
			},
		},
		{
			name:  "unrecognized characters absorbed one by one",
			input: "# $",
			expected: []Token{
				{Kind: Unrecognized, Text: "#", Start: 0, End: 1},
				{Kind: Unrecognized, Text: "$", Start: 2, End: 3},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, New(tt.input).Tokenize())
		})
	}
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	t.Parallel()
	for _, spelling := range []string{"define", "DEFINE", "Define", "dEfInE"} {
		tokens := New(spelling).Tokenize()
		require.Len(t, tokens, 1)
		assert.Equal(t, Keyword, tokens[0].Kind, "spelling %q", spelling)
	}
}

func TestKeywordWordBoundary(t *testing.T) {
	t.Parallel()
	// "or" must not match inside a longer identifier.
	tokens := New("Before").Tokenize()
	require.Len(t, tokens, 1)
	assert.Equal(t, Keyword, tokens[0].Kind) // "before" is itself reserved

	tokens = New("orbit").Tokenize()
	require.Len(t, tokens, 1)
	assert.Equal(t, Identifier, tokens[0].Kind)
	assert.Equal(t, "orbit", tokens[0].Text)
}

func TestMultiWordKeywords(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input  string
		phrase string
	}{
		{"A starts or before B", "or before"},
		{"1 year or less", "or less"},
		{"with E such that E.id = 1", "such that"},
	}
	for _, tt := range tests {
		tokens := New(tt.input).Tokenize()
		found := false
		for _, tok := range tokens {
			if tok.Kind == Keyword && strings.EqualFold(tok.Text, tt.phrase) {
				found = true
			}
		}
		assert.True(t, found, "expected phrase %q in %q, got %v", tt.phrase, tt.input, tokens)
	}

	// A bare "or" not followed by a phrase completion stays a keyword on
	// its own.
	tokens := New("a or b").Tokenize()
	require.Len(t, tokens, 3)
	assert.Equal(t, Keyword, tokens[1].Kind)
	assert.Equal(t, "or", tokens[1].Text)
}

func TestBlockCommentSpansLines(t *testing.T) {
	t.Parallel()
	input := "/* first\nsecond\nthird */ define"
	tokens := New(input).Tokenize()
	require.Len(t, tokens, 2)
	assert.Equal(t, Comment, tokens[0].Kind)
	assert.Equal(t, "/* first\nsecond\nthird */", tokens[0].Text)
	assert.Equal(t, Keyword, tokens[1].Kind)
}

func TestUnterminatedBlockComment(t *testing.T) {
	t.Parallel()
	tokens := New("/* never closed").Tokenize()
	require.Len(t, tokens, 1)
	assert.Equal(t, Comment, tokens[0].Kind)
	assert.Equal(t, "/* never closed", tokens[0].Text)
}

// The scanner must always make forward progress, whatever the input.
func TestForwardProgressOnMalformedInput(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"\"unterminated",
		"'unterminated",
		"@@@",
		"!!!",
		"\x01\x02\x03",
		strings.Repeat("#", 100),
	}
	for _, input := range inputs {
		tokens := New(input).Tokenize()
		total := 0
		for _, tok := range tokens {
			assert.Greater(t, tok.End, tok.Start)
			total += tok.End - tok.Start
		}
		assert.LessOrEqual(t, total, len(input))
	}
}

func TestTokenOffsetsIndexInput(t *testing.T) {
	t.Parallel()
	input := "define \"X\":\n  [Encounter] E where E.period starts @2020-01-01\n"
	for _, tok := range New(input).Tokenize() {
		assert.Equal(t, tok.Text, input[tok.Start:tok.End])
	}
}

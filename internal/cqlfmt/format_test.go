package cqlfmt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func format(t *testing.T, source string) string {
	t.Helper()
	result := Format(source, Options{})
	require.True(t, result.Success, "errors: %v", result.Errors)
	return result.Formatted
}

func TestFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "operator and colon spacing",
			input:    `define "Foo": 1+2`,
			expected: `define "Foo" : 1 + 2`,
		},
		{
			name:     "colon continuation indents the body",
			input:    "define \"X\":\nif true then 1 else 2",
			expected: "define \"X\" :\n  if true then 1 else 2",
		},
		{
			name:     "string contents are inviolable",
			input:    `define "X": 'a,b+c'`,
			expected: `define "X" : 'a,b+c'`,
		},
		{
			name:     "datetime literals are not respaced",
			input:    `define "X": @2024-01-15`,
			expected: `define "X" : @2024-01-15`,
		},
		{
			name:     "whitespace collapse",
			input:    "define    \"X\" :     1",
			expected: `define "X" : 1`,
		},
		{
			name:     "text operators are lowercased and spaced",
			input:    `define "X": a AND b Or c`,
			expected: `define "X" : a and b or c`,
		},
		{
			name:     "split compound operators are repaired",
			input:    `define "X": a < = b`,
			expected: `define "X" : a <= b`,
		},
		{
			name:     "compound operators keep their glue",
			input:    `define "X": a<=b`,
			expected: `define "X" : a <= b`,
		},
		{
			name:     "comma and paren spacing",
			input:    `define "X": Coalesce( a ,b )`,
			expected: `define "X" : Coalesce(a, b)`,
		},
		{
			name:     "blank lines collapse to one",
			input:    "define \"A\": 1\n\n\n\ndefine \"B\": 2",
			expected: "define \"A\" : 1\n\ndefine \"B\" : 2",
		},
		{
			name:     "section separation gets a blank line",
			input:    "library Test version '1.0'\nusing FHIR version '4.0.1'",
			expected: "library Test version '1.0'\n\nusing FHIR version '4.0.1'",
		},
		{
			name:     "same section keeps lines together",
			input:    "define \"A\": 1\ndefine \"B\": 2",
			expected: "define \"A\" : 1\ndefine \"B\" : 2",
		},
		{
			name:     "line comments are verbatim",
			input:    "// a+b,c   untouched",
			expected: "// a+b,c   untouched",
		},
		{
			name:     "inline trailing comment survives",
			input:    `define "X": 1+2 // don't touch,this`,
			expected: `define "X" : 1 + 2 // don't touch,this`,
		},
		{
			name:     "braces drive indentation",
			input:    "define \"X\": Tuple {\na: 1,\nb: 2\n}",
			expected: "define \"X\" : Tuple {\n  a : 1,\n  b : 2\n}",
		},
		{
			name:     "section resets indentation",
			input:    "define \"X\": Tuple {\ndefine \"Y\": 2",
			expected: "define \"X\" : Tuple {\ndefine \"Y\" : 2",
		},
		{
			name:     "trailing newline is preserved",
			input:    "define \"X\": 1\n",
			expected: "define \"X\" : 1\n",
		},
		{
			name:     "trailing blank lines are stripped",
			input:    "define \"X\": 1\n\n\n",
			expected: "define \"X\" : 1\n",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "only blank lines",
			input:    "\n\n\n",
			expected: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, format(t, tt.input))
		})
	}
}

func TestFormatBlockComments(t *testing.T) {
	t.Parallel()
	input := strings.Join([]string{
		"/*",
		" * header: a+b , unformatted",
		" */",
		"define \"X\": 1",
	}, "\n")
	got := format(t, input)
	assert.Contains(t, got, "* header: a+b , unformatted")
	assert.Contains(t, got, `define "X" : 1`)
}

func TestFormatIdempotent(t *testing.T) {
	t.Parallel()
	samples := []string{
		`define "Foo": 1+2`,
		"define \"X\":\n  if true then 1 else 2",
		"library Quality version '2.1'\nusing FHIR version '4.0.1'\n\ncontext Patient\n\ndefine \"InDemographic\":\n  AgeInYears() >= 16 and AgeInYears() < 24",
		"define \"E\":\n  [Encounter] E\n    where E.status = 'finished'\n      and E.period starts @2020-01-01",
		"define \"T\": Tuple {\n  a: 1,\n  b: 'x,y'\n}",
		"// comment\ndefine \"X\": 1 // tail\n",
	}
	for _, sample := range samples {
		once := format(t, sample)
		twice := format(t, once)
		assert.Equal(t, once, twice, "not idempotent for %q", sample)
	}
}

// Stripping whitespace, the token text of input and output must agree
// outside comments and strings (modulo text-operator lowercasing).
func TestFormatPreservesContent(t *testing.T) {
	t.Parallel()
	samples := []string{
		`define "Foo": 1+2`,
		"define \"X\":\nif a and b then 1 else 2",
		"parameter MeasurementPeriod Interval<DateTime>",
	}
	for _, sample := range samples {
		got := format(t, sample)
		assert.Equal(t,
			strings.ToLower(stripAllSpace(sample)),
			strings.ToLower(stripAllSpace(got)),
			"content changed for %q", sample)
	}
}

func stripAllSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' {
			return -1
		}
		return r
	}, s)
}

// Format must be total: arbitrary garbage still yields a result, and a
// successful one returns a deterministic string.
func TestFormatTotality(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"\x00\x01\x02",
		strings.Repeat("(", 500),
		"'unterminated\ndefine \"X\": 1",
		"}}}}",
		"@@@:::,,,",
	}
	for _, input := range inputs {
		result := Format(input, Options{})
		if !result.Success {
			assert.Equal(t, input, result.Formatted, "failed format must return input verbatim")
			assert.NotEmpty(t, result.Errors)
		}
	}
}

// A panic anywhere in the rewriting passes must surface as a failed
// result carrying the untouched input, never as a mangled buffer.
func TestFormatRecoversFromInternalPanic(t *testing.T) {
	t.Parallel()
	source := "define \"X\": 1+2\ndefine \"Y\": 3\n"
	result := Format(source, Options{
		linePass: func(string) string { panic("normalizer blew up") },
	})

	assert.False(t, result.Success)
	assert.Equal(t, source, result.Formatted)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "normalizer blew up")
}

func TestFormatIndentSize(t *testing.T) {
	t.Parallel()
	input := "define \"X\":\nbody"

	result := Format(input, Options{IndentSize: 4})
	require.True(t, result.Success)
	assert.Equal(t, "define \"X\" :\n    body", result.Formatted)

	// Values below 1 fall back to the default of 2.
	result = Format(input, Options{IndentSize: 0})
	require.True(t, result.Success)
	assert.Equal(t, "define \"X\" :\n  body", result.Formatted)
}

func TestFormatClosingDelimiterDedents(t *testing.T) {
	t.Parallel()
	input := "define \"X\": {\n1,\n2\n}"
	expected := "define \"X\" : {\n  1,\n  2\n}"
	assert.Equal(t, expected, format(t, input))
}

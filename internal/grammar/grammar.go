// Package grammar holds the fixed CQL vocabulary used by the lexer, the
// balance checker and the formatter. The table is built once at package
// initialization and never mutated afterwards, so it is safe to share
// across goroutines.
package grammar

import (
	"regexp"
	"sort"
	"strings"
)

// Table is the vocabulary of one CQL language version.
type Table struct {
	keywords  map[string]bool     // lowercase canonical spellings
	phrases   map[string][]string // first word -> possible second words
	functions map[string]bool     // case-sensitive builtin names
	dataTypes map[string]bool     // case-sensitive type names

	// Operators is the symbol operator list, longest first.
	Operators []string

	// Literal recognizers, all anchored at the start of their input.
	String     *regexp.Regexp
	Number     *regexp.Regexp
	DateTime   *regexp.Regexp
	Identifier *regexp.Regexp
}

// Reserved words of CQL 1.5. Multi-word entries live in phrases below.
var keywordList = []string{
	"after", "aggregate", "all", "and", "as", "asc", "ascending", "before",
	"between", "by", "called", "case", "cast", "code", "codesystem",
	"codesystems", "collapse", "concept", "contains", "context", "convert",
	"date", "day", "days", "default", "define", "desc", "descending",
	"difference", "display", "distinct", "div", "during", "else", "end",
	"ends", "except", "exists", "expand", "false", "flatten", "from",
	"function", "hour", "hours", "if", "implies", "in", "include",
	"includes", "intersect", "interval", "is", "let", "library", "matches",
	"maximum", "meets", "millisecond", "milliseconds", "minimum", "minute",
	"minutes", "mod", "month", "months", "not", "null", "occurs", "of",
	"or", "overlaps", "parameter", "per", "point", "predecessor", "private",
	"properly", "public", "return", "same", "second", "seconds",
	"singleton", "sort", "start", "starts", "successor", "then", "time",
	"timezoneoffset", "to", "true", "union", "using", "valueset", "version",
	"week", "weeks", "when", "where", "width", "with", "within", "without",
	"xor", "year", "years",
}

// Two-word reserved phrases. A single-token scan cannot see these, so the
// lexer peeks one word ahead when the first word matches.
var phraseList = []string{
	"or after", "or before", "or less", "or more", "or on", "such that",
}

// Builtin function library, PascalCase as defined by the CQL spec.
var functionList = []string{
	"Abs", "AgeInDays", "AgeInDaysAt", "AgeInMonths", "AgeInMonthsAt",
	"AgeInWeeks", "AgeInWeeksAt", "AgeInYears", "AgeInYearsAt", "AllTrue",
	"AnyTrue", "Avg", "CalculateAge", "CalculateAgeAt", "Ceiling",
	"Coalesce", "Combine", "Count", "DateTime", "Descendents", "EndsWith",
	"Exp", "First", "Floor", "GeometricMean", "IndexOf", "Last",
	"LastPositionOf", "Length", "Ln", "Log", "Lower", "Matches", "Max",
	"Median", "Min", "Mode", "Now", "PopulationStdDev",
	"PopulationVariance", "PositionOf", "Power", "Product", "Round",
	"Split", "SplitOnMatches", "Sqrt", "StartsWith", "StdDev", "Substring",
	"Sum", "Time", "TimeOfDay", "ToBoolean", "ToConcept", "ToDate",
	"ToDateTime", "ToDecimal", "ToInteger", "ToQuantity", "ToString",
	"ToTime", "Today", "Truncate", "TruncatedDivide", "Upper", "Variance",
}

// System-defined and common model data types.
var dataTypeList = []string{
	"Any", "Boolean", "Code", "CodeSystem", "Concept", "Date", "DateTime",
	"Decimal", "Integer", "Interval", "List", "Long", "Quantity", "Ratio",
	"String", "Time", "Tuple", "ValueSet",
	"Condition", "Encounter", "Immunization", "MedicationRequest",
	"Observation", "Patient", "Procedure",
}

var operatorList = []string{"<=", ">=", "<>", "!=", "+", "-", "*", "/", "=", "<", ">"}

var table = newTable()

func newTable() *Table {
	t := &Table{
		keywords:  make(map[string]bool, len(keywordList)),
		phrases:   make(map[string][]string),
		functions: make(map[string]bool, len(functionList)),
		dataTypes: make(map[string]bool, len(dataTypeList)),
		Operators: operatorList,

		String:     regexp.MustCompile(`^("(\\.|[^"\\])*"|'(\\.|[^'\\])*')`),
		Number:     regexp.MustCompile(`^\d+(\.\d+)?L?`),
		DateTime:   regexp.MustCompile(`^@(\d{4}(-\d{2}(-\d{2})?)?(T\d{2}(:\d{2}(:\d{2}(\.\d+)?)?)?)?(Z|[+-]\d{2}:\d{2})?|T\d{2}(:\d{2}(:\d{2}(\.\d+)?)?)?)`),
		Identifier: regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`),
	}
	for _, k := range keywordList {
		t.keywords[k] = true
	}
	for _, p := range phraseList {
		parts := strings.SplitN(p, " ", 2)
		t.phrases[parts[0]] = append(t.phrases[parts[0]], parts[1])
	}
	for _, f := range functionList {
		t.functions[f] = true
	}
	for _, d := range dataTypeList {
		t.dataTypes[d] = true
	}
	return t
}

// Default returns the process-wide table for the supported CQL version.
func Default() *Table {
	return table
}

// IsKeyword reports whether word is a reserved word. Matching is
// case-insensitive; CQL reserves words regardless of casing.
func (t *Table) IsKeyword(word string) bool {
	return t.keywords[strings.ToLower(word)]
}

// PhraseCompletions returns the possible second words of multi-word
// keywords beginning with first, or nil when there are none.
func (t *Table) PhraseCompletions(first string) []string {
	return t.phrases[strings.ToLower(first)]
}

// IsFunction reports whether word names a builtin function.
func (t *Table) IsFunction(word string) bool {
	return t.functions[word]
}

// IsDataType reports whether word names a known data type.
func (t *Table) IsDataType(word string) bool {
	return t.dataTypes[word]
}

// IsOperatorChar reports whether c can begin or continue a symbol operator.
func (t *Table) IsOperatorChar(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '=', '<', '>', '!':
		return true
	}
	return false
}

// Completions returns every keyword, function and data type name, sorted
// and deduplicated (some names, like DateTime, are both a function and a
// type). Editor hosts concatenate this into their autocomplete source.
func (t *Table) Completions() []string {
	seen := make(map[string]bool, len(t.keywords)+len(t.functions)+len(t.dataTypes))
	add := func(word string) {
		seen[word] = true
	}
	for k := range t.keywords {
		add(k)
	}
	for first, seconds := range t.phrases {
		for _, second := range seconds {
			add(first + " " + second)
		}
	}
	for f := range t.functions {
		add(f)
	}
	for d := range t.dataTypes {
		add(d)
	}

	out := make([]string, 0, len(seen))
	for word := range seen {
		out = append(out, word)
	}
	sort.Strings(out)
	return out
}

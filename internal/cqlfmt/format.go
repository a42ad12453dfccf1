// Package cqlfmt rewrites CQL source into a canonical, indented,
// whitespace-normalized form. String literals and comments are preserved
// byte for byte, and on any internal failure the original input is
// returned unchanged: the formatter never corrupts the caller's buffer.
package cqlfmt

import (
	"fmt"
	"regexp"
	"strings"
)

// Options configures a single Format call.
type Options struct {
	// IndentSize is the number of spaces per nesting level. Values below 1
	// fall back to the default of 2.
	IndentSize int

	// linePass replaces the per-line normalizer when set.
	linePass func(string) string
}

func (o Options) indentSize() int {
	if o.IndentSize < 1 {
		return 2
	}
	return o.IndentSize
}

// Result is the outcome of a Format call. When Success is false,
// Formatted equals the input verbatim and Errors explains why.
type Result struct {
	Formatted string   `json:"formatted"`
	Success   bool     `json:"success"`
	Errors    []string `json:"errors,omitempty"`
}

// Top-level declaration keywords. Any line starting with one of these
// resets indentation to column zero.
var sectionPattern = regexp.MustCompile(`(?i)^(library|using|context|parameter|function|define)\b`)

// Sections whose brace-less blocks are introduced by a trailing colon.
var colonSections = map[string]bool{"define": true, "function": true, "parameter": true}

var trailingColonPattern = regexp.MustCompile(`:\s*$`)

// Format rewrites source into canonical form. It is a total function: any
// panic inside the rewriting passes is caught and surfaced as a failed
// Result carrying the untouched input.
func Format(source string, opts Options) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Formatted: source,
				Success:   false,
				Errors:    []string{fmt.Sprintf("internal formatter error: %v", r)},
			}
		}
	}()

	f := &formatter{
		indentSize: opts.indentSize(),
		literals:   make(map[string]string),
	}
	f.linePass = f.formatLine
	if opts.linePass != nil {
		f.linePass = opts.linePass
	}
	return Result{Formatted: f.run(source), Success: true}
}

// formatter carries the running state of one formatting pass.
type formatter struct {
	indentSize int

	indentLevel      int
	inBlockComment   bool
	previousWasEmpty bool
	previousSection  string
	section          string // current section context, for the colon rule

	// Per-line normalizer, formatLine unless overridden.
	linePass func(string) string

	// String/datetime literals protected during line normalization.
	// Placeholders are unique across the whole pass, not per line.
	literals    map[string]string
	placeholder int
}

func (f *formatter) run(source string) string {
	var out []string

	for _, raw := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(raw)

		wasInBlock := f.inBlockComment
		hasOpen := strings.Contains(trimmed, "/*")
		hasClose := strings.Contains(trimmed, "*/")
		if hasOpen {
			f.inBlockComment = true
		}
		if hasClose {
			f.inBlockComment = false
		}

		if trimmed == "" {
			if !f.previousWasEmpty && len(out) > 0 {
				out = append(out, "")
				f.previousWasEmpty = true
			}
			continue
		}

		// Comments are emitted verbatim at the current indent; they never
		// pass through the spacing passes and never affect nesting.
		if wasInBlock || f.inBlockComment || hasOpen || hasClose || strings.HasPrefix(trimmed, "//") {
			out = append(out, f.pad(f.indentLevel)+trimmed)
			f.previousWasEmpty = false
			continue
		}

		if m := sectionPattern.FindStringSubmatch(trimmed); m != nil {
			section := strings.ToLower(m[1])
			// Top-level declarations always start at column zero. The
			// reset bounds error propagation from a malformed prior block.
			f.indentLevel = 0
			if section != f.previousSection && len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
			f.previousSection = section
			f.section = section
		}

		current := f.indentLevel
		if startsWithCloser(trimmed) {
			// Closing delimiters dedent before being printed.
			current = max(0, f.indentLevel-1)
		}

		out = append(out, f.pad(current)+f.linePass(trimmed))
		f.previousWasEmpty = false

		opens, closes := countDelimiters(trimmed)
		f.indentLevel = max(0, f.indentLevel+opens-closes)

		// Brace-less block syntax: `define "X":` indents its body.
		if trailingColonPattern.MatchString(trimmed) && colonSections[f.section] {
			f.indentLevel++
		}
	}

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}

	formatted := strings.Join(out, "\n")
	if formatted != "" && strings.HasSuffix(source, "\n") {
		formatted += "\n"
	}
	return formatted
}

func (f *formatter) pad(level int) string {
	return strings.Repeat(" ", level*f.indentSize)
}

func startsWithCloser(line string) bool {
	switch line[0] {
	case '}', ']', ')':
		return true
	}
	return false
}

// countDelimiters tallies opening and closing delimiters outside string
// and datetime literals.
func countDelimiters(line string) (opens, closes int) {
	masked := maskLiterals(line)
	for i := 0; i < len(masked); i++ {
		switch masked[i] {
		case '{', '[', '(':
			opens++
		case '}', ']', ')':
			closes++
		}
	}
	return opens, closes
}

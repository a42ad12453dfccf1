package internal

import (
	"fmt"
	"strings"

	"github.com/cqlang/cqlin/internal/balance"
	"github.com/cqlang/cqlin/internal/cqlfmt"
	tt "github.com/cqlang/cqlin/internal/types"
)

// LintRule is the interface each check over a CQL buffer implements.
type LintRule interface {
	// Check runs the rule over source and returns any issues found.
	Check(filename string, source []byte) ([]tt.Issue, error)

	// Name returns the rule's registry key.
	Name() string

	Severity() tt.Severity
	SetSeverity(tt.Severity)
}

const (
	UnbalancedDelimitersRule = "unbalanced-delimiters"
	NotFormattedRule         = "not-formatted"
	TrailingWhitespaceRule   = "trailing-whitespace"
)

type baseRule struct {
	name     string
	severity tt.Severity
}

func (r *baseRule) Name() string              { return r.name }
func (r *baseRule) Severity() tt.Severity     { return r.severity }
func (r *baseRule) SetSeverity(s tt.Severity) { r.severity = s }

// unbalancedDelimiters reports every brace, bracket or parenthesis that
// has no matching partner.
type unbalancedDelimiters struct{ baseRule }

func NewUnbalancedDelimitersRule() LintRule {
	return &unbalancedDelimiters{baseRule{name: UnbalancedDelimitersRule, severity: tt.SeverityError}}
}

func (r *unbalancedDelimiters) Check(filename string, source []byte) ([]tt.Issue, error) {
	text := string(source)
	var issues []tt.Issue
	for _, found := range balance.Check(text) {
		pos := tt.PositionAt(text, found.Position)
		issues = append(issues, tt.Issue{
			Rule:     r.name,
			Filename: filename,
			Severity: r.severity,
			Message:  found.Message(),
			Start:    pos,
			End:      tt.Position{Line: pos.Line, Column: pos.Column + 1},
		})
	}
	return issues, nil
}

// notFormatted reports a buffer that differs from its canonical form,
// pointing at the first divergent line.
type notFormatted struct {
	baseRule
	indentSize int
}

func NewNotFormattedRule() LintRule {
	return &notFormatted{baseRule: baseRule{name: NotFormattedRule, severity: tt.SeverityWarning}}
}

// SetIndentSize overrides the indent width checked against.
func (r *notFormatted) SetIndentSize(n int) { r.indentSize = n }

func (r *notFormatted) Check(filename string, source []byte) ([]tt.Issue, error) {
	text := string(source)
	result := cqlfmt.Format(text, cqlfmt.Options{IndentSize: r.indentSize})
	if !result.Success {
		return nil, fmt.Errorf("formatting %s: %s", filename, strings.Join(result.Errors, "; "))
	}
	if result.Formatted == text {
		return nil, nil
	}

	line := firstDivergentLine(text, result.Formatted)
	return []tt.Issue{{
		Rule:       r.name,
		Filename:   filename,
		Severity:   r.severity,
		Message:    "file is not formatted canonically",
		Suggestion: "run `cqlin fmt -w` to rewrite it",
		Start:      tt.Position{Line: line, Column: 1},
		End:        tt.Position{Line: line, Column: 1},
	}}, nil
}

func firstDivergentLine(before, after string) int {
	a := strings.Split(before, "\n")
	b := strings.Split(after, "\n")
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return i + 1
		}
	}
	return 1
}

// trailingWhitespace flags lines ending in blanks. The formatter strips
// these anyway; the rule catches them without rewriting.
type trailingWhitespace struct{ baseRule }

func NewTrailingWhitespaceRule() LintRule {
	return &trailingWhitespace{baseRule{name: TrailingWhitespaceRule, severity: tt.SeverityInfo}}
}

func (r *trailingWhitespace) Check(filename string, source []byte) ([]tt.Issue, error) {
	var issues []tt.Issue
	for i, line := range strings.Split(string(source), "\n") {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == line {
			continue
		}
		issues = append(issues, tt.Issue{
			Rule:     r.name,
			Filename: filename,
			Severity: r.severity,
			Message:  "line has trailing whitespace",
			Start:    tt.Position{Line: i + 1, Column: len(trimmed) + 1},
			End:      tt.Position{Line: i + 1, Column: len(line) + 1},
		})
	}
	return issues, nil
}

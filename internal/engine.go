package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	tt "github.com/cqlang/cqlin/internal/types"
)

// Engine manages the linting process over CQL buffers.
type Engine struct {
	ignoredRules map[string]bool
	rules        map[string]LintRule

	watcher  watcher
	watching bool
	mu       sync.Mutex
}

type ruleConstructor func() LintRule

var allRuleConstructors = map[string]ruleConstructor{
	UnbalancedDelimitersRule: NewUnbalancedDelimitersRule,
	NotFormattedRule:         NewNotFormattedRule,
	TrailingWhitespaceRule:   NewTrailingWhitespaceRule,
}

// NewEngine creates a lint engine with the default rules, then applies
// the per-rule severity overrides from the configuration.
func NewEngine(rules map[string]tt.ConfigRule) (*Engine, error) {
	engine := &Engine{ignoredRules: make(map[string]bool)}
	engine.applyRules(rules)
	return engine, nil
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) {
	e.rules = make(map[string]LintRule, len(allRuleConstructors))
	for key, construct := range allRuleConstructors {
		e.rules[key] = construct()
	}

	for key, cfg := range rules {
		rule, ok := e.rules[key]
		if !ok {
			continue
		}
		if cfg.Severity == tt.SeverityOff {
			e.IgnoreRule(key)
			continue
		}
		rule.SetSeverity(cfg.Severity)
	}
}

// IgnoreRule disables the named rule for this engine.
func (e *Engine) IgnoreRule(rule string) {
	e.ignoredRules[rule] = true
}

// SetIndentSize forwards the configured indent width to the formatting
// check.
func (e *Engine) SetIndentSize(n int) {
	if rule, ok := e.rules[NotFormattedRule].(*notFormatted); ok {
		rule.SetIndentSize(n)
	}
}

// Run applies all lint rules to the given file.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return e.run(filename, source)
}

// RunSource applies all lint rules to an in-memory buffer.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	return e.run("<source>", source)
}

func (e *Engine) run(filename string, source []byte) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for name, rule := range e.rules {
		if e.ignoredRules[name] || rule.Severity() == tt.SeverityOff {
			continue
		}
		issues, err := rule.Check(filename, source)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", name, err)
		}
		allIssues = append(allIssues, issues...)
	}
	return allIssues, nil
}

// HasDesiredExtension reports whether path names a CQL source file.
func HasDesiredExtension(path string) bool {
	return filepath.Ext(path) == ".cql"
}

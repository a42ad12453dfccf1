// Package cqlin is the host-application facade over the CQL text core:
// token classification, structural balance checking and canonical
// formatting. All entry points are pure, synchronous functions of their
// input and safe for concurrent use.
package cqlin

import (
	"github.com/cqlang/cqlin/internal/balance"
	"github.com/cqlang/cqlin/internal/cqlfmt"
	"github.com/cqlang/cqlin/internal/grammar"
	"github.com/cqlang/cqlin/internal/lexer"
	"github.com/cqlang/cqlin/internal/types"
)

// Re-exported core types, so hosts only import this package.
type (
	Token        = lexer.Token
	TokenKind    = lexer.Kind
	Lexer        = lexer.Lexer
	BalanceIssue = balance.Issue
	Options      = cqlfmt.Options
	Result       = cqlfmt.Result
	Position     = types.Position
)

// Token kinds, re-exported so hosts can branch on a classification.
const (
	Keyword      = lexer.Keyword
	Function     = lexer.Function
	DataType     = lexer.DataType
	Operator     = lexer.Operator
	String       = lexer.String
	Number       = lexer.Number
	DateTime     = lexer.DateTime
	Comment      = lexer.Comment
	Bracket      = lexer.Bracket
	Punctuation  = lexer.Punctuation
	Identifier   = lexer.Identifier
	Unrecognized = lexer.Unrecognized
)

// Format rewrites source into canonical form. On internal failure the
// result carries the input unchanged and Success is false; the caller's
// buffer is never corrupted.
func Format(source string, opts Options) Result {
	return cqlfmt.Format(source, opts)
}

// CheckBalance returns every unbalanced brace, bracket or parenthesis in
// source. Delimiters inside strings and comments are ignored.
func CheckBalance(source string) []BalanceIssue {
	return balance.Check(source)
}

// Tokenize classifies source into its full token stream.
func Tokenize(source string) []Token {
	return lexer.New(source).Tokenize()
}

// NewLexer returns an incremental scanner over source. Hosts that
// highlight as the user types consume one token at a time through Next
// instead of draining the whole buffer.
func NewLexer(source string) *Lexer {
	return lexer.New(source)
}

// Completions returns the autocomplete vocabulary: every keyword,
// builtin function and data type name of the supported CQL version.
func Completions() []string {
	return grammar.Default().Completions()
}

// RemapPosition maps a cursor position in the original buffer onto the
// formatted buffer, best effort.
func RemapPosition(original, formatted string, pos Position) Position {
	return cqlfmt.RemapPosition(original, formatted, pos)
}

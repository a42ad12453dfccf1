// Package lexer implements the single-pass CQL token classifier. It is the
// one canonical tokenizer in the module: the balance checker consumes its
// token stream, and editor hosts drive highlighting from it.
package lexer

import (
	"regexp"
	"strings"

	"github.com/cqlang/cqlin/internal/grammar"
)

// Lexer scans a CQL source string and produces classified tokens.
// It holds no shared state; create one per input buffer.
type Lexer struct {
	input string
	pos   int
	table *grammar.Table
}

// New returns a Lexer over input using the default grammar table.
func New(input string) *Lexer {
	return NewWithTable(input, grammar.Default())
}

// NewWithTable returns a Lexer using an explicit grammar table.
func NewWithTable(input string, table *grammar.Table) *Lexer {
	return &Lexer{input: input, table: table}
}

// Tokenize drains the lexer and returns every remaining token.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok, ok := l.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Next consumes one token and reports whether one was produced. It returns
// false only at end of input: every other position yields a token, with a
// single-character Unrecognized token as the fallback, so the scanner
// always makes forward progress.
func (l *Lexer) Next() (Token, bool) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{}, false
	}

	start := l.pos
	c := l.input[l.pos]

	switch {
	case c == '/' && l.peek(1) == '/':
		return l.emit(Comment, l.scanLineComment()), true

	case c == '/' && l.peek(1) == '*':
		return l.emit(Comment, l.scanBlockComment()), true

	case c == '"' || c == '\'':
		if end := l.matchAt(l.table.String, start); end > start {
			return l.emit(String, end), true
		}
		// Unterminated literal: absorb the quote and keep going.
		return l.emit(Unrecognized, start+1), true

	case c == '@':
		if end := l.matchAt(l.table.DateTime, start); end > start {
			return l.emit(DateTime, end), true
		}
		return l.emit(Unrecognized, start+1), true

	case isDigit(c):
		return l.emit(Number, l.matchAt(l.table.Number, start)), true

	case isWordStart(c):
		return l.scanWord(), true

	case l.table.IsOperatorChar(c):
		if end := l.matchOperator(start); end > start {
			return l.emit(Operator, end), true
		}
		return l.emit(Unrecognized, start+1), true

	case isBracket(c):
		return l.emit(Bracket, start+1), true

	case isPunctuation(c):
		return l.emit(Punctuation, start+1), true

	default:
		return l.emit(Unrecognized, start+1), true
	}
}

func (l *Lexer) emit(kind Kind, end int) Token {
	tok := Token{Kind: kind, Text: l.input[l.pos:end], Start: l.pos, End: end}
	l.pos = end
	return tok
}

func (l *Lexer) scanLineComment() int {
	end := l.pos
	for end < len(l.input) && l.input[end] != '\n' {
		end++
	}
	return end
}

// scanBlockComment consumes until the closing delimiter, spanning line
// boundaries. An unterminated comment runs to end of input.
func (l *Lexer) scanBlockComment() int {
	end := l.pos + 2
	for end+1 < len(l.input) {
		if l.input[end] == '*' && l.input[end+1] == '/' {
			return end + 2
		}
		end++
	}
	return len(l.input)
}

// scanWord consumes an identifier run and classifies it. Word-boundary
// matching is inherent here: the run is maximal, so a reserved word can
// never match inside a longer identifier.
func (l *Lexer) scanWord() Token {
	end := l.matchAt(l.table.Identifier, l.pos)
	word := l.input[l.pos:end]

	// Two-word reserved phrases ("or before", "such that", ...) need one
	// word of lookahead past the intervening whitespace.
	if seconds := l.table.PhraseCompletions(word); seconds != nil {
		if phraseEnd := l.matchPhrase(end, seconds); phraseEnd > end {
			return l.emit(Keyword, phraseEnd)
		}
	}

	switch {
	case l.table.IsKeyword(word):
		return l.emit(Keyword, end)
	case l.table.IsFunction(word):
		return l.emit(Function, end)
	case l.table.IsDataType(word):
		return l.emit(DataType, end)
	default:
		return l.emit(Identifier, end)
	}
}

func (l *Lexer) matchPhrase(afterFirst int, seconds []string) int {
	j := afterFirst
	for j < len(l.input) && (l.input[j] == ' ' || l.input[j] == '\t') {
		j++
	}
	if j == afterFirst {
		return 0
	}
	wordEnd := l.matchAt(l.table.Identifier, j)
	if wordEnd == j {
		return 0
	}
	second := strings.ToLower(l.input[j:wordEnd])
	for _, s := range seconds {
		if second == s {
			return wordEnd
		}
	}
	return 0
}

// matchOperator returns the end of the longest symbol operator starting at
// start, or start when none matches. Operators in the table are ordered
// longest first, so the first hit wins.
func (l *Lexer) matchOperator(start int) int {
	rest := l.input[start:]
	for _, op := range l.table.Operators {
		if strings.HasPrefix(rest, op) {
			return start + len(op)
		}
	}
	return start
}

// matchAt applies an anchored recognizer at offset and returns the match
// end, or offset when the pattern does not match there.
func (l *Lexer) matchAt(pattern *regexp.Regexp, offset int) int {
	loc := pattern.FindStringIndex(l.input[offset:])
	if loc == nil {
		return offset
	}
	return offset + loc[1]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && isWhitespace(l.input[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) peek(ahead int) byte {
	if l.pos+ahead < len(l.input) {
		return l.input[l.pos+ahead]
	}
	return 0
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isBracket(c byte) bool {
	switch c {
	case '{', '}', '[', ']', '(', ')':
		return true
	}
	return false
}

func isPunctuation(c byte) bool {
	switch c {
	case ';', ',', '.', ':':
		return true
	}
	return false
}

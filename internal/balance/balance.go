// Package balance checks that braces, brackets and parentheses in CQL
// source are correctly nested. It walks the lexer's token stream rather
// than raw characters, so delimiters inside strings and comments are
// never counted.
package balance

import (
	"fmt"

	"github.com/cqlang/cqlin/internal/lexer"
)

// IssueKind describes why a delimiter was reported.
type IssueKind int

// Unmatched is the only issue kind: a closer with no matching opener, or
// an opener that is never closed.
const Unmatched IssueKind = iota

// Issue is one unbalanced delimiter. Position is a byte offset into the
// source; Char is the offending delimiter.
type Issue struct {
	Char     byte      `json:"char"`
	Position int       `json:"position"`
	Kind     IssueKind `json:"kind"`
}

func (i Issue) Message() string {
	return fmt.Sprintf("unmatched %q", string(i.Char))
}

var closerFor = map[byte]byte{'{': '}', '[': ']', '(': ')'}

type openDelim struct {
	char byte
	pos  int
}

// Check returns every unbalanced delimiter in source. An empty result
// means the source is balanced. Check never fails; malformed input simply
// produces issues.
func Check(source string) []Issue {
	var (
		issues []Issue
		stack  []openDelim
	)

	l := lexer.New(source)
	for {
		tok, ok := l.Next()
		if !ok {
			break
		}
		if tok.Kind != lexer.Bracket {
			continue
		}

		c := tok.Text[0]
		if _, isOpener := closerFor[c]; isOpener {
			stack = append(stack, openDelim{char: c, pos: tok.Start})
			continue
		}

		// A closer: it must match the top of the stack. A mismatch is
		// reported and consumed without popping, so scanning continues
		// against the same expected closer.
		if len(stack) == 0 || closerFor[stack[len(stack)-1].char] != c {
			issues = append(issues, Issue{Char: c, Position: tok.Start, Kind: Unmatched})
			continue
		}
		stack = stack[:len(stack)-1]
	}

	// Anything still open is unmatched, reported at the opener.
	for _, open := range stack {
		issues = append(issues, Issue{Char: open.char, Position: open.pos, Kind: Unmatched})
	}
	return issues
}

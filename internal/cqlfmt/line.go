package cqlfmt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cqlang/cqlin/internal/grammar"
)

// Compound operators a user may have written with internal spaces. These
// are repaired before the single-character spacing pass so it cannot
// split them further.
var splitOperatorRepairs = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`<\s+=`), "<="},
	{regexp.MustCompile(`>\s+=`), ">="},
	{regexp.MustCompile(`<\s+>`), "<>"},
	{regexp.MustCompile(`!\s+=`), "!="},
	{regexp.MustCompile(`=\s+=`), "=="},
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)

	// Multi-character operators get exactly one space on each side.
	multiOperator = regexp.MustCompile(`\s*(<=|>=|<>|!=)\s*`)

	commaSpacing     = regexp.MustCompile(`\s*,\s*`)
	semicolonSpacing = regexp.MustCompile(`\s*;\s*`)
	colonSpacing     = regexp.MustCompile(`\s*:\s*`)
	afterOpenParen   = regexp.MustCompile(`\(\s+`)
	beforeCloseParen = regexp.MustCompile(`\s+\)`)

	placeholderPattern = regexp.MustCompile("\x00\\d+\x00")
)

// Text operators, longest first so "implies" is never split by "or".
var textOperators = buildTextOperators([]string{"implies", "and", "xor", "not", "or"})

type textOperator struct {
	pattern *regexp.Regexp
	word    string
}

func buildTextOperators(words []string) []textOperator {
	ops := make([]textOperator, 0, len(words))
	for _, w := range words {
		ops = append(ops, textOperator{
			pattern: regexp.MustCompile(`(?i)(^|[^A-Za-z0-9_])(` + w + `)($|[^A-Za-z0-9_])`),
			word:    w,
		})
	}
	return ops
}

// formatLine normalizes spacing in one trimmed, non-comment line. String
// and datetime literals are replaced by placeholders first and restored
// untouched at the end, so their contents survive byte for byte.
func (f *formatter) formatLine(line string) string {
	s := f.protectLiterals(line)

	for _, r := range splitOperatorRepairs {
		s = r.pattern.ReplaceAllString(s, r.repl)
	}

	s = strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))

	for _, op := range textOperators {
		s = op.pattern.ReplaceAllStringFunc(s, func(m string) string {
			return respaceTextOperator(m, op.word)
		})
	}

	s = multiOperator.ReplaceAllString(s, " $1 ")
	s = spaceSingleOperators(s)

	s = commaSpacing.ReplaceAllString(s, ", ")
	s = semicolonSpacing.ReplaceAllString(s, "; ")
	s = colonSpacing.ReplaceAllString(s, " : ")
	s = afterOpenParen.ReplaceAllString(s, "(")
	s = beforeCloseParen.ReplaceAllString(s, ")")
	s = strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))

	return f.restoreLiterals(s)
}

// respaceTextOperator rebuilds one text-operator match: the operator is
// lowercased and a single space is inserted on each side where the
// adjacent character is non-whitespace. The boundary characters captured
// by the pattern are one byte or empty (line start/end).
func respaceTextOperator(match, word string) string {
	left, right := "", ""
	if len(match) > len(word) && !isWordByte(match[0]) {
		left = match[:1]
	}
	if len(match)-len(left) > len(word) {
		right = match[len(match)-1:]
	}

	var b strings.Builder
	b.WriteString(left)
	if left != "" && left != " " {
		b.WriteByte(' ')
	}
	b.WriteString(word)
	if right != "" && right != " " {
		b.WriteByte(' ')
	}
	b.WriteString(right)
	return b.String()
}

// spaceSingleOperators inserts one space around single-character symbol
// operators. A neighbor in < = > ! means the character belongs to a
// compound operator already handled, so it is left alone.
func spaceSingleOperators(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isSingleOperator(c) {
			b.WriteByte(c)
			continue
		}
		var prev, next byte
		if i > 0 {
			prev = s[i-1]
		}
		if i+1 < len(s) {
			next = s[i+1]
		}
		if isCompoundByte(prev) || isCompoundByte(next) {
			b.WriteByte(c)
			continue
		}
		if prev != 0 && prev != ' ' {
			b.WriteByte(' ')
		}
		b.WriteByte(c)
		if next != 0 && next != ' ' {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// protectLiterals replaces every string and datetime literal with a
// placeholder unique across the whole formatting pass. A trailing line
// comment is protected the same way so its text is never respaced.
func (f *formatter) protectLiterals(line string) string {
	var b strings.Builder
	for i := 0; i < len(line); {
		c := line[i]
		switch {
		case c == '"' || c == '\'':
			end := scanQuoted(line, i)
			b.WriteString(f.stash(line[i:end]))
			i = end
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			b.WriteString(f.stash(line[i:]))
			i = len(line)
		case c == '@':
			if loc := grammar.Default().DateTime.FindStringIndex(line[i:]); loc != nil {
				b.WriteString(f.stash(line[i : i+loc[1]]))
				i += loc[1]
				continue
			}
			b.WriteByte(c)
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func (f *formatter) stash(literal string) string {
	key := "\x00" + strconv.Itoa(f.placeholder) + "\x00"
	f.placeholder++
	f.literals[key] = literal
	return key
}

func (f *formatter) restoreLiterals(s string) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(key string) string {
		if original, ok := f.literals[key]; ok {
			return original
		}
		return key
	})
}

// scanQuoted returns the index just past the closing quote of the literal
// starting at start, honoring backslash escapes. An unterminated literal
// runs to end of line.
func scanQuoted(line string, start int) int {
	quote := line[start]
	for i := start + 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}
	return len(line)
}

// maskLiterals blanks out literal contents so delimiter counting cannot
// be fooled by brackets inside strings.
func maskLiterals(line string) string {
	var b strings.Builder
	for i := 0; i < len(line); {
		c := line[i]
		if c == '"' || c == '\'' {
			end := scanQuoted(line, i)
			b.WriteString(strings.Repeat("_", end-i))
			i = end
			continue
		}
		if c == '/' && i+1 < len(line) && line[i+1] == '/' {
			break
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

func isSingleOperator(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '=', '<', '>':
		return true
	}
	return false
}

func isCompoundByte(c byte) bool {
	switch c {
	case '<', '=', '>', '!':
		return true
	}
	return false
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

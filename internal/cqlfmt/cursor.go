package cqlfmt

import (
	"strings"

	"github.com/cqlang/cqlin/internal/types"
)

// RemapPosition maps a cursor position in the original buffer onto the
// formatted buffer. Formatting rewrites whitespace rather than tokens, so
// the heuristic matches the text preceding the cursor, stripped of
// spaces, against the corresponding formatted line. It degrades to
// clamping the original line and column, and finally to end of document
// when the line no longer exists.
func RemapPosition(original, formatted string, pos types.Position) types.Position {
	origLines := strings.Split(original, "\n")
	newLines := strings.Split(formatted, "\n")

	if pos.Line < 1 || pos.Line > len(origLines) {
		return endOf(newLines)
	}

	origLine := origLines[pos.Line-1]
	col := pos.Column
	if col < 1 {
		col = 1
	}
	if col > len(origLine)+1 {
		col = len(origLine) + 1
	}

	target := findFormattedLine(origLine, origLines, newLines, pos.Line)
	if target == 0 {
		// The line vanished (collapsed blank, stripped trailer): clamp.
		line := pos.Line
		if line > len(newLines) {
			return endOf(newLines)
		}
		newCol := col
		if newCol > len(newLines[line-1])+1 {
			newCol = len(newLines[line-1]) + 1
		}
		return types.Position{Line: line, Column: newCol}
	}

	// Walk the formatted line until the same number of non-space bytes
	// has passed as preceded the cursor in the original line.
	want := countNonSpace(origLine[:col-1])
	newLine := newLines[target-1]
	seen := 0
	for i := 0; i < len(newLine); i++ {
		if seen == want && newLine[i] != ' ' {
			return types.Position{Line: target, Column: i + 1}
		}
		if newLine[i] != ' ' {
			seen++
		}
	}
	return types.Position{Line: target, Column: len(newLine) + 1}
}

// findFormattedLine locates the formatted line corresponding to original
// line n by comparing space-stripped content, searching outward from the
// same index. Returns 0 when no line matches.
func findFormattedLine(origLine string, origLines, newLines []string, n int) int {
	key := stripSpaces(origLine)
	if key == "" {
		return 0
	}
	for radius := 0; radius < len(newLines); radius++ {
		for _, candidate := range []int{n - 1 + radius, n - 1 - radius} {
			if candidate < 0 || candidate >= len(newLines) {
				continue
			}
			// Case-insensitive: formatting lowercases text operators.
			if strings.EqualFold(stripSpaces(newLines[candidate]), key) {
				return candidate + 1
			}
		}
	}
	return 0
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
}

func countNonSpace(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			n++
		}
	}
	return n
}

func endOf(lines []string) types.Position {
	if len(lines) == 0 {
		return types.Position{Line: 1, Column: 1}
	}
	last := lines[len(lines)-1]
	return types.Position{Line: len(lines), Column: len(last) + 1}
}

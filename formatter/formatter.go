// Package formatter renders lint issues for the terminal: a colored
// location header, the offending source line and a caret underline.
package formatter

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/cqlang/cqlin/internal"
	tt "github.com/cqlang/cqlin/internal/types"
)

const tabWidth = 8

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	infoStyle    = color.New(color.FgHiBlue, color.Bold)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	hintStyle    = color.New(color.FgGreen, color.Bold)
)

// GenerateFormattedIssue formats a slice of issues into a human-readable
// report against their source.
func GenerateFormattedIssue(issues []tt.Issue, sourceCode *internal.SourceCode) string {
	var builder strings.Builder
	for _, issue := range issues {
		builder.WriteString(formatIssue(issue, sourceCode))
	}
	return builder.String()
}

func formatIssue(issue tt.Issue, sourceCode *internal.SourceCode) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("%s: %s: %s\n",
		severityStyle(issue.Severity).Sprint(issue.Severity.String()),
		ruleStyle.Sprint(issue.Rule),
		messageStyle.Sprint(issue.Message)))
	builder.WriteString(fmt.Sprintf(" --> %s\n",
		fileStyle.Sprintf("%s:%d:%d", issue.Filename, issue.Start.Line, issue.Start.Column)))

	if issue.Start.Line >= 1 && issue.Start.Line <= len(sourceCode.Lines) {
		line := sourceCode.Lines[issue.Start.Line-1]
		builder.WriteString(line + "\n")

		visualStart := calculateVisualColumn(line, issue.Start.Column)
		visualEnd := calculateVisualColumn(line, issue.End.Column)
		arrowLength := visualEnd - visualStart
		if issue.End.Line != issue.Start.Line || arrowLength < 1 {
			arrowLength = 1
		}
		builder.WriteString(strings.Repeat(" ", visualStart-1))
		builder.WriteString(strings.Repeat("^", arrowLength))
		builder.WriteString("\n")
	}

	if issue.Suggestion != "" {
		builder.WriteString(hintStyle.Sprint("hint: ") + issue.Suggestion + "\n")
	}
	if issue.Note != "" {
		builder.WriteString("note: " + issue.Note + "\n")
	}
	builder.WriteString("\n")
	return builder.String()
}

func severityStyle(s tt.Severity) *color.Color {
	switch s {
	case tt.SeverityError:
		return errorStyle
	case tt.SeverityWarning:
		return warningStyle
	default:
		return infoStyle
	}
}

// calculateVisualColumn expands tabs so the caret lines up with what the
// terminal actually shows.
func calculateVisualColumn(line string, column int) int {
	if column < 1 {
		return 1
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 >= column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn + 1
}

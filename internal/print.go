package internal

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	tt "github.com/gnolang/tsniff/internal/types"
)

const (
	tabWidth = 8
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgYellow, color.Bold)
	infoStyle    = color.New(color.FgGreen, color.Bold)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
)

func severityStyle(s tt.Severity) *color.Color {
	switch s {
	case tt.SeverityWarning:
		return warningStyle
	case tt.SeverityInfo:
		return infoStyle
	default:
		return errorStyle
	}
}

// FormatIssuesWithArrows renders issues the way compilers do: a header, the
// offending source line and a caret under the reported column.
func FormatIssuesWithArrows(issues []tt.Issue, sourceCode *SourceCode) string {
	var builder strings.Builder
	for _, issue := range issues {
		builder.WriteString(formatIssueHeader(issue))
		builder.WriteString(formatGeneralIssue(issue, sourceCode))
	}
	return builder.String()
}

func formatIssueHeader(issue tt.Issue) string {
	return severityStyle(issue.Severity).Sprintf("%s: ", issue.Severity) + ruleStyle.Sprint(issue.Key()) + "\n" +
		lineStyle.Sprint(" --> ") + fileStyle.Sprint(issue.Filename) +
		lineStyle.Sprintf(":%d:%d", issue.Start.Line, issue.Start.Column) + "\n"
}

func formatGeneralIssue(issue tt.Issue, sourceCode *SourceCode) string {
	var result strings.Builder

	lineNumberStr := fmt.Sprintf("%d", issue.Start.Line)
	padding := strings.Repeat(" ", len(lineNumberStr)-1)
	result.WriteString(lineStyle.Sprintf("  %s|\n", padding))

	// positions outside the rebuilt source only get the message
	if sourceCode == nil || issue.Start.Line < 1 || issue.Start.Line > len(sourceCode.Lines) {
		result.WriteString(lineStyle.Sprintf("  %s= ", padding))
		result.WriteString(messageStyle.Sprintf("%s\n\n", issue.Message))
		return result.String()
	}

	raw := sourceCode.Lines[issue.Start.Line-1]
	result.WriteString(lineStyle.Sprintf("%d | ", issue.Start.Line))
	result.WriteString(expandTabs(raw) + "\n")

	visualColumn := calculateVisualColumn(raw, issue.Start.Column)
	result.WriteString(lineStyle.Sprintf("  %s| ", padding))
	result.WriteString(strings.Repeat(" ", visualColumn))
	result.WriteString(messageStyle.Sprintf("^ %s\n\n", issue.Message))

	return result.String()
}

func expandTabs(line string) string {
	var expanded strings.Builder
	visual := 0
	for _, ch := range line {
		if ch == '\t' {
			spaceCount := tabWidth - (visual % tabWidth)
			expanded.WriteString(strings.Repeat(" ", spaceCount))
			visual += spaceCount
			continue
		}
		expanded.WriteRune(ch)
		visual += runewidth.RuneWidth(ch)
	}
	return expanded.String()
}

// calculateVisualColumn converts a 1-based byte column into the number of
// terminal cells before it.
func calculateVisualColumn(line string, column int) int {
	visualColumn := 0
	for i, ch := range line {
		if i+1 >= column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn += runewidth.RuneWidth(ch)
		}
	}
	return visualColumn
}

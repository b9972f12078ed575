package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/willibrandon/eventarb/internal/alerts"
)

var (
	mutedFormat    = color.New(color.FgHiBlack).SprintFunc()
	boldFormat     = color.New(color.FgHiWhite).SprintFunc()
	goodFormat     = color.New(color.FgGreen).SprintFunc()
	warningFormat  = color.New(color.FgHiYellow).SprintFunc()
	criticalFormat = color.New(color.FgHiRed).SprintFunc()
	accentFormat   = color.New(color.FgCyan).SprintFunc()
)

// formatPriority colours a priority name by severity.
func formatPriority(p alerts.Priority) string {
	switch {
	case p >= alerts.PriorityHigh:
		return criticalFormat(p.String())
	case p == alerts.PriorityMid:
		return warningFormat(p.String())
	case p == alerts.PriorityLow:
		return accentFormat(p.String())
	default:
		return mutedFormat(p.String())
	}
}

// formatStatus colours an alert status.
func formatStatus(s alerts.Status) string {
	switch s {
	case alerts.StatusCritical:
		return criticalFormat(string(s))
	case alerts.StatusUserPrompt:
		return warningFormat(string(s))
	default:
		return goodFormat(string(s))
	}
}

// truncate shortens s to width display cells.
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// pad truncates or right-pads s to exactly width display cells.
func pad(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

// alertText joins the two text lines for single-line output.
func alertText(text1, text2 string) string {
	switch {
	case text1 == "":
		return text2
	case text2 == "":
		return text1
	default:
		return fmt.Sprintf("%s | %s", text1, text2)
	}
}

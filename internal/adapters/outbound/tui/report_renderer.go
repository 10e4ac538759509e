// Package tui renders validation reports for the terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/renewalops/renewguard/internal/domain"
)

// ── Claude-inspired warm palette ──
var (
	accent    = lipgloss.Color("#D97706") // amber
	fg        = lipgloss.Color("#E8E6E3") // warm light gray
	dim       = lipgloss.Color("#6B7280") // muted gray
	faint     = lipgloss.Color("#3F3F46") // very dim
	success   = lipgloss.Color("#22C55E") // green
	danger    = lipgloss.Color("#EF4444") // red
	warning   = lipgloss.Color("#F59E0B") // amber-yellow
	info      = lipgloss.Color("#8B949E") // soft blue-gray
	skipColor = lipgloss.Color("#4B5563") // dark gray
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(fg)
	dimStyle   = lipgloss.NewStyle().Foreground(dim)
	faintStyle = lipgloss.NewStyle().Foreground(faint)
	passStyle  = lipgloss.NewStyle().Foreground(success)
	failStyle  = lipgloss.NewStyle().Foreground(danger)
	warnStyle  = lipgloss.NewStyle().Foreground(warning)
	skipStyle  = lipgloss.NewStyle().Foreground(skipColor)
	infoStyle  = lipgloss.NewStyle().Foreground(info)
)

// RenderReport renders a validation report as a styled TUI string.
func RenderReport(opportunityID string, report *domain.Report) string {
	var b strings.Builder

	overallStyle := passStyle
	if report.OverallStatus == domain.OverallIssuesFound {
		overallStyle = failStyle
	}
	header := titleStyle.Render("Renewal Validation") + "\n" +
		dimStyle.Render(opportunityID) + "\n\n" +
		overallStyle.Bold(true).Render(report.OverallStatus)
	b.WriteString(boxStyle.Render(header))
	b.WriteString("\n\n")

	b.WriteString("  " + dimStyle.Render(fmt.Sprintf(
		"Passed: %d | Failed: %d | Warnings: %d | Skipped: %d",
		report.Passed, report.Failed, report.Warnings, report.Skipped,
	)))
	b.WriteString("\n\n")

	for _, check := range report.Checks {
		renderOutcome(&b, check)
	}

	return b.String()
}

func renderOutcome(b *strings.Builder, o domain.Outcome) {
	icon, style := statusGlyph(o.Status)
	fmt.Fprintf(b, "  %s %s %s\n",
		style.Render(icon),
		titleStyle.Render(o.Name),
		style.Render(string(o.Status)),
	)
	fmt.Fprintf(b, "    %s\n", o.Message)

	if o.Details != nil {
		for pair := o.Details.Oldest(); pair != nil; pair = pair.Next() {
			fmt.Fprintf(b, "    %s\n", faintStyle.Render(fmt.Sprintf("%s: %v", pair.Key, pair.Value)))
		}
	}
	b.WriteString("\n")
}

func statusGlyph(s domain.Status) (string, lipgloss.Style) {
	switch s {
	case domain.StatusPass:
		return "●", passStyle
	case domain.StatusFail:
		return "●", failStyle
	case domain.StatusWarning:
		return "●", warnStyle
	case domain.StatusSkip:
		return "○", skipStyle
	default:
		return "●", infoStyle
	}
}

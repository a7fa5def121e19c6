package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cropcast/entities"
	"cropcast/pkg/fault"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ade80")).
			Padding(1, 2)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#86efac"))
	headingStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	yieldStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f8fafc"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	errorStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ef4444")).
			Padding(1, 2)

	confidenceColors = map[string]lipgloss.Color{
		"green":  lipgloss.Color("#22c55e"),
		"yellow": lipgloss.Color("#eab308"),
		"red":    lipgloss.Color("#ef4444"),
	}
)

const barWidth = 30

// Terminal renders a forecast for the CLI.
func Terminal(req *entities.PredictionRequest, p *entities.Prediction) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Yield Forecast"))
	if req != nil {
		b.WriteString(mutedStyle.Render(" · " + req.CropType.String()))
	}
	b.WriteString("\n\n")
	b.WriteString(yieldStyle.Render(FormatYield(p.PredictedYield)) + " " + mutedStyle.Render(p.YieldUnit) + "\n\n")
	b.WriteString(fmt.Sprintf("Confidence %s\n", confidenceBar(p.ConfidenceScore)))

	b.WriteString(headingStyle.Render("Summary") + "\n")
	b.WriteString(p.Summary + "\n")
	b.WriteString(headingStyle.Render("Positive Factors") + "\n")
	b.WriteString(bullets(p.PositiveFactors, "+"))
	b.WriteString(headingStyle.Render("Negative Factors") + "\n")
	b.WriteString(bullets(p.NegativeFactors, "-"))

	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// TerminalError renders a failed forecast.
func TerminalError(err error) string {
	body := titleStyle.Render("Error Generating Forecast") + "\n\n" + fault.UserMessage(err)
	return errorStyle.Render(body)
}

func confidenceBar(score float64) string {
	filled := int(score / 100 * barWidth)
	filled = max(0, min(barWidth, filled))
	style := lipgloss.NewStyle().Foreground(confidenceColors[ConfidenceColor(score)])
	return style.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", barWidth-filled)) +
		fmt.Sprintf(" %g%%", score)
}

func bullets(items []string, mark string) string {
	if len(items) == 0 {
		return mutedStyle.Render("  (none)") + "\n"
	}
	var b strings.Builder
	for _, it := range items {
		b.WriteString("  " + mark + " " + it + "\n")
	}
	return b.String()
}

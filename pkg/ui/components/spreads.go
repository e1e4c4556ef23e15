package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SpreadRow is one ranked arbitrage opportunity.
type SpreadRow struct {
	Timestamp     string
	Pair          string
	BuyExchange   string
	SellExchange  string
	BuyPrice      float64
	SellPrice     float64
	SpreadPercent float64
}

// SpreadsComponent renders the ranked spread table.
type SpreadsComponent struct {
	rows    []SpreadRow
	maxRows int
}

// NewSpreadsComponent creates a new spreads component.
func NewSpreadsComponent(maxRows int) *SpreadsComponent {
	return &SpreadsComponent{maxRows: maxRows}
}

// Set replaces the table with the latest cycle's ranked results.
func (s *SpreadsComponent) Set(rows []SpreadRow) {
	if len(rows) > s.maxRows {
		rows = rows[:s.maxRows]
	}
	s.rows = rows
}

// View renders the spreads component.
func (s *SpreadsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	positiveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("SPREADS"))
	sb.WriteString("\n\n")

	if len(s.rows) == 0 {
		sb.WriteString(dimStyle.Render("  No spreads above the minimum..."))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("  %-9s %-10s %-20s %11s %11s %9s\n",
		"Time", "Pair", "Buy → Sell", "Buy $", "Sell $", "Spread"))
	sb.WriteString(dimStyle.Render("  "+strings.Repeat("─", 74)) + "\n")

	for _, row := range s.rows {
		route := row.BuyExchange + " → " + row.SellExchange
		sb.WriteString(fmt.Sprintf("  %-9s %-10s %-20s %11.2f %11.2f %s\n",
			row.Timestamp,
			row.Pair,
			route,
			row.BuyPrice,
			row.SellPrice,
			positiveStyle.Render(fmt.Sprintf("%8.3f%%", row.SpreadPercent)),
		))
	}

	return strings.TrimRight(sb.String(), "\n")
}

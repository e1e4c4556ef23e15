// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PriceRow is one venue's latest price for one pair.
type PriceRow struct {
	Pair     string
	Exchange string
	Price    float64
	Volume   float64
	Stale    bool
}

// PricesComponent renders the per-venue price table, grouped by pair.
type PricesComponent struct {
	rows []PriceRow
}

// NewPricesComponent creates a new prices component.
func NewPricesComponent() *PricesComponent {
	return &PricesComponent{}
}

// Update replaces the price data with the latest cycle's observations.
func (p *PricesComponent) Update(rows []PriceRow) {
	p.rows = rows
}

// View renders the prices component.
func (p *PricesComponent) View() string {
	if len(p.rows) == 0 {
		return "Waiting for price data..."
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	staleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	byPair := make(map[string][]PriceRow)
	var pairOrder []string
	for _, row := range p.rows {
		if _, ok := byPair[row.Pair]; !ok {
			pairOrder = append(pairOrder, row.Pair)
		}
		byPair[row.Pair] = append(byPair[row.Pair], row)
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("PRICES"))
	sb.WriteString("\n\n")

	for _, pair := range pairOrder {
		rows := byPair[pair]
		sort.Slice(rows, func(i, j int) bool { return rows[i].Exchange < rows[j].Exchange })

		sb.WriteString(fmt.Sprintf("  %s\n", pair))
		sb.WriteString(dimStyle.Render("  "+strings.Repeat("─", 48)) + "\n")
		for _, row := range rows {
			line := fmt.Sprintf("  %-10s  $%12.2f  vol %14.2f", row.Exchange, row.Price, row.Volume)
			if row.Stale {
				line += staleStyle.Render("  stale")
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

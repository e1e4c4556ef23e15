package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// AlertRow is one triggered alert in the feed.
type AlertRow struct {
	ID            string
	Time          string
	Pair          string
	SpreadPercent float64
	NetProfit     float64
	Acknowledged  bool
}

// AlertsComponent renders the alert feed with a selection cursor for
// acknowledging entries.
type AlertsComponent struct {
	rows    []AlertRow
	maxRows int
	cursor  int
}

// NewAlertsComponent creates a new alerts component.
func NewAlertsComponent(maxRows int) *AlertsComponent {
	return &AlertsComponent{maxRows: maxRows}
}

// Add prepends new alerts, newest first, bounded at maxRows.
func (a *AlertsComponent) Add(rows ...AlertRow) {
	a.rows = append(rows, a.rows...)
	if len(a.rows) > a.maxRows {
		a.rows = a.rows[:a.maxRows]
	}
	if a.cursor >= len(a.rows) {
		a.cursor = 0
	}
}

// Clear empties the feed.
func (a *AlertsComponent) Clear() {
	a.rows = nil
	a.cursor = 0
}

// Acknowledge marks the alert with the given id as acknowledged.
func (a *AlertsComponent) Acknowledge(id string) {
	for i := range a.rows {
		if a.rows[i].ID == id {
			a.rows[i].Acknowledged = true
			return
		}
	}
}

// Selected returns the id of the alert under the cursor, or "" when the
// feed is empty.
func (a *AlertsComponent) Selected() string {
	if len(a.rows) == 0 {
		return ""
	}
	return a.rows[a.cursor].ID
}

// CursorUp moves the selection toward newer alerts.
func (a *AlertsComponent) CursorUp() {
	if a.cursor > 0 {
		a.cursor--
	}
}

// CursorDown moves the selection toward older alerts.
func (a *AlertsComponent) CursorDown() {
	if a.cursor < len(a.rows)-1 {
		a.cursor++
	}
}

// View renders the alerts component.
func (a *AlertsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	alertStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	ackedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	profitStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	lossStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("ALERTS (last %d)", a.maxRows)))
	sb.WriteString("\n\n")

	if len(a.rows) == 0 {
		sb.WriteString(ackedStyle.Render("  No alerts triggered yet..."))
		return sb.String()
	}

	for i, row := range a.rows {
		marker := "  "
		if i == a.cursor {
			marker = cursorStyle.Render("> ")
		}

		lineStyle := alertStyle
		flag := "!"
		if row.Acknowledged {
			lineStyle = ackedStyle
			flag = "✓"
		}

		profit := fmt.Sprintf("%+.2f", row.NetProfit)
		profitRendered := profitStyle.Render(profit)
		if row.NetProfit <= 0 {
			profitRendered = lossStyle.Render(profit)
		}

		sb.WriteString(fmt.Sprintf("%s%s %s  %-10s %7.3f%%  est %s\n",
			marker,
			lineStyle.Render(flag),
			row.Time,
			row.Pair,
			row.SpreadPercent,
			profitRendered,
		))
	}

	return strings.TrimRight(sb.String(), "\n")
}

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ConnectionStatus represents one venue's connection state.
type ConnectionStatus struct {
	Name       string
	Connected  bool
	LastUpdate time.Time
}

// StatusComponent renders per-venue connection status.
type StatusComponent struct {
	connections []ConnectionStatus
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{}
}

// Update updates a venue's status, appending unknown venues.
func (s *StatusComponent) Update(status ConnectionStatus) {
	for i, conn := range s.connections {
		if conn.Name == status.Name {
			s.connections[i] = status
			return
		}
	}
	s.connections = append(s.connections, status)
}

// View renders the status component.
func (s *StatusComponent) View() string {
	if len(s.connections) == 0 {
		return "No venues"
	}

	var result string
	for _, conn := range s.connections {
		status := "● connected"
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
		if !conn.Connected {
			status = "○ polling"
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
		}
		result += fmt.Sprintf("├─ %s: %s\n", conn.Name, style.Render(status))
	}
	return result
}

// Package ui provides the Bubble Tea TUI for the spread dashboard.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"spreadwatch/pkg/ui/components"
)

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"   // Initial welcome screen
	PhaseStartup   Phase = "startup"   // Loading/connecting
	PhaseDashboard Phase = "dashboard" // Main dashboard
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// StartupStep represents a step in the startup process.
type StartupStep struct {
	Name   string
	Status string // "pending", "connecting", "connected", "failed"
}

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	prices  *components.PricesComponent
	spreads *components.SpreadsComponent
	alerts  *components.AlertsComponent
	status  *components.StatusComponent
	stats   *components.StatsComponent

	keys KeyMap

	// Phase state
	phase        Phase
	welcomeStart time.Time

	// State
	ready        bool
	quitting     bool
	paused       bool
	width        int
	height       int
	threshold    float64
	soundEnabled bool
	lastUpdate   time.Time
	errors       []ErrorEntry // Persistent error panel (last 3)
	logs         []string

	// Profit preview for the current best spread
	preview *ProfitPreviewMsg

	// Startup state
	startupComplete bool
	startupSteps    map[string]*StartupStep
	startupOrder    []string
	startupTime     time.Time

	// Activity counters
	runStats components.Stats
}

// New creates a new TUI model.
func New() Model {
	now := time.Now()
	return Model{
		prices:       components.NewPricesComponent(),
		spreads:      components.NewSpreadsComponent(10),
		alerts:       components.NewAlertsComponent(50),
		status:       components.NewStatusComponent(),
		stats:        components.NewStatsComponent(),
		keys:         DefaultKeyMap(),
		phase:        PhaseWelcome,
		welcomeStart: now,
		logs:         make([]string, 0, 5),
		errors:       make([]ErrorEntry, 0, 3),
		startupSteps: map[string]*StartupStep{
			"config":   {Name: "Loading configuration", Status: "pending"},
			"binance":  {Name: "Connecting to Binance", Status: "pending"},
			"coinbase": {Name: "Reaching Coinbase", Status: "pending"},
			"kraken":   {Name: "Reaching Kraken", Status: "pending"},
		},
		startupOrder: []string{"config", "binance", "coinbase", "kraken"},
		startupTime:  now,
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Always allow quit
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		// During welcome phase, any other key skips to startup
		if m.phase == PhaseWelcome {
			m.phase = PhaseStartup
			m.startupTime = time.Now()
			// Trigger callback directly (don't use Send() from within Update)
			if OnStartModules != nil {
				go OnStartModules()
			}
			return m, tickCmd()
		}
		switch {
		case key.Matches(msg, m.keys.Clear):
			m.alerts.Clear()
			if OnClearHistory != nil {
				go OnClearHistory()
			}
			return m, nil
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			return m, nil
		case key.Matches(msg, m.keys.Acknowledge):
			id := m.alerts.Selected()
			if id != "" {
				if OnAcknowledge == nil || OnAcknowledge(id) {
					m.alerts.Acknowledge(id)
				}
			}
			return m, nil
		case key.Matches(msg, m.keys.Sound):
			m.soundEnabled = !m.soundEnabled
			if OnToggleSound != nil {
				go OnToggleSound(m.soundEnabled)
			}
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.alerts.CursorUp()
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.alerts.CursorDown()
			return m, nil
		case key.Matches(msg, m.keys.Errors):
			m.errors = make([]ErrorEntry, 0, 3)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		// Check if welcome timeout has elapsed
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.phase = PhaseStartup
			m.startupTime = time.Now()
			if OnStartModules != nil {
				go OnStartModules()
			}
		}
		return m, tickCmd()

	case ObservationsMsg:
		if m.paused {
			return m, nil
		}
		rows := make([]components.PriceRow, 0, len(msg.Observations))
		for _, obs := range msg.Observations {
			rows = append(rows, components.PriceRow{
				Pair:     obs.Pair.Symbol,
				Exchange: string(obs.Exchange),
				Price:    obs.Price,
				Volume:   obs.Volume24h,
				Stale:    obs.IsStale,
			})
		}
		m.prices.Update(rows)
		m.lastUpdate = time.Now()
		if len(rows) > 0 {
			m.startupComplete = true
		}

	case SpreadsMsg:
		if m.paused {
			return m, nil
		}
		rows := make([]components.SpreadRow, 0, len(msg.Spreads))
		for _, s := range msg.Spreads {
			rows = append(rows, components.SpreadRow{
				Timestamp:     s.Timestamp.Format("15:04:05"),
				Pair:          s.Pair.Symbol,
				BuyExchange:   string(s.BuyExchange),
				SellExchange:  string(s.SellExchange),
				BuyPrice:      s.BuyPrice,
				SellPrice:     s.SellPrice,
				SpreadPercent: s.SpreadPercent,
			})
		}
		m.spreads.Set(rows)
		m.runStats.Cycles++
		m.runStats.SpreadsFound += int64(len(rows))
		m.stats.Update(m.runStats)
		m.lastUpdate = time.Now()
		m.startupComplete = true

	case AlertsMsg:
		for _, alert := range msg.Alerts {
			m.alerts.Add(components.AlertRow{
				ID:            alert.ID,
				Time:          alert.TriggeredAt.Format("15:04:05"),
				Pair:          alert.Spread.Pair.Symbol,
				SpreadPercent: alert.Spread.SpreadPercent,
				NetProfit:     alert.EstimatedProfit.NetProfit,
				Acknowledged:  alert.Acknowledged,
			})
		}
		m.runStats.AlertsTriggered += int64(len(msg.Alerts))
		m.stats.Update(m.runStats)
		m.lastUpdate = time.Now()

	case ProfitPreviewMsg:
		preview := msg
		m.preview = &preview

	case ThresholdMsg:
		m.threshold = msg.Threshold

	case SoundMsg:
		m.soundEnabled = msg.Enabled

	case ConnectionStatusMsg:
		m.status.Update(components.ConnectionStatus{
			Name:       msg.Name,
			Connected:  msg.Connected,
			LastUpdate: time.Now(),
		})
		if step, ok := m.startupSteps[strings.ToLower(msg.Name)]; ok {
			if msg.Connected {
				step.Status = "connected"
			} else {
				step.Status = "connecting"
			}
		}
		if m.startupSteps["config"] != nil {
			m.startupSteps["config"].Status = "done"
		}

	case ErrorMsg:
		m.runStats.Errors++
		m.stats.Update(m.runStats)
		m.logs = addLog(m.logs, "error", msg.Error.Error())
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)

	case StartupMsg:
		if step, ok := m.startupSteps[msg.Step]; ok {
			step.Status = msg.Status
		}
		allDone := true
		for _, step := range m.startupSteps {
			if step.Status != "connected" && step.Status != "done" {
				allDone = false
				break
			}
		}
		if allDone {
			m.startupComplete = true
		}
	}

	return m, nil
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	logs = append(logs, fmt.Sprintf("[%s] %s: %s", timestamp, level, message))
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		if !m.startupComplete {
			return m.renderStartupScreen()
		}
		m.phase = PhaseDashboard
		fallthrough
	case PhaseDashboard:
		// Continue to main dashboard
	}

	var b strings.Builder

	title := TitleStyle.Render(" 📈 Spreadwatch ")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	// Left column: prices + profit preview. Right column: spreads + alerts.
	var leftContent strings.Builder
	leftContent.WriteString(m.prices.View())
	leftContent.WriteString("\n\n")
	leftContent.WriteString(m.renderProfitPreview())
	leftCol := leftContent.String()

	var rightContent strings.Builder
	rightContent.WriteString(m.spreads.View())
	rightContent.WriteString("\n\n")
	rightContent.WriteString(m.alerts.View())
	rightCol := rightContent.String()

	if m.width > 100 {
		left := BoxStyle.Width(m.width/2 - 2).Render(leftCol)
		right := BoxStyle.Width(m.width/2 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(BoxStyle.Width(m.width - 4).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(m.width - 4).Render(rightCol))
	}

	b.WriteString("\n\n")
	b.WriteString(m.stats.View())
	b.WriteString("\n\n")

	// Persistent error panel (show last 3 errors)
	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(MutedValue.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(MutedValue.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	helpText := "q: quit • a: acknowledge • c: clear • p: pause • s: sound • ↑↓: select"
	if m.paused {
		pauseStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
		b.WriteString(pauseStyle.Render("⏸ PAUSED"))
		b.WriteString(" • ")
	}
	b.WriteString(HelpStyle.Render(helpText))

	return b.String()
}

// renderProfitPreview renders the simulation for the current best spread.
func (m Model) renderProfitPreview() string {
	dimStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render("PROFIT SIMULATION"))
	sb.WriteString("\n\n")

	if m.preview == nil {
		sb.WriteString(dimStyle.Render("  Waiting for a spread to simulate..."))
		return sb.String()
	}

	p := m.preview
	sb.WriteString(fmt.Sprintf("  Best spread: %s, %.4g units\n", p.Pair, p.TradeAmount))
	sb.WriteString(fmt.Sprintf("  Gross profit:  %s\n", MutedValue.Render(fmt.Sprintf("$%.2f", p.GrossProfit))))
	sb.WriteString(fmt.Sprintf("  Total fees:    %s\n", NegativeValue.Render(fmt.Sprintf("-$%.2f", p.TotalFees))))

	if p.IsProfitable {
		sb.WriteString(fmt.Sprintf("  Net profit:    %s\n", PositiveValue.Render(fmt.Sprintf("+$%.2f", p.NetProfit))))
	} else {
		sb.WriteString(fmt.Sprintf("  Net profit:    %s\n", NegativeValue.Render(fmt.Sprintf("$%.2f", p.NetProfit))))
	}
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  Break-even spread: %.3f%%", p.BreakEvenSpread)))

	return sb.String()
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	goldStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	greenStyle := lipgloss.NewStyle().Foreground(ColorSuccess)

	// Animated dots based on time
	elapsed := time.Since(m.welcomeStart)
	dotCount := int(elapsed.Milliseconds()/300) % 4
	dots := strings.Repeat(".", dotCount)

	var sb strings.Builder
	sb.WriteString("\n\n\n\n")

	logo := `
   ███████╗██████╗ ██████╗ ███████╗ █████╗ ██████╗
   ██╔════╝██╔══██╗██╔══██╗██╔════╝██╔══██╗██╔══██╗
   ███████╗██████╔╝██████╔╝█████╗  ███████║██║  ██║
   ╚════██║██╔═══╝ ██╔══██╗██╔══╝  ██╔══██║██║  ██║
   ███████║██║     ██║  ██║███████╗██║  ██║██████╔╝
   ╚══════╝╚═╝     ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═════╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")

	subtitle := "            W A T C H   T H E   S P R E A D"
	sb.WriteString(mutedStyle.Render(subtitle))
	sb.WriteString("\n\n\n")

	tagline := "         💰  Cross-exchange arbitrage radar  💰"
	sb.WriteString(goldStyle.Render(tagline))
	sb.WriteString("\n\n\n")

	loading := fmt.Sprintf("                  Initializing%s", dots)
	sb.WriteString(greenStyle.Render(loading))
	sb.WriteString("\n\n")

	hint := "            Press any key to skip, or wait..."
	sb.WriteString(mutedStyle.Render(hint))
	sb.WriteString("\n")

	return sb.String()
}

// renderStartupScreen renders the loading/startup screen.
func (m Model) renderStartupScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).MarginBottom(1)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	successStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	connectingStyle := lipgloss.NewStyle().Foreground(ColorWarning)
	failedStyle := lipgloss.NewStyle().Foreground(ColorDanger)

	var sb strings.Builder

	sb.WriteString("\n\n")
	sb.WriteString(titleStyle.Render("  📈 Spreadwatch"))
	sb.WriteString("\n\n")
	sb.WriteString(headerStyle.Render("  Starting up..."))
	sb.WriteString("\n\n")

	for _, keyName := range m.startupOrder {
		step, ok := m.startupSteps[keyName]
		if !ok {
			continue
		}

		var icon, statusText string
		var style lipgloss.Style

		switch step.Status {
		case "connected", "done":
			icon = "✓"
			statusText = "Ready"
			style = successStyle
		case "connecting":
			// Animated spinner based on time
			spinners := []string{"◐", "◓", "◑", "◒"}
			idx := int(time.Since(m.startupTime).Milliseconds()/200) % len(spinners)
			icon = spinners[idx]
			statusText = "Connecting..."
			style = connectingStyle
		case "failed":
			icon = "✗"
			statusText = "Failed"
			style = failedStyle
		default:
			icon = "○"
			statusText = "Pending"
			style = mutedStyle
		}

		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			style.Render(icon),
			mutedStyle.Render(step.Name),
			style.Render(statusText),
		))
	}

	sb.WriteString("\n")
	elapsed := time.Since(m.startupTime).Round(time.Second)
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  Elapsed: %s", elapsed)))
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("  Waiting for the first price snapshot..."))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	if m.threshold > 0 {
		parts = append(parts, fmt.Sprintf("Threshold: %.2f%%", m.threshold))
	}

	sound := "off"
	if m.soundEnabled {
		sound = "on"
	}
	parts = append(parts, "Sound: "+sound)

	if m.runStats.Cycles > 0 {
		scanStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
		parts = append(parts, scanStyle.Render(fmt.Sprintf("Cycles: %d", m.runStats.Cycles)))
	}

	if status := m.status.View(); status != "No venues" {
		parts = append(parts, strings.ReplaceAll(strings.TrimRight(status, "\n"), "\n", "  "))
	}

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		indicator := ""
		if ago < 2*time.Second {
			indicator = "▪"
		}
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago %s", ago, indicator)))
	}

	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and modules
// should start. Set by main before Run.
var OnStartModules func()

// OnAcknowledge is called when the user acknowledges the selected alert.
// It returns whether the alert was found.
var OnAcknowledge func(id string) bool

// OnToggleSound is called when the user toggles the sound setting.
var OnToggleSound func(enabled bool)

// OnClearHistory is called when the user clears the alert feed.
var OnClearHistory func()

// Run starts the Bubble Tea program.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
	// Call OnStartModules callback when StartModulesMsg is sent
	if _, ok := msg.(StartModulesMsg); ok && OnStartModules != nil {
		OnStartModules()
	}
}

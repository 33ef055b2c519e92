// Package tui renders a live view of a running scan for the watch
// command. The model drives its own polling through tea commands; the
// terminal status (or error) is available from the final model once the
// program exits.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/probegate/probegate/internal/models"
)

// StatusFetcher fetches the current status snapshot for a scan.
type StatusFetcher interface {
	Status(scanID string) (*models.ScanStatus, error)
}

// statusMsg carries a fetched snapshot into the update loop.
type statusMsg struct {
	status *models.ScanStatus
}

// fetchErrMsg carries a fetch failure; it ends the program.
type fetchErrMsg struct {
	err error
}

// pollTickMsg fires when the inter-poll delay has elapsed.
type pollTickMsg struct{}

// Model is the Bubble Tea model for the watch view.
type Model struct {
	fetcher  StatusFetcher
	scanID   string
	interval time.Duration

	spinner   spinner.Model
	current   *models.ScanStatus
	polls     int
	started   time.Time
	quitting  bool
	cancelled bool

	// Err holds a fetch or remote failure once the program ends.
	Err error
}

// New creates a watch model for the given scan.
func New(fetcher StatusFetcher, scanID string, interval time.Duration) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return Model{
		fetcher:  fetcher,
		scanID:   scanID,
		interval: interval,
		spinner:  s,
		started:  time.Now(),
	}
}

// Final returns the last observed status snapshot, which is the
// terminal record when the program ended normally.
func (m Model) Final() *models.ScanStatus {
	return m.current
}

// Cancelled reports whether the user quit before the scan finished.
func (m Model) Cancelled() bool {
	return m.cancelled
}

// Init starts the spinner and the first poll.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

// fetch returns a command that queries the scan status once.
func (m Model) fetch() tea.Cmd {
	return func() tea.Msg {
		st, err := m.fetcher.Status(m.scanID)
		if err != nil {
			return fetchErrMsg{err: err}
		}
		return statusMsg{status: st}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			if m.current == nil || !m.current.Status.IsTerminal() {
				m.cancelled = true
			}
			return m, tea.Quit
		}
		return m, nil

	case statusMsg:
		m.current = msg.status
		m.polls++
		if msg.status.Status.IsTerminal() {
			m.quitting = true
			return m, tea.Quit
		}
		return m, tea.Tick(m.interval, func(time.Time) tea.Msg {
			return pollTickMsg{}
		})

	case pollTickMsg:
		return m, m.fetch()

	case fetchErrMsg:
		m.Err = msg.err
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the watch screen.
func (m Model) View() string {
	var b strings.Builder

	if m.current == nil {
		b.WriteString(styleHeader.Render("probegate watch"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("%s waiting for first status of scan %s...\n", m.spinner.View(), m.scanID))
		return b.String()
	}

	title := fmt.Sprintf("probegate watch - %s", m.current.Label)
	b.WriteString(styleHeader.Render(title))
	b.WriteString("\n\n")

	status := statusStyle(m.current.Status).Render(strings.ToUpper(string(m.current.Status)))
	if m.current.Status.IsTerminal() {
		b.WriteString(fmt.Sprintf("  Status:  %s\n", status))
	} else {
		b.WriteString(fmt.Sprintf("  Status:  %s %s\n", m.spinner.View(), status))
	}
	b.WriteString(fmt.Sprintf("  Scan:    %s\n", m.current.ScanID))
	b.WriteString(fmt.Sprintf("  Elapsed: %s   Polls: %d\n", time.Since(m.started).Round(time.Second), m.polls))

	if m.current.IssuesCount > 0 || m.current.Status == models.StatusCompleted {
		b.WriteString(fmt.Sprintf("  Issues:  %d", m.current.IssuesCount))
		if parts := severityParts(m.current); parts != "" {
			b.WriteString("  (" + parts + ")")
		}
		b.WriteString("\n")
	}

	if m.current.ErrorMessage != "" {
		b.WriteString(fmt.Sprintf("  Error:   %s\n", m.current.ErrorMessage))
	}

	if !m.quitting {
		b.WriteString("\n")
		b.WriteString(styleFooter.Render("q to quit - the scan keeps running remotely"))
		b.WriteString("\n")
	}

	return b.String()
}

// severityParts renders the non-zero per-severity counts inline, most
// severe first.
func severityParts(st *models.ScanStatus) string {
	if st.IssueCountsBySeverity == nil {
		return ""
	}
	parts := make([]string, 0, len(models.SeverityOrder))
	for _, sev := range models.SeverityOrder {
		if count := st.IssueCountsBySeverity[sev]; count > 0 {
			label := fmt.Sprintf("%s:%d", strings.ToUpper(string(sev[0])), count)
			parts = append(parts, severityStyle(sev).Render(label))
		}
	}
	return strings.Join(parts, " ")
}

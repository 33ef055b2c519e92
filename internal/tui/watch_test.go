package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/probegate/probegate/internal/models"
)

type stubFetcher struct {
	status *models.ScanStatus
	err    error
}

func (s *stubFetcher) Status(scanID string) (*models.ScanStatus, error) {
	return s.status, s.err
}

func runningStatus() *models.ScanStatus {
	return &models.ScanStatus{ScanID: "s1", Label: "web-app", Status: models.StatusRunning}
}

func TestUpdateStatusMsgNonTerminalSchedulesPoll(t *testing.T) {
	m := New(&stubFetcher{}, "s1", time.Second)

	next, cmd := m.Update(statusMsg{status: runningStatus()})
	model := next.(Model)

	if model.Final() == nil || model.Final().Status != models.StatusRunning {
		t.Errorf("current = %+v", model.Final())
	}
	if cmd == nil {
		t.Error("non-terminal status should schedule the next poll")
	}
}

func TestUpdateStatusMsgTerminalQuits(t *testing.T) {
	m := New(&stubFetcher{}, "s1", time.Second)
	completed := &models.ScanStatus{ScanID: "s1", Label: "web-app", Status: models.StatusCompleted}

	next, cmd := m.Update(statusMsg{status: completed})
	model := next.(Model)

	if cmd == nil {
		t.Fatal("terminal status should produce a quit command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("expected quit, got %T", msg)
	}
	if model.Cancelled() {
		t.Error("terminal exit is not a cancellation")
	}
}

func TestUpdateFetchError(t *testing.T) {
	m := New(&stubFetcher{}, "s1", time.Second)
	boom := errors.New("connection refused")

	next, cmd := m.Update(fetchErrMsg{err: boom})
	model := next.(Model)

	if !errors.Is(model.Err, boom) {
		t.Errorf("Err = %v", model.Err)
	}
	if cmd == nil {
		t.Error("fetch error should quit")
	}
}

func TestUpdateQuitKeyCancels(t *testing.T) {
	m := New(&stubFetcher{}, "s1", time.Second)
	next, _ := m.Update(statusMsg{status: runningStatus()})

	next, cmd := next.(Model).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	model := next.(Model)

	if !model.Cancelled() {
		t.Error("quitting mid-scan should count as cancelled")
	}
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestViewBeforeFirstStatus(t *testing.T) {
	m := New(&stubFetcher{}, "s1", time.Second)
	view := m.View()
	if !strings.Contains(view, "s1") {
		t.Errorf("view should name the scan id:\n%s", view)
	}
}

func TestViewShowsStatusAndIssues(t *testing.T) {
	m := New(&stubFetcher{}, "s1", time.Second)
	st := &models.ScanStatus{
		ScanID:      "s1",
		Label:       "web-app",
		Status:      models.StatusCompleted,
		IssuesCount: 3,
		IssueCountsBySeverity: map[models.Severity]int{
			models.SeverityHigh: 3,
		},
	}
	next, _ := m.Update(statusMsg{status: st})
	view := next.(Model).View()

	for _, want := range []string{"web-app", "COMPLETED", "3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestFetchCommandDeliversStatus(t *testing.T) {
	f := &stubFetcher{status: runningStatus()}
	m := New(f, "s1", time.Second)

	msg := m.fetch()()
	sm, ok := msg.(statusMsg)
	if !ok {
		t.Fatalf("expected statusMsg, got %T", msg)
	}
	if sm.status.Status != models.StatusRunning {
		t.Errorf("status = %s", sm.status.Status)
	}
}

func TestFetchCommandDeliversError(t *testing.T) {
	f := &stubFetcher{err: errors.New("nope")}
	m := New(f, "s1", time.Second)

	msg := m.fetch()()
	if _, ok := msg.(fetchErrMsg); !ok {
		t.Fatalf("expected fetchErrMsg, got %T", msg)
	}
}

package models

import "time"

// Status is the lifecycle state of a remote scan. Transitions are owned
// entirely by the scanning service; clients only observe.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusPaused    Status = "paused"
)

// IsTerminal reports whether the scan has reached a state it will not
// leave. Paused counts: an operator has to intervene remotely, so there
// is nothing left to wait for.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusPaused:
		return true
	}
	return false
}

// IsValid reports whether s is one of the known lifecycle states.
func (s Status) IsValid() bool {
	switch s {
	case StatusQueued, StatusRunning, StatusCompleted, StatusFailed, StatusPaused:
		return true
	}
	return false
}

// ScanLevel selects how deep the remote scan goes.
type ScanLevel string

const (
	ScanLevelPriority ScanLevel = "priority"
	ScanLevelFull     ScanLevel = "full"
)

// IsValid reports whether l is a supported scan level.
func (l ScanLevel) IsValid() bool {
	return l == ScanLevelPriority || l == ScanLevelFull
}

// DispatchResult is the minimal identity returned when a scan is created.
// It exists purely to key subsequent status polls.
type DispatchResult struct {
	ScanID string `json:"scanId"`
	Label  string `json:"label"`
}

// ScanStatus is a point-in-time snapshot of a remote scan as reported by
// the scanning service. All fields are remote-authoritative.
type ScanStatus struct {
	ScanID       string     `json:"scanId"`
	Label        string     `json:"label"`
	Status       Status     `json:"status"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`

	// IssuesCount is the unfiltered total; meaningful once Status is
	// completed.
	IssuesCount int `json:"issuesCount"`

	// IssueCountsBySeverity maps severity level to count. Absent keys
	// mean zero. The map itself may be absent on older API versions.
	IssueCountsBySeverity map[Severity]int `json:"issueCountsBySeverity,omitempty"`

	// ReportReady indicates a downstream report artifact exists.
	ReportReady bool `json:"reportReady"`
}

// SeverityCount returns the count for a single severity level, treating
// an absent map or key as zero.
func (s *ScanStatus) SeverityCount(sev Severity) int {
	if s.IssueCountsBySeverity == nil {
		return 0
	}
	return s.IssueCountsBySeverity[sev]
}

package reporter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/probegate/probegate/internal/models"
)

func TestJSONReporterIncludesGateDecision(t *testing.T) {
	status := &models.ScanStatus{
		ScanID:      "s1",
		Label:       "web-app",
		Status:      models.StatusCompleted,
		IssuesCount: 6,
		IssueCountsBySeverity: map[models.Severity]int{
			models.SeverityCritical: 1,
			models.SeverityHigh:     2,
			models.SeverityMedium:   3,
		},
	}

	var buf bytes.Buffer
	r := NewJSONReporter(&buf, true)
	if err := r.Generate(status, models.SeverityHigh); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded["scanId"] != "s1" {
		t.Errorf("scanId = %v", decoded["scanId"])
	}
	if decoded["threshold"] != "high" {
		t.Errorf("threshold = %v", decoded["threshold"])
	}
	if decoded["blockingCount"] != float64(3) {
		t.Errorf("blockingCount = %v, want 3", decoded["blockingCount"])
	}
	if decoded["issuesCount"] != float64(6) {
		t.Errorf("issuesCount = %v, want unfiltered total", decoded["issuesCount"])
	}
}

func TestJSONReporterCompact(t *testing.T) {
	status := &models.ScanStatus{ScanID: "s1", Label: "L", Status: models.StatusQueued}

	var buf bytes.Buffer
	r := NewJSONReporter(&buf, false)
	if err := r.Generate(status, models.SeverityCritical); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bytes.Count(buf.Bytes(), []byte("\n")) != 1 {
		t.Errorf("compact output should be a single line, got %q", buf.String())
	}
}

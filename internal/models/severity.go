package models

import (
	"fmt"
	"strings"
)

// Severity is an issue severity level.
type Severity string

// Severity levels for issues
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// SeverityOrder lists all levels from most to least severe. A threshold
// level partitions this sequence into blocking (the threshold and
// everything above it) and non-blocking (everything below).
var SeverityOrder = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityInfo,
}

// DefaultSeverityThreshold is the strictest threshold. Malformed
// threshold configuration degrades here so a CI run never silently
// loosens its gate.
const DefaultSeverityThreshold = SeverityCritical

// ParseSeverity parses a severity level case-insensitively. Unknown
// values return an error listing the valid levels so callers can
// warn-and-default rather than abort.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SeverityOrder {
		if sev == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown severity %q (valid: %s)", s, SeverityNames())
}

// SeverityNames returns the valid levels joined for display, most
// severe first.
func SeverityNames() string {
	names := make([]string, len(SeverityOrder))
	for i, sev := range SeverityOrder {
		names[i] = string(sev)
	}
	return strings.Join(names, ", ")
}

// CountAtOrAbove sums the issue counts at the threshold level and every
// level more severe than it. A nil breakdown yields 0 for any threshold:
// absence of per-severity data is not an error, it degrades to "nothing
// found at or above threshold". Callers that need to distinguish that
// from "definitely zero issues" should also look at the aggregate total.
func CountAtOrAbove(breakdown map[Severity]int, threshold Severity) int {
	if breakdown == nil {
		return 0
	}

	total := 0
	for _, sev := range SeverityOrder {
		total += breakdown[sev]
		if sev == threshold {
			return total
		}
	}

	// Unknown threshold: nothing can sit at or above it.
	return 0
}

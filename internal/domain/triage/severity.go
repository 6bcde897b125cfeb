// Package triage evaluates canonical symptom sets against priority-tiered
// rule tables and produces an urgency classification with human-readable
// reasoning.
package triage

import "fmt"

// Severity is an urgency tier in strict descending priority.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// ParseSeverity validates a severity string received from a caller.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return Severity(s), nil
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

// DispatchRequired reports whether the tier mandates immediate resource
// allocation.
func (s Severity) DispatchRequired() bool {
	return s == SeverityCritical || s == SeverityHigh
}

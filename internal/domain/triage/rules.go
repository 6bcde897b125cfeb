package triage

import "github.com/resculens/resculens/internal/domain/symptom"

// Rule matches when its whole pattern is present in the incident's symptom
// set. Rules within a tier are independent; every matching rule in the
// winning tier contributes its reason.
type Rule struct {
	Pattern []string
	Reason  string
}

// A single high-signal symptom is enough to trip its tier even without
// corroborating symptoms.
var (
	criticalRules = []Rule{
		{
			Pattern: []string{symptom.ChestPain, symptom.Dyspnea},
			Reason:  "Chest pain with breathing difficulty indicates possible cardiac event",
		},
		{
			Pattern: []string{symptom.Unconsciousness},
			Reason:  "Loss of consciousness detected",
		},
		{
			Pattern: []string{symptom.Seizure},
			Reason:  "Active seizure symptoms detected",
		},
	}

	highRules = []Rule{
		{
			Pattern: []string{symptom.ChestPain},
			Reason:  "Chest pain requires urgent evaluation",
		},
		{
			Pattern: []string{symptom.Dyspnea},
			Reason:  "Breathing difficulty detected",
		},
		{
			Pattern: []string{symptom.Diaphoresis, symptom.Dizziness},
			Reason:  "Possible circulatory compromise",
		},
	}

	mediumRules = []Rule{
		{
			Pattern: []string{symptom.Dizziness},
			Reason:  "Neurological symptom detected",
		},
	}
)

// DefaultReason is returned when no rule in any tier matches.
const DefaultReason = "No emergency symptom patterns detected"

// tiers returns the rule tables in evaluation order.
func tiers() []struct {
	Severity Severity
	Rules    []Rule
} {
	return []struct {
		Severity Severity
		Rules    []Rule
	}{
		{SeverityCritical, criticalRules},
		{SeverityHigh, highRules},
		{SeverityMedium, mediumRules},
	}
}

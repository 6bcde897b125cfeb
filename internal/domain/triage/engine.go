package triage

// Result is the outcome of classifying one symptom set.
type Result struct {
	Urgency          Severity `json:"urgency"`
	DispatchRequired bool     `json:"dispatch_required"`
	Reasoning        []string `json:"reasoning"`
}

// Classify evaluates symptom tags against the tiered rule tables. Tiers are
// checked in priority order and evaluation stops at the first tier with at
// least one match; all matching rules in that tier contribute their reasons
// in definition order. Classify is total: any input, including the empty
// set, yields a result with non-empty reasoning.
func Classify(symptoms []string) Result {
	present := make(map[string]struct{}, len(symptoms))
	for _, s := range symptoms {
		present[s] = struct{}{}
	}

	for _, tier := range tiers() {
		reasons := matchReasons(present, tier.Rules)
		if len(reasons) > 0 {
			return Result{
				Urgency:          tier.Severity,
				DispatchRequired: tier.Severity.DispatchRequired(),
				Reasoning:        reasons,
			}
		}
	}

	return Result{
		Urgency:          SeverityLow,
		DispatchRequired: false,
		Reasoning:        []string{DefaultReason},
	}
}

func matchReasons(present map[string]struct{}, rules []Rule) []string {
	var reasons []string
	for _, rule := range rules {
		if subset(rule.Pattern, present) {
			reasons = append(reasons, rule.Reason)
		}
	}
	return reasons
}

func subset(pattern []string, present map[string]struct{}) bool {
	for _, tag := range pattern {
		if _, ok := present[tag]; !ok {
			return false
		}
	}
	return true
}

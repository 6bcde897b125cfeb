package triage

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		symptoms      []string
		wantUrgency   Severity
		wantDispatch  bool
		wantReasoning []string
	}{
		{
			name:          "cardiac pair is critical",
			symptoms:      []string{"chest_pain", "dyspnea"},
			wantUrgency:   SeverityCritical,
			wantDispatch:  true,
			wantReasoning: []string{"Chest pain with breathing difficulty indicates possible cardiac event"},
		},
		{
			name:          "lone chest pain is high",
			symptoms:      []string{"chest_pain"},
			wantUrgency:   SeverityHigh,
			wantDispatch:  true,
			wantReasoning: []string{"Chest pain requires urgent evaluation"},
		},
		{
			name:          "circulatory compromise pair",
			symptoms:      []string{"diaphoresis", "dizziness"},
			wantUrgency:   SeverityHigh,
			wantDispatch:  true,
			wantReasoning: []string{"Possible circulatory compromise"},
		},
		{
			name:          "dizziness alone is medium",
			symptoms:      []string{"dizziness"},
			wantUrgency:   SeverityMedium,
			wantDispatch:  false,
			wantReasoning: []string{"Neurological symptom detected"},
		},
		{
			name:          "empty set falls through to low",
			symptoms:      nil,
			wantUrgency:   SeverityLow,
			wantDispatch:  false,
			wantReasoning: []string{DefaultReason},
		},
		{
			name:          "unknown tags fall through to low",
			symptoms:      []string{"sore_elbow"},
			wantUrgency:   SeverityLow,
			wantDispatch:  false,
			wantReasoning: []string{DefaultReason},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.symptoms)
			if got.Urgency != tc.wantUrgency {
				t.Errorf("urgency: expected %s, got %s", tc.wantUrgency, got.Urgency)
			}
			if got.DispatchRequired != tc.wantDispatch {
				t.Errorf("dispatch_required: expected %v, got %v", tc.wantDispatch, got.DispatchRequired)
			}
			if !reflect.DeepEqual(got.Reasoning, tc.wantReasoning) {
				t.Errorf("reasoning: expected %v, got %v", tc.wantReasoning, got.Reasoning)
			}
		})
	}
}

func TestClassify_CriticalWinsOverHigh(t *testing.T) {
	// Satisfies both a CRITICAL rule (seizure) and two HIGH rules; evaluation
	// must short-circuit at CRITICAL and carry only CRITICAL reasons.
	got := Classify([]string{"chest_pain", "dyspnea", "seizure"})
	if got.Urgency != SeverityCritical {
		t.Fatalf("expected CRITICAL, got %s", got.Urgency)
	}
	want := []string{
		"Chest pain with breathing difficulty indicates possible cardiac event",
		"Active seizure symptoms detected",
	}
	if !reflect.DeepEqual(got.Reasoning, want) {
		t.Errorf("expected reasons %v, got %v", want, got.Reasoning)
	}
}

func TestClassify_UnrelatedSymptomsDoNotMask(t *testing.T) {
	got := Classify([]string{"dizziness", "unconsciousness", "diaphoresis"})
	if got.Urgency != SeverityCritical {
		t.Errorf("expected CRITICAL regardless of extra symptoms, got %s", got.Urgency)
	}
}

func TestClassify_MultipleMatchesInTierKeepOrder(t *testing.T) {
	// chest_pain matches the first HIGH rule and the diaphoresis+dizziness
	// pair matches the third; both reasons surface, in definition order.
	got := Classify([]string{"chest_pain", "diaphoresis", "dizziness"})
	if got.Urgency != SeverityHigh {
		t.Fatalf("expected HIGH, got %s", got.Urgency)
	}
	want := []string{
		"Chest pain requires urgent evaluation",
		"Possible circulatory compromise",
	}
	if !reflect.DeepEqual(got.Reasoning, want) {
		t.Errorf("expected reasons %v, got %v", want, got.Reasoning)
	}
}

func TestParseSeverity(t *testing.T) {
	if _, err := ParseSeverity("CRITICAL"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseSeverity("bogus"); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestDispatchRequired(t *testing.T) {
	if !SeverityCritical.DispatchRequired() || !SeverityHigh.DispatchRequired() {
		t.Error("CRITICAL and HIGH must require dispatch")
	}
	if SeverityMedium.DispatchRequired() || SeverityLow.DispatchRequired() {
		t.Error("MEDIUM and LOW must not require dispatch")
	}
}

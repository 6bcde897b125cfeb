// Package symptom canonicalizes noisy extracted symptom phrases into a
// fixed vocabulary of snake_case symptom tags. Matching is substring-based
// and intentionally permissive: a false positive raises urgency rather than
// lowering it.
package symptom

// Canonical symptom tags. The set is closed; triage rules reference these
// values only.
const (
	ChestPain       = "chest_pain"
	Dyspnea         = "dyspnea"
	Diaphoresis     = "diaphoresis"
	Dizziness       = "dizziness"
	Unconsciousness = "unconsciousness"
	Seizure         = "seizure"
)

// catalogEntry pairs a canonical tag with the lowercase phrases that map to it.
type catalogEntry struct {
	Tag     string
	Phrases []string
}

// Catalog is the phrase dictionary used for canonicalization. Entry order is
// fixed so a single entity's match scan is deterministic.
type Catalog struct {
	entries []catalogEntry
}

// DefaultCatalog returns the built-in phrase dictionary. It is loaded once at
// startup and never mutated afterwards.
func DefaultCatalog() *Catalog {
	return &Catalog{entries: []catalogEntry{
		{Tag: ChestPain, Phrases: []string{"chest pain", "chest tightness", "pressure in chest"}},
		{Tag: Dyspnea, Phrases: []string{"shortness of breath", "difficulty breathing", "breathing difficulty", "shortness"}},
		{Tag: Diaphoresis, Phrases: []string{"sweating", "excessive sweating", "cold sweat"}},
		{Tag: Dizziness, Phrases: []string{"dizziness", "lightheaded", "lightheadedness"}},
		{Tag: Unconsciousness, Phrases: []string{"unconscious", "passed out", "not responding"}},
		{Tag: Seizure, Phrases: []string{"seizure", "convulsions", "fits"}},
	}}
}

// Tags returns the canonical tags in catalog order.
func (c *Catalog) Tags() []string {
	tags := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		tags = append(tags, e.Tag)
	}
	return tags
}

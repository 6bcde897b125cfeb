package symptom

import (
	"sort"
	"strings"
)

// Entity is a single extracted span from free text, as produced by an
// upstream entity extractor.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Match records one canonicalization decision for the audit trail.
type Match struct {
	Original   string `json:"original"`
	Normalized string `json:"normalized"`
}

// Normalize maps extracted entities onto canonical symptom tags. Each
// entity's text is lowercased and every catalog phrase is tested as a
// substring. The returned tag list is sorted and deduplicated so callers see
// an order-independent symptom set; matches preserve scan order for auditing.
//
// Normalize never fails: entities that match nothing are dropped.
func (c *Catalog) Normalize(entities []Entity) ([]string, []Match) {
	seen := make(map[string]struct{})
	var matches []Match

	for _, ent := range entities {
		text := strings.ToLower(ent.Text)
		for _, e := range c.entries {
			for _, phrase := range e.Phrases {
				if strings.Contains(text, phrase) {
					seen[e.Tag] = struct{}{}
					matches = append(matches, Match{Original: ent.Text, Normalized: e.Tag})
				}
			}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, matches
}

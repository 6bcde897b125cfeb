package symptom

import (
	"context"
	"strings"
)

// Extractor produces candidate entities from a raw transcript. The real
// deployment plugs in a clinical NER service here; the engine only depends
// on this interface.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]Entity, error)
}

// KeywordExtractor is the default Extractor. It scans the transcript for the
// catalog's known phrases and emits one entity per distinct phrase found.
// Good enough for simulation and for deployments without an NER backend.
type KeywordExtractor struct {
	catalog *Catalog
}

func NewKeywordExtractor(catalog *Catalog) *KeywordExtractor {
	return &KeywordExtractor{catalog: catalog}
}

func (k *KeywordExtractor) Extract(_ context.Context, text string) ([]Entity, error) {
	lower := strings.ToLower(text)
	var entities []Entity
	seen := make(map[string]struct{})

	for _, e := range k.catalog.entries {
		for _, phrase := range e.Phrases {
			if _, ok := seen[phrase]; ok {
				continue
			}
			if strings.Contains(lower, phrase) {
				seen[phrase] = struct{}{}
				entities = append(entities, Entity{Text: phrase, Label: "SYMPTOM"})
			}
		}
	}
	return entities, nil
}

package corpus

import (
	"encoding/json"
	"fmt"
	"os"

	"phonotaxis/internal/model"
)

// Document is the on-disk JSON shape of a corpus. Feature bits may be written
// as booleans or as 0/1 numbers; both decode to the same vector.
type Document struct {
	Name    string           `json:"name,omitempty"`
	Records []DocumentRecord `json:"records"`
}

type DocumentRecord struct {
	Syllable  string     `json:"syllable"`
	Features  FeatureRow `json:"features"`
	Frequency int        `json:"frequency"`
}

// FeatureRow decodes a JSON feature vector of booleans or 0/1 numbers.
type FeatureRow []bool

func (f *FeatureRow) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	bits := make([]bool, 0, len(raw))
	for i, value := range raw {
		switch v := value.(type) {
		case bool:
			bits = append(bits, v)
		case float64:
			switch v {
			case 0:
				bits = append(bits, false)
			case 1:
				bits = append(bits, true)
			default:
				return fmt.Errorf("feature %d: numeric bit must be 0 or 1, got %v", i, v)
			}
		default:
			return fmt.Errorf("feature %d: unsupported bit value %v", i, value)
		}
	}
	*f = bits
	return nil
}

func (f FeatureRow) MarshalJSON() ([]byte, error) {
	return json.Marshal([]bool(f))
}

// Parse decodes a corpus document and builds a validated Corpus from it.
func Parse(data []byte) (*Corpus, Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, Document{}, fmt.Errorf("parse corpus document: %w", err)
	}

	records := make([]model.CorpusRecord, 0, len(doc.Records))
	for _, r := range doc.Records {
		records = append(records, model.CorpusRecord{
			Syllable:  r.Syllable,
			Features:  []bool(r.Features),
			Frequency: r.Frequency,
		})
	}

	c, err := New(records)
	if err != nil {
		return nil, Document{}, err
	}
	return c, doc, nil
}

// LoadFile reads and parses a corpus document from disk.
func LoadFile(path string) (*Corpus, Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Document{}, err
	}
	return Parse(data)
}

// FromRecords builds a Corpus from already-persisted records, e.g. rows
// loaded back out of a store.
func FromRecords(records []model.CorpusRecord) (*Corpus, error) {
	return New(records)
}

// Package corpus holds the read-only universe a walk moves through: every
// syllable with its feature bits and corpus frequency.
package corpus

import (
	"errors"
	"fmt"
	"sort"

	"phonotaxis/internal/model"
	"phonotaxis/internal/syllable"
)

var ErrEmpty = errors.New("corpus has no records")

// Corpus maps normalized syllable keys to their records. It is built once and
// never mutated afterwards, so concurrent walks may share one instance.
type Corpus struct {
	width   int
	records map[string]model.CorpusRecord
	keys    []string
}

// New validates and indexes the given records. All feature vectors must have
// the same non-zero width, keys must be unique after normalization, and
// frequencies must be non-negative.
func New(records []model.CorpusRecord) (*Corpus, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	c := &Corpus{
		records: make(map[string]model.CorpusRecord, len(records)),
		keys:    make([]string, 0, len(records)),
	}
	for i, record := range records {
		key := syllable.Normalize(record.Syllable)
		if key == "" {
			return nil, fmt.Errorf("record %d: syllable key is empty", i)
		}
		if _, exists := c.records[key]; exists {
			return nil, fmt.Errorf("duplicate syllable key: %s", key)
		}
		if len(record.Features) == 0 {
			return nil, fmt.Errorf("syllable %s: feature vector is empty", key)
		}
		if c.width == 0 {
			c.width = len(record.Features)
		}
		if len(record.Features) != c.width {
			return nil, fmt.Errorf("syllable %s: feature width %d does not match corpus width %d", key, len(record.Features), c.width)
		}
		if record.Frequency < 0 {
			return nil, fmt.Errorf("syllable %s: frequency must be >= 0, got %d", key, record.Frequency)
		}

		stored := record
		stored.Syllable = key
		stored.Features = append([]bool(nil), record.Features...)
		c.records[key] = stored
		c.keys = append(c.keys, key)
	}
	sort.Strings(c.keys)
	return c, nil
}

// Len reports the number of records.
func (c *Corpus) Len() int {
	return len(c.records)
}

// FeatureWidth reports the corpus-wide feature vector length.
func (c *Corpus) FeatureWidth() int {
	return c.width
}

// Get looks up a record by syllable key. Lookup normalizes the key the same
// way construction does.
func (c *Corpus) Get(key string) (model.CorpusRecord, bool) {
	record, ok := c.records[syllable.Normalize(key)]
	return record, ok
}

// Syllables returns all keys in sorted order.
func (c *Corpus) Syllables() []string {
	return append([]string(nil), c.keys...)
}

// Records returns all records ordered by syllable key.
func (c *Corpus) Records() []model.CorpusRecord {
	out := make([]model.CorpusRecord, 0, len(c.keys))
	for _, key := range c.keys {
		record := c.records[key]
		record.Features = append([]bool(nil), record.Features...)
		out = append(out, record)
	}
	return out
}

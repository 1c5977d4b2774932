// Package ledger keeps an append-only provenance log of executed walks.
// Every committed walk gets one line recording the exact inputs needed to
// replay it, plus a fingerprint of the corpus it ran against.
package ledger

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"phonotaxis/internal/model"
)

// Entry is a single provenance line. Entries are never rewritten; a re-run
// of the same walk id produces a new entry with its own EntryID.
type Entry struct {
	EntryID           string  `json:"entry_id"`
	WalkID            string  `json:"walk_id"`
	CorpusName        string  `json:"corpus_name"`
	CorpusFingerprint string  `json:"corpus_fingerprint"`
	Start             string  `json:"start"`
	Profile           string  `json:"profile,omitempty"`
	Temperature       float64 `json:"temperature"`
	FrequencyWeight   float64 `json:"frequency_weight"`
	Seed              int64   `json:"seed"`
	RequestedSteps    int     `json:"requested_steps"`
	ActualSteps       int     `json:"actual_steps"`
	TerminalState     string  `json:"terminal_state"`
	CreatedAtUTC      string  `json:"created_at_utc"`
}

// Ledger appends JSON lines to a single file. Safe for concurrent use
// within one process.
type Ledger struct {
	mu   sync.Mutex
	path string
}

// Open prepares a ledger at path, creating parent directories as needed.
// The file itself is created lazily on first append.
func Open(path string) (*Ledger, error) {
	if path == "" {
		return nil, fmt.Errorf("ledger path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &Ledger{path: path}, nil
}

// Append writes one entry as a JSON line. A missing EntryID and CreatedAtUTC
// are filled in; a missing WalkID is an error.
func (l *Ledger) Append(entry Entry) (Entry, error) {
	if entry.WalkID == "" {
		return Entry{}, fmt.Errorf("walk id is required")
	}
	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
	}
	if entry.CreatedAtUTC == "" {
		entry.CreatedAtUTC = time.Now().UTC().Format(time.RFC3339Nano)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return Entry{}, err
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return Entry{}, err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return Entry{}, fmt.Errorf("append ledger entry: %w", err)
	}
	return entry, nil
}

// Entries reads the whole ledger in append order. A missing file is an
// empty ledger, not an error.
func (l *Ledger) Entries() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer f.Close()

	entries := []Entry{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("ledger line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Fingerprint hashes a corpus so ledger entries can detect that a walk ran
// against a different corpus revision under the same name. The hash is
// independent of record order.
func Fingerprint(records []model.CorpusRecord) string {
	sorted := make([]model.CorpusRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Syllable < sorted[j].Syllable })

	h := sha256.New()
	for _, record := range sorted {
		fmt.Fprintf(h, "%s|%d|", record.Syllable, record.Frequency)
		for _, bit := range record.Features {
			if bit {
				h.Write([]byte{'1'})
			} else {
				h.Write([]byte{'0'})
			}
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

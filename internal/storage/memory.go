package storage

import (
	"context"
	"sort"
	"sync"

	"phonotaxis/internal/model"
)

type MemoryStore struct {
	mu      sync.RWMutex
	corpora map[string][]model.CorpusRecord
	runs    map[string]model.WalkRun
	runIDs  []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.corpora = make(map[string][]model.CorpusRecord)
	s.runs = make(map[string]model.WalkRun)
	s.runIDs = nil
	return nil
}

// Reset drops all stored data and leaves the store ready for use.
func (s *MemoryStore) Reset(ctx context.Context) error {
	return s.Init(ctx)
}

func (s *MemoryStore) SaveCorpus(_ context.Context, name string, records []model.CorpusRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.corpora[name] = copyRecords(records)
	return nil
}

func (s *MemoryStore) GetCorpus(_ context.Context, name string) ([]model.CorpusRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.corpora[name]
	if !ok {
		return nil, false, nil
	}
	return copyRecords(records), true, nil
}

func (s *MemoryStore) ListCorpora(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.corpora))
	for name := range s.corpora {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) DeleteCorpus(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.corpora, name)
	return nil
}

func (s *MemoryStore) SaveWalkRun(_ context.Context, run model.WalkRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[run.ID]; !exists {
		s.runIDs = append(s.runIDs, run.ID)
	}
	run.Steps = append([]model.StepRecord(nil), run.Steps...)
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetWalkRun(_ context.Context, id string) (model.WalkRun, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return model.WalkRun{}, false, nil
	}
	run.Steps = append([]model.StepRecord(nil), run.Steps...)
	return run, true, nil
}

func (s *MemoryStore) ListWalkRuns(_ context.Context, limit int) ([]model.WalkRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Most recent first; insertion order breaks the tie for equal timestamps.
	out := make([]model.WalkRun, 0, len(s.runIDs))
	for i := len(s.runIDs) - 1; i >= 0; i-- {
		run := s.runs[s.runIDs[i]]
		run.Steps = append([]model.StepRecord(nil), run.Steps...)
		out = append(out, run)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func copyRecords(records []model.CorpusRecord) []model.CorpusRecord {
	copied := make([]model.CorpusRecord, len(records))
	copy(copied, records)
	for i := range copied {
		copied[i].Features = append([]bool(nil), records[i].Features...)
	}
	return copied
}

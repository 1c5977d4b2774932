// Package phonotaxis is the embedding API: import one corpus of syllable
// feature vectors, run seeded stochastic walks over it, and inspect or export
// the recorded trajectories.
package phonotaxis

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"phonotaxis/internal/corpus"
	"phonotaxis/internal/ledger"
	"phonotaxis/internal/model"
	"phonotaxis/internal/stats"
	"phonotaxis/internal/storage"
	"phonotaxis/internal/syllable"
	"phonotaxis/internal/walk"
)

const (
	defaultWalksDir   = "walks"
	defaultExportsDir = "exports"
	defaultDBPath     = "phonotaxis.db"
	defaultLedgerPath = "phonotaxis_ledger.jsonl"
)

type Options struct {
	StoreKind  string
	DBPath     string
	WalksDir   string
	ExportsDir string
	LedgerPath string
}

type Client struct {
	store  storage.Store
	ledger *ledger.Ledger

	walksDir   string
	exportsDir string
}

// WalkRequest selects a corpus, a start syllable, and a profile. Either name
// a preset via Profile or set Temperature/FrequencyWeight directly; naming a
// preset and overriding its temperature at once is rejected.
type WalkRequest struct {
	Corpus          string
	Start           string
	Profile         string
	Temperature     float64
	FrequencyWeight float64
	MaxCandidates   int
	AllowSelf       bool
	Steps           int
	Seed            int64
	WalkID          string
}

type WalkSummary struct {
	WalkID         string
	Start          string
	TerminalState  string
	RequestedSteps int
	ActualSteps    int
	Steps          []model.StepRecord
	Summary        stats.TrajectorySummary
	ArtifactsDir   string
}

type WalksRequest struct {
	Limit int
}

type WalkItem struct {
	WalkID           string
	CreatedAtUTC     string
	Corpus           string
	Start            string
	Profile          string
	Seed             int64
	RequestedSteps   int
	ActualSteps      int
	TerminalState    string
	MeanStepDistance float64
}

type ExportRequest struct {
	WalkID string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	WalkID    string
	Directory string
}

type CorpusSummary struct {
	Name         string
	Syllables    int
	FeatureWidth int
	Fingerprint  string
}

type ProfileItem struct {
	Name            string
	Temperature     float64
	FrequencyWeight float64
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	walksDir := opts.WalksDir
	if walksDir == "" {
		walksDir = defaultWalksDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}
	ledgerPath := opts.LedgerPath
	if ledgerPath == "" {
		ledgerPath = defaultLedgerPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	l, err := ledger.Open(ledgerPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:      store,
		ledger:     l,
		walksDir:   walksDir,
		exportsDir: exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

// Reset clears stored corpora and walk runs. Artifact directories and the
// ledger are left untouched.
func (c *Client) Reset(ctx context.Context) error {
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	return c.store.Reset(ctx)
}

// ImportCorpus loads a corpus document from disk, validates it, and persists
// it under the given name. Re-importing a name replaces its records.
func (c *Client) ImportCorpus(ctx context.Context, name, path string) (CorpusSummary, error) {
	name = syllable.Normalize(name)
	if name == "" {
		return CorpusSummary{}, errors.New("corpus name is required")
	}

	parsed, _, err := corpus.LoadFile(path)
	if err != nil {
		return CorpusSummary{}, err
	}

	records := parsed.Records()
	if err := c.store.SaveCorpus(ctx, name, records); err != nil {
		return CorpusSummary{}, err
	}

	return CorpusSummary{
		Name:         name,
		Syllables:    parsed.Len(),
		FeatureWidth: parsed.FeatureWidth(),
		Fingerprint:  ledger.Fingerprint(records),
	}, nil
}

// Corpora lists stored corpus names.
func (c *Client) Corpora(ctx context.Context) ([]string, error) {
	return c.store.ListCorpora(ctx)
}

// DeleteCorpus removes a stored corpus. Walks already recorded against it
// stay in place.
func (c *Client) DeleteCorpus(ctx context.Context, name string) error {
	name = syllable.Normalize(name)
	if name == "" {
		return errors.New("corpus name is required")
	}
	return c.store.DeleteCorpus(ctx, name)
}

// RunWalk executes one walk against a stored corpus, then records it three
// ways: the run row in the store, the artifact directory with its index
// entry, and one provenance line in the ledger.
func (c *Client) RunWalk(ctx context.Context, req WalkRequest) (WalkSummary, error) {
	if req.Corpus == "" {
		return WalkSummary{}, errors.New("corpus name is required")
	}
	if req.Start == "" {
		return WalkSummary{}, errors.New("start syllable is required")
	}

	profile, profileName, err := resolveProfile(req)
	if err != nil {
		return WalkSummary{}, err
	}

	corpusName := syllable.Normalize(req.Corpus)
	records, ok, err := c.store.GetCorpus(ctx, corpusName)
	if err != nil {
		return WalkSummary{}, err
	}
	if !ok {
		return WalkSummary{}, fmt.Errorf("corpus not found: %s", corpusName)
	}
	universe, err := corpus.FromRecords(records)
	if err != nil {
		return WalkSummary{}, err
	}

	now := time.Now().UTC()
	walkID := req.WalkID
	if walkID == "" {
		walkID = fmt.Sprintf("%s-%d-%d", corpusName, req.Seed, now.Unix())
	}

	result, err := walk.NewEngine(universe).Run(req.Start, profile, req.Steps, req.Seed)
	if err != nil {
		return WalkSummary{}, err
	}

	run := model.WalkRun{
		ID:              walkID,
		CorpusName:      corpusName,
		Start:           result.Start,
		Profile:         profileName,
		Temperature:     profile.Temperature,
		FrequencyWeight: profile.FrequencyWeight,
		MaxCandidates:   profile.MaxCandidates,
		AllowSelf:       profile.AllowSelf,
		Seed:            req.Seed,
		RequestedSteps:  result.RequestedSteps,
		ActualSteps:     result.ActualSteps,
		TerminalState:   result.TerminalState.String(),
		Steps:           result.Steps,
		CreatedAtUTC:    now.Format(time.RFC3339Nano),
	}
	if err := c.store.SaveWalkRun(ctx, run); err != nil {
		return WalkSummary{}, err
	}

	summary := stats.Summarize(result.Start, result.Steps)
	walkDir, err := stats.WriteWalkArtifacts(c.walksDir, stats.WalkArtifacts{
		Config: stats.WalkConfig{
			WalkID:          walkID,
			Corpus:          corpusName,
			Start:           result.Start,
			Profile:         profileName,
			Temperature:     profile.Temperature,
			FrequencyWeight: profile.FrequencyWeight,
			MaxCandidates:   profile.MaxCandidates,
			AllowSelf:       profile.AllowSelf,
			Seed:            req.Seed,
			RequestedSteps:  result.RequestedSteps,
		},
		Steps:         result.Steps,
		TerminalState: run.TerminalState,
		ActualSteps:   result.ActualSteps,
		Summary:       summary,
	})
	if err != nil {
		return WalkSummary{}, err
	}
	if err := stats.AppendWalkIndex(c.walksDir, stats.WalkIndexEntry{
		WalkID:           walkID,
		Corpus:           corpusName,
		Start:            result.Start,
		Profile:          profileName,
		Seed:             req.Seed,
		RequestedSteps:   result.RequestedSteps,
		ActualSteps:      result.ActualSteps,
		TerminalState:    run.TerminalState,
		MeanStepDistance: summary.MeanStepDistance,
		CreatedAtUTC:     run.CreatedAtUTC,
	}); err != nil {
		return WalkSummary{}, err
	}

	if _, err := c.ledger.Append(ledger.Entry{
		WalkID:            walkID,
		CorpusName:        corpusName,
		CorpusFingerprint: ledger.Fingerprint(records),
		Start:             result.Start,
		Profile:           profileName,
		Temperature:       profile.Temperature,
		FrequencyWeight:   profile.FrequencyWeight,
		Seed:              req.Seed,
		RequestedSteps:    result.RequestedSteps,
		ActualSteps:       result.ActualSteps,
		TerminalState:     run.TerminalState,
		CreatedAtUTC:      run.CreatedAtUTC,
	}); err != nil {
		return WalkSummary{}, err
	}

	return WalkSummary{
		WalkID:         walkID,
		Start:          result.Start,
		TerminalState:  run.TerminalState,
		RequestedSteps: result.RequestedSteps,
		ActualSteps:    result.ActualSteps,
		Steps:          result.Steps,
		Summary:        summary,
		ArtifactsDir:   filepath.Clean(walkDir),
	}, nil
}

// Walks lists recorded walks, newest first.
func (c *Client) Walks(_ context.Context, req WalksRequest) ([]WalkItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	entries, err := stats.ListWalkIndex(c.walksDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	out := make([]WalkItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, WalkItem{
			WalkID:           e.WalkID,
			CreatedAtUTC:     e.CreatedAtUTC,
			Corpus:           e.Corpus,
			Start:            e.Start,
			Profile:          e.Profile,
			Seed:             e.Seed,
			RequestedSteps:   e.RequestedSteps,
			ActualSteps:      e.ActualSteps,
			TerminalState:    e.TerminalState,
			MeanStepDistance: e.MeanStepDistance,
		})
	}
	return out, nil
}

// Walk fetches one recorded walk, trajectory included.
func (c *Client) Walk(ctx context.Context, walkID string) (model.WalkRun, error) {
	if walkID == "" {
		return model.WalkRun{}, errors.New("walk id is required")
	}
	run, ok, err := c.store.GetWalkRun(ctx, walkID)
	if err != nil {
		return model.WalkRun{}, err
	}
	if !ok {
		return model.WalkRun{}, fmt.Errorf("walk not found: %s", walkID)
	}
	return run, nil
}

// Export copies a walk's artifact files into the output directory.
func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	if req.WalkID != "" && req.Latest {
		return ExportSummary{}, errors.New("use either walk id or latest")
	}
	if req.WalkID == "" && !req.Latest {
		return ExportSummary{}, errors.New("export requires walk id or latest")
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}

	walkID := req.WalkID
	if req.Latest {
		entries, err := stats.ListWalkIndex(c.walksDir)
		if err != nil {
			return ExportSummary{}, err
		}
		if len(entries) == 0 {
			return ExportSummary{}, errors.New("no walks available to export")
		}
		walkID = entries[0].WalkID
	}

	exportedDir, err := stats.ExportWalkArtifacts(c.walksDir, walkID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{WalkID: walkID, Directory: filepath.Clean(exportedDir)}, nil
}

// Ledger returns the provenance log in append order.
func (c *Client) Ledger(_ context.Context) ([]ledger.Entry, error) {
	return c.ledger.Entries()
}

// Profiles lists the built-in presets in name order.
func Profiles() []ProfileItem {
	names := walk.PresetNames()
	out := make([]ProfileItem, 0, len(names))
	for _, name := range names {
		profile, _ := walk.Preset(name)
		out = append(out, ProfileItem{
			Name:            name,
			Temperature:     profile.Temperature,
			FrequencyWeight: profile.FrequencyWeight,
		})
	}
	return out
}

// RunWalk executes one walk in memory, no stores or artifact directories
// involved. Identical inputs yield the identical trajectory.
func RunWalk(records []model.CorpusRecord, start string, profile walk.Profile, steps int, seed int64) (walk.Result, error) {
	universe, err := corpus.FromRecords(records)
	if err != nil {
		return walk.Result{TerminalState: walk.Failed}, err
	}
	return walk.NewEngine(universe).Run(start, profile, steps, seed)
}

func resolveProfile(req WalkRequest) (walk.Profile, string, error) {
	if req.Profile != "" {
		if req.Temperature != 0 || req.FrequencyWeight != 0 {
			return walk.Profile{}, "", errors.New("use either a named profile or explicit temperature/frequency weight")
		}
		profile, err := walk.ProfileFromName(req.Profile)
		if err != nil {
			return walk.Profile{}, "", err
		}
		profile.MaxCandidates = req.MaxCandidates
		profile.AllowSelf = req.AllowSelf
		return profile, req.Profile, nil
	}

	profile := walk.Profile{
		Temperature:     req.Temperature,
		FrequencyWeight: req.FrequencyWeight,
		MaxCandidates:   req.MaxCandidates,
		AllowSelf:       req.AllowSelf,
	}
	if err := profile.Validate(); err != nil {
		return walk.Profile{}, "", err
	}
	return profile, "", nil
}

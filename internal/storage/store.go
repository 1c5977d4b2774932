package storage

import (
	"context"

	"phonotaxis/internal/model"
)

// Store defines persistence operations for corpora and completed walks.
type Store interface {
	Init(ctx context.Context) error
	Reset(ctx context.Context) error
	SaveCorpus(ctx context.Context, name string, records []model.CorpusRecord) error
	GetCorpus(ctx context.Context, name string) ([]model.CorpusRecord, bool, error)
	ListCorpora(ctx context.Context) ([]string, error)
	DeleteCorpus(ctx context.Context, name string) error
	SaveWalkRun(ctx context.Context, run model.WalkRun) error
	GetWalkRun(ctx context.Context, id string) (model.WalkRun, bool, error)
	ListWalkRuns(ctx context.Context, limit int) ([]model.WalkRun, error)
}

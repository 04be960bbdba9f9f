package storage

import (
	"context"
	"time"

	"headlines/internal/types"
)

// ArticleStore receives the full set of articles collected in one run.
type ArticleStore interface {
	Name() string
	Initialize(ctx context.Context) error
	Write(ctx context.Context, articles []types.Article) error
	Close(ctx context.Context) error
}

type ArchiveEntry struct {
	ID        int64
	RunID     string
	Title     string
	URL       string
	Published string
	FetchedAt time.Time
}

// Archive keeps every article ever written, one row per article per run.
type Archive interface {
	ArticleStore
	ListRecent(ctx context.Context, limit int) ([]ArchiveEntry, error)
	Count(ctx context.Context) (int, error)
}

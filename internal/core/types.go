package core

import (
	"context"

	"headlines/internal/types"
)

// FeedReader and PageReader never fail; an unusable source reads as empty.
type FeedReader interface {
	Read(ctx context.Context, endpoint string) []types.Article
}

type PageReader interface {
	Read(ctx context.Context, pageURL string) []types.Article
}

type Sink interface {
	Name() string
	Initialize(ctx context.Context) error
	Write(ctx context.Context, articles []types.Article) error
	Close(ctx context.Context) error
}

// counter is implemented by sinks that keep history across runs.
type counter interface {
	Count(ctx context.Context) (int, error)
}

type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type SectionResult struct {
	Section  string
	Count    int
	Fallback bool
}

type Result struct {
	Articles []types.Article
	Sections []SectionResult
}

package feed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"headlines/internal/types"

	"github.com/araddon/dateparse"
	"github.com/gorilla/feeds"
)

const (
	TypeRSS  = "rss"
	TypeAtom = "atom"
	TypeJSON = "json"
)

type Config struct {
	Path   string
	Format string
	Title  string
	Link   string
}

// Target renders the articles of the latest run as a syndication feed file.
// Each run replaces the previous file.
type Target struct {
	config Config
	now    func() time.Time
	logger *slog.Logger
}

func NewTarget(config Config, logger *slog.Logger) *Target {
	if config.Format == "" {
		config.Format = TypeRSS
	}
	if config.Title == "" {
		config.Title = "Headlines"
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Target{
		config: config,
		now:    time.Now,
		logger: logger,
	}
}

func (f *Target) Name() string {
	return "feed_" + f.config.Format
}

func (f *Target) Initialize(ctx context.Context) error {
	switch f.config.Format {
	case TypeRSS, TypeAtom, TypeJSON:
	default:
		return fmt.Errorf("feed target: unsupported format %q", f.config.Format)
	}
	if f.config.Path == "" {
		return fmt.Errorf("feed target: path is required")
	}
	return nil
}

func (f *Target) Write(ctx context.Context, articles []types.Article) error {
	now := f.now().UTC()

	items := make([]*feeds.Item, 0, len(articles))
	for _, article := range articles {
		items = append(items, f.convertToFeedItem(article, now))
	}

	feed := &feeds.Feed{
		Title:       f.config.Title,
		Link:        &feeds.Link{Href: f.config.Link},
		Description: fmt.Sprintf("%d headlines collected at %s", len(articles), now.Format(time.RFC3339)),
		Created:     now,
		Items:       items,
	}

	var (
		out string
		err error
	)
	switch f.config.Format {
	case TypeAtom:
		out, err = feed.ToAtom()
	case TypeJSON:
		out, err = feed.ToJSON()
	default:
		out, err = feed.ToRss()
	}
	if err != nil {
		return fmt.Errorf("feed target: failed to generate %s: %w", f.config.Format, err)
	}

	if dir := filepath.Dir(f.config.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("feed target: failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(f.config.Path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("feed target: failed to write %s: %w", f.config.Path, err)
	}

	f.logger.Info("Feed export written", "path", f.config.Path, "format", f.config.Format, "items", len(items), "bytes", len(out))
	return nil
}

func (f *Target) Close(ctx context.Context) error {
	return nil
}

// convertToFeedItem uses the article's published text when it parses and
// the run time otherwise.
func (f *Target) convertToFeedItem(article types.Article, fallback time.Time) *feeds.Item {
	created := fallback
	if article.Published != "" {
		if t, err := dateparse.ParseAny(article.Published); err == nil {
			created = t
		} else {
			f.logger.Debug("Feed target could not parse published time", "published", article.Published, "error", err)
		}
	}

	return &feeds.Item{
		Id:      article.URL,
		Title:   article.Title,
		Link:    &feeds.Link{Href: article.URL},
		Created: created,
	}
}

package sources

import (
	"context"
	"log/slog"

	"headlines/internal/types"

	"github.com/mmcdole/gofeed"
)

type RSSSource struct {
	parser *gofeed.Parser
	logger *slog.Logger
}

func NewRSSSource(userAgent string, logger *slog.Logger) *RSSSource {
	if logger == nil {
		logger = slog.Default()
	}

	parser := gofeed.NewParser()
	parser.UserAgent = userAgent

	return &RSSSource{
		parser: parser,
		logger: logger,
	}
}

// Read parses the feed at endpoint once. Any failure yields an empty result
// so the caller can fall back to the section page.
func (r *RSSSource) Read(ctx context.Context, endpoint string) []types.Article {
	articles := []types.Article{}

	r.logger.Debug("RSS source fetching feed", "feed_url", endpoint)
	feed, err := r.parser.ParseURLWithContext(endpoint, ctx)
	if err != nil {
		r.logger.Debug("RSS source could not parse feed", "feed_url", endpoint, "error", err)
		return articles
	}

	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		articles = append(articles, types.Article{
			Title:     item.Title,
			URL:       item.Link,
			Published: item.Published,
		})
	}

	r.logger.Debug("RSS source retrieved items", "feed_url", endpoint, "count", len(articles))
	return articles
}

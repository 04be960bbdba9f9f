package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"headlines/internal/types"

	"github.com/PuerkitoBio/goquery"
)

const headlineSelector = "h3 a"

type ScraperSource struct {
	client    *http.Client
	userAgent string
	baseURL   string
	logger    *slog.Logger
}

func NewScraperSource(baseURL, userAgent string, timeout time.Duration, logger *slog.Logger) *ScraperSource {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ScraperSource{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

// Read extracts headline anchors from the page at pageURL. Errors are logged
// and reported as an empty result. The body is parsed whatever the status
// code, so an error page that still carries headlines yields them.
func (s *ScraperSource) Read(ctx context.Context, pageURL string) []types.Article {
	articles, err := s.scrape(ctx, pageURL)
	if err != nil {
		if types.IsFetchError(err) {
			s.logger.Error("Error scraping HTML", "url", pageURL, "error", err)
		} else {
			s.logger.Debug("Scrape interrupted", "url", pageURL, "error", err)
		}
		return []types.Article{}
	}

	s.logger.Debug("Scraper extracted headlines", "url", pageURL, "count", len(articles))
	return articles
}

func (s *ScraperSource) scrape(ctx context.Context, pageURL string) ([]types.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, types.NewFetchError("html", pageURL, "invalid request", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, types.NewFetchError("html", pageURL, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Debug("Parsing HTML from non-2xx response", "url", pageURL, "status", resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(strings.ToLower(ct), "html") {
		return nil, types.NewFetchError("html", pageURL, fmt.Sprintf("unexpected content type %q", ct), nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, types.NewFetchError("html", pageURL, "failed to parse HTML", err)
	}

	return s.extract(doc), nil
}

func (s *ScraperSource) extract(doc *goquery.Document) []types.Article {
	articles := []types.Article{}

	doc.Find(headlineSelector).Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Text())
		link, _ := sel.Attr("href")

		if strings.HasPrefix(link, "/") {
			link = s.baseURL + link
		}

		if title == "" || link == "" {
			return
		}

		articles = append(articles, types.Article{
			Title: title,
			URL:   link,
		})
	})

	return articles
}

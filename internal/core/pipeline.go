package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"headlines/internal/types"
)

// PipelineConfig wires a pass. Output is the primary sink named in the
// notification and is written before Sinks.
type PipelineConfig struct {
	Sections   []types.Section
	Feeds      FeedReader
	Pages      PageReader
	Output     Sink
	Sinks      []Sink
	Notifier   Notifier
	Delay      time.Duration
	OutputPath string
	Logger     *slog.Logger
}

type Pipeline struct {
	sections   []types.Section
	feeds      FeedReader
	pages      PageReader
	output     Sink
	sinks      []Sink
	notifier   Notifier
	delay      time.Duration
	outputPath string
	logger     *slog.Logger
	mu         sync.Mutex
	running    bool
}

func NewPipeline(config PipelineConfig) *Pipeline {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sinks := make([]Sink, 0, len(config.Sinks)+1)
	if config.Output != nil {
		sinks = append(sinks, config.Output)
	}
	sinks = append(sinks, config.Sinks...)

	return &Pipeline{
		sections:   config.Sections,
		feeds:      config.Feeds,
		pages:      config.Pages,
		output:     config.Output,
		sinks:      sinks,
		notifier:   config.Notifier,
		delay:      config.Delay,
		outputPath: config.OutputPath,
		logger:     logger,
	}
}

// Initialize prepares every sink, which creates the CSV header when the
// output file does not exist yet.
func (p *Pipeline) Initialize(ctx context.Context) error {
	p.logger.Info("Initializing pipeline", "sections", len(p.sections), "sinks", len(p.sinks))

	for _, sink := range p.sinks {
		if err := sink.Initialize(ctx); err != nil {
			return fmt.Errorf("failed to initialize sink %s: %w", sink.Name(), err)
		}
	}

	return nil
}

// Run performs one pass: collect every section in order, persist the
// accumulated articles to each sink once, then notify. Sink and notifier
// failures are logged and returned joined; they never stop the pass.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil, fmt.Errorf("pipeline already running")
	}
	p.running = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	result, err := p.collect(ctx)
	if err != nil {
		return result, err
	}

	errs, outputFailed := p.persist(ctx, result.Articles)
	p.reportArchives(ctx)

	message := fmt.Sprintf("✅ Scraping complete!\nSaved %d articles to %s", len(result.Articles), p.outputPath)
	if outputFailed {
		message = fmt.Sprintf("⚠️ Scraping complete, but saving failed!\nCould not save %d articles to %s", len(result.Articles), p.outputPath)
	}
	if p.notifier != nil {
		if err := p.notifier.Notify(ctx, message); err != nil {
			p.logger.Error("Notification failed", "error", err)
			errs = append(errs, fmt.Errorf("notify: %w", err))
		}
	}

	return result, errors.Join(errs...)
}

func (p *Pipeline) collect(ctx context.Context) (*Result, error) {
	result := &Result{
		Articles: make([]types.Article, 0),
		Sections: make([]SectionResult, 0, len(p.sections)),
	}

	for i, section := range p.sections {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		articles, fallback := p.collectSection(ctx, section)
		result.Articles = append(result.Articles, articles...)
		result.Sections = append(result.Sections, SectionResult{
			Section:  section.Name,
			Count:    len(articles),
			Fallback: fallback,
		})

		if i < len(p.sections)-1 {
			if err := p.sleep(ctx); err != nil {
				return result, err
			}
		}
	}

	p.logger.Info("Collection finished", "sections", len(p.sections), "articles", len(result.Articles))
	return result, nil
}

func (p *Pipeline) collectSection(ctx context.Context, section types.Section) ([]types.Article, bool) {
	p.logger.Info("Scraping section via RSS", "section", section.Name, "feed_url", section.URL)

	articles := p.feeds.Read(ctx, section.URL)
	if len(articles) > 0 {
		return articles, false
	}

	p.logger.Info("No RSS data, falling back to HTML scraping", "section", section.Name, "page_url", section.Page)
	return p.pages.Read(ctx, section.Page), true
}

// persist writes to every sink and reports whether the primary output failed.
func (p *Pipeline) persist(ctx context.Context, articles []types.Article) ([]error, bool) {
	var errs []error
	outputFailed := false

	for _, sink := range p.sinks {
		if err := sink.Write(ctx, articles); err != nil {
			p.logger.Error("Failed to persist articles", "sink", sink.Name(), "error", err)
			errs = append(errs, fmt.Errorf("sink %s: %w", sink.Name(), err))
			if sink == p.output {
				outputFailed = true
			}
			continue
		}
		p.logger.Debug("Persisted articles", "sink", sink.Name(), "count", len(articles))
	}

	return errs, outputFailed
}

func (p *Pipeline) reportArchives(ctx context.Context) {
	for _, sink := range p.sinks {
		archive, ok := sink.(counter)
		if !ok {
			continue
		}
		total, err := archive.Count(ctx)
		if err != nil {
			p.logger.Warn("Failed to count archived articles", "sink", sink.Name(), "error", err)
			continue
		}
		p.logger.Info("Archive size", "sink", sink.Name(), "articles", total)
	}
}

func (p *Pipeline) sleep(ctx context.Context) error {
	if p.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *Pipeline) Shutdown(ctx context.Context) error {
	p.logger.Debug("Shutting down pipeline")

	var errs []error
	for _, sink := range p.sinks {
		if err := sink.Close(ctx); err != nil {
			p.logger.Error("Error closing sink", "sink", sink.Name(), "error", err)
			errs = append(errs, fmt.Errorf("sink %s shutdown error: %w", sink.Name(), err))
		}
	}

	return errors.Join(errs...)
}

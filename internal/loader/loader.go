package loader

import (
	"context"
	"fmt"
	"log/slog"

	"headlines/internal/config"
	"headlines/internal/core"
	"headlines/internal/notify"
	"headlines/internal/sources"
	"headlines/internal/storage"
	"headlines/internal/targets/feed"
	"headlines/internal/types"

	_ "headlines/internal/storage/sqlite"
)

type Loader struct {
	config *config.Config
	logger *slog.Logger
}

func NewLoader(cfg *config.Config, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		config: cfg,
		logger: logger,
	}
}

func (l *Loader) Initialize(ctx context.Context) (*core.Bot, error) {
	pipeline, err := l.BuildPipeline()
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	bot := core.NewBot(core.BotConfig{
		Name:     l.config.Run.Name,
		Pipeline: pipeline,
		Schedule: l.config.Run.Schedule,
		Logger:   l.logger,
	})

	return bot, nil
}

func (l *Loader) BuildPipeline() (*core.Pipeline, error) {
	output := storage.NewCSVStore(l.config.Output.Path, l.logger)

	sinks, err := l.buildSinks()
	if err != nil {
		return nil, err
	}

	notifier, err := l.buildNotifier()
	if err != nil {
		return nil, err
	}

	pipeline := core.NewPipeline(core.PipelineConfig{
		Sections:   l.buildSections(),
		Feeds:      sources.NewRSSSource(l.config.HTTP.UserAgent, l.logger),
		Pages:      sources.NewScraperSource(l.config.HTTP.BaseURL, l.config.HTTP.UserAgent, l.config.Timeout(), l.logger),
		Output:     output,
		Sinks:      sinks,
		Notifier:   notifier,
		Delay:      l.config.Delay(),
		OutputPath: output.Path(),
		Logger:     l.logger,
	})

	return pipeline, nil
}

func (l *Loader) buildSections() []types.Section {
	sections := make([]types.Section, 0, len(l.config.Sources))
	for _, src := range l.config.Sources {
		sections = append(sections, types.Section{
			Name: src.Section,
			URL:  src.URL,
			Page: l.config.PageURL(src),
		})
	}
	return sections
}

// buildSinks returns the optional archive and feed export; the CSV output is
// wired separately as the pipeline's primary sink.
func (l *Loader) buildSinks() ([]core.Sink, error) {
	var sinks []core.Sink

	if l.config.Archive.Enabled {
		archive, err := storage.New(l.config.Archive, l.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive: %w", err)
		}
		sinks = append(sinks, archive)
	}

	if l.config.Export.Enabled {
		sinks = append(sinks, feed.NewTarget(feed.Config{
			Path:   l.config.Export.Path,
			Format: l.config.Export.Format,
			Title:  l.config.Export.Title,
			Link:   l.config.HTTP.BaseURL,
		}, l.logger))
	}

	return sinks, nil
}

func (l *Loader) buildNotifier() (core.Notifier, error) {
	switch l.config.Notify.Type {
	case "log":
		return notify.NewLogNotifier(l.logger), nil

	case "dialog":
		return notify.NewDialogNotifier(l.config.Notify.Title), nil

	case "discord":
		n, err := notify.NewDiscordNotifier(l.config.Notify.Discord.BotToken, l.config.Notify.Discord.ChannelID)
		if err != nil {
			return nil, err
		}
		return n, nil

	default:
		return nil, fmt.Errorf("unsupported notifier type: %s", l.config.Notify.Type)
	}
}

// RecentArchived opens the configured archive and returns up to limit of
// its newest entries along with the archive's total size.
func (l *Loader) RecentArchived(ctx context.Context, limit int) ([]storage.ArchiveEntry, int, error) {
	if !l.config.Archive.Enabled {
		return nil, 0, fmt.Errorf("archive is not enabled")
	}

	archive, err := storage.New(l.config.Archive, l.logger)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create archive: %w", err)
	}
	if err := archive.Initialize(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() { _ = archive.Close(ctx) }()

	entries, err := archive.ListRecent(ctx, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := archive.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

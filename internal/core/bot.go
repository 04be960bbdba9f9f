package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type runner interface {
	Initialize(ctx context.Context) error
	Run(ctx context.Context) (*Result, error)
	Shutdown(ctx context.Context) error
}

// Bot drives the pipeline: a single pass when no schedule is set, otherwise
// one pass per cron tick until the context ends.
type Bot struct {
	name     string
	pipeline runner
	schedule string
	logger   *slog.Logger
	mu       sync.Mutex
	running  bool
}

type BotConfig struct {
	Name     string
	Pipeline runner
	Schedule string
	Logger   *slog.Logger
}

func NewBot(config BotConfig) *Bot {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Bot{
		name:     config.Name,
		pipeline: config.Pipeline,
		schedule: config.Schedule,
		logger:   logger,
	}
}

func (b *Bot) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return fmt.Errorf("bot already running")
	}
	b.running = true
	b.mu.Unlock()

	defer b.markStopped()

	if err := b.pipeline.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	if b.schedule == "" {
		return b.runOnceMode(ctx)
	}

	return b.runScheduledMode(ctx)
}

func (b *Bot) runOnceMode(ctx context.Context) error {
	if err := b.executeRun(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (b *Bot) runScheduledMode(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	_, err := c.AddFunc(b.schedule, func() {
		if err := b.executeRun(ctx); err != nil {
			b.logger.Error("Scheduled run failed", "bot", b.name, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", b.schedule, err)
	}

	b.logger.Info("Bot scheduled", "bot", b.name, "schedule", b.schedule)
	c.Start()

	<-ctx.Done()

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		b.logger.Warn("Timed out waiting for running pass to finish", "bot", b.name)
	}

	return ctx.Err()
}

func (b *Bot) executeRun(ctx context.Context) error {
	result, err := b.pipeline.Run(ctx)
	if result != nil {
		for _, section := range result.Sections {
			b.logger.Debug("Section summary", "section", section.Section, "count", section.Count, "fallback", section.Fallback)
		}
	}
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}
	return nil
}

func (b *Bot) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := b.pipeline.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("pipeline shutdown failed: %w", err)
	}

	return nil
}

func (b *Bot) Name() string {
	return b.name
}

func (b *Bot) markStopped() {
	b.mu.Lock()
	b.running = false
	b.mu.Unlock()
}

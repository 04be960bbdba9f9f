package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"headlines/internal/config"
	"headlines/internal/loader"
)

var (
	configPath = flag.String("config", "", "Path to configuration file (built-in defaults when empty)")
	recent     = flag.Int("recent", 0, "Print the N newest archived articles and exit")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		fmt.Printf("\nReceived signal: %v\n", sig)
		fmt.Println("Shutting down gracefully...")
		cancel()
	}()

	if err := run(ctx); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newLogger(cfg.Run.LogLevel)
	slog.SetDefault(logger)

	l := loader.NewLoader(cfg, logger)

	if *recent > 0 {
		return printRecent(ctx, l, *recent)
	}

	bot, err := l.Initialize(ctx)
	if err != nil {
		return fmt.Errorf("failed to build bot: %w", err)
	}

	logger.Info("Starting", "bot", bot.Name(), "sources", len(cfg.Sources), "output", cfg.Output.Path)

	if err := bot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		// A failed sink or notification is reported but is not fatal.
		logger.Error("Run finished with errors", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := bot.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	return nil
}

func printRecent(ctx context.Context, l *loader.Loader, limit int) error {
	entries, total, err := l.RecentArchived(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}

	fmt.Printf("%d of %d archived articles\n", len(entries), total)
	for _, entry := range entries {
		fmt.Printf("%s  %s\n  %s\n", entry.FetchedAt.Local().Format(time.DateTime), entry.Title, entry.URL)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	lvl := new(slog.LevelVar)

	switch strings.ToLower(level) {
	case "debug":
		lvl.Set(slog.LevelDebug)
	case "warn":
		lvl.Set(slog.LevelWarn)
	case "error":
		lvl.Set(slog.LevelError)
	default:
		lvl.Set(slog.LevelInfo)
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

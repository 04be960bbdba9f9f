// Package notify tells the user that a run finished.
package notify

import (
	"context"
	"log/slog"

	"headlines/internal/core"
)

var (
	_ core.Notifier = (*LogNotifier)(nil)
	_ core.Notifier = (*DialogNotifier)(nil)
	_ core.Notifier = (*DiscordNotifier)(nil)
)

// LogNotifier is the headless notifier.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, message string) error {
	n.logger.Info(message)
	return nil
}

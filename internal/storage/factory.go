package storage

import (
	"fmt"
	"log/slog"

	"headlines/internal/config"
)

var factoryFuncs = map[string]func(string, *slog.Logger) (Archive, error){}

func RegisterFactory(archiveType string, fn func(string, *slog.Logger) (Archive, error)) {
	factoryFuncs[archiveType] = fn
}

func New(cfg config.ArchiveConfig, logger *slog.Logger) (Archive, error) {
	archiveType := cfg.Type
	if archiveType == "" {
		archiveType = "sqlite"
	}

	fn, exists := factoryFuncs[archiveType]
	if !exists {
		return nil, fmt.Errorf("unsupported archive type: %s", archiveType)
	}

	return fn(cfg.Path, logger)
}

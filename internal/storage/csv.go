package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"headlines/internal/types"
)

// CSVStore appends article rows to a delimited file. The file is never
// truncated; the header is written only when the file is first created.
type CSVStore struct {
	path   string
	logger *slog.Logger
}

func NewCSVStore(path string, logger *slog.Logger) *CSVStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVStore{
		path:   path,
		logger: logger,
	}
}

func (s *CSVStore) Name() string {
	return "csv"
}

func (s *CSVStore) Path() string {
	return s.path
}

// Initialize creates the file with its header if it does not exist yet.
func (s *CSVStore) Initialize(ctx context.Context) error {
	if err := ensureDir(s.path); err != nil {
		return err
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			s.logger.Debug("CSV output already exists, keeping header", "path", s.path)
			return nil
		}
		return fmt.Errorf("failed to create csv file: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(types.Header); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	s.logger.Info("Created CSV output", "path", s.path)
	return file.Close()
}

func (s *CSVStore) Write(ctx context.Context, articles []types.Article) error {
	if err := ensureDir(s.path); err != nil {
		return err
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open csv file: %w", err)
	}

	writer := csv.NewWriter(file)
	for _, article := range articles {
		if err := writer.Write(article.Into()); err != nil {
			_ = file.Close()
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to flush csv rows: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close csv file: %w", err)
	}

	s.logger.Info("Appended articles to CSV", "path", s.path, "count", len(articles))
	return nil
}

func (s *CSVStore) Close(ctx context.Context) error {
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

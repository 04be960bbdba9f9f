package sqlite

import (
	"context"
	"fmt"
	"time"

	"headlines/internal/storage"
	"headlines/internal/types"

	"github.com/google/uuid"
)

// Write stores one row per article tagged with a fresh run id. Rows are
// never deduplicated.
func (s *SQLiteStorage) Write(ctx context.Context, articles []types.Article) error {
	if s.conn == nil {
		return fmt.Errorf("sqlite: archive not initialized")
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (run_id, title, url, published, fetched_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	runID := uuid.NewString()
	fetchedAt := time.Now().UTC()

	for _, article := range articles {
		if _, err := stmt.ExecContext(ctx, runID, article.Title, article.URL, article.Published, fetchedAt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert article: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit articles: %w", err)
	}

	s.logger.Debug("Archived articles", "run_id", runID, "count", len(articles))
	return nil
}

// ListRecent returns up to limit entries, newest first. A limit of zero or
// less yields no entries.
func (s *SQLiteStorage) ListRecent(ctx context.Context, limit int) ([]storage.ArchiveEntry, error) {
	if s.conn == nil {
		return nil, fmt.Errorf("sqlite: archive not initialized")
	}
	if limit <= 0 {
		return []storage.ArchiveEntry{}, nil
	}

	query := `
		SELECT id, run_id, title, url, published, fetched_at
		FROM articles
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := s.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	entries := make([]storage.ArchiveEntry, 0, limit)
	for rows.Next() {
		var entry storage.ArchiveEntry
		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.Title, &entry.URL, &entry.Published, &entry.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

func (s *SQLiteStorage) Count(ctx context.Context) (int, error) {
	if s.conn == nil {
		return 0, fmt.Errorf("sqlite: archive not initialized")
	}
	var count int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

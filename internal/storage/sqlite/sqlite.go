package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"log"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"headlines/internal/storage"
)

//go:embed migrations/*.sql
var migrations embed.FS

func init() {
	storage.RegisterFactory("sqlite", New)
}

type SQLiteStorage struct {
	path   string
	conn   *sql.DB
	logger *slog.Logger
}

func New(dbPath string, logger *slog.Logger) (storage.Archive, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite: database path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStorage{path: dbPath, logger: logger}, nil
}

func (s *SQLiteStorage) Name() string {
	return "sqlite"
}

func (s *SQLiteStorage) Initialize(ctx context.Context) error {
	s.logger.Info("Initializing SQLite archive", "path", s.path)

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_journal_mode=WAL", s.path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := s.runMigrations(conn); err != nil {
		conn.Close()
		return err
	}

	s.conn = conn
	s.logger.Info("Archive initialized successfully")
	return nil
}

func (s *SQLiteStorage) runMigrations(conn *sql.DB) error {
	s.logger.Debug("Running database migrations")

	goose.SetBaseFS(migrations)
	goose.SetLogger(log.New(io.Discard, "", 0))

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(conn, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.logger.Debug("Migrations completed successfully")
	return nil
}

func (s *SQLiteStorage) Close(ctx context.Context) error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Package audit persists admin-command decisions to SQLite so operators
// can reconstruct who asked the bot to do what, and with which outcome.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"partybot/internal/domain"

	_ "modernc.org/sqlite"
)

// Store implements domain.AuditLog using SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewStore(dbPath string, logger *slog.Logger) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Single connection for SQLite
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS command_log (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		sender      TEXT NOT NULL,
		verb        TEXT NOT NULL,
		target      TEXT,
		result      TEXT NOT NULL,
		details     TEXT,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_command_log_time ON command_log(created_at);
	CREATE INDEX IF NOT EXISTS idx_command_log_sender ON command_log(sender);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) LogCommand(ctx context.Context, rec domain.CommandRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO command_log (sender, verb, target, result, details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Sender, rec.Verb, rec.Target, rec.Result, rec.Details, rec.CreatedAt,
	)
	return err
}

// Recent returns the newest records, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.CommandRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sender, verb, target, result, details, created_at
		 FROM command_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.CommandRecord
	for rows.Next() {
		var rec domain.CommandRecord
		var target, details sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Sender, &rec.Verb, &target, &rec.Result, &details, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Target = target.String
		rec.Details = details.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Prune deletes records older than the retention window and returns how
// many were removed.
func (s *Store) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	res, err := s.db.ExecContext(ctx, `DELETE FROM command_log WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("pruned audit records", "removed", n, "cutoff", cutoff)
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Package storage persists encoded ledger snapshots in SQLite, one row
// per owner.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoSnapshot is returned when an owner has no stored snapshot yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func ledgerKey(ownerID string) string {
	return "ledger_" + ownerID
}

// SaveSnapshot stores the encoded snapshot for an owner, replacing any
// previous one.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, ownerID string, snapshot []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ledgers (key, snapshot, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at
	`, ledgerKey(ownerID), snapshot, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot saved to SQLite",
		"owner_id", ownerID,
		"bytes", len(snapshot))

	return nil
}

// LoadSnapshot returns the encoded snapshot for an owner, or ErrNoSnapshot.
func (r *SQLiteRepository) LoadSnapshot(ctx context.Context, ownerID string) ([]byte, error) {
	var snapshot []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT snapshot FROM ledgers WHERE key = ?`,
		ledgerKey(ownerID)).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return snapshot, nil
}

// DeleteSnapshot removes an owner's snapshot. A missing row is a no-op.
func (r *SQLiteRepository) DeleteSnapshot(ctx context.Context, ownerID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM ledgers WHERE key = ?`,
		ledgerKey(ownerID)); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// Owners lists every owner with a stored snapshot.
func (r *SQLiteRepository) Owners(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key FROM ledgers ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan owner key: %w", err)
		}
		owners = append(owners, key[len("ledger_"):])
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owners: %w", err)
	}
	return owners, nil
}

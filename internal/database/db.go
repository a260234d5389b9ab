package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the lib/pq connection string
func (p ConnectionParams) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}

// StoredSignal is a completed setup or countdown persisted for a symbol and interval
type StoredSignal struct {
	ID        int64
	Symbol    string
	Interval  string
	Bar       int
	BarLabel  string
	Kind      string
	Direction string
	CreatedAt time.Time
}

// SameEvent reports whether two signals describe the same bar and counter
func (s StoredSignal) SameEvent(other StoredSignal) bool {
	return s.Symbol == other.Symbol &&
		s.Interval == other.Interval &&
		s.BarLabel == other.BarLabel &&
		s.Kind == other.Kind &&
		s.Direction == other.Direction
}

// New opens the database and creates the tables if needed. The postgres
// driver must be registered by the caller.
func New(ctx context.Context, params ConnectionParams) (*DB, error) {
	return Open(ctx, params.DSN())
}

// Open is New for a ready-made connection string
func Open(ctx context.Context, dsn string) (*DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS td_signals (
			id BIGSERIAL PRIMARY KEY,
			symbol TEXT NOT NULL,
			interval TEXT NOT NULL,
			bar INTEGER NOT NULL,
			bar_label TEXT NOT NULL,
			kind TEXT NOT NULL,
			direction TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE (symbol, interval, bar_label, kind, direction)
		)
	`)
	return err
}

// SaveSignal stores a signal; storing the same event twice is a no-op.
// It reports whether a new row was written.
func (db *DB) SaveSignal(ctx context.Context, s StoredSignal) (bool, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO td_signals (symbol, interval, bar, bar_label, kind, direction)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (symbol, interval, bar_label, kind, direction) DO NOTHING
	`, s.Symbol, s.Interval, s.Bar, s.BarLabel, s.Kind, s.Direction)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LatestSignal returns the most recently stored signal for a series, or nil
func (db *DB) LatestSignal(ctx context.Context, symbol, interval string) (*StoredSignal, error) {
	var s StoredSignal
	err := db.QueryRowContext(ctx, `
		SELECT id, symbol, interval, bar, bar_label, kind, direction, created_at
		FROM td_signals
		WHERE symbol = $1 AND interval = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, symbol, interval).Scan(
		&s.ID, &s.Symbol, &s.Interval, &s.Bar, &s.BarLabel, &s.Kind, &s.Direction, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No signal stored yet
		}
		return nil, err
	}
	return &s, nil
}

// ListSignals returns up to limit stored signals for a series, newest first
func (db *DB) ListSignals(ctx context.Context, symbol, interval string, limit int) ([]StoredSignal, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, symbol, interval, bar, bar_label, kind, direction, created_at
		FROM td_signals
		WHERE symbol = $1 AND interval = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, symbol, interval, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signals []StoredSignal
	for rows.Next() {
		var s StoredSignal
		if err := rows.Scan(&s.ID, &s.Symbol, &s.Interval, &s.Bar, &s.BarLabel, &s.Kind, &s.Direction, &s.CreatedAt); err != nil {
			return nil, err
		}
		signals = append(signals, s)
	}
	return signals, rows.Err()
}

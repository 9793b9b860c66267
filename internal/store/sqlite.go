package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"boundary/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ RunStore = (*SQLiteStore)(nil)

// SQLiteStore implements RunStore backed by a SQLite database. It keeps a
// history of backtest runs and their fill logs across invocations.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol           TEXT NOT NULL,
	start_ts         INTEGER NOT NULL,
	end_ts           INTEGER NOT NULL,
	initial_capital  REAL NOT NULL,
	final_equity     REAL NOT NULL,
	total_return_pct REAL NOT NULL,
	total_trades     INTEGER NOT NULL,
	created_at       INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS fills (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	ts     INTEGER NOT NULL,
	side   TEXT NOT NULL,
	price  REAL NOT NULL,
	shares INTEGER NOT NULL,
	level  INTEGER NOT NULL,
	cash   REAL NOT NULL,
	profit REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fills_run ON fills(run_id);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, applies the
// schema, and returns a ready-to-use store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts a run summary and returns its assigned ID.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *domain.RunSummary) (int64, error) {
	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (symbol, start_ts, end_ts, initial_capital, final_equity,
			total_return_pct, total_trades, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Symbol,
		run.Start.UnixMilli(),
		run.End.UnixMilli(),
		run.InitialCapital,
		run.FinalEquity,
		run.TotalReturnPct,
		run.TotalTrades,
		created.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return res.LastInsertId()
}

// SaveFills appends the fill log of a run inside a single transaction.
func (s *SQLiteStore) SaveFills(ctx context.Context, runID int64, fills []domain.Fill) error {
	if len(fills) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fills (run_id, ts, side, price, shares, level, cash, profit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing fill insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range fills {
		if _, err := stmt.ExecContext(ctx,
			runID, f.Timestamp.UnixMilli(), string(f.Side), f.Price,
			f.Shares, f.Level, f.Cash, f.Profit,
		); err != nil {
			return fmt.Errorf("inserting fill: %w", err)
		}
	}
	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first, up to limit.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, start_ts, end_ts, initial_capital, final_equity,
			total_return_pct, total_trades, created_at
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.RunSummary
	for rows.Next() {
		var r domain.RunSummary
		var startMs, endMs, createdMs int64
		if err := rows.Scan(&r.ID, &r.Symbol, &startMs, &endMs, &r.InitialCapital,
			&r.FinalEquity, &r.TotalReturnPct, &r.TotalTrades, &createdMs); err != nil {
			return nil, err
		}
		r.Start = time.UnixMilli(startMs)
		r.End = time.UnixMilli(endMs)
		r.CreatedAt = time.UnixMilli(createdMs)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListFills returns the fills of a run in insertion order.
func (s *SQLiteStore) ListFills(ctx context.Context, runID int64) ([]domain.Fill, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, side, price, shares, level, cash, profit
		FROM fills WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fills []domain.Fill
	for rows.Next() {
		var f domain.Fill
		var ms int64
		var side string
		if err := rows.Scan(&ms, &side, &f.Price, &f.Shares, &f.Level, &f.Cash, &f.Profit); err != nil {
			return nil, err
		}
		f.Timestamp = time.UnixMilli(ms)
		f.Side = domain.Side(side)
		fills = append(fills, f)
	}
	return fills, rows.Err()
}

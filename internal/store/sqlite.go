package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"vantage/internal/domain"
)

// Compile-time interface check.
var _ RunStore = (*SQLiteStore)(nil)

// SQLiteStore implements RunStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	strategy TEXT NOT NULL,
	symbol TEXT NOT NULL,
	interval TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	total_return REAL NOT NULL,
	annualized_return REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	sharpe_ratio REAL NOT NULL,
	win_rate REAL NOT NULL,
	trade_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS trades (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	symbol TEXT NOT NULL,
	entry_time INTEGER NOT NULL,
	entry_price REAL NOT NULL,
	exit_time INTEGER NOT NULL,
	exit_price REAL NOT NULL,
	net_return REAL NOT NULL,
	forced_exit INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, applies the
// schema, and returns a ready-to-use SQLiteStore.
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

// SaveRun inserts the run header and its trade log in a single transaction
// and returns the new run ID.
func (s *SQLiteStore) SaveRun(ctx context.Context, rec RunRecord, trades []domain.TradeRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (strategy, symbol, interval, created_at, total_return, annualized_return, max_drawdown, sharpe_ratio, win_rate, trade_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Strategy, rec.Symbol, string(rec.Interval), createdAt.UnixMilli(),
		rec.Summary.TotalReturn, rec.Summary.AnnualizedReturn, rec.Summary.MaxDrawdown,
		rec.Summary.SharpeRatio, rec.Summary.WinRate, rec.Summary.TradeCount,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, t := range trades {
		forced := 0
		if t.ForcedExit {
			forced = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO trades (run_id, symbol, entry_time, entry_price, exit_time, exit_price, net_return, forced_exit)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, t.Symbol, t.EntryTime.UnixMilli(), t.EntryPrice,
			t.ExitTime.UnixMilli(), t.ExitPrice, t.Return, forced,
		); err != nil {
			return 0, fmt.Errorf("inserting trade: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// GetRun retrieves a run header by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, strategy, symbol, interval, created_at, total_return, annualized_return, max_drawdown, sharpe_ratio, win_rate, trade_count
		 FROM runs WHERE id = ?`, id)
	rec, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRuns returns the most recent runs, newest first, up to limit.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, strategy, symbol, interval, created_at, total_return, annualized_return, max_drawdown, sharpe_ratio, win_rate, trade_count
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ReadTrades returns the trade log of a run in entry-time order.
func (s *SQLiteStore) ReadTrades(ctx context.Context, runID int64) ([]domain.TradeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT symbol, entry_time, entry_price, exit_time, exit_price, net_return, forced_exit
		 FROM trades WHERE run_id = ? ORDER BY entry_time, id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []domain.TradeRecord
	for rows.Next() {
		var (
			t               domain.TradeRecord
			entryMs, exitMs int64
			forced          int
		)
		if err := rows.Scan(&t.Symbol, &entryMs, &t.EntryPrice, &exitMs, &t.ExitPrice, &t.Return, &forced); err != nil {
			return nil, err
		}
		t.EntryTime = time.UnixMilli(entryMs)
		t.ExitTime = time.UnixMilli(exitMs)
		t.ForcedExit = forced != 0
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunRecord, error) {
	var (
		rec       RunRecord
		interval  string
		createdMs int64
	)
	err := row.Scan(&rec.ID, &rec.Strategy, &rec.Symbol, &interval, &createdMs,
		&rec.Summary.TotalReturn, &rec.Summary.AnnualizedReturn, &rec.Summary.MaxDrawdown,
		&rec.Summary.SharpeRatio, &rec.Summary.WinRate, &rec.Summary.TradeCount)
	if err != nil {
		return RunRecord{}, err
	}
	rec.Interval = domain.Interval(interval)
	rec.CreatedAt = time.UnixMilli(createdMs)
	return rec, nil
}

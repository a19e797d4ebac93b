package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS insider_trades (
    id              TEXT PRIMARY KEY,
    wallet          TEXT NOT NULL,
    market_id       TEXT NOT NULL,
    market_title    TEXT NOT NULL DEFAULT '',
    market_slug     TEXT NOT NULL DEFAULT '',
    event_slug      TEXT NOT NULL DEFAULT '',
    outcome         TEXT NOT NULL DEFAULT '',
    side            TEXT NOT NULL DEFAULT '',
    size            REAL NOT NULL DEFAULT 0,
    price           REAL NOT NULL DEFAULT 0,
    notional_usd    REAL NOT NULL DEFAULT 0,
    price_impact    REAL,
    insider_score   REAL NOT NULL DEFAULT 0,
    trade_timestamp DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_ts ON insider_trades(trade_timestamp DESC);
`

// SQLiteStore persists flagged trades using SQLite (pure Go, no CGo).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at the given path and
// applies the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store.NewSQLiteStore: open %q: %w", path, err)
	}
	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.NewSQLiteStore: apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// InsertTrade persists one flagged trade.
func (s *SQLiteStore) InsertTrade(ctx context.Context, t InsiderTrade) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO insider_trades (
			id, wallet, market_id, market_title, market_slug, event_slug,
			outcome, side, size, price, notional_usd, price_impact,
			insider_score, trade_timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Wallet, t.MarketID, t.MarketTitle, t.MarketSlug, t.EventSlug,
		t.Outcome, t.Side, t.Size, t.Price, t.NotionalUSD, t.PriceImpact,
		t.InsiderScore, t.TradeTimestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store.InsertTrade: %w", err)
	}
	return nil
}

// RecentTrades returns flagged trades most recent first. limit <= 0 returns
// all rows.
func (s *SQLiteStore) RecentTrades(ctx context.Context, limit int) ([]InsiderTrade, error) {
	query := `
		SELECT id, wallet, market_id, market_title, market_slug, event_slug,
		       outcome, side, size, price, notional_usd, price_impact,
		       insider_score, trade_timestamp
		FROM insider_trades
		ORDER BY trade_timestamp DESC`

	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+" LIMIT ?", limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("store.RecentTrades: %w", err)
	}
	defer rows.Close()

	trades := []InsiderTrade{}
	for rows.Next() {
		var t InsiderTrade
		var ts string
		if err := rows.Scan(
			&t.ID, &t.Wallet, &t.MarketID, &t.MarketTitle, &t.MarketSlug,
			&t.EventSlug, &t.Outcome, &t.Side, &t.Size, &t.Price,
			&t.NotionalUSD, &t.PriceImpact, &t.InsiderScore, &ts,
		); err != nil {
			return nil, fmt.Errorf("store.RecentTrades: scan: %w", err)
		}
		t.TradeTimestamp, _ = time.Parse(time.RFC3339Nano, ts)
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store.RecentTrades: %w", err)
	}

	return trades, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

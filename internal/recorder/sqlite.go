package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"SignalSentinel/internal/model"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists cycle history and trades to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the API read while a cycle writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_cycles (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			computed_at     INTEGER,
			last_price      REAL,
			last_volume     REAL,
			stoch_k         REAL,
			stoch_d         REAL,
			stoch_prev_k    REAL,
			stoch_trend     TEXT,
			transform       REAL,
			volume_score    REAL,
			buy_oscillator  REAL,
			buy_transform   REAL,
			buy_volume      REAL,
			buy_total       REAL,
			sell_oscillator REAL,
			sell_transform  REAL,
			sell_volume     REAL,
			sell_total      REAL,
			action          TEXT,
			score           REAL,
			confidence      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cycles_ts ON analysis_cycles(timestamp)`,

		`CREATE TABLE IF NOT EXISTS trades (
			id        TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			action    TEXT NOT NULL,
			symbol    TEXT NOT NULL,
			price     REAL,
			quantity  REAL,
			score     REAL,
			profit    REAL,
			order_id  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ts ON trades(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordCycle(rec *CycleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := rec.Snapshot
	osc := snap.Oscillator
	buy, sell, decision := rec.Report.Buy, rec.Report.Sell, rec.Report.Recommendation

	_, err := r.db.Exec(`INSERT INTO analysis_cycles
		(timestamp, symbol, computed_at, last_price, last_volume,
		 stoch_k, stoch_d, stoch_prev_k, stoch_trend, transform, volume_score,
		 buy_oscillator, buy_transform, buy_volume, buy_total,
		 sell_oscillator, sell_transform, sell_volume, sell_total,
		 action, score, confidence)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Symbol, snap.ComputedAt.Unix(), snap.LastPrice, snap.LastVolume,
		osc.K, osc.D, osc.PreviousK, string(osc.Trend), snap.Transform, snap.VolumeScore,
		buy.Oscillator, buy.Transform, buy.Volume, buy.Total,
		sell.Oscillator, sell.Transform, sell.Volume, sell.Total,
		string(decision.Action), decision.Score, decision.Confidence,
	)
	return err
}

func (r *SQLiteRecorder) RecordTrade(t *model.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var profit sql.NullFloat64
	if t.Profit != nil {
		profit = sql.NullFloat64{Float64: *t.Profit, Valid: true}
	}

	_, err := r.db.Exec(`INSERT INTO trades
		(id, timestamp, action, symbol, price, quantity, score, profit, order_id)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		t.ID, t.Timestamp.UnixMilli(), string(t.Action), t.Symbol,
		t.Price, t.Quantity, t.Score, profit, t.OrderID,
	)
	return err
}

func (r *SQLiteRecorder) LoadTrades(limit int) ([]model.Trade, error) {
	rows, err := r.db.Query(`SELECT id, timestamp, action, symbol, price, quantity, score, profit, order_id
		FROM trades ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	return scanTrades(rows)
}

func (r *SQLiteRecorder) TradesSince(since time.Time) ([]model.Trade, error) {
	rows, err := r.db.Query(`SELECT id, timestamp, action, symbol, price, quantity, score, profit, order_id
		FROM trades WHERE timestamp >= ? ORDER BY timestamp ASC, rowid ASC`, since.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	return scanTrades(rows)
}

func scanTrades(rows *sql.Rows) ([]model.Trade, error) {
	defer rows.Close()

	var trades []model.Trade
	for rows.Next() {
		var (
			t      model.Trade
			ts     int64
			action string
			profit sql.NullFloat64
		)
		if err := rows.Scan(&t.ID, &ts, &action, &t.Symbol, &t.Price, &t.Quantity, &t.Score, &profit, &t.OrderID); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Action = model.Action(action)
		t.Timestamp = time.UnixMilli(ts)
		if profit.Valid {
			p := profit.Float64
			t.Profit = &p
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

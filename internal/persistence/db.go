// Package persistence provides SQLite-based exchange state storage.
package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/mini-bourse/internal/amm"
	"github.com/talgya/mini-bourse/internal/exchange"
	"github.com/talgya/mini-bourse/internal/rational"
)

// DB wraps a SQLite connection for exchange state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS markets (
		seq INTEGER PRIMARY KEY,
		pair TEXT NOT NULL UNIQUE,
		base INTEGER NOT NULL,
		quote INTEGER NOT NULL,
		dividend_n INTEGER NOT NULL,
		dividend_d INTEGER NOT NULL,
		volume_json TEXT NOT NULL,
		candle_json TEXT NOT NULL,
		history_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bourse_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type marketRow struct {
	Seq         int64  `db:"seq"`
	Pair        string `db:"pair"`
	Base        int64  `db:"base"`
	Quote       int64  `db:"quote"`
	DividendN   int64  `db:"dividend_n"`
	DividendD   int64  `db:"dividend_d"`
	VolumeJSON  string `db:"volume_json"`
	CandleJSON  string `db:"candle_json"`
	HistoryJSON string `db:"history_json"`
}

// SaveExchange writes the full exchange state (full replace). The seq
// column preserves market insertion order, which scan tie-breaking
// depends on.
func (db *DB) SaveExchange(x *exchange.Exchange) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM markets"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO markets
		(seq, pair, base, quote, dividend_n, dividend_d,
		 volume_json, candle_json, history_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	seq := 0
	var insertErr error
	x.Each(func(m *exchange.Market) {
		if insertErr != nil {
			return
		}
		volJSON, _ := json.Marshal(m.Pool.Vol)
		candleJSON, _ := json.Marshal(m.Current)
		historyJSON, _ := json.Marshal(m.History)

		_, insertErr = stmt.Exec(seq, m.ID.Code(),
			m.Pool.Res.Base, m.Pool.Res.Quote,
			m.Dividend.N, m.Dividend.D,
			string(volJSON), string(candleJSON), string(historyJSON))
		seq++
	})
	if insertErr != nil {
		return insertErr
	}

	return tx.Commit()
}

// LoadExchange restores an exchange with the given settings from the
// database, preserving the saved market order.
func (db *DB) LoadExchange(settings exchange.Settings) (*exchange.Exchange, error) {
	var rows []marketRow
	if err := db.conn.Select(&rows, "SELECT * FROM markets ORDER BY seq"); err != nil {
		return nil, fmt.Errorf("load markets: %w", err)
	}

	x := exchange.New(settings)
	for _, r := range rows {
		pair, err := exchange.ParsePair(r.Pair)
		if err != nil {
			return nil, err
		}

		m := &exchange.Market{
			ID:       pair,
			Dividend: rational.New(r.DividendN, r.DividendD),
			Pool:     amm.New(r.Base, r.Quote),
		}
		if err := json.Unmarshal([]byte(r.VolumeJSON), &m.Pool.Vol); err != nil {
			return nil, fmt.Errorf("market %s volume: %w", r.Pair, err)
		}
		if err := json.Unmarshal([]byte(r.CandleJSON), &m.Current); err != nil {
			return nil, fmt.Errorf("market %s candle: %w", r.Pair, err)
		}
		if err := json.Unmarshal([]byte(r.HistoryJSON), &m.History); err != nil {
			return nil, fmt.Errorf("market %s history: %w", r.Pair, err)
		}
		x.Restore(m)
	}
	return x, nil
}

// HasState reports whether a saved exchange exists.
func (db *DB) HasState() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM markets"); err != nil {
		return false
	}
	return count > 0
}

// SetMeta stores a key/value pair in the metadata table.
func (db *DB) SetMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO bourse_meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM bourse_meta WHERE key = ?", key)
	return value, err
}

package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"MooMetrics/internal/aggregate"
	"MooMetrics/internal/impact"
	"MooMetrics/internal/logger"
)

// SQLiteRecorder persists daily coin sentiment and feed events to SQLite.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logger.Logger
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r, err := newWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	r.log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func newWithDB(db *sql.DB) (*SQLiteRecorder, error) {
	r := &SQLiteRecorder{
		db:  db,
		log: logger.Get().With("component", "recorder"),
		now: time.Now,
	}
	if err := r.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS daily_coin_sentiment (
		day           TEXT NOT NULL,
		coin          TEXT NOT NULL,
		observations  INTEGER NOT NULL,
		score_sum     INTEGER NOT NULL,
		average_score REAL NOT NULL,
		sentiment     TEXT NOT NULL,
		counts        TEXT NOT NULL,
		updated_at    INTEGER NOT NULL,
		PRIMARY KEY (day, coin)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_coin ON daily_coin_sentiment(coin, day)`,

	`CREATE TABLE IF NOT EXISTS fetch_events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp   INTEGER NOT NULL,
		source      TEXT NOT NULL,
		status      TEXT NOT NULL,
		items       INTEGER,
		duration_ms INTEGER,
		error       TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fetch_ts ON fetch_events(timestamp)`,

	`CREATE TABLE IF NOT EXISTS digest_events (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL,
		day       TEXT,
		coins     INTEGER,
		delivered INTEGER NOT NULL,
		error     TEXT
	)`,
}

func (r *SQLiteRecorder) migrate() error {
	for _, s := range migrations {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

const upsertDaily = `INSERT INTO daily_coin_sentiment
	(day, coin, observations, score_sum, average_score, sentiment, counts, updated_at)
	VALUES (?,?,?,?,?,?,?,?)
	ON CONFLICT(day, coin) DO UPDATE SET
		observations = excluded.observations,
		score_sum = excluded.score_sum,
		average_score = excluded.average_score,
		sentiment = excluded.sentiment,
		counts = excluded.counts,
		updated_at = excluded.updated_at`

// RecordDaily upserts one row per (day, coin). A later snapshot of the same
// day replaces the earlier tally.
func (r *SQLiteRecorder) RecordDaily(aggs []aggregate.DailyCoinAggregate) error {
	if len(aggs) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	now := r.now().Unix()
	for _, a := range aggs {
		counts, err := json.Marshal(a.Counts)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encode counts: %w", err)
		}
		if _, err := tx.Exec(upsertDaily,
			a.Day, a.Coin, a.Observations, a.ScoreSum, a.AverageScore,
			string(a.Sentiment), string(counts), now,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("upsert %s/%s: %w", a.Day, a.Coin, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordFetch(evt *FetchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO fetch_events
		(timestamp, source, status, items, duration_ms, error)
		VALUES (?,?,?,?,?,?)`,
		r.now().Unix(), evt.Source, evt.Status, evt.Items,
		evt.Duration.Milliseconds(), evt.Error,
	)
	return err
}

func (r *SQLiteRecorder) RecordDigest(evt *DigestEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delivered := 0
	if evt.Delivered {
		delivered = 1
	}
	_, err := r.db.Exec(`INSERT INTO digest_events
		(timestamp, day, coins, delivered, error)
		VALUES (?,?,?,?,?)`,
		r.now().Unix(), evt.Day, evt.Coins, delivered, evt.Error,
	)
	return err
}

// DailyFor returns the stored tallies for one coin, newest day first.
// limit <= 0 returns every stored day.
func (r *SQLiteRecorder) DailyFor(coin string, limit int) ([]aggregate.DailyCoinAggregate, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(`SELECT day, coin, observations, score_sum, average_score, sentiment, counts
		FROM daily_coin_sentiment WHERE coin = ? ORDER BY day DESC LIMIT ?`,
		aggregate.CoinKey(coin), limit)
	if err != nil {
		return nil, fmt.Errorf("query daily: %w", err)
	}
	defer rows.Close()

	var out []aggregate.DailyCoinAggregate
	for rows.Next() {
		var (
			a         aggregate.DailyCoinAggregate
			sentiment string
			counts    string
		)
		if err := rows.Scan(&a.Day, &a.Coin, &a.Observations, &a.ScoreSum, &a.AverageScore, &sentiment, &counts); err != nil {
			return nil, fmt.Errorf("scan daily: %w", err)
		}
		a.Sentiment = impact.Class(sentiment)
		if err := json.Unmarshal([]byte(counts), &a.Counts); err != nil {
			return nil, fmt.Errorf("decode counts: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Infof("closing sqlite recorder")
	return r.db.Close()
}

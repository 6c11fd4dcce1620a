package recorder

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MooMetrics/internal/aggregate"
	"MooMetrics/internal/impact"
)

func sampleAggs() []aggregate.DailyCoinAggregate {
	return []aggregate.DailyCoinAggregate{
		{
			Day: "2024-05-01", Coin: "BTC",
			Counts:       map[impact.Label]int{impact.StrongIncrease: 1, impact.Stable: 2},
			Observations: 3, ScoreSum: 3, AverageScore: 1, Sentiment: impact.Neutral,
		},
		{
			Day: "2024-05-02", Coin: "BTC",
			Counts:       map[impact.Label]int{impact.StrongIncrease: 2},
			Observations: 2, ScoreSum: 6, AverageScore: 3, Sentiment: impact.Bullish,
		},
	}
}

func newMockRecorder(t *testing.T) (*SQLiteRecorder, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for range migrations {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	r, err := newWithDB(db)
	require.NoError(t, err)
	r.now = func() time.Time { return time.Unix(1700000000, 0) }
	return r, mock
}

func TestRecordDaily_Mock(t *testing.T) {
	r, mock := newMockRecorder(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO daily_coin_sentiment").
		WithArgs("2024-05-01", "BTC", 3, 3, 1.0, "Neutral", sqlmock.AnyArg(), int64(1700000000)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO daily_coin_sentiment").
		WithArgs("2024-05-02", "BTC", 2, 6, 3.0, "Bullish", sqlmock.AnyArg(), int64(1700000000)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, r.RecordDaily(sampleAggs()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordDaily_RollsBackOnError(t *testing.T) {
	r, mock := newMockRecorder(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO daily_coin_sentiment").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := r.RecordDaily(sampleAggs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordDaily_EmptyIsNoop(t *testing.T) {
	r, mock := newMockRecorder(t)
	require.NoError(t, r.RecordDaily(nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFetchAndDigest_Mock(t *testing.T) {
	r, mock := newMockRecorder(t)

	mock.ExpectExec("INSERT INTO fetch_events").
		WithArgs(int64(1700000000), "news", "error", 0, int64(1500), "fetch news: network failure").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO digest_events").
		WithArgs(int64(1700000000), "2024-05-02", 3, 1, "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, r.RecordFetch(&FetchEvent{
		Source: "news", Status: "error", Duration: 1500 * time.Millisecond, Error: "fetch news: network failure",
	}))
	require.NoError(t, r.RecordDigest(&DigestEvent{Day: "2024-05-02", Coins: 3, Delivered: true}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "moometrics.db"))
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.RecordDaily(sampleAggs()))

	// a later snapshot of the same day replaces the row
	updated := sampleAggs()[1:]
	updated[0].Counts = map[impact.Label]int{impact.StrongDecrease: 1}
	updated[0].Observations, updated[0].ScoreSum, updated[0].AverageScore = 1, -3, -3
	updated[0].Sentiment = impact.Bearish
	require.NoError(t, r.RecordDaily(updated))

	got, err := r.DailyFor("btc", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-05-02", got[0].Day)
	assert.Equal(t, impact.Bearish, got[0].Sentiment)
	assert.Equal(t, map[impact.Label]int{impact.StrongDecrease: 1}, got[0].Counts)
	assert.Equal(t, 2, got[1].Counts[impact.Stable])

	got, err = r.DailyFor("BTC", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-05-02", got[0].Day)

	got, err = r.DailyFor("BTC", 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.NoError(t, r.RecordFetch(&FetchEvent{Source: "videos", Status: "ready", Items: 12}))
	require.NoError(t, r.RecordDigest(&DigestEvent{Day: "2024-05-02", Coins: 1}))

	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM fetch_events`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordDaily(sampleAggs()))
	assert.NoError(t, r.RecordFetch(&FetchEvent{}))
	assert.NoError(t, r.RecordDigest(&DigestEvent{}))
	assert.NoError(t, r.Close())
}

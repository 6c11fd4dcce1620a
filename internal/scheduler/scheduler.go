package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"MooMetrics/internal/aggregate"
	"MooMetrics/internal/collector"
	"MooMetrics/internal/dashboard"
	"MooMetrics/internal/impact"
	"MooMetrics/internal/logger"
	"MooMetrics/internal/metrics"
	"MooMetrics/internal/model"
	"MooMetrics/internal/notifier"
	"MooMetrics/internal/recorder"
)

const (
	sendRetries  = 3
	historyDays  = 7
	refreshLimit = 2 * time.Minute
)

// Notifier delivers formatted messages. *notifier.TelegramNotifier satisfies it.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Options are the dashboard settings the jobs need.
type Options struct {
	Coins       []model.Coin
	Location    *time.Location
	DigestLimit int
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Notifier
	Recorder  recorder.Recorder
	Ctx       context.Context

	opts Options
	log  *logger.Logger
	now  func() time.Time
}

// NewScheduler creates a new Scheduler. A nil notifier disables delivery
// and a nil recorder disables persistence.
func NewScheduler(ctx context.Context, col *collector.Collector, n Notifier, rec recorder.Recorder, opts Options, log *logger.Logger) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithLocation(opts.Location)),
		Collector: col,
		Notifier:  n,
		Recorder:  rec,
		Ctx:       ctx,
		opts:      opts,
		log:       log.With("component", "scheduler"),
		now:       time.Now,
	}
}

// RegisterAll registers the feed refresh and the daily digest.
func (s *Scheduler) RegisterAll(refreshCron, digestCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, func() { s.RefreshNow() }); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Infof("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Infof("scheduler stopped")
}

// RefreshNow fetches both feeds, then records fetch outcomes and the
// per-day coin tallies of the new snapshot.
func (s *Scheduler) RefreshNow() collector.Snapshot {
	ctx, cancel := context.WithTimeout(s.Ctx, refreshLimit)
	defer cancel()

	start := s.now()
	snap := s.Collector.Refresh(ctx)
	elapsed := s.now().Sub(start)

	s.recordFetch(collector.SourceNews, snap.News.Status, len(snap.News.Items), snap.News.Error, elapsed)
	s.recordFetch(collector.SourceVideos, snap.Videos.Status, len(snap.Videos.Items), snap.Videos.Error, elapsed)

	if snap.News.Ready() {
		aggs := aggregate.Aggregate(snap.News.Items, aggregate.All, s.now(), s.opts.Location)
		if err := s.Recorder.RecordDaily(aggregate.Sorted(aggs)); err != nil {
			s.log.Errorf("record daily: %v", err)
		}
	}
	s.log.Infof("refresh done: news=%s (%d) videos=%s (%d)",
		snap.News.Status, len(snap.News.Items), snap.Videos.Status, len(snap.Videos.Items))
	return snap
}

func (s *Scheduler) recordFetch(source string, status collector.Status, items int, errText string, d time.Duration) {
	if err := s.Recorder.RecordFetch(&recorder.FetchEvent{
		Source:   source,
		Status:   string(status),
		Items:    items,
		Duration: d,
		Error:    errText,
	}); err != nil {
		s.log.Errorf("record fetch: %v", err)
	}
}

// Digest builds the digest for the latest day in the current snapshot.
// It returns the day covered and the number of coins listed.
func (s *Scheduler) Digest() (text, day string, coins int) {
	snap := s.Collector.Snapshot()
	if !snap.News.Ready() {
		return notifier.FormatStatus(snap, s.now()), "", 0
	}
	aggs := aggregate.Aggregate(snap.News.Items, aggregate.All, s.now(), s.opts.Location)
	day, latest := aggregate.Latest(aggs)
	if day == "" {
		day = aggregate.DayOf(s.now(), s.opts.Location)
	}
	return notifier.FormatDigest(day, latest, s.opts.DigestLimit), day, len(latest)
}

func (s *Scheduler) digestTask() {
	s.log.Infof("running digest task")
	if !s.Collector.Snapshot().News.Ready() {
		s.RefreshNow()
	}
	text, day, coins := s.Digest()
	evt := &recorder.DigestEvent{Day: day, Coins: coins}

	if err := s.send(text); err != nil {
		evt.Error = err.Error()
		metrics.DigestsSent.WithLabelValues("error").Inc()
	} else if s.Notifier != nil {
		evt.Delivered = true
		metrics.DigestsSent.WithLabelValues("success").Inc()
	}
	if err := s.Recorder.RecordDigest(evt); err != nil {
		s.log.Errorf("record digest: %v", err)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText(s.opts.Coins)
	}
	// "/coin@moo_bot btc" addresses a bot in a group chat.
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch name {
	case "/digest":
		text, _, _ := s.Digest()
		return text
	case "/legend":
		return notifier.FormatLegend(impact.Legend(), impact.SentimentRules())
	case "/status":
		return notifier.FormatStatus(s.Collector.Snapshot(), s.now())
	case "/refresh":
		return notifier.FormatStatus(s.RefreshNow(), s.now())
	case "/coin":
		if len(fields) < 2 {
			return "Usage: /coin SYMBOL\n\n" + helpText(s.opts.Coins)
		}
		coin, err := dashboard.ResolveCoin(s.opts.Coins, fields[1])
		if err != nil {
			return fmt.Sprintf("❓ %s\n\n%s", err, helpText(s.opts.Coins))
		}
		points, err := s.Collector.CoinHistory(ctx, coin.Symbol)
		if err != nil {
			return fmt.Sprintf("❌ history for %s unavailable: %v", coin.Symbol, err)
		}
		return notifier.FormatCoinHistory(coin, points, historyDays)
	default:
		return helpText(s.opts.Coins)
	}
}

func helpText(coins []model.Coin) string {
	symbols := make([]string, 0, len(coins))
	for _, c := range coins {
		symbols = append(symbols, c.Symbol)
	}
	return "Available commands:\n" +
		"• /digest latest coin sentiment\n" +
		"• /coin SYMBOL impact history (" + strings.Join(symbols, ", ") + ")\n" +
		"• /legend impact scale\n" +
		"• /status feed status\n" +
		"• /refresh refetch feeds"
}

// send delivers text, or only logs it when no notifier is configured.
func (s *Scheduler) send(text string) error {
	if s.Notifier == nil {
		s.log.Infof("no notifier configured, digest:\n%s", text)
		return nil
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		s.log.Errorf("send notification: %v", err)
		return err
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"MooMetrics/internal/collector"
	"MooMetrics/internal/logger"
	"MooMetrics/internal/metrics"
	"MooMetrics/internal/notifier"
	"MooMetrics/internal/recorder"
	"MooMetrics/internal/scheduler"
	"MooMetrics/internal/server"
)

var serveNoRefresh bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard API, scheduled refreshes and the Telegram bot",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoRefresh, "no-initial-refresh", false, "skip fetching the feeds at startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Get()
	log.Infof("MooMetrics starting...")
	metrics.Register()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	fetcher := newFetcher()
	col := collector.NewCollector(fetcher, log)
	log.Infof("news backend: %s, video backend: %s", cfg.News.BaseURL, cfg.Videos.BaseURL)

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	var store server.DailyStore
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warnf("init sqlite recorder failed, using noop: %v", err)
		} else {
			rec, store = sr, sr
		}
	}
	defer rec.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var tn *notifier.TelegramNotifier
	var n scheduler.Notifier
	if cfg.TelegramEnabled() {
		tn, err = notifier.NewTelegramNotifier(notifier.TelegramConfig{
			Token:  cfg.Telegram.BotToken,
			ChatID: cfg.Telegram.ChatID,
			Proxy:  cfg.Proxy,
		}, log)
		if err != nil {
			log.Warnf("telegram disabled: %v", err)
		} else {
			n = tn
		}
	}

	sched := scheduler.NewScheduler(ctx, col, n, rec, scheduler.Options{
		Coins:       cfg.Dashboard.Coins,
		Location:    loc,
		DigestLimit: cfg.Dashboard.DigestLimit,
	}, log)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.DigestCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
	}
	if !serveNoRefresh {
		go sched.RefreshNow()
	}

	if cfg.Log.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	api := server.New(col, server.Options{
		Coins:      cfg.Dashboard.Coins,
		Roster:     cfg.Dashboard.Channels,
		SeedRoster: *cfg.Dashboard.SeedRoster,
		Location:   loc,
		Refresher:  sched,
		Store:      store,
	}, log)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Infof("shutdown signal received, stopping...")
	case err := <-errCh:
		return err
	}

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http shutdown: %v", err)
	}
	log.Infof("MooMetrics stopped")
	return nil
}

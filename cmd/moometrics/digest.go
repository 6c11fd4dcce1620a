package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"MooMetrics/internal/collector"
	"MooMetrics/internal/logger"
	"MooMetrics/internal/notifier"
	"MooMetrics/internal/scheduler"
)

var digestSend bool

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Fetch the news feed and print the latest day's coin sentiment",
	RunE:  runDigest,
}

func init() {
	digestCmd.Flags().BoolVar(&digestSend, "send", false, "also deliver the digest to the configured Telegram chat")
}

func runDigest(cmd *cobra.Command, args []string) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	col := collector.NewCollector(newFetcher(), logger.Get())
	sched := scheduler.NewScheduler(ctx, col, nil, nil, scheduler.Options{
		Coins:       cfg.Dashboard.Coins,
		Location:    loc,
		DigestLimit: cfg.Dashboard.DigestLimit,
	}, logger.Get())

	snap := sched.RefreshNow()
	if snap.News.Status == collector.StatusError {
		return snap.News.Err
	}
	text, _, _ := sched.Digest()
	fmt.Fprintln(cmd.OutOrStdout(), text)

	if !digestSend {
		return nil
	}
	if !cfg.TelegramEnabled() {
		return fmt.Errorf("telegram is not configured")
	}
	tn, err := notifier.NewTelegramNotifier(notifier.TelegramConfig{
		Token:  cfg.Telegram.BotToken,
		ChatID: cfg.Telegram.ChatID,
		Proxy:  cfg.Proxy,
	}, logger.Get())
	if err != nil {
		return err
	}
	return tn.SendWithRetry(ctx, text, 3)
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"MooMetrics/internal/model"
)

// Config holds all application configuration.
type Config struct {
	News struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"news"`
	Videos struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"videos"`
	HTTP struct {
		Timeout           time.Duration `yaml:"timeout"`
		RequestsPerMinute int           `yaml:"requests_per_minute"`
	} `yaml:"http"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		DigestCron  string `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Dashboard struct {
		Timezone    string          `yaml:"timezone"`
		SeedRoster  *bool           `yaml:"seed_roster"`
		Coins       []model.Coin    `yaml:"coins"`
		Channels    []model.Channel `yaml:"channels"`
		DigestLimit int             `yaml:"digest_limit"`
	} `yaml:"dashboard"`
	Log struct {
		Level string `yaml:"level"`
		Env   string `yaml:"env"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then .env, then environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if v := os.Getenv("MOOMETRICS_NEWS_BACKEND_URL"); v != "" {
		cfg.News.BaseURL = v
	}
	if v := os.Getenv("MOOMETRICS_VIDEO_BACKEND_URL"); v != "" {
		cfg.Videos.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		var id int64
		if _, err := fmt.Sscanf(v, "%d", &id); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Log.Env = v
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		cfg.Dashboard.Timezone = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.News.BaseURL == "" {
		c.News.BaseURL = "http://127.0.0.1:8000"
	}
	if c.Videos.BaseURL == "" {
		c.Videos.BaseURL = "http://127.0.0.1:8080"
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = 30 * time.Second
	}
	if c.HTTP.RequestsPerMinute == 0 {
		c.HTTP.RequestsPerMinute = 60
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8090"
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 */10 * * * *"
	}
	if c.Schedule.DigestCron == "" {
		c.Schedule.DigestCron = "0 0 9 * * *"
	}
	if c.Dashboard.Timezone == "" {
		c.Dashboard.Timezone = "UTC"
	}
	if c.Dashboard.SeedRoster == nil {
		seed := true
		c.Dashboard.SeedRoster = &seed
	}
	if len(c.Dashboard.Coins) == 0 {
		c.Dashboard.Coins = model.DefaultCoins
	}
	if len(c.Dashboard.Channels) == 0 {
		c.Dashboard.Channels = model.DefaultChannels
	}
	if c.Dashboard.DigestLimit == 0 {
		c.Dashboard.DigestLimit = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Env == "" {
		c.Log.Env = "development"
	}
}

// Location resolves the dashboard timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Dashboard.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Dashboard.Timezone, err)
	}
	return loc, nil
}

// TelegramEnabled reports whether digest delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != 0
}

// Validate checks that all required fields are usable.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{"news.base_url": c.News.BaseURL, "videos.base_url": c.Videos.BaseURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	if c.Proxy != "" {
		if _, err := url.Parse(c.Proxy); err != nil {
			return fmt.Errorf("proxy: %w", err)
		}
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	if c.HTTP.RequestsPerMinute < 0 {
		return fmt.Errorf("http.requests_per_minute must not be negative")
	}
	if c.Schedule.RefreshCron == "" || c.Schedule.DigestCron == "" {
		return fmt.Errorf("schedule.refresh_cron and schedule.digest_cron are required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	for _, coin := range c.Dashboard.Coins {
		if coin.Symbol == "" {
			return fmt.Errorf("dashboard.coins entries need a symbol")
		}
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"ratesync/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Notion struct {
	Token      string `mapstructure:"token" validate:"required"`
	DatabaseID string `mapstructure:"database_id" validate:"required"`
	BaseURL    string `mapstructure:"base_url" validate:"required,url"`
	Version    string `mapstructure:"version" validate:"required"`
}

type Feed struct {
	URLs []string `mapstructure:"-" validate:"min=1,dive,url"`
}

type Sync struct {
	Mode            string `mapstructure:"mode" validate:"oneof=latest history"`
	CurrencyFilter  string `mapstructure:"currency_filter"`
	ContinueOnError bool   `mapstructure:"continue_on_error"`
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gt=0"`
}

type Retry struct {
	FeedAttempts         int `mapstructure:"feed_attempts" validate:"gte=1"`
	FeedBackoffMs        int `mapstructure:"feed_backoff_ms" validate:"gte=0"`
	DestinationAttempts  int `mapstructure:"destination_attempts" validate:"gte=1"`
	DestinationBackoffMs int `mapstructure:"destination_backoff_ms" validate:"gte=0"`
}

type Scheduler struct {
	IntervalSeconds int `mapstructure:"interval_seconds" validate:"gte=0"`
}

type HTTPServer struct {
	Port string `mapstructure:"port" validate:"required"`
}

type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type AppConfig struct {
	Notion     Notion     `mapstructure:"notion"`
	Feed       Feed       `mapstructure:"feed"`
	Sync       Sync       `mapstructure:"sync"`
	HTTPClient HTTPClient `mapstructure:"http_client"`
	Retry      Retry      `mapstructure:"retry"`
	Scheduler  Scheduler  `mapstructure:"scheduler"`
	HTTPServer HTTPServer `mapstructure:"http_server"`
	Logging    Logging    `mapstructure:"logging"`
}

// Init reads .env and config.yaml from the working directory when present, then the
// environment. Every failure wraps domain.ErrConfig.
func Init() (*AppConfig, error) {
	return load(".env", "config.yaml")
}

func load(envFile, configFile string) (*AppConfig, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: error loading .env file: %w", domain.ErrConfig, err)
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: error reading config file: %w", domain.ErrConfig, err)
		}
	}

	v.SetDefault("notion.base_url", "https://api.notion.com/v1")
	v.SetDefault("notion.version", "2022-06-28")
	v.SetDefault("sync.mode", "latest")
	v.SetDefault("sync.continue_on_error", false)
	v.SetDefault("http_client.timeout_seconds", 30)
	v.SetDefault("retry.feed_attempts", 3)
	v.SetDefault("retry.feed_backoff_ms", 500)
	v.SetDefault("retry.destination_attempts", 3)
	v.SetDefault("retry.destination_backoff_ms", 1500)
	v.SetDefault("scheduler.interval_seconds", 0)
	v.SetDefault("http_server.port", "8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// notion env vars
	_ = v.BindEnv("notion.token", "NOTION_API_TOKEN")
	_ = v.BindEnv("notion.database_id", "NOTION_DATABASE_ID", "NOTION_LATEST_DATABASE_ID")
	_ = v.BindEnv("notion.base_url", "NOTION_BASE_URL")
	_ = v.BindEnv("notion.version", "NOTION_VERSION")

	// feed env vars, in fallback order
	_ = v.BindEnv("feed.urls", "FEED_URLS")
	_ = v.BindEnv("feed.rates_json_url", "RATES_JSON_URL")
	_ = v.BindEnv("feed.pages_rates_url", "PAGES_RATES_URL")
	_ = v.BindEnv("feed.raw_rates_url", "RAW_RATES_URL")

	// sync env vars
	_ = v.BindEnv("sync.mode", "SYNC_MODE")
	_ = v.BindEnv("sync.currency_filter", "CURRENCY_FILTER")
	_ = v.BindEnv("sync.continue_on_error", "SYNC_CONTINUE_ON_ERROR")

	// http client and retry env vars
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")
	_ = v.BindEnv("retry.feed_attempts", "FEED_RETRY_ATTEMPTS")
	_ = v.BindEnv("retry.feed_backoff_ms", "FEED_RETRY_BACKOFF_MS")
	_ = v.BindEnv("retry.destination_attempts", "DEST_RETRY_ATTEMPTS")
	_ = v.BindEnv("retry.destination_backoff_ms", "DEST_RETRY_BACKOFF_MS")

	// daemon env vars
	_ = v.BindEnv("scheduler.interval_seconds", "SCHEDULE_INTERVAL_SECONDS")
	_ = v.BindEnv("http_server.port", "HTTP_PORT")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: error unmarshalling config: %w", domain.ErrConfig, err)
	}

	cfg.Sync.Mode = strings.ToLower(strings.TrimSpace(cfg.Sync.Mode))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Notion.BaseURL = strings.TrimSuffix(cfg.Notion.BaseURL, "/")
	cfg.Feed.URLs = feedURLs(v)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfig, err)
	}
	return &cfg, nil
}

// feedURLs lists candidate feed urls: FEED_URLS entries first, then the single-url keys.
func feedURLs(v *viper.Viper) []string {
	var raw []string
	raw = append(raw, v.GetStringSlice("feed.urls")...)
	raw = append(raw,
		v.GetString("feed.rates_json_url"),
		v.GetString("feed.pages_rates_url"),
		v.GetString("feed.raw_rates_url"),
	)

	seen := make(map[string]struct{}, len(raw))
	urls := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, u := range strings.Split(entry, ",") {
			u = strings.TrimSpace(u)
			if u == "" {
				continue
			}
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			urls = append(urls, u)
		}
	}
	return urls
}

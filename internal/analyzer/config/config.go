package config

import (
	"time"

	"golang-market-analyzer/pkg/config"
)

// Cache holds analysis cache configuration. MaxAge bounds reuse of a cached
// narrative by its stored timestamp; SweepMaxAge bounds physical deletion by
// file modification time. The two are intentionally separate criteria.
type Cache struct {
	Dir         string        `mapstructure:"dir"`
	MaxAge      time.Duration `mapstructure:"max_age"`
	SweepMaxAge time.Duration `mapstructure:"sweep_max_age"`
}

// Sentiment holds the classification thresholds. Values at exactly the
// threshold classify as neutral.
type Sentiment struct {
	ThresholdLo float64 `mapstructure:"threshold_lo"`
	ThresholdHi float64 `mapstructure:"threshold_hi"`
}

// Strength holds the market strength level thresholds.
type Strength struct {
	Strong float64 `mapstructure:"strong"`
	Choppy float64 `mapstructure:"choppy"`
}

// Report holds report rendering configuration.
type Report struct {
	Dir string `mapstructure:"dir"`
}

// Eastmoney holds the configuration for the eastmoney endpoints.
type Eastmoney struct {
	BaseURL             string `mapstructure:"base_url"`
	NewsURL             string `mapstructure:"news_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Xueqiu holds the configuration for the xueqiu hot topic endpoint.
type Xueqiu struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Sina holds the configuration for the sina finance RSS feed.
type Sina struct {
	RSSURL string `mapstructure:"rss_url"`
}

// Themes holds theme extraction configuration.
type Themes struct {
	Keywords []string `mapstructure:"keywords"`
}

// Schedule holds cron specs for the serve command.
type Schedule struct {
	CronSpecs []string `mapstructure:"cron_specs"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the analyzer service.
type Config struct {
	App       config.App    `mapstructure:"app"`
	Logger    config.Logger `mapstructure:"logger"`
	API       config.API    `mapstructure:"api"`
	Cache     Cache         `mapstructure:"cache"`
	Sentiment Sentiment     `mapstructure:"sentiment"`
	Strength  Strength      `mapstructure:"strength"`
	Report    Report        `mapstructure:"report"`
	Eastmoney Eastmoney     `mapstructure:"eastmoney"`
	Xueqiu    Xueqiu        `mapstructure:"xueqiu"`
	Sina      Sina          `mapstructure:"sina"`
	Themes    Themes        `mapstructure:"themes"`
	Schedule  Schedule      `mapstructure:"schedule"`
	Telegram  Telegram      `mapstructure:"telegram"`
}

// DefaultThemeKeywords is the keyword list used to derive themes from hot
// topics when none is configured.
var DefaultThemeKeywords = []string{
	"AI", "artificial intelligence", "chip", "semiconductor", "new energy",
	"lithium battery", "photovoltaic", "pharmaceutical", "biotech",
	"consumer", "liquor", "defense", "state-owned enterprise reform",
	"metaverse", "digital economy", "robotics", "autonomous driving",
	"energy storage", "hydrogen", "wind power",
}

// Load loads the analyzer configuration from the given path and applies
// defaults for unset fields.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = "ai_cache"
	}
	if cfg.Cache.MaxAge <= 0 {
		cfg.Cache.MaxAge = 6 * time.Hour
	}
	if cfg.Cache.SweepMaxAge <= 0 {
		cfg.Cache.SweepMaxAge = 7 * 24 * time.Hour
	}
	if cfg.Sentiment.ThresholdLo <= 0 {
		cfg.Sentiment.ThresholdLo = 0.4
	}
	if cfg.Sentiment.ThresholdHi <= 0 {
		cfg.Sentiment.ThresholdHi = 0.6
	}
	if cfg.Strength.Strong <= 0 {
		cfg.Strength.Strong = 7.0
	}
	if cfg.Strength.Choppy <= 0 {
		cfg.Strength.Choppy = 5.0
	}
	if cfg.Report.Dir == "" {
		cfg.Report.Dir = "reports"
	}
	if cfg.Eastmoney.BaseURL == "" {
		cfg.Eastmoney.BaseURL = "http://push2.eastmoney.com"
	}
	if cfg.Eastmoney.NewsURL == "" {
		cfg.Eastmoney.NewsURL = "http://finance.eastmoney.com/news/cyfj.html"
	}
	if cfg.Eastmoney.MaxRequestPerMinute <= 0 {
		cfg.Eastmoney.MaxRequestPerMinute = 30
	}
	if cfg.Xueqiu.BaseURL == "" {
		cfg.Xueqiu.BaseURL = "https://xueqiu.com"
	}
	if cfg.Xueqiu.MaxRequestPerMinute <= 0 {
		cfg.Xueqiu.MaxRequestPerMinute = 30
	}
	if cfg.Sina.RSSURL == "" {
		cfg.Sina.RSSURL = "https://rss.sina.com.cn/finance/stock/hydt.xml"
	}
	if len(cfg.Themes.Keywords) == 0 {
		cfg.Themes.Keywords = DefaultThemeKeywords
	}
	if len(cfg.Schedule.CronSpecs) == 0 {
		cfg.Schedule.CronSpecs = []string{"0 9 * * *", "0 15 * * *"}
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 8080
	}
}

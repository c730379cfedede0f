package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. Screening thresholds are
// configuration, not hardcoded law: every cutoff below was chosen
// empirically and can be overridden per deployment.
type Config struct {
	Server struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	DataSource struct {
		Proxy          string  `yaml:"proxy"`
		PauseSeconds   float64 `yaml:"pause_seconds"`   // fixed pause between provider calls
		TimeoutSeconds int     `yaml:"timeout_seconds"` // per-symbol fetch timeout
	} `yaml:"data_source"`
	Universe struct {
		SeedDir string `yaml:"seed_dir"`
	} `yaml:"universe"`
	Screen struct {
		Workers             int     `yaml:"workers"`
		MultipleThreshold   float64 `yaml:"multiple_threshold"`
		StrongMultipleMax   float64 `yaml:"strong_multiple_max"`
		MAShort             int     `yaml:"ma_short"`
		MALong              int     `yaml:"ma_long"`
		SixMonthTradingDays int     `yaml:"six_month_trading_days"`
		VIPBelowRatio       float64 `yaml:"vip_below_ratio"`
		SalesR2Flat         float64 `yaml:"sales_r2_flat"`
		SalesSlopeEps       float64 `yaml:"sales_slope_eps"`
	} `yaml:"screen"`
	TargetPrice struct {
		DefaultFloatRatePct float64 `yaml:"default_float_rate_pct"`
		DefaultMultiplier   float64 `yaml:"default_multiplier"`
		HorizonWeeks        int     `yaml:"horizon_weeks"`
	} `yaml:"target_price"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
		TTLHours   int    `yaml:"ttl_hours"`
	} `yaml:"database"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
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

	// Environment variable overrides
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("SEED_DIR"); v != "" {
		cfg.Universe.SeedDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SCREEN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Screen.Workers = n
		}
	}
	if v := os.Getenv("FETCH_PAUSE_SECONDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DataSource.PauseSeconds = f
		}
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8087"
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = 30
	}
	if cfg.Universe.SeedDir == "" {
		cfg.Universe.SeedDir = "seeds"
	}
	if cfg.Screen.Workers == 0 {
		cfg.Screen.Workers = 8
	}
	if cfg.Screen.MultipleThreshold == 0 {
		cfg.Screen.MultipleThreshold = 14.0
	}
	if cfg.Screen.StrongMultipleMax == 0 {
		cfg.Screen.StrongMultipleMax = 10.0
	}
	if cfg.Screen.MAShort == 0 {
		cfg.Screen.MAShort = 112
	}
	if cfg.Screen.MALong == 0 {
		cfg.Screen.MALong = 224
	}
	if cfg.Screen.SixMonthTradingDays == 0 {
		cfg.Screen.SixMonthTradingDays = 126
	}
	if cfg.Screen.VIPBelowRatio == 0 {
		cfg.Screen.VIPBelowRatio = 2.0 / 3.0
	}
	if cfg.Screen.SalesR2Flat == 0 {
		cfg.Screen.SalesR2Flat = 0.35
	}
	if cfg.Screen.SalesSlopeEps == 0 {
		cfg.Screen.SalesSlopeEps = 0.02
	}
	if cfg.TargetPrice.DefaultFloatRatePct == 0 {
		cfg.TargetPrice.DefaultFloatRatePct = 20.0
	}
	if cfg.TargetPrice.DefaultMultiplier == 0 {
		cfg.TargetPrice.DefaultMultiplier = 1.0
	}
	if cfg.TargetPrice.HorizonWeeks == 0 {
		cfg.TargetPrice.HorizonWeeks = 26
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 30 7 * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/value_screener.db"
	}
	if cfg.Database.TTLHours == 0 {
		cfg.Database.TTLHours = 24
	}

	return cfg, nil
}

// Validate checks that the loaded configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Screen.MAShort <= 0 || c.Screen.MALong <= 0 {
		return fmt.Errorf("screen.ma_short and screen.ma_long must be positive")
	}
	if c.Screen.MAShort >= c.Screen.MALong {
		return fmt.Errorf("screen.ma_short must be below screen.ma_long")
	}
	if c.Screen.VIPBelowRatio <= 0 || c.Screen.VIPBelowRatio > 1 {
		return fmt.Errorf("screen.vip_below_ratio must be in (0,1]")
	}
	if c.Screen.MultipleThreshold <= 0 {
		return fmt.Errorf("screen.multiple_threshold must be positive")
	}
	if c.TargetPrice.HorizonWeeks <= 0 {
		return fmt.Errorf("target_price.horizon_weeks must be positive")
	}
	if c.Screen.Workers <= 0 {
		return fmt.Errorf("screen.workers must be positive")
	}
	return nil
}

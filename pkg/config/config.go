package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Molit struct {
		BaseURL      string        `yaml:"base_url"`
		AptTradePath string        `yaml:"apt_trade_path"`
		ServiceKey   string        `yaml:"service_key"`
		Timeout      time.Duration `yaml:"timeout"`
		RateCapacity float64       `yaml:"rate_capacity"`
		RatePerSec   float64       `yaml:"rate_per_sec"`
	} `yaml:"molit"`
	Kakao struct {
		BaseURL string        `yaml:"base_url"`
		RestKey string        `yaml:"rest_key"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"kakao"`
	// Aggregation holds domain policy values. The numeric defaults encode
	// observed product behavior; changing them changes what "latest deal"
	// and "walkable" mean.
	Aggregation struct {
		MonthsBack      int           `yaml:"months_back"`       // reconciler scan depth
		PageSize        int           `yaml:"page_size"`         // reconciler page size
		PageCeiling     int           `yaml:"page_ceiling"`      // max pages per period
		CollectPageSize int           `yaml:"collect_page_size"` // collector single-page size
		RadiusM         int           `yaml:"radius_m"`          // POI search radius
		WalkPaceMPerMin float64       `yaml:"walk_pace_m_per_min"`
		SummaryTTL      time.Duration `yaml:"summary_ttl"`
		PoolSize        int           `yaml:"pool_size"` // shared outbound fan-out bound
	} `yaml:"aggregation"`
	Cache struct {
		Backend         string        `yaml:"backend"` // memory or redis
		MaxSize         int           `yaml:"max_size"`
		CleanupInterval time.Duration `yaml:"cleanup_interval"`
		Redis           struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Catalog struct {
		DSN string `yaml:"dsn"`
	} `yaml:"catalog"`
	Archive struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"archive"`
	Events struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		Linger       time.Duration `yaml:"linger"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		Async        bool          `yaml:"async"`
	} `yaml:"events"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("MOLIT_SERVICE_KEY"); v != "" {
		c.Molit.ServiceKey = v
	}
	if v := os.Getenv("KAKAO_REST_KEY"); v != "" {
		c.Kakao.RestKey = v
	}
	if v := os.Getenv("CATALOG_DSN"); v != "" {
		c.Catalog.DSN = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Events.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Aggregation.MonthsBack == 0 {
		c.Aggregation.MonthsBack = 12
	}
	if c.Aggregation.PageSize == 0 {
		c.Aggregation.PageSize = 1500
	}
	if c.Aggregation.PageCeiling == 0 {
		c.Aggregation.PageCeiling = 10
	}
	if c.Aggregation.CollectPageSize == 0 {
		c.Aggregation.CollectPageSize = 500
	}
	if c.Aggregation.RadiusM == 0 {
		c.Aggregation.RadiusM = 1000
	}
	if c.Aggregation.WalkPaceMPerMin == 0 {
		c.Aggregation.WalkPaceMPerMin = 80.0
	}
	if c.Aggregation.SummaryTTL == 0 {
		c.Aggregation.SummaryTTL = 24 * time.Hour
	}
	if c.Aggregation.PoolSize == 0 {
		c.Aggregation.PoolSize = 6
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.MaxSize == 0 {
		c.Cache.MaxSize = 1000
	}
	if c.Cache.CleanupInterval == 0 {
		c.Cache.CleanupInterval = 5 * time.Minute
	}
	if c.Molit.Timeout == 0 {
		c.Molit.Timeout = 10 * time.Second
	}
	if c.Kakao.Timeout == 0 {
		c.Kakao.Timeout = 1500 * time.Millisecond
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Molit.BaseURL == "" {
		return fmt.Errorf("molit.base_url is required")
	}
	if c.Molit.ServiceKey == "" {
		return fmt.Errorf("molit.service_key is required")
	}
	if c.Kakao.BaseURL == "" {
		return fmt.Errorf("kakao.base_url is required")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required for redis backend")
	}
	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("events.brokers cannot be empty when events are enabled")
	}
	if c.Archive.Enabled && c.Archive.Host == "" {
		return fmt.Errorf("archive.host is required when archive is enabled")
	}
	return nil
}

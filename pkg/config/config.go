package config

import (
	"fmt"
	"os"
	"strconv"
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
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Provider struct {
		Type      string        `yaml:"type"` // "mock" or "yahoo"
		Symbol    string        `yaml:"symbol"`
		BaseURL   string        `yaml:"base_url"`
		Timeout   time.Duration `yaml:"timeout"`
		MaxRPS    float64       `yaml:"max_rps"`
		BurstSize float64       `yaml:"burst_size"`
	} `yaml:"provider"`
	Market struct {
		Timezone     string `yaml:"timezone"`
		SessionOpen  string `yaml:"session_open"`
		SessionClose string `yaml:"session_close"`
	} `yaml:"market"`
	Export struct {
		Backend      string        `yaml:"backend"` // none, kafka, clickhouse, both
		BatchSize    int           `yaml:"batch_size"`
		BatchTimeout time.Duration `yaml:"batch_timeout"`
	} `yaml:"export"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		Table            string        `yaml:"table"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Cache struct {
		Enabled       bool          `yaml:"enabled"`
		MemoryMaxSize int           `yaml:"memory_max_size"`
		TTLToday      time.Duration `yaml:"ttl_today"`
		TTLHistorical time.Duration `yaml:"ttl_historical"`
		Redis         struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Stream struct {
		Enabled         bool          `yaml:"enabled"`
		RefreshInterval time.Duration `yaml:"refresh_interval"`
	} `yaml:"stream"`
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

	// Validate required fields
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

	// Override with environment variables
	if v := os.Getenv("PROVIDER"); v != "" {
		c.Provider.Type = v
	}
	if v := os.Getenv("SYMBOL"); v != "" {
		c.Provider.Symbol = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("EXPORT_BACKEND"); v != "" {
		c.Export.Backend = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Provider.Type {
	case "mock", "yahoo":
	case "":
		return fmt.Errorf("provider.type is required")
	default:
		return fmt.Errorf("provider.type must be 'mock' or 'yahoo', got '%s'", c.Provider.Type)
	}
	if c.Provider.Symbol == "" {
		return fmt.Errorf("provider.symbol is required")
	}
	switch c.Export.Backend {
	case "", "none", "kafka", "clickhouse", "both":
	default:
		return fmt.Errorf("export.backend must be one of none, kafka, clickhouse, both")
	}
	if c.ExportsToKafka() && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty with export.backend '%s'", c.Export.Backend)
	}
	if c.ExportsToClickHouse() && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required with export.backend '%s'", c.Export.Backend)
	}
	if c.ClickHouse.Table == "" {
		c.ClickHouse.Table = "bars_1m"
	}
	if c.Market.Timezone == "" {
		c.Market.Timezone = "America/Los_Angeles"
	}
	if c.Market.SessionOpen == "" {
		c.Market.SessionOpen = "06:30"
	}
	if c.Market.SessionClose == "" {
		c.Market.SessionClose = "13:00"
	}
	return nil
}

// ExportsToKafka reports whether captured bars are published to Kafka.
func (c *Config) ExportsToKafka() bool {
	return c.Export.Backend == "kafka" || c.Export.Backend == "both"
}

// ExportsToClickHouse reports whether captured bars are persisted to ClickHouse.
func (c *Config) ExportsToClickHouse() bool {
	return c.Export.Backend == "clickhouse" || c.Export.Backend == "both"
}

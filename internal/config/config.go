package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"opensky-state-decoder/internal/fetcher"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	OpenSky   OpenSkyConfig   `yaml:"opensky"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Buffer    BufferConfig    `yaml:"buffer"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type OpenSkyConfig struct {
	BaseURL        string              `yaml:"base_url"`
	PollInterval   time.Duration       `yaml:"poll_interval"`
	RequestTimeout time.Duration       `yaml:"request_timeout"`
	Username       string              `yaml:"username"`
	Password       string              `yaml:"password"`
	BoundingBox    fetcher.BoundingBox `yaml:"bounding_box"`
}

// RateLimitConfig bounds how often the OpenSky API is called.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

type BufferConfig struct {
	Type      string        `yaml:"type"` // "ring" or "sliding_window"
	Size      int           `yaml:"size"`
	BatchSize int           `yaml:"batch_size"`
	Window    time.Duration `yaml:"window"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"` // "DEBUG", "INFO", "WARN", "ERROR"
	FilePath   string `yaml:"file_path"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

func Load(configPath string) (*Config, error) {
	config := &Config{}

	// Set defaults
	config.setDefaults()

	// Load from file if provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Override with environment variables
	if err := config.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func (c *Config) setDefaults() {
	c.Server.Port = 8080
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 15 * time.Second
	c.Server.IdleTimeout = 60 * time.Second

	c.OpenSky.BaseURL = "https://opensky-network.org/api"
	c.OpenSky.PollInterval = 10 * time.Second
	c.OpenSky.RequestTimeout = 30 * time.Second
	c.OpenSky.BoundingBox = fetcher.Presets["bjarred"]

	// Anonymous OpenSky access has a 10 second resolution.
	c.RateLimit.RequestsPerSecond = 0.1
	c.RateLimit.BurstSize = 1

	c.Buffer.Type = "ring"
	c.Buffer.Size = 10000
	c.Buffer.BatchSize = 100
	c.Buffer.Window = 5 * time.Minute

	c.Logging.Level = "INFO"
	c.Logging.MaxAgeDays = 14
}

func (c *Config) loadFromEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if baseURL := os.Getenv("OPENSKY_BASE_URL"); baseURL != "" {
		c.OpenSky.BaseURL = baseURL
	}

	if username := os.Getenv("OPENSKY_USERNAME"); username != "" {
		c.OpenSky.Username = username
	}

	if password := os.Getenv("OPENSKY_PASSWORD"); password != "" {
		c.OpenSky.Password = password
	}

	if bbox := os.Getenv("OPENSKY_BBOX"); bbox != "" {
		b, err := ParseBoundingBox(bbox)
		if err != nil {
			return fmt.Errorf("OPENSKY_BBOX: %w", err)
		}
		c.OpenSky.BoundingBox = b
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = strings.ToUpper(logLevel)
	}

	if rps := os.Getenv("RATE_LIMIT_RPS"); rps != "" {
		if r, err := strconv.ParseFloat(rps, 64); err == nil {
			c.RateLimit.RequestsPerSecond = r
		}
	}

	if bufferType := os.Getenv("BUFFER_TYPE"); bufferType != "" {
		c.Buffer.Type = bufferType
	}

	if bufferSize := os.Getenv("BUFFER_SIZE"); bufferSize != "" {
		if s, err := strconv.Atoi(bufferSize); err == nil {
			c.Buffer.Size = s
		}
	}

	return nil
}

// ParseBoundingBox reads "lamin,lomin,lamax,lomax" or a preset name.
func ParseBoundingBox(s string) (fetcher.BoundingBox, error) {
	if b, ok := fetcher.Presets[strings.ToLower(strings.TrimSpace(s))]; ok {
		return b, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return fetcher.BoundingBox{}, fmt.Errorf("expected lamin,lomin,lamax,lomax, got %q", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fetcher.BoundingBox{}, fmt.Errorf("bad coordinate %q: %w", p, err)
		}
		v[i] = f
	}
	return fetcher.BoundingBox{LaMin: v[0], LoMin: v[1], LaMax: v[2], LoMax: v[3]}, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if c.OpenSky.BaseURL == "" {
		return fmt.Errorf("opensky base URL cannot be empty")
	}

	if c.OpenSky.PollInterval <= 0 {
		return fmt.Errorf("opensky poll interval must be positive")
	}

	if err := c.OpenSky.BoundingBox.Validate(); err != nil {
		return fmt.Errorf("opensky bounding box: %w", err)
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests per second must be positive")
	}

	if c.RateLimit.BurstSize < 1 {
		return fmt.Errorf("burst size must be at least 1")
	}

	if c.Buffer.Type != "ring" && c.Buffer.Type != "sliding_window" {
		return fmt.Errorf("buffer type must be 'ring' or 'sliding_window'")
	}

	if c.Buffer.Size < 1 {
		return fmt.Errorf("buffer size must be at least 1")
	}

	if c.Buffer.Type == "sliding_window" && c.Buffer.Window <= 0 {
		return fmt.Errorf("sliding window duration must be positive")
	}

	switch c.Logging.Level {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("log level must be 'DEBUG', 'INFO', 'WARN', or 'ERROR'")
	}

	return nil
}

// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/dhillsview/frontdesk/internal/chart"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FRONTDESK_"

// Config holds the application configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Store   StoreConfig   `toml:"store"`
	Cache   CacheConfig   `toml:"cache"`
	Chart   ChartConfig   `toml:"chart"`
	Booking BookingConfig `toml:"booking"`
	Server  ServerConfig  `toml:"server"`
	UI      UIConfig      `toml:"ui"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// StoreConfig bounds every store call.
type StoreConfig struct {
	ReadTimeout  string `toml:"read_timeout"`  // e.g., "5s"
	WriteTimeout string `toml:"write_timeout"` // e.g., "10s"
}

// CacheConfig holds read cache settings.
type CacheConfig struct {
	TTL string `toml:"ttl"` // e.g., "30s"
}

// ChartConfig holds tape chart settings.
type ChartConfig struct {
	Assignment string `toml:"assignment"` // "round_robin" or "packed"
	DayWidth   int    `toml:"day_width"`  // columns per day
}

// BookingConfig holds defaults for new bookings.
type BookingConfig struct {
	CheckInCutoff string `toml:"checkin_cutoff"` // e.g., "22:00"
	DefaultNights int    `toml:"default_nights"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "harbor", "sand", "night"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Store: StoreConfig{
			ReadTimeout:  "5s",
			WriteTimeout: "10s",
		},
		Cache: CacheConfig{
			TTL: "30s",
		},
		Chart: ChartConfig{
			Assignment: string(chart.StrategyRoundRobin),
			DayWidth:   chart.DefaultDayWidth,
		},
		Booking: BookingConfig{
			CheckInCutoff: "22:00",
			DefaultNights: 2,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		UI: UIConfig{
			Theme: "harbor",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "frontdesk.db"
	}
	return filepath.Join(home, ".local", "share", "frontdesk", "frontdesk.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "frontdesk", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies
// overrides from a .env file in the working directory and the process
// environment, in that order of increasing precedence.
func LoadFrom(path string) (*Config, error) {
	return LoadWithEnv(path, ".env")
}

// LoadWithEnv is LoadFrom with an explicit .env path.
func LoadWithEnv(path, envPath string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	dotenv, err := readDotenv(envPath)
	if err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(cfg, lookupEnv(dotenv)); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

func readDotenv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return vars, nil
}

// lookupEnv prefers the process environment over .env values.
func lookupEnv(dotenv map[string]string) func(string) string {
	return func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	}
}

// applyEnvOverrides applies FRONTDESK_* overrides to the config.
func applyEnvOverrides(cfg *Config, env func(string) string) error {
	strs := map[string]*string{
		"DB_PATH":        &cfg.Storage.DBPath,
		"READ_TIMEOUT":   &cfg.Store.ReadTimeout,
		"WRITE_TIMEOUT":  &cfg.Store.WriteTimeout,
		"CACHE_TTL":      &cfg.Cache.TTL,
		"ASSIGNMENT":     &cfg.Chart.Assignment,
		"CHECKIN_CUTOFF": &cfg.Booking.CheckInCutoff,
		"ADDR":           &cfg.Server.Addr,
		"UI_THEME":       &cfg.UI.Theme,
	}
	for key, dst := range strs {
		if v := env(EnvPrefix + key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"DAY_WIDTH":      &cfg.Chart.DayWidth,
		"DEFAULT_NIGHTS": &cfg.Booking.DefaultNights,
	}
	for key, dst := range ints {
		v := env(EnvPrefix + key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s must be an integer, got %q", EnvPrefix, key, v)
		}
		*dst = n
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if _, err := parseDuration(c.Store.ReadTimeout, "read_timeout"); err != nil {
		return err
	}
	if _, err := parseDuration(c.Store.WriteTimeout, "write_timeout"); err != nil {
		return err
	}
	if _, err := parseDuration(c.Cache.TTL, "ttl"); err != nil {
		return err
	}
	if _, err := chart.ParseStrategy(c.Chart.Assignment); err != nil {
		return err
	}
	if c.Chart.DayWidth < 1 {
		return fmt.Errorf("day_width must be positive, got %d", c.Chart.DayWidth)
	}
	if c.Booking.CheckInCutoff != "" {
		if err := validateTime(c.Booking.CheckInCutoff, "checkin_cutoff"); err != nil {
			return err
		}
	}
	if c.Booking.DefaultNights < 1 {
		return fmt.Errorf("default_nights must be at least 1, got %d", c.Booking.DefaultNights)
	}
	if c.Server.Addr == "" {
		return errors.New("addr must be set")
	}
	return nil
}

func parseDuration(s, field string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like \"5s\", got %q", field, s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", field, s)
	}
	return d, nil
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if len(t) != 5 || t[2] != ':' {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	hour := t[0:2]
	min := t[3:5]
	if !isDigits(hour) || !isDigits(min) || hour > "23" || min > "59" {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ReadTimeout returns the store read timeout.
func (c *Config) ReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Store.ReadTimeout)
	return d
}

// WriteTimeout returns the store write timeout.
func (c *Config) WriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Store.WriteTimeout)
	return d
}

// CacheTTL returns the read cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cache.TTL)
	return d
}

// Strategy returns the configured slot assignment strategy.
func (c *Config) Strategy() chart.Strategy {
	s, _ := chart.ParseStrategy(c.Chart.Assignment)
	return s
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

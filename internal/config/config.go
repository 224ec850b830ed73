package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// SourceType identifies the video catalog backend
type SourceType string

const (
	SourceTypeProxy   SourceType = "proxy"
	SourceTypeYouTube SourceType = "youtube"
)

// StoreType identifies the saved-list backend
type StoreType string

const (
	StoreTypeBolt   StoreType = "bolt"
	StoreTypeRedis  StoreType = "redis"
	StoreTypeMemory StoreType = "memory"
)

const (
	// DefaultProxyURL is the search proxy used when no source is configured
	DefaultProxyURL = "https://silly-volhard-192918.netlify.app/.netlify/functions"

	DefaultPageSize    = 10
	MaxPageSize        = 50
	DefaultMaxSaved    = 100
	DefaultHistorySize = 3
)

// Config holds all application configuration
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Store   StoreConfig   `mapstructure:"store"`
	Library LibraryConfig `mapstructure:"library"`
	Search  SearchConfig  `mapstructure:"search"`
	Player  PlayerConfig  `mapstructure:"player"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SourceConfig holds video catalog configuration
type SourceConfig struct {
	Type              SourceType `mapstructure:"type"`    // "proxy" or "youtube"
	URL               string     `mapstructure:"url"`     // proxy base URL
	APIKey            string     `mapstructure:"api_key"` // YouTube Data API key
	RegionCode        string     `mapstructure:"region_code"`
	SafeSearch        string     `mapstructure:"safe_search"`
	PageSize          int        `mapstructure:"page_size"`
	RequestsPerSecond float64    `mapstructure:"requests_per_second"` // 0 disables limiting
}

// StoreConfig holds saved-list storage configuration
type StoreConfig struct {
	Type     StoreType `mapstructure:"type"`
	Path     string    `mapstructure:"path"` // bolt data directory
	RedisURL string    `mapstructure:"redis_url"`
}

// LibraryConfig holds saved-list limits
type LibraryConfig struct {
	MaxSaved int `mapstructure:"max_saved"`
}

// SearchConfig holds search preferences
type SearchConfig struct {
	HistorySize int `mapstructure:"history_size"`
}

// PlayerConfig holds video player configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"` // empty opens the system browser
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Type:              SourceTypeProxy,
			URL:               DefaultProxyURL,
			RegionCode:        "kr",
			SafeSearch:        "strict",
			PageSize:          DefaultPageSize,
			RequestsPerSecond: 5,
		},
		Store: StoreConfig{
			Type: StoreTypeBolt,
			Path: defaultDataPath(),
		},
		Library: LibraryConfig{
			MaxSaved: DefaultMaxSaved,
		},
		Search: SearchConfig{
			HistorySize: DefaultHistorySize,
		},
		Player: PlayerConfig{
			Args: []string{},
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// Validate rejects settings the rest of the program cannot work with
func (c *Config) Validate() error {
	var errs []error

	switch c.Source.Type {
	case SourceTypeProxy:
		if c.Source.URL == "" {
			errs = append(errs, errors.New("source.url is required for the proxy source"))
		}
	case SourceTypeYouTube:
		if c.Source.APIKey == "" {
			errs = append(errs, errors.New("source.api_key is required for the youtube source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source.type %q", c.Source.Type))
	}

	if c.Source.PageSize < 1 || c.Source.PageSize > MaxPageSize {
		errs = append(errs, fmt.Errorf("source.page_size must be between 1 and %d, got %d", MaxPageSize, c.Source.PageSize))
	}
	if c.Source.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("source.requests_per_second must not be negative"))
	}

	switch c.Store.Type {
	case StoreTypeBolt, StoreTypeMemory:
	case StoreTypeRedis:
		if c.Store.RedisURL == "" {
			errs = append(errs, errors.New("store.redis_url is required for the redis store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.type %q", c.Store.Type))
	}

	if c.Library.MaxSaved < 1 || c.Library.MaxSaved > DefaultMaxSaved {
		errs = append(errs, fmt.Errorf("library.max_saved must be between 1 and %d, got %d", DefaultMaxSaved, c.Library.MaxSaved))
	}
	if c.Search.HistorySize < 0 {
		errs = append(errs, errors.New("search.history_size must not be negative"))
	}

	return errors.Join(errs...)
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "tubeshelf", "tubeshelf.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "tubeshelf", "tubeshelf.log")
	}
}

// defaultDataPath returns the default bolt data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "tubeshelf")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "tubeshelf")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "tubeshelf")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "tubeshelf")
	}
}

// LoadConfig loads configuration from the default locations and environment
func LoadConfig() (*Config, error) {
	return load(viper.GetViper(), defaultConfigPath(), ".")
}

// LoadConfigFrom loads configuration from a single directory, ignoring the
// default search path
func LoadConfigFrom(dir string) (*Config, error) {
	return load(viper.New(), dir)
}

func load(v *viper.Viper, paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Environment variable overrides, e.g. TUBESHELF_SOURCE_API_KEY
	v.SetEnvPrefix("TUBESHELF")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	bindEnv(v)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to the default config directory
func SaveConfig(cfg *Config) error {
	return SaveConfigTo(cfg, defaultConfigPath())
}

// SaveConfigTo writes cfg as config.yaml inside dir
func SaveConfigTo(cfg *Config, dir string) error {
	// Ensure config directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()

	// Set fields individually to keep snake_case key names
	v.Set("source.type", string(cfg.Source.Type))
	v.Set("source.url", cfg.Source.URL)
	v.Set("source.api_key", cfg.Source.APIKey)
	v.Set("source.region_code", cfg.Source.RegionCode)
	v.Set("source.safe_search", cfg.Source.SafeSearch)
	v.Set("source.page_size", cfg.Source.PageSize)
	v.Set("source.requests_per_second", cfg.Source.RequestsPerSecond)

	v.Set("store.type", string(cfg.Store.Type))
	v.Set("store.path", cfg.Store.Path)
	v.Set("store.redis_url", cfg.Store.RedisURL)

	v.Set("library.max_saved", cfg.Library.MaxSaved)
	v.Set("search.history_size", cfg.Search.HistorySize)

	v.Set("player.command", cfg.Player.Command)
	v.Set("player.args", cfg.Player.Args)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const appName = "lazymarv"

// Config holds all application configuration
type Config struct {
	General GeneralConfig `mapstructure:"general"`
	Server  ServerConfig  `mapstructure:"server"`
	UI      UIConfig      `mapstructure:"ui"`
	Listing ListingConfig `mapstructure:"listing"`
	History HistoryConfig `mapstructure:"history"`
	Log     LogConfig     `mapstructure:"log"`
}

type GeneralConfig struct {
	ConfirmDestructiveOps bool `mapstructure:"confirm_destructive_ops"`
	AutoUpdate            bool `mapstructure:"auto_update"`
}

type ServerConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
	// Timeout per request in milliseconds
	Timeout     int     `mapstructure:"timeout" validate:"gte=0"`
	RateLimit   float64 `mapstructure:"rate_limit" validate:"gte=0"`
	Burst       int     `mapstructure:"burst" validate:"gte=0"`
	Concurrency int     `mapstructure:"concurrency" validate:"gte=0"`
}

type UIConfig struct {
	Theme        string `mapstructure:"theme" validate:"oneof=default catppuccin-mocha"`
	MouseEnabled bool   `mapstructure:"mouse_enabled"`
}

type ListingConfig struct {
	PageSize   int    `mapstructure:"page_size" validate:"gte=0"`
	DateLayout string `mapstructure:"date_layout" validate:"required"`
	Timezone   string `mapstructure:"timezone" validate:"required"`
}

type HistoryConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxEntries int  `mapstructure:"max_entries" validate:"gte=0"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File  string `mapstructure:"file"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		General: GeneralConfig{
			ConfirmDestructiveOps: true,
			AutoUpdate:            false,
		},
		Server: ServerConfig{
			URL:         "http://localhost:8000",
			Timeout:     30000,
			RateLimit:   0,
			Burst:       1,
			Concurrency: 4,
		},
		UI: UIConfig{
			Theme:        "default",
			MouseEnabled: true,
		},
		Listing: ListingConfig{
			PageSize:   50,
			DateLayout: "2006-01-02 15:04",
			Timezone:   "Local",
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 500,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := GetDefaults()
	v.SetDefault("general.confirm_destructive_ops", d.General.ConfirmDestructiveOps)
	v.SetDefault("general.auto_update", d.General.AutoUpdate)
	v.SetDefault("server.url", d.Server.URL)
	v.SetDefault("server.timeout", d.Server.Timeout)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.burst", d.Server.Burst)
	v.SetDefault("server.concurrency", d.Server.Concurrency)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.mouse_enabled", d.UI.MouseEnabled)
	v.SetDefault("listing.page_size", d.Listing.PageSize)
	v.SetDefault("listing.date_layout", d.Listing.DateLayout)
	v.SetDefault("listing.timezone", d.Listing.Timezone)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.max_entries", d.History.MaxEntries)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// Loader reads configuration and keeps the viper instance for reloads
type Loader struct {
	v        *viper.Viper
	validate *validator.Validate

	mu  sync.RWMutex
	cfg *Config
}

// NewLoader prepares a loader. An empty file searches the user config
// directory, then the current directory, then ./config.
func NewLoader(file string) *Loader {
	v := viper.New()
	v.SetConfigType("yaml")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		if configDir, err := GetConfigPath(); err == nil {
			v.AddConfigPath(configDir)
		}
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	return &Loader{v: v, validate: validator.New()}
}

// Load reads, decodes and validates the configuration
func (l *Loader) Load() (*Config, error) {
	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	cfg, err := l.decode()
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()
	return cfg, nil
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := l.validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Current returns the last successfully loaded configuration
func (l *Loader) Current() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// File returns the config file in use, if any
func (l *Loader) File() string {
	return l.v.ConfigFileUsed()
}

// Watch reloads the configuration whenever the file changes. Invalid edits
// are reported with a nil config and the previous one stays current.
func (l *Loader) Watch(onChange func(fsnotify.Event, *Config, error)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := l.decode()
		if err == nil {
			l.mu.Lock()
			l.cfg = cfg
			l.mu.Unlock()
		}
		if onChange != nil {
			onChange(e, cfg, err)
		}
	})
	l.v.WatchConfig()
}

// Load loads configuration from the default locations
func Load() (*Config, error) {
	return NewLoader("").Load()
}

// Location returns the timezone configured for date columns
func (c *ListingConfig) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	return time.Local
}

// SlogLevel maps the configured level name to a slog level
func (c *LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

// LogPath returns the log file, defaulting to lazymarv.log in the config dir
func (c *LogConfig) LogPath() (string, error) {
	if c.File != "" {
		return c.File, nil
	}
	dir, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".log"), nil
}

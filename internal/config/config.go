// Package config provides configuration management for Focus.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	_ "time/tzdata" // zones resolve on hosts without a tz database

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/xvierd/focus-cli/internal/domain"
)

// Config holds all configuration for the Focus application.
type Config struct {
	Focus         FocusConfig        `mapstructure:"focus"`
	Time          TimeConfig         `mapstructure:"time"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Log           LogConfig          `mapstructure:"log"`
	MCP           MCPConfig          `mapstructure:"mcp"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// FocusConfig holds the interval settings of focus mode.
type FocusConfig struct {
	WorkInterval           Duration `mapstructure:"work_interval"`
	Break                  Duration `mapstructure:"break"`
	AdditionalBreak        Duration `mapstructure:"additional_break"`
	IncludeBackgroundTasks bool     `mapstructure:"include_background_tasks"`
	List                   string   `mapstructure:"list"`
	Tick                   Duration `mapstructure:"tick"`
}

// TimeConfig holds the time zone task windows are read in. An empty zone
// or "Local" means the system zone.
type TimeConfig struct {
	Zone string `mapstructure:"zone"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LogConfig holds logging settings. File is relative to the data directory
// unless absolute.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ThemeConfig holds the colors of the focus screen.
type ThemeConfig struct {
	ColorWork          string `mapstructure:"color_work"`
	ColorBreak         string `mapstructure:"color_break"`
	ColorWaiting       string `mapstructure:"color_waiting"`
	ColorTitle         string `mapstructure:"color_title"`
	ColorTask          string `mapstructure:"color_task"`
	ColorHelp          string `mapstructure:"color_help"`
	ColorError         string `mapstructure:"color_error"`
	WorkGradientStart  string `mapstructure:"work_gradient_start"`
	WorkGradientEnd    string `mapstructure:"work_gradient_end"`
	BreakGradientStart string `mapstructure:"break_gradient_start"`
	BreakGradientEnd   string `mapstructure:"break_gradient_end"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorWork:          "#7C6FE0",
		ColorBreak:         "#4ECDC4",
		ColorWaiting:       "#6B7280",
		ColorTitle:         "#6B7280",
		ColorTask:          "#A0AEC0",
		ColorHelp:          "#95A5A6",
		ColorError:         "#E74C3C",
		WorkGradientStart:  "#7C6FE0",
		WorkGradientEnd:    "#A78BFA",
		BreakGradientStart: "#4ECDC4",
		BreakGradientEnd:   "#2ECC71",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

const defaultDataDir = "~/.focus"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	settings := domain.DefaultModeSettings()
	return &Config{
		Focus: FocusConfig{
			WorkInterval:    Duration(settings.WorkIntervalDuration),
			Break:           Duration(settings.BreakDuration),
			AdditionalBreak: Duration(settings.AdditionalBreakDuration),
			List:            domain.DefaultListID,
			Tick:            Duration(250 * time.Millisecond),
		},
		Time: TimeConfig{Zone: "Local"},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Storage: StorageConfig{DataDir: defaultDataDir},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   "focus.log",
		},
		MCP:   MCPConfig{Enabled: true},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the default config file, creating it
// with defaults on first run.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath, creating it with
// defaults when missing.
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return decode(v)
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg to configPath.
func SaveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(configPath)
	for key, value := range values(cfg) {
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Set changes one key in the config file at configPath. The result must
// still decode and validate.
func Set(configPath, key, value string) (*Config, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if _, ok := values(DefaultConfig())[key]; !ok {
		return nil, fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}

	if _, err := LoadFrom(configPath); err != nil {
		return nil, err
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	v.Set(key, value)

	updated, err := decode(v)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := SaveTo(configPath, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Keys returns every config key in sorted order.
func Keys() []string {
	vals := values(DefaultConfig())
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value returns the current value of a config key as text.
func (c *Config) Value(key string) (string, bool) {
	v, ok := values(c)[key]
	if !ok {
		return "", false
	}
	return fmt.Sprint(v), true
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".focus", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "focus.db")
}

// LogPath returns the path of the log file.
func (c *Config) LogPath() string {
	if filepath.IsAbs(c.Log.File) {
		return c.Log.File
	}
	return filepath.Join(c.Storage.DataDir, c.Log.File)
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// ModeSettings converts the focus section to domain settings.
func (c *Config) ModeSettings() domain.ModeSettings {
	return domain.ModeSettings{
		WorkIntervalDuration:    time.Duration(c.Focus.WorkInterval),
		BreakDuration:           time.Duration(c.Focus.Break),
		AdditionalBreakDuration: time.Duration(c.Focus.AdditionalBreak),
		IncludeBackgroundTasks:  c.Focus.IncludeBackgroundTasks,
	}
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Time.Zone {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Time.Zone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.Time.Zone, err)
	}
	return loc, nil
}

// Validate checks values that would make focus mode unusable.
func (c *Config) Validate() error {
	if err := c.ModeSettings().Validate(); err != nil {
		return err
	}
	if c.Focus.Tick <= 0 {
		return errors.New("focus.tick must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	for key, value := range values(DefaultConfig()) {
		v.SetDefault(key, value)
	}
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Storage.DataDir == defaultDataDir || cfg.Storage.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.Storage.DataDir = filepath.Join(homeDir, ".focus")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// values flattens cfg into viper keys.
func values(cfg *Config) map[string]interface{} {
	return map[string]interface{}{
		"focus.work_interval":            cfg.Focus.WorkInterval.String(),
		"focus.break":                    cfg.Focus.Break.String(),
		"focus.additional_break":         cfg.Focus.AdditionalBreak.String(),
		"focus.include_background_tasks": cfg.Focus.IncludeBackgroundTasks,
		"focus.list":                     cfg.Focus.List,
		"focus.tick":                     cfg.Focus.Tick.String(),
		"time.zone":                      cfg.Time.Zone,
		"notifications.enabled":          cfg.Notifications.Enabled,
		"notifications.sound":            cfg.Notifications.Sound,
		"storage.data_dir":               cfg.Storage.DataDir,
		"log.level":                      cfg.Log.Level,
		"log.format":                     cfg.Log.Format,
		"log.file":                       cfg.Log.File,
		"mcp.enabled":                    cfg.MCP.Enabled,
		"theme.color_work":               cfg.Theme.ColorWork,
		"theme.color_break":              cfg.Theme.ColorBreak,
		"theme.color_waiting":            cfg.Theme.ColorWaiting,
		"theme.color_title":              cfg.Theme.ColorTitle,
		"theme.color_task":               cfg.Theme.ColorTask,
		"theme.color_help":               cfg.Theme.ColorHelp,
		"theme.color_error":              cfg.Theme.ColorError,
		"theme.work_gradient_start":      cfg.Theme.WorkGradientStart,
		"theme.work_gradient_end":        cfg.Theme.WorkGradientEnd,
		"theme.break_gradient_start":     cfg.Theme.BreakGradientStart,
		"theme.break_gradient_end":       cfg.Theme.BreakGradientEnd,
	}
}

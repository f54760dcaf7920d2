package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envKeyReplacer maps nested keys to env names: server.url -> DLSERVER_SERVER_URL
var envKeyReplacer = strings.NewReplacer(".", "_")

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	History HistoryConfig `mapstructure:"history"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig points the client at the catalog API
type ServerConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 = no client-side deadline
}

// APIConfig configures the dlserver shim
type APIConfig struct {
	Addr      string `mapstructure:"addr"`
	StaticDir string `mapstructure:"static_dir"`
	Catalog   string `mapstructure:"catalog"` // YAML catalog file
}

// StorageConfig holds persistence configuration
type StorageConfig struct {
	Path string `mapstructure:"path"` // empty = memory only
}

// HistoryConfig holds search history configuration
type HistoryConfig struct {
	MaxEntries int `mapstructure:"max_entries"`
}

// UIConfig holds front-end configuration
type UIConfig struct {
	InitialAddress  string `mapstructure:"initial_address"`
	RestoreLast     bool   `mapstructure:"restore_last"`
	HideUnavailable bool   `mapstructure:"hide_unavailable"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:     "http://localhost:3000",
			Timeout: 0,
		},
		API: APIConfig{
			Addr:      ":3000",
			StaticDir: "dist",
			Catalog:   "",
		},
		Storage: StorageConfig{
			Path: filepath.Join(defaultDataPath(), "dlserver.db"),
		},
		History: HistoryConfig{
			MaxEntries: 10,
		},
		UI: UIConfig{
			RestoreLast: true,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "dlsearch.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "dlserver")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "dlserver")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "dlserver")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "dlserver")
	}
}

// LoadConfig loads configuration from file and environment.
// configFile overrides the search path when non-empty.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides (DLSERVER_SERVER_URL, ...)
	v.SetEnvPrefix("DLSERVER")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	bindDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.History.MaxEntries <= 0 {
		cfg.History.MaxEntries = 10
	}

	return cfg, nil
}

// bindDefaults registers every key so AutomaticEnv can override keys that
// are absent from the config file.
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.url", cfg.Server.URL)
	v.SetDefault("server.timeout", cfg.Server.Timeout)
	v.SetDefault("api.addr", cfg.API.Addr)
	v.SetDefault("api.static_dir", cfg.API.StaticDir)
	v.SetDefault("api.catalog", cfg.API.Catalog)
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("history.max_entries", cfg.History.MaxEntries)
	v.SetDefault("ui.initial_address", cfg.UI.InitialAddress)
	v.SetDefault("ui.restore_last", cfg.UI.RestoreLast)
	v.SetDefault("ui.hide_unavailable", cfg.UI.HideUnavailable)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// DefaultConfigFile returns the path SaveConfig writes to
func DefaultConfigFile() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

// SaveConfig writes cfg to the default config location
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("server.url", cfg.Server.URL)
	v.Set("server.timeout", cfg.Server.Timeout.String())

	v.Set("api.addr", cfg.API.Addr)
	v.Set("api.static_dir", cfg.API.StaticDir)
	v.Set("api.catalog", cfg.API.Catalog)

	v.Set("storage.path", cfg.Storage.Path)
	v.Set("history.max_entries", cfg.History.MaxEntries)

	v.Set("ui.initial_address", cfg.UI.InitialAddress)
	v.Set("ui.restore_last", cfg.UI.RestoreLast)
	v.Set("ui.hide_unavailable", cfg.UI.HideUnavailable)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(DefaultConfigFile()); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/mwiater/prefdash/internal/dataset"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the fallback used when the default path does not exist.
	legacyConfigPath = "config.json"
	// defaultHost and defaultPort define where the dashboard listens.
	defaultHost = "127.0.0.1"
	defaultPort = 8501
	// defaultChartWidth and defaultChartHeight size rendered chart images.
	defaultChartWidth  = 1024
	defaultChartHeight = 400
	// defaultFileSessionDir and defaultSQLiteSessionPath locate persisted selections.
	defaultFileSessionDir    = "data/sessions"
	defaultSQLiteSessionPath = "data/sessions.db"
)

// Session store backends.
const (
	SessionStoreNone   = "none"
	SessionStoreMemory = "memory"
	SessionStoreFile   = "file"
	SessionStoreSQLite = "sqlite"
)

// Config represents the top-level application configuration.
type Config struct {
	Datasets    Datasets `json:"datasets" mapstructure:"datasets"`
	Listen      Listen   `json:"listen" mapstructure:"listen"`
	Session     Session  `json:"session" mapstructure:"session"`
	PresetsFile string   `json:"presetsFile,omitempty" mapstructure:"presetsFile"`
	Stacked     bool     `json:"stacked" mapstructure:"stacked"`
	ChartWidth  int      `json:"chartWidth,omitempty" mapstructure:"chartWidth"`
	ChartHeight int      `json:"chartHeight,omitempty" mapstructure:"chartHeight"`
	LogFile     string   `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug       bool     `json:"debug" mapstructure:"debug"`
	ConfigPath  string   `json:"-" mapstructure:"-"`
}

// Datasets points the logical dataset names at files.
type Datasets struct {
	DomainLevel  string `json:"domainLevel,omitempty" mapstructure:"domainLevel"`
	CountryLevel string `json:"countryLevel,omitempty" mapstructure:"countryLevel"`
}

// Listen is the HTTP bind address.
type Listen struct {
	Host string `json:"host,omitempty" mapstructure:"host"`
	Port int    `json:"port,omitempty" mapstructure:"port"`
}

// Session selects how per-session filter selections are kept between requests.
type Session struct {
	Store string `json:"store,omitempty" mapstructure:"store"`
	Path  string `json:"path,omitempty" mapstructure:"path"`
}

// DatasetPaths returns the configured file for each dataset; unset entries use
// the dataset's default file name.
func (c Config) DatasetPaths() map[dataset.Name]string {
	return map[dataset.Name]string{
		dataset.DomainLevel:  strings.TrimSpace(c.Datasets.DomainLevel),
		dataset.CountryLevel: strings.TrimSpace(c.Datasets.CountryLevel),
	}
}

// Addr returns host:port, applying defaults.
func (c Config) Addr() string {
	host := strings.TrimSpace(c.Listen.Host)
	if host == "" {
		host = defaultHost
	}
	port := c.Listen.Port
	if port <= 0 {
		port = defaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// ChartSize returns the width and height of rendered chart images.
func (c Config) ChartSize() (int, int) {
	w, h := c.ChartWidth, c.ChartHeight
	if w <= 0 {
		w = defaultChartWidth
	}
	if h <= 0 {
		h = defaultChartHeight
	}
	return w, h
}

// SessionStore returns the normalized session backend name.
func (c Config) SessionStore() string {
	store := strings.ToLower(strings.TrimSpace(c.Session.Store))
	if store == "" {
		return SessionStoreNone
	}
	return store
}

// SessionPath returns the directory (file store) or database file (sqlite store).
func (c Config) SessionPath() string {
	if p := strings.TrimSpace(c.Session.Path); p != "" {
		return p
	}
	switch c.SessionStore() {
	case SessionStoreSQLite:
		return defaultSQLiteSessionPath
	case SessionStoreFile:
		return defaultFileSessionDir
	default:
		return ""
	}
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "prefdash.log"
}

// Validate reports configuration values that cannot work.
func (c Config) Validate() error {
	switch c.SessionStore() {
	case SessionStoreNone, SessionStoreMemory, SessionStoreFile, SessionStoreSQLite:
	default:
		return fmt.Errorf("invalid session store %q (expected none, memory, file or sqlite)", c.Session.Store)
	}
	if c.Listen.Port < 0 || c.Listen.Port > 65535 {
		return fmt.Errorf("invalid listen port %d", c.Listen.Port)
	}
	return nil
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		if err := config.Validate(); err != nil {
			return Config{}, err
		}
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, config.Validate()
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("no configuration file found (searched %q and %q)", DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

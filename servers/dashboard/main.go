// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/mwiater/prefdash/internal/dashboard"
	"github.com/mwiater/prefdash/internal/dataset"
	"github.com/mwiater/prefdash/internal/server"
	"github.com/mwiater/prefdash/internal/session"
	"go.yaml.in/yaml/v3"
)

type Config struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	DomainLevel  string `yaml:"domain_level"`
	CountryLevel string `yaml:"country_level"`
	SessionStore string `yaml:"session_store"`
	SessionPath  string `yaml:"session_path"`
	PresetsFile  string `yaml:"presets_file"`
	Stacked      bool   `yaml:"stacked"`
	ChartWidth   int    `yaml:"chart_width"`
	ChartHeight  int    `yaml:"chart_height"`
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	dash, store, err := build(cfg)
	if err != nil {
		log.Fatalf("startup error: %v", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dash.Cache().Warm(ctx, dataset.DomainLevel, dataset.CountryLevel); err != nil {
		log.Fatalf("dataset error: %v", err)
	}

	srv := server.New(dash, store, server.Options{
		Stacked:     cfg.Stacked,
		ChartWidth:  cfg.ChartWidth,
		ChartHeight: cfg.ChartHeight,
	})

	log.Printf("dashboard config: host=%s port=%d domain_level=%s country_level=%s session_store=%s", cfg.Host, cfg.Port, cfg.DomainLevel, cfg.CountryLevel, cfg.SessionStore)
	log.Printf("listening on %s (GOOS=%s)", cfg.Addr(), runtime.GOOS)
	if err := srv.ListenAndServe(ctx, cfg.Addr()); err != nil {
		log.Fatal(err)
	}
}

func build(cfg *Config) (*dashboard.Dashboard, session.Store, error) {
	cache := dataset.NewCache(dataset.Loader{Paths: map[dataset.Name]string{
		dataset.DomainLevel:  cfg.DomainLevel,
		dataset.CountryLevel: cfg.CountryLevel,
	}})

	var presets *dashboard.Presets
	if cfg.PresetsFile != "" {
		p, err := dashboard.LoadPresets(cfg.PresetsFile)
		if err != nil {
			return nil, nil, err
		}
		presets = p
	}

	store, err := session.Open(cfg.SessionStore, cfg.SessionPath)
	if err != nil {
		return nil, nil, err
	}
	return dashboard.New(cache, presets), store, nil
}

var (
	configOnce sync.Once
	configVal  *Config
	configErr  error
)

func loadConfig() (*Config, error) {
	configOnce.Do(func() {
		configVal, configErr = loadConfigFrom(filepath.Join("servers", "dashboard", "dashboard.yml"))
	})
	return configVal, configErr
}

func loadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(cfg.SessionStore)) {
	case "":
		cfg.SessionStore = "memory"
	case "none", "memory", "file", "sqlite":
	default:
		return nil, fmt.Errorf("invalid session_store %q (expected none, memory, file or sqlite)", cfg.SessionStore)
	}

	if strings.TrimSpace(cfg.Host) == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port <= 0 {
		cfg.Port = 8501
	}
	return &cfg, nil
}

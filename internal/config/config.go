package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

type KnowledgeConfig struct {
	SymptomPath   string `json:"symptom_path"`
	GuidelinePath string `json:"guideline_path"`
}

type CacheConfig struct {
	ScoreTTLSeconds int `json:"score_ttl_seconds"`
}

type Config struct {
	Server struct {
		Host       string `json:"host"`
		Port       int    `json:"port"`
		Subpath    string `json:"subpath"`
		JWTSecret  string `json:"jwtSecret"`
		APIKeyHash string `json:"apiKeyHash"` // bcrypt hash of the service API key
	} `json:"server"`
	Postgres struct {
		DSN string `json:"dsn"`
	} `json:"postgres"`
	SQLite struct {
		Path string `json:"path"`
	} `json:"sqlite"`
	Redis struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`
	Knowledge KnowledgeConfig `json:"knowledge"`
	Cache     CacheConfig     `json:"cache"`
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads config.json from disk (singleton)
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		var c Config
		if err := json.Unmarshal(raw, &c); err != nil {
			cfgErr = fmt.Errorf("invalid config format: %w", err)
			return
		}
		// Minimal validation
		if c.Server.JWTSecret == "" {
			cfgErr = errors.New("jwtSecret must be set in config")
			return
		}
		if c.SQLite.Path == "" {
			c.SQLite.Path = "medtriage.db"
		}
		if c.Cache.ScoreTTLSeconds == 0 {
			c.Cache.ScoreTTLSeconds = 300
		}
		cfg = &c
	})
	return cfg, cfgErr
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}

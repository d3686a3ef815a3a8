// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultName        = "wallet-app"
	defaultLogLevel    = "info"
	defaultSlippageBps = 50
	defaultTimeoutMs   = 8000
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// History configures where recorded transactions are mirrored. Empty keeps them in memory only.
type History struct {
	AuditPath string `yaml:"audit_path"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Network  Network  `yaml:"network"`
	Exchange Exchange `yaml:"exchange"`
	Tokens   []Token  `yaml:"tokens"`
	Pools    []Pool   `yaml:"pools"`
	Wallet   Wallet   `yaml:"wallet"`
	History  History  `yaml:"history"`
}

// Default returns a config with every default filled in.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued leaves. Tokens and pools stay empty so the built-in tables apply.
func (c *Config) ApplyDefaults() {
	if c.App.Name == "" {
		c.App.Name = defaultName
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = defaultLogLevel
	}
	if c.Network.RpcURL == "" {
		c.Network.RpcURL = DevnetRPC
	}
	if c.Network.Commitment == "" {
		c.Network.Commitment = CommitmentConfirmed
	}
	if c.Exchange.JupiterBase == "" {
		c.Exchange.JupiterBase = DefaultJupiterBase
	}
	if c.Exchange.SlippageBps <= 0 {
		c.Exchange.SlippageBps = defaultSlippageBps
	}
	if c.Exchange.TimeoutMs <= 0 {
		c.Exchange.TimeoutMs = defaultTimeoutMs
	}
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	config.ApplyDefaults()
	return &config, nil
}

// LoadOrDefault behaves like Load but returns defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

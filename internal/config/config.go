package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"aderencia/internal/common"
)

const (
	configPathEnv   = "ADERENCIA_CONFIG"
	addrEnv         = "ADERENCIA_ADDR"
	dbPathEnv       = "ADERENCIA_DB_PATH"
	manifestEnv     = "ADERENCIA_RULESET"
	pdftotextEnv    = "PDFTOTEXT_BIN"
	debugEnv        = "ADERENCIA_DEBUG"
	receitaEnv      = "ADERENCIA_RECEITA_URL"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Database DBConfig      `yaml:"database"`
	Ruleset  RulesetConfig `yaml:"ruleset"`
	PDF      PDFConfig     `yaml:"pdf"`
	Receita  ReceitaConfig `yaml:"receita"`
	Debug    bool          `yaml:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	BodyLimit string `yaml:"bodyLimit"`
}

// DBConfig holds the sqlite evaluation-history store settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// RulesetConfig points at the ruleset manifest describing the three rule tables.
type RulesetConfig struct {
	ManifestPath string `yaml:"manifestPath"`
}

// PDFConfig holds the pdftotext collaborator settings.
type PDFConfig struct {
	Pdftotext string        `yaml:"pdftotext"`
	Timeout   time.Duration `yaml:"timeout"`
}

// ReceitaConfig wires the optional CNPJ registry enrichment client.
type ReceitaConfig struct {
	Enabled bool          `yaml:"enabled"`
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

func defaultConfig() Config {
	return Config{
		Server:   ServerConfig{Addr: ":8080", BodyLimit: "20M"},
		Database: DBConfig{Path: "aderencia.db"},
		PDF:      PDFConfig{Pdftotext: "pdftotext", Timeout: 30 * time.Second},
		Receita:  ReceitaConfig{BaseURL: "https://minhareceita.org", Timeout: 10 * time.Second},
	}
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, common.NewConfigError("cannot read config file "+path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, common.NewConfigError("cannot parse config file "+path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(addrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(dbPathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(manifestEnv); v != "" {
		c.Ruleset.ManifestPath = v
	}
	if v := os.Getenv(pdftotextEnv); v != "" {
		c.PDF.Pdftotext = v
	}
	if v := os.Getenv(receitaEnv); v != "" {
		c.Receita.Enabled = true
		c.Receita.BaseURL = v
	}
	if v := os.Getenv(debugEnv); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
}

// Validate checks that everything required to start serving is present.
func (c *Config) Validate() error {
	if c.Ruleset.ManifestPath == "" {
		return common.NewConfigError("ruleset manifest path is required (set "+manifestEnv+" or ruleset.manifestPath)", common.ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return common.NewConfigError("server addr is required", common.ErrInvalidInput)
	}
	if c.Database.Path == "" {
		return common.NewConfigError("database path is required", common.ErrInvalidInput)
	}
	return nil
}

package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"headerdoc/internal/extractor"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "headerdoc.yaml"

type Config struct {
	Output   string `yaml:"output"`
	Format   string `yaml:"format"`
	Title    string `yaml:"title"`
	TOC      bool   `yaml:"toc"`
	Links    *bool  `yaml:"links"` // defaults to true
	LinkBase string `yaml:"link_base"`
	PadWidth int    `yaml:"pad_width"`
	Policy   string `yaml:"policy"` // lenient or strict

	Grammar extractor.Grammar `yaml:"grammar"`

	Artifacts struct {
		JSON   string `yaml:"json"`
		Report string `yaml:"report"`
		DB     string `yaml:"db"`
	} `yaml:"artifacts"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// LinksEnabled reports whether definition lines should be resolved and linked.
func (c *Config) LinksEnabled() bool {
	return c.Links == nil || *c.Links
}

// LoadConfig loads .env, then the YAML file at path if it exists, then
// HEADERDOC_* environment overrides. A missing file yields defaults.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	var cfg Config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	if v := os.Getenv("HEADERDOC_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("HEADERDOC_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("HEADERDOC_LINK_BASE"); v != "" {
		cfg.LinkBase = v
	}
	if v := os.Getenv("HEADERDOC_POLICY"); v != "" {
		cfg.Policy = v
	}
	if v := os.Getenv("HEADERDOC_SENTINEL"); v != "" {
		cfg.Grammar.Sentinel = v
	}
	if v := os.Getenv("HEADERDOC_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HEADERDOC_LINKS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Links = &b
		}
	}

	cfg.Grammar = cfg.Grammar.WithDefaults()
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	return &cfg, nil
}

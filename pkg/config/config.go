// Package config loads jadata settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// PathEnv names the environment variable that points at the YAML config file.
const PathEnv = "JADATA_CONFIG"

// Config is the root configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"JADATA_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"JADATA_LOG_FORMAT" env-default:"text"`
}

// InputConfig holds default upstream file locations. Command flags take precedence.
type InputConfig struct {
	Kanjidic2        string `yaml:"kanjidic2"         env:"JADATA_KANJIDIC2"`
	Kradfile         string `yaml:"kradfile"          env:"JADATA_KRADFILE"`
	KradfileEncoding string `yaml:"kradfile_encoding" env:"JADATA_KRADFILE_ENCODING" env-default:"euc-jp"`
	JMdict           string `yaml:"jmdict"            env:"JADATA_JMDICT"`
	Furigana         string `yaml:"furigana"          env:"JADATA_FURIGANA"`
}

// OutputConfig holds dataset output settings.
type OutputConfig struct {
	Format    string `yaml:"format"     env:"JADATA_OUTPUT_FORMAT" env-default:"json"`
	BatchSize int    `yaml:"batch_size" env:"JADATA_BATCH_SIZE"    env-default:"500"`
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// An empty path falls back to JADATA_CONFIG; with neither set, only ENV and defaults apply.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv(PathEnv)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that the tags cannot express.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Input.KradfileEncoding) {
	case "utf-8", "euc-jp":
	default:
		return fmt.Errorf("input.kradfile_encoding must be utf-8 or euc-jp (got %q)", c.Input.KradfileEncoding)
	}
	switch strings.ToLower(c.Output.Format) {
	case "json", "binary", "sqlite":
	default:
		return fmt.Errorf("output.format must be json, binary or sqlite (got %q)", c.Output.Format)
	}
	if c.Output.BatchSize <= 0 {
		return fmt.Errorf("output.batch_size must be > 0 (got %d)", c.Output.BatchSize)
	}
	return nil
}

package glox

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the settings read from the optional YAML configuration file.
type Config struct {
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	HistoryFile        string `yaml:"history_file"`
	LogLevel           string `yaml:"log_level"`
	PrintAST           bool   `yaml:"print_ast"`
}

func DefaultConfig() *Config {
	return &Config{
		Prompt:             "> ",
		ContinuationPrompt: ". ",
		HistoryFile:        "~/.glox_history",
		LogLevel:           "warn",
	}
}

// LoadConfig reads path over the defaults. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "config: parse %s", path)
	}

	if _, err := cfg.Level(); err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}

	return cfg, nil
}

// Level maps LogLevel to a slog level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelWarn, errors.Errorf("invalid log_level %q", c.LogLevel)
	}

	return level, nil
}

// HistoryPath expands a leading ~ in HistoryFile.
func (c *Config) HistoryPath() string {
	if !strings.HasPrefix(c.HistoryFile, "~") {
		return c.HistoryFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return strings.TrimPrefix(c.HistoryFile, "~/")
	}

	return filepath.Join(home, strings.TrimPrefix(c.HistoryFile, "~"))
}

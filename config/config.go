package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// DefaultSequence is the reference stream loaded when nothing else is given.
const DefaultSequence = "1, 2, 3, 4, 1, 2, 5, 1, 2, 3, 4, 5"

// MaxPageSize is the largest accepted page size in bytes.
const MaxPageSize uint64 = 1 << 32

// Config holds the settings of one simulation.
type Config struct {
	// Frames is the number of physical frames. Default: 4.
	Frames int `json:"frames" yaml:"frames"`

	// Sequence is the comma-separated page reference stream.
	Sequence string `json:"sequence" yaml:"sequence"`

	// PageSize is accepted for display only. It has no effect on hits,
	// faults or evictions. Must be in 1..MaxPageSize. Default: 1024 bytes.
	PageSize uint64 `json:"page_size" yaml:"page_size"`

	// LogLevel is one of debug, info, warn, error. Default: info.
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// DefaultConfig returns a Config with the classic four-frame example.
func DefaultConfig() *Config {
	return &Config{
		Frames:   4,
		Sequence: DefaultSequence,
		PageSize: 1024,
		LogLevel: "info",
	}
}

// LoadConfig loads a Config from a JSON or YAML file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a file, as YAML if the extension says so and
// as JSON otherwise.
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the frame count, the sequence and the page size.
func (c *Config) Validate() error {
	_, err := c.Validated()
	return err
}

// Validated parses the frame count and sequence, then checks the page size.
func (c *Config) Validated() (Validated, error) {
	v, err := Parse(c.Frames, c.Sequence)
	if err != nil {
		return Validated{}, err
	}
	if c.PageSize == 0 || c.PageSize > MaxPageSize {
		return Validated{}, fmt.Errorf("%w: page_size must be in 1..%d, got %d",
			ErrInvalidConfig, MaxPageSize, c.PageSize)
	}
	return v, nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

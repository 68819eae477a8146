// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and saves the entangler CLI configuration.
//
// The file is a flat key = value document with # comments, stored as
// "config" under the data directory and parsed with viper's dotenv codec.
// Environment variables prefixed with ENTANGLER_ override file values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config keys as they appear in the file.
const (
	KeyDataDir   = "datadir"
	KeyProgramID = "programid"
	KeyLogLevel  = "loglevel"
	KeyLogFormat = "logformat"
	KeyLogFile   = "logfile"

	// EnvPrefix is the prefix of environment overrides, e.g. ENTANGLER_LOGLEVEL.
	EnvPrefix = "ENTANGLER"

	configFileName = "config"
)

// Config holds the CLI configuration.
type Config struct {
	DataDir   string // ledger and key files live here
	ProgramID string // hex program identity; empty selects the default
	LogLevel  string // debug, info, warn, error
	LogFormat string // text or json
	LogFile   string // empty logs to stderr
}

// DefaultDataDir returns ~/.entangler, or .entangler when the home
// directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".entangler"
	}
	return filepath.Join(home, ".entangler")
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		DataDir:   DefaultDataDir(),
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, configFileName)
}

// NewViper returns a viper instance seeded with defaults and environment
// overrides. Callers may bind command-line flags before reading a file.
func NewViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault(KeyDataDir, def.DataDir)
	v.SetDefault(KeyProgramID, def.ProgramID)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyLogFormat, def.LogFormat)
	v.SetDefault(KeyLogFile, def.LogFile)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// ReadFile merges the config file at path into v.
func ReadFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
	}
	return nil
}

// FromViper extracts a Config from v.
func FromViper(v *viper.Viper) Config {
	return Config{
		DataDir:   v.GetString(KeyDataDir),
		ProgramID: v.GetString(KeyProgramID),
		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
		LogFile:   v.GetString(KeyLogFile),
	}
}

// LoadConfig reads the configuration file at path. Keys missing from the
// file keep their defaults; unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	v := NewViper()
	if err := ReadFile(v, path); err != nil {
		return Config{}, err
	}
	return FromViper(v), nil
}

// SaveConfig writes cfg to path, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Entangler Configuration\n\n")
	fmt.Fprintf(&b, "%s = %s\n", KeyDataDir, cfg.DataDir)
	fmt.Fprintf(&b, "%s = %s\n", KeyProgramID, cfg.ProgramID)
	fmt.Fprintf(&b, "%s = %s\n", KeyLogLevel, cfg.LogLevel)
	fmt.Fprintf(&b, "%s = %s\n", KeyLogFormat, cfg.LogFormat)
	fmt.Fprintf(&b, "%s = %s\n", KeyLogFile, cfg.LogFile)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

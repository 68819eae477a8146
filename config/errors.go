// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidProgramID indicates the program id is not a 64-character hex address.
	ErrInvalidProgramID = errors.New("config: invalid program id (must be 64 hex characters)")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrInvalidLogFormat indicates the log format is not recognized.
	ErrInvalidLogFormat = errors.New("config: invalid log format (must be \"text\" or \"json\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigFile indicates the configuration file could not be parsed.
	ErrInvalidConfigFile = errors.New("config: invalid configuration file")
)

// Package config provides centralized configuration management for the
// dashboard data builder. It loads configuration from environment variables
// with defaults matching the desktop layout it was built for, and validates
// all settings up front so a bad setting fails before any file is read.
package config

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Data    DataConfig
	Output  OutputConfig
	Rules   RulesConfig
	Logging LoggingConfig
}

// DataConfig holds input discovery settings.
type DataConfig struct {
	// Dir is the directory holding the CSV exports (default: ~/Desktop/Data)
	Dir string `env:"DATA_DIR" envAlt:"DESKTOP_DATA_DIR" default:"~/Desktop/Data"`

	// UserFilePattern selects per-client user lists by base name
	UserFilePattern string `env:"USER_FILE_PATTERN" default:"* User List Feb.csv"`

	// UserFileSuffix is stripped from a user list file name to get the client name
	UserFileSuffix string `env:"USER_FILE_SUFFIX" default:" User List Feb.csv"`

	// DeviceFile is the combined device export, optional on disk
	DeviceFile string `env:"DEVICE_FILE" default:"cwa-computers.csv"`
}

// OutputConfig holds settings for the generated script file.
type OutputConfig struct {
	// Path is the output file. Empty means dashboard-data.js next to the executable.
	Path string `env:"OUTPUT_PATH" envAlt:"OUTPUT_JS"`

	// Variable is the global binding the dashboard reads
	Variable string `env:"OUTPUT_VARIABLE" default:"window.MSP_DASHBOARD_DATA"`

	// Indent is the number of spaces per JSON nesting level (default: 2)
	Indent int `env:"OUTPUT_INDENT" default:"2"`
}

// RulesConfig holds client-name normalization settings.
type RulesConfig struct {
	// File is an optional YAML rule table replacing the built-in one
	File string `env:"CLIENT_RULES_FILE"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// DefaultOutputName is the file written when OUTPUT_PATH is not set.
const DefaultOutputName = "dashboard-data.js"

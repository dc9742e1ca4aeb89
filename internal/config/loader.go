package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
)

// Overridable in tests.
var (
	userHomeDir = os.UserHomeDir
	executable  = os.Executable
)

// Load reads configuration from environment variables.
// It applies defaults for unset values, resolves paths and validates the result.
// Returns an error if a value cannot be parsed or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("config paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// resolvePaths expands a leading "~" in the data directory and rules file,
// and places the output next to the executable when no path was given.
func (c *Config) resolvePaths() error {
	var err error
	if c.Data.Dir, err = expandHome(c.Data.Dir); err != nil {
		return err
	}
	if c.Rules.File, err = expandHome(c.Rules.File); err != nil {
		return err
	}

	if c.Output.Path == "" {
		exe, err := executable()
		if err != nil {
			return fmt.Errorf("locate executable: %w", err)
		}
		c.Output.Path = filepath.Join(filepath.Dir(exe), DefaultOutputName)
	}

	return nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := userHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Input validation
	if c.Data.Dir == "" {
		errs = append(errs, "DATA_DIR must not be empty")
	}
	if c.Data.UserFilePattern == "" {
		errs = append(errs, "USER_FILE_PATTERN must not be empty")
	} else if _, err := filepath.Match(c.Data.UserFilePattern, ""); err != nil {
		errs = append(errs, fmt.Sprintf("USER_FILE_PATTERN (%q) is not a valid glob: %v", c.Data.UserFilePattern, err))
	}
	if c.Data.UserFileSuffix == "" {
		errs = append(errs, "USER_FILE_SUFFIX must not be empty")
	}
	if c.Data.DeviceFile == "" {
		errs = append(errs, "DEVICE_FILE must not be empty")
	} else if filepath.Base(c.Data.DeviceFile) != c.Data.DeviceFile {
		errs = append(errs, fmt.Sprintf("DEVICE_FILE (%q) must be a file name, not a path", c.Data.DeviceFile))
	}

	// Output validation
	if c.Output.Path == "" {
		errs = append(errs, "OUTPUT_PATH must not be empty")
	}
	if strings.TrimSpace(c.Output.Variable) == "" {
		errs = append(errs, "OUTPUT_VARIABLE must not be empty")
	}
	if c.Output.Indent < 0 || c.Output.Indent > 8 {
		errs = append(errs, fmt.Sprintf("OUTPUT_INDENT (%d) must be 0-8", c.Output.Indent))
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Data: {Dir: %q, UserFilePattern: %q, DeviceFile: %q}, ",
		c.Data.Dir, c.Data.UserFilePattern, c.Data.DeviceFile))
	b.WriteString(fmt.Sprintf("Output: {Path: %q, Variable: %q, Indent: %d}, ",
		c.Output.Path, c.Output.Variable, c.Output.Indent))
	b.WriteString(fmt.Sprintf("Rules: {File: %q}, ", c.Rules.File))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"hstools/internal/resolver"
)

// Environment variables read by Load
const (
	EnvTheme          = "HUBSPOT_FOLDER"
	EnvTargetHost     = "TARGET_CNAME"
	EnvExtractProfile = "EXTRACT_PROFILE"
	EnvLogLevel       = "LOG_LEVEL"
)

// Config holds the environment-sourced settings of one invocation
type Config struct {
	// Theme is the target platform folder assets are served from
	Theme string

	// TargetHost marks absolute URLs on this host as internal
	TargetHost string

	// BasePath is the root relative references resolve against
	BasePath string

	// ExtractProfile is the profile used by extract when none is given
	ExtractProfile string

	// LogLevel is the minimum diagnostic level (debug, info, warn, error)
	LogLevel string

	// InlineCSS also rewrites <style> elements and style attributes
	InlineCSS bool
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		BasePath: "/",
		LogLevel: "info",
	}
}

// Load reads the environment, first merging a .env file when one exists.
// Variables already set in the process environment win over the file.
func Load(envFiles ...string) Config {
	_ = godotenv.Load(envFiles...)
	return FromEnv(os.Getenv)
}

// FromEnv builds a configuration from a lookup function
func FromEnv(getenv func(string) string) Config {
	cfg := Default()

	cfg.Theme = strings.TrimSpace(getenv(EnvTheme))
	cfg.TargetHost = strings.TrimSpace(getenv(EnvTargetHost))
	cfg.ExtractProfile = strings.TrimSpace(getenv(EnvExtractProfile))
	if level := strings.TrimSpace(getenv(EnvLogLevel)); level != "" {
		cfg.LogLevel = level
	}

	return cfg
}

// ConfigurationError reports a required setting that is missing
type ConfigurationError struct {
	Key string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s is not set: %v", e.Key, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Validate checks the settings every rewrite needs. It runs before any file
// is read so a missing theme surfaces up front.
func (c Config) Validate() error {
	if strings.Trim(c.Theme, "/ ") == "" {
		return &ConfigurationError{Key: EnvTheme, Err: resolver.ErrThemeRequired}
	}
	return nil
}

// Base returns BasePath, defaulting to "/"
func (c Config) Base() string {
	if strings.TrimSpace(c.BasePath) == "" {
		return "/"
	}
	return c.BasePath
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/dailyai/internal/assistant"
	"github.com/jeranaias/dailyai/internal/credential"
	"github.com/jeranaias/dailyai/internal/gemini"
	"github.com/jeranaias/dailyai/internal/util"
)

// HomeEnv relocates the whole ~/.dailyai directory.
const HomeEnv = "DAILYAI_HOME"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete DailyAI configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Completion client
	Gemini GeminiConfig `toml:"gemini" json:"gemini"`

	// Where the API key comes from
	Credentials CredentialsConfig `toml:"credentials" json:"credentials"`

	// HTTP surface
	Server ServerConfig `toml:"server" json:"server"`

	// Terminal UI
	UI UIConfig `toml:"ui" json:"ui"`

	// Diagnostics
	Log LogConfig `toml:"log" json:"log"`
}

// GeminiConfig contains completion client configuration.
type GeminiConfig struct {
	// Backend is "rest" (direct HTTP) or "sdk" (google.golang.org/genai)
	Backend string `toml:"backend" json:"backend"`
	// BaseURL is the API host
	BaseURL string `toml:"base_url" json:"base_url"`
	// Model is a model id or a friendly name (flash, pro)
	Model string `toml:"model" json:"model"`
	// APIKey is the "config" credential source
	APIKey string `toml:"api_key" json:"api_key,omitempty"`
	// TimeoutSecs bounds one request. Zero means no client-side timeout.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// RequestsPerMinute paces outbound requests (0 = unlimited)
	RequestsPerMinute int `toml:"requests_per_minute" json:"requests_per_minute"`
}

// CredentialsConfig contains API key sourcing configuration.
type CredentialsConfig struct {
	// Order is the lookup order over env, store, redis, config, build
	Order []string `toml:"order" json:"order"`
	// StorePath is the local key/value store (default ~/.dailyai/store.db)
	StorePath string `toml:"store_path" json:"store_path"`
	// RedisURL enables the shared Redis store, e.g. redis://localhost:6379/0
	RedisURL string `toml:"redis_url" json:"redis_url,omitempty"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Addr is the listen address
	Addr string `toml:"addr" json:"addr"`
	// IdleTTLMins evicts sessions untouched for this long
	IdleTTLMins int `toml:"idle_ttl_mins" json:"idle_ttl_mins"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// DefaultAssistant opens directly on an assistant instead of the landing page
	DefaultAssistant string `toml:"default_assistant" json:"default_assistant"`
	// Compact drops the page subtitle and blank rows between bubbles
	Compact bool `toml:"compact" json:"compact"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is trace, debug, info, warn or error
	Level string `toml:"level" json:"level"`
	// Format is "console" or "json"
	Format string `toml:"format" json:"format"`
	// File receives logs while the TUI owns the terminal (default ~/.dailyai/dailyai.log)
	File string `toml:"file" json:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Gemini: GeminiConfig{
			Backend:           gemini.BackendREST,
			BaseURL:           gemini.DefaultBaseURL,
			Model:             gemini.DefaultModel,
			TimeoutSecs:       0,
			RequestsPerMinute: 0,
		},

		Credentials: CredentialsConfig{
			Order: append([]string(nil), credential.DefaultOrder...),
		},

		Server: ServerConfig{
			Addr:        ":8080",
			IdleTTLMins: 30,
		},

		UI: UIConfig{
			DefaultAssistant: "",
			Compact:          false,
		},

		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Timeout returns the per-request timeout; zero means none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Gemini.TimeoutSecs) * time.Second
}

// IdleTTL returns the session eviction age.
func (c *Config) IdleTTL() time.Duration {
	return time.Duration(c.Server.IdleTTLMins) * time.Minute
}

// StorePath returns the configured store path or the default.
func (c *Config) StorePath() (string, error) {
	if c.Credentials.StorePath != "" {
		return expandHome(c.Credentials.StorePath)
	}
	return DataPath("store.db")
}

// LogPath returns the configured log file or the default.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return expandHome(c.Log.File)
	}
	return DataPath("dailyai.log")
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the DailyAI configuration directory path.
func ConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".dailyai"), nil
}

// DataPath joins name onto the configuration directory.
func DataPath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	return DataPath("config.toml")
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	return DataPath("config.json")
}

// EnsureConfigDir ensures the config directory exists.
// SECURITY: 0700 since the directory holds the key store.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only) to protect API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
//
// A file that fails to parse is reported as a non-nil error alongside a
// usable default config, so callers can warn and carry on.
func Load() (*Config, error) {
	var loadErr error

	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		cfg, err := LoadFromPath(path)
		if err == nil {
			return cfg, nil
		}
		loadErr = err
		break
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file.
// SECURITY: Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// LoadJSON loads configuration from a JSON file.
// SECURITY: Checks and fixes file permissions on load.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	// Gemini
	if cfg.Gemini.Backend == "" {
		cfg.Gemini.Backend = defaults.Gemini.Backend
	}
	if cfg.Gemini.BaseURL == "" {
		cfg.Gemini.BaseURL = defaults.Gemini.BaseURL
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = defaults.Gemini.Model
	}

	// Credentials
	if len(cfg.Credentials.Order) == 0 {
		cfg.Credentials.Order = defaults.Credentials.Order
	}

	// Server
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaults.Server.Addr
	}
	if cfg.Server.IdleTTLMins == 0 {
		cfg.Server.IdleTTLMins = defaults.Server.IdleTTLMins
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Log.Format
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# DailyAI configuration file\n")
	buf.WriteString("# Generated by dailyai - edit with care\n")
	buf.WriteString("#\n")
	buf.WriteString("# The API key is better kept out of this file: run `dailyai key set`.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// validLogLevels mirrors the zerolog level names.
var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true,
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// ==========================================================================
	// Gemini
	// ==========================================================================

	switch strings.ToLower(c.Gemini.Backend) {
	case gemini.BackendREST, gemini.BackendSDK:
	default:
		errs = append(errs, ValidationError{
			Field:   "gemini.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: rest, sdk", c.Gemini.Backend),
		})
	}

	if u, err := url.Parse(c.Gemini.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "gemini.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host", c.Gemini.BaseURL),
		})
	}

	if strings.TrimSpace(c.Gemini.Model) == "" {
		errs = append(errs, ValidationError{Field: "gemini.model", Message: "must not be empty"})
	}

	if c.Gemini.TimeoutSecs < 0 || c.Gemini.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "gemini.timeout_secs",
			Message: fmt.Sprintf("must be between 0 (none) and 600, got %d", c.Gemini.TimeoutSecs),
		})
	}

	if c.Gemini.RequestsPerMinute < 0 {
		errs = append(errs, ValidationError{
			Field:   "gemini.requests_per_minute",
			Message: "must not be negative",
		})
	}

	// ==========================================================================
	// Credentials
	// ==========================================================================

	if _, err := credential.NewChain(c.Credentials.Order, nil); err != nil {
		errs = append(errs, ValidationError{Field: "credentials.order", Message: err.Error()})
	}

	if c.Credentials.RedisURL != "" {
		if u, err := url.Parse(c.Credentials.RedisURL); err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			errs = append(errs, ValidationError{
				Field:   "credentials.redis_url",
				Message: fmt.Sprintf("invalid URL '%s', must be redis:// or rediss://", c.Credentials.RedisURL),
			})
		}
	}

	// ==========================================================================
	// Server
	// ==========================================================================

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, ValidationError{Field: "server.addr", Message: "must not be empty"})
	}

	if c.Server.IdleTTLMins < 1 {
		errs = append(errs, ValidationError{
			Field:   "server.idle_ttl_mins",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Server.IdleTTLMins),
		})
	}

	// ==========================================================================
	// UI
	// ==========================================================================

	if c.UI.DefaultAssistant != "" {
		if _, err := assistant.Lookup(c.UI.DefaultAssistant); err != nil {
			errs = append(errs, ValidationError{Field: "ui.default_assistant", Message: err.Error()})
		}
	}

	// ==========================================================================
	// Log
	// ==========================================================================

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: trace, debug, info, warn, error, disabled", c.Log.Level),
		})
	}

	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: console, json", c.Log.Format),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - DAILYAI_MODEL: overrides gemini.model
//   - DAILYAI_BACKEND: overrides gemini.backend
//   - DAILYAI_BASE_URL: overrides gemini.base_url
//   - DAILYAI_LOG_LEVEL: overrides log.level
//   - DAILYAI_ADDR: overrides server.addr
//   - DAILYAI_REDIS_URL: overrides credentials.redis_url
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DAILYAI_MODEL"); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv("DAILYAI_BACKEND"); v != "" {
		c.Gemini.Backend = v
	}
	if v := os.Getenv("DAILYAI_BASE_URL"); v != "" {
		c.Gemini.BaseURL = v
	}
	if v := os.Getenv("DAILYAI_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DAILYAI_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DAILYAI_REDIS_URL"); v != "" {
		c.Credentials.RedisURL = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "gemini.model").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookupField(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "gemini.model").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookupField(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookupField walks the struct along a dot-separated key.
func (c *Config) lookupField(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field
// equivalent. Common initialisms are upper-cased so "base_url" finds BaseURL.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		switch strings.ToLower(part) {
		case "url", "api", "ttl", "ui":
			result.WriteString(strings.ToUpper(part))
		default:
			if len(part) > 0 {
				result.WriteString(strings.ToUpper(part[:1]))
				result.WriteString(strings.ToLower(part[1:]))
			}
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				var items []string
				for _, item := range strings.Split(strVal, ",") {
					if item = strings.TrimSpace(item); item != "" {
						items = append(items, item)
					}
				}
				field.Set(reflect.ValueOf(items))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"gemini.backend",
		"gemini.base_url",
		"gemini.model",
		"gemini.api_key",
		"gemini.timeout_secs",
		"gemini.requests_per_minute",
		"credentials.order",
		"credentials.store_path",
		"credentials.redis_url",
		"server.addr",
		"server.idle_ttl_mins",
		"ui.default_assistant",
		"ui.compact",
		"log.level",
		"log.format",
		"log.file",
	}
}

// IsSecretKey reports whether a dot-notation key holds a secret.
func IsSecretKey(key string) bool {
	return strings.EqualFold(key, "gemini.api_key")
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Credentials.Order = append([]string(nil), c.Credentials.Order...)
	return &clone
}

// String returns a string representation of the config for debugging.
// SECURITY: Redacts the API key and Redis credentials.
func (c *Config) String() string {
	safe := c.Redacted()
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	safe := c.Clone()
	if safe.Gemini.APIKey != "" {
		safe.Gemini.APIKey = "[REDACTED]"
	}
	if u, err := url.Parse(safe.Credentials.RedisURL); err == nil && u.User != nil {
		u.User = url.User("[REDACTED]")
		safe.Credentials.RedisURL = u.String()
	}
	return safe
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}

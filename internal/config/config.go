package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings shared by daylogd and the daylog viewer.
type Config struct {
	APIBind          string
	LogDir           string
	Retention        time.Duration
	SweepInterval    time.Duration
	MaxReadLines     int
	DefaultReadLines int
	MaxLineBytes     int
	LogLevel         string
	ConsoleEcho      bool
	APITokenHash     string
	APIToken         string
}

const (
	defaultConfigPath       = "~/.config/daylog/config.toml"
	defaultLogDir           = "~/.local/share/daylog/logs"
	defaultAPIBind          = "127.0.0.1:7488"
	defaultRetention        = 7 * 24 * time.Hour
	defaultSweepInterval    = 24 * time.Hour
	defaultMaxReadLines     = 10000
	defaultDefaultReadLines = 500
	defaultMaxLineBytes     = 1 << 20
	defaultLogLevel         = "info"

	// EnvLogDir overrides log_dir.
	EnvLogDir = "DAYLOG_LOG_DIR"
	// EnvConfigPath names the config file when no explicit path is given.
	EnvConfigPath = "DAYLOG_CONFIG"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBind:          defaultAPIBind,
		LogDir:           mustExpand(defaultLogDir),
		Retention:        defaultRetention,
		SweepInterval:    defaultSweepInterval,
		MaxReadLines:     defaultMaxReadLines,
		DefaultReadLines: defaultDefaultReadLines,
		MaxLineBytes:     defaultMaxLineBytes,
		LogLevel:         defaultLogLevel,
		ConsoleEcho:      true,
	}
}

// Load locates and parses the daylog config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBind          string `toml:"api_bind"`
		LogDir           string `toml:"log_dir"`
		Retention        string `toml:"retention"`
		SweepInterval    string `toml:"sweep_interval"`
		MaxReadLines     int    `toml:"max_read_lines"`
		DefaultReadLines int    `toml:"default_read_lines"`
		MaxLineBytes     int    `toml:"max_line_bytes"`
		LogLevel         string `toml:"log_level"`
		ConsoleEcho      *bool  `toml:"console_echo"`
		APITokenHash     string `toml:"api_token_hash"`
		APIToken         string `toml:"api_token"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if bind := strings.TrimSpace(raw.APIBind); bind != "" {
		cfg.APIBind = bind
	}
	if dir := strings.TrimSpace(raw.LogDir); dir != "" {
		cfg.LogDir = mustExpand(dir)
	}
	if cfg.Retention, err = parseDays(raw.Retention, cfg.Retention); err != nil {
		return Config{}, fmt.Errorf("parse retention: %w", err)
	}
	if cfg.SweepInterval, err = parseDays(raw.SweepInterval, cfg.SweepInterval); err != nil {
		return Config{}, fmt.Errorf("parse sweep_interval: %w", err)
	}
	if raw.MaxReadLines > 0 {
		cfg.MaxReadLines = raw.MaxReadLines
	}
	if raw.DefaultReadLines > 0 {
		cfg.DefaultReadLines = raw.DefaultReadLines
	}
	if cfg.DefaultReadLines > cfg.MaxReadLines {
		cfg.DefaultReadLines = cfg.MaxReadLines
	}
	if raw.MaxLineBytes > 0 {
		cfg.MaxLineBytes = raw.MaxLineBytes
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	if raw.ConsoleEcho != nil {
		cfg.ConsoleEcho = *raw.ConsoleEcho
	}
	cfg.APITokenHash = strings.TrimSpace(raw.APITokenHash)
	cfg.APIToken = strings.TrimSpace(raw.APIToken)

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if dir := strings.TrimSpace(os.Getenv(EnvLogDir)); dir != "" {
		cfg.LogDir = mustExpand(dir)
	}
}

// parseDays accepts Go durations plus a whole-day "Nd" form.
func parseDays(value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	if days, ok := strings.CutSuffix(trimmed, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", value)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", value)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		if env := strings.TrimSpace(os.Getenv(EnvConfigPath)); env != "" {
			return expandPath(env)
		}
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

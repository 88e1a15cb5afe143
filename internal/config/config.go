// Package config loads and validates the bot's JSON configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is the root configuration for PartyBot.
type Config struct {
	Server    ServerConfig    `json:"server"`
	Auth      AuthConfig      `json:"auth"`
	Admins    FlexStringList  `json:"admins"`
	Commands  CommandsConfig  `json:"commands"`
	Reconnect ReconnectConfig `json:"reconnect"`
	Audit     AuditConfig     `json:"audit"`
	Notify    NotifyConfig    `json:"notify"`
	LogLevel  string          `json:"logLevel"`
}

type ServerConfig struct {
	URL string `json:"url"` // ws:// or wss:// game server endpoint
}

// AuthConfig holds the bot account credentials. Treat the config file as
// a secret; the server account has in-game group-leader power.
type AuthConfig struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Character string `json:"character"`
}

type CommandsConfig struct {
	Prefix    string  `json:"prefix"`
	AliasFile string  `json:"aliasFile,omitempty"` // optional YAML verb aliases
	Burst     int     `json:"burst"`
	PerMinute float64 `json:"perMinute"`
}

type ReconnectConfig struct {
	InitialBackoffSeconds int `json:"initialBackoffSeconds"`
	MaxBackoffSeconds     int `json:"maxBackoffSeconds"`
	MaxRetries            int `json:"maxRetries"`
}

type AuditConfig struct {
	Enabled       bool   `json:"enabled"`
	DBPath        string `json:"dbPath"`
	RetentionDays int    `json:"retentionDays"`
}

type NotifyConfig struct {
	Telegram TelegramNotifyConfig `json:"telegram"`
}

type TelegramNotifyConfig struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token,omitempty"`
	ChatID  string `json:"chatId,omitempty"`
}

// FlexStringList is a []string that can unmarshal from JSON arrays
// containing both strings and numbers, since player identifiers are
// numeric on some servers and operators paste them unquoted.
type FlexStringList []string

func (f *FlexStringList) UnmarshalJSON(data []byte) error {
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			result = append(result, s)
			continue
		}
		var n float64
		if err := json.Unmarshal(item, &n); err == nil {
			result = append(result, strconv.FormatInt(int64(n), 10))
			continue
		}
		result = append(result, string(item))
	}
	*f = result
	return nil
}

// DefaultConfigDir returns the default config directory (~/.partybot).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".partybot"
	}
	return filepath.Join(home, ".partybot")
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// ExpandPath resolves a leading "~/" against the user home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as indented JSON, creating the directory if
// needed. The file is written 0600 since it carries credentials.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate fails fast on configuration the bot cannot start with.
func Validate(cfg *Config) error {
	if cfg.Server.URL == "" {
		return fmt.Errorf("server.url must not be empty")
	}
	if !strings.HasPrefix(cfg.Server.URL, "ws://") && !strings.HasPrefix(cfg.Server.URL, "wss://") {
		return fmt.Errorf("server.url must be a ws:// or wss:// endpoint, got %q", cfg.Server.URL)
	}
	if cfg.Auth.Username == "" {
		return fmt.Errorf("auth.username must not be empty")
	}
	if cfg.Auth.Password == "" {
		return fmt.Errorf("auth.password must not be empty")
	}
	if cfg.Auth.Character == "" {
		return fmt.Errorf("auth.character must not be empty")
	}
	if cfg.Commands.Prefix == "" {
		return fmt.Errorf("commands.prefix must not be empty")
	}
	if cfg.Commands.Burst < 0 || cfg.Commands.PerMinute < 0 {
		return fmt.Errorf("commands.burst and commands.perMinute must not be negative")
	}
	if cfg.Reconnect.InitialBackoffSeconds <= 0 {
		return fmt.Errorf("reconnect.initialBackoffSeconds must be positive")
	}
	if cfg.Reconnect.MaxBackoffSeconds < cfg.Reconnect.InitialBackoffSeconds {
		return fmt.Errorf("reconnect.maxBackoffSeconds must not be below the initial backoff")
	}
	if cfg.Reconnect.MaxRetries <= 0 {
		return fmt.Errorf("reconnect.maxRetries must be positive")
	}
	if cfg.Audit.Enabled && cfg.Audit.DBPath == "" {
		return fmt.Errorf("audit.dbPath must be set when audit is enabled")
	}
	if cfg.Notify.Telegram.Enabled {
		if cfg.Notify.Telegram.Token == "" || cfg.Notify.Telegram.ChatID == "" {
			return fmt.Errorf("notify.telegram requires token and chatId when enabled")
		}
	}
	return nil
}

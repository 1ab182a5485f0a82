// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token"`
	Username string  `yaml:"username"`
	Workers  int     `yaml:"workers"` // polling update workers
	AdminIDs []int64 `yaml:"admin_ids"`
}

// RoleConfig binds a role id to its display name and the private Telegram
// chat whose membership represents holding the role.
type RoleConfig struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	ChatID int64  `yaml:"chat_id"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"` // bearer key for the read-only admin API
}

type NotifyConfig struct {
	Workers int `yaml:"workers"` // best-effort delivery workers
}

type Config struct {
	Bot    BotConfig    `yaml:"bot"`
	Roles  []RoleConfig `yaml:"roles"`
	Log    LogConfig    `yaml:"log"`
	Admin  AdminConfig  `yaml:"admin"`
	Notify NotifyConfig `yaml:"notify"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Runtime.Dev = dev

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Notify.Workers <= 0 {
		cfg.Notify.Workers = 2
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 3000
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Bot.Token == "" && !c.Runtime.Dev {
		return errors.New("bot.token is required outside dev mode")
	}
	if len(c.Roles) == 0 {
		return errors.New("at least one role must be configured")
	}
	seen := map[string]struct{}{}
	for _, r := range c.Roles {
		if r.ID == "" || r.Name == "" {
			return fmt.Errorf("role %q: id and name are required", r.ID)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("role %q configured twice", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// RoleNames returns the role id to display name mapping.
func (c *Config) RoleNames() map[string]string {
	m := make(map[string]string, len(c.Roles))
	for _, r := range c.Roles {
		m[r.ID] = r.Name
	}
	return m
}

// RoleChats returns the role id to Telegram chat id mapping.
func (c *Config) RoleChats() map[string]int64 {
	m := make(map[string]int64, len(c.Roles))
	for _, r := range c.Roles {
		m[r.ID] = r.ChatID
	}
	return m
}

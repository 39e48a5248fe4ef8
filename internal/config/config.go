package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// MinHistoryCapacity and MaxHistoryCapacity bound the history list length.
	MinHistoryCapacity = 5
	MaxHistoryCapacity = 30
	// MinCooldownSeconds is the floor for the lookup cooldown.
	MinCooldownSeconds = 1
)

// UniversalisConfig holds settings for the market data API client.
type UniversalisConfig struct {
	BaseURL           string        `json:"base_url" mapstructure:"base_url"`
	UserAgent         string        `json:"user_agent" mapstructure:"user_agent"`
	RequestsPerSecond float64       `json:"requests_per_second" mapstructure:"requests_per_second"`
	Timeout           time.Duration `json:"timeout" mapstructure:"timeout"`
	Listings          int           `json:"listings" mapstructure:"listings"`
	Entries           int           `json:"entries" mapstructure:"entries"`
}

// Config holds application settings (in-memory representation).
// File/env loading is done with viper; API-side changes are persisted by internal/db.
type Config struct {
	DefaultWorld    string   `json:"default_world" mapstructure:"default_world"`
	CurrentWorld    string   `json:"current_world" mapstructure:"current_world"`
	PreferredWorlds []string `json:"preferred_worlds" mapstructure:"preferred_worlds"`
	CooldownSeconds int      `json:"cooldown_seconds" mapstructure:"cooldown_seconds"`
	HistoryCapacity int      `json:"history_capacity" mapstructure:"history_capacity"`

	ItemsFile string `json:"items_file" mapstructure:"items_file"`
	DBPath    string `json:"db_path" mapstructure:"db_path"`

	Universalis UniversalisConfig `json:"universalis" mapstructure:"universalis"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		CooldownSeconds: 2,
		HistoryCapacity: MinHistoryCapacity,
		ItemsFile:       "items.jsonl",
		DBPath:          "mqp.db",
		Universalis: UniversalisConfig{
			BaseURL:           "https://universalis.app",
			UserAgent:         "market-quick-price/1.0",
			RequestsPerSecond: 20,
			Timeout:           30 * time.Second,
			Listings:          100,
			Entries:           100,
		},
	}
}

// ClampHistoryCapacity forces n into [MinHistoryCapacity, MaxHistoryCapacity].
func ClampHistoryCapacity(n int) int {
	if n < MinHistoryCapacity {
		return MinHistoryCapacity
	}
	if n > MaxHistoryCapacity {
		return MaxHistoryCapacity
	}
	return n
}

// Cooldown returns the effective lookup cooldown (never below one second).
func (c *Config) Cooldown() time.Duration {
	s := c.CooldownSeconds
	if s < MinCooldownSeconds {
		s = MinCooldownSeconds
	}
	return time.Duration(s) * time.Second
}

// Normalize clamps numeric settings and cleans up world names. The preferred
// list is rebuilt, never compacted in place, since it may alias viper's value.
func (c *Config) Normalize() {
	c.DefaultWorld = strings.TrimSpace(c.DefaultWorld)
	c.CurrentWorld = strings.TrimSpace(c.CurrentWorld)
	c.HistoryCapacity = ClampHistoryCapacity(c.HistoryCapacity)
	if c.CooldownSeconds < MinCooldownSeconds {
		c.CooldownSeconds = MinCooldownSeconds
	}

	// Preferred list: trimmed, non-blank, unique (case-insensitive), and never repeating DefaultWorld.
	seen := make(map[string]bool, len(c.PreferredWorlds)+1)
	if c.DefaultWorld != "" {
		seen[strings.ToLower(c.DefaultWorld)] = true
	}
	out := make([]string, 0, len(c.PreferredWorlds))
	for _, w := range c.PreferredWorlds {
		w = strings.TrimSpace(w)
		if w == "" || seen[strings.ToLower(w)] {
			continue
		}
		seen[strings.ToLower(w)] = true
		out = append(out, w)
	}
	c.PreferredWorlds = out
}

// SetDefaults registers every key's default value on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("default_world", d.DefaultWorld)
	v.SetDefault("current_world", d.CurrentWorld)
	v.SetDefault("preferred_worlds", []string{})
	v.SetDefault("cooldown_seconds", d.CooldownSeconds)
	v.SetDefault("history_capacity", d.HistoryCapacity)
	v.SetDefault("items_file", d.ItemsFile)
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("universalis.base_url", d.Universalis.BaseURL)
	v.SetDefault("universalis.user_agent", d.Universalis.UserAgent)
	v.SetDefault("universalis.requests_per_second", d.Universalis.RequestsPerSecond)
	v.SetDefault("universalis.timeout", d.Universalis.Timeout)
	v.SetDefault("universalis.listings", d.Universalis.Listings)
	v.SetDefault("universalis.entries", d.Universalis.Entries)
}

// FromViper builds a normalized Config from v.
func FromViper(v *viper.Viper) *Config {
	c := Default()
	c.DefaultWorld = v.GetString("default_world")
	c.CurrentWorld = v.GetString("current_world")
	c.PreferredWorlds = v.GetStringSlice("preferred_worlds")
	c.CooldownSeconds = v.GetInt("cooldown_seconds")
	c.HistoryCapacity = v.GetInt("history_capacity")
	c.ItemsFile = v.GetString("items_file")
	c.DBPath = v.GetString("db_path")
	c.Universalis.BaseURL = strings.TrimRight(v.GetString("universalis.base_url"), "/")
	c.Universalis.UserAgent = v.GetString("universalis.user_agent")
	c.Universalis.RequestsPerSecond = v.GetFloat64("universalis.requests_per_second")
	c.Universalis.Timeout = v.GetDuration("universalis.timeout")
	c.Universalis.Listings = v.GetInt("universalis.listings")
	c.Universalis.Entries = v.GetInt("universalis.entries")
	c.Normalize()
	return c
}

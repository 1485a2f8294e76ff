// Package config loads lw configuration from a YAML config file with
// environment-variable fallbacks.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/linweave/linweave/internal/linear"
)

// Config holds the settings the engine needs to reach the tracker.
type Config struct {
	APIKey     string
	TeamID     string
	Endpoint   string
	ThrottleMS int
}

// Load reads configuration from the given file, or from the default
// locations (./.linweave/config.yaml, then the user config dir) when the
// path is empty. A missing config file is not an error; env vars fill the
// gaps: LINEAR_API_KEY, LINEAR_TEAM_ID, LINEAR_API_ENDPOINT,
// LW_THROTTLE_MS.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Join(".", ".linweave"))
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "linweave"))
		}
		// Missing file is fine; env vars can carry everything.
		_ = v.ReadInConfig()
	}

	cfg := &Config{
		APIKey:     firstNonEmpty(v.GetString("linear.api_key"), os.Getenv("LINEAR_API_KEY")),
		TeamID:     firstNonEmpty(v.GetString("linear.team_id"), os.Getenv("LINEAR_TEAM_ID")),
		Endpoint:   firstNonEmpty(v.GetString("linear.api_endpoint"), os.Getenv("LINEAR_API_ENDPOINT")),
		ThrottleMS: v.GetInt("linear.throttle_ms"),
	}
	if cfg.ThrottleMS == 0 {
		if ms := os.Getenv("LW_THROTTLE_MS"); ms != "" {
			// Ignore junk; the default throttle applies.
			fmt.Sscanf(ms, "%d", &cfg.ThrottleMS)
		}
	}
	return cfg, nil
}

// RequireAPIKey returns an error when no API key is configured.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return linear.ErrNotConfigured
	}
	return nil
}

// RequireTeamID returns the configured team ID, preferring the explicit
// flag value when given.
func (c *Config) RequireTeamID(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if c.TeamID == "" {
		return "", fmt.Errorf("team ID not configured (set linear.team_id, LINEAR_TEAM_ID, or pass --team-id)")
	}
	return c.TeamID, nil
}

// Client builds a tracker client from the configuration.
func (c *Config) Client() *linear.Client {
	client := linear.NewClient(c.APIKey)
	if c.Endpoint != "" {
		client = client.WithEndpoint(c.Endpoint)
	}
	if c.ThrottleMS > 0 {
		client = client.WithThrottle(time.Duration(c.ThrottleMS) * time.Millisecond)
	}
	return client
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

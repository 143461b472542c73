// Package config loads runtime settings: connection details from the
// environment (optionally via a .env file) and the moderation policy from a
// YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"modwatch/internal/classifier"
	"modwatch/internal/logging"
	"modwatch/internal/moderation"
)

// Config holds environment-derived settings.
type Config struct {
	DiscordToken     string `env:"DISCORD_TOKEN,required"`
	ModChannelName   string `env:"MOD_CHANNEL_NAME" envDefault:"moderation"`
	WatchChannelName string `env:"WATCH_CHANNEL_NAME"`
	PolicyPath       string `env:"POLICY_PATH" envDefault:"policy.yaml"`
	AuditDBPath      string `env:"AUDIT_DB_PATH" envDefault:"state/audit.db"`
}

// Policy is the tunable moderation policy. Values are policy, not protocol.
type Policy struct {
	ModerateThreshold float64 `yaml:"moderate_threshold"`
	VeryHighThreshold float64 `yaml:"very_high_threshold"`
	HighReportCount   int     `yaml:"high_report_count"`
	MuteSeconds       int     `yaml:"mute_seconds"`
}

// DefaultPolicy mirrors the shipped policy constants.
var DefaultPolicy = Policy{
	ModerateThreshold: 0.6,
	VeryHighThreshold: 0.9,
	HighReportCount:   5,
	MuteSeconds:       5,
}

// Load reads the environment (after an optional .env file) into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logging.Info("config", "No .env file found, using environment variables")
	} else {
		logging.Info("config", "Loaded .env file")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// LoadPolicy reads the YAML policy file. A missing file yields the default
// policy; a present but unreadable one is an error.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logging.Info("config", "No policy file at %s, using defaults", path)
		return DefaultPolicy, nil
	}
	if err != nil {
		return Policy{}, fmt.Errorf("read policy: %w", err)
	}

	pol := DefaultPolicy
	if err := yaml.Unmarshal(data, &pol); err != nil {
		return Policy{}, fmt.Errorf("parse policy: %w", err)
	}
	if err := pol.validate(); err != nil {
		return Policy{}, err
	}
	return pol, nil
}

func (p Policy) validate() error {
	if p.ModerateThreshold < 0 || p.ModerateThreshold > 1 ||
		p.VeryHighThreshold < 0 || p.VeryHighThreshold > 1 {
		return fmt.Errorf("probability thresholds must be within [0, 1]")
	}
	if p.ModerateThreshold > p.VeryHighThreshold {
		return fmt.Errorf("moderate threshold %.2f exceeds very-high threshold %.2f",
			p.ModerateThreshold, p.VeryHighThreshold)
	}
	if p.HighReportCount < 0 || p.MuteSeconds < 0 {
		return fmt.Errorf("counts and durations must not be negative")
	}
	return nil
}

// EnginePolicy converts the file policy into the engine's form.
func (p Policy) EnginePolicy() moderation.Policy {
	return moderation.Policy{
		Thresholds: classifier.Thresholds{
			Moderate: p.ModerateThreshold,
			VeryHigh: p.VeryHighThreshold,
		},
		HighReportCount: p.HighReportCount,
	}
}

// MuteDuration returns the temporary-mute interval.
func (p Policy) MuteDuration() time.Duration {
	return time.Duration(p.MuteSeconds) * time.Second
}

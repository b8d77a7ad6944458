package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if SAFETY_CONFIG is set
//  3. env (prefix SAFETY_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SAFETY_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SAFETY_TIMEZONE, SAFETY_RED_OVER_LIMIT_MPH, ...
	// Map env keys like SAFETY_DAILY_REPEAT_MIN -> daily_repeat_min (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SAFETY_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "safety_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the engine cannot run with.
func (c *Config) validate() error {
	if c.Timezone == "" {
		return fmt.Errorf("%w: timezone must not be empty", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: unknown timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	if c.OrangeOverLimitMPH <= 0 || c.RedOverLimitMPH <= c.OrangeOverLimitMPH {
		return fmt.Errorf("%w: speed cut points must satisfy 0 < orange < red", ErrInvalidConfig)
	}
	if c.RedAbsoluteMPH <= 0 {
		return fmt.Errorf("%w: red_absolute_mph must be positive", ErrInvalidConfig)
	}
	if c.CameraFlagMin <= 0 || c.SpeedingFlagMin <= 0 {
		return fmt.Errorf("%w: flagging minimums must be positive", ErrInvalidConfig)
	}
	if c.DailyRepeatMin <= 0 || c.WeeklyRepeatMin <= 0 {
		return fmt.Errorf("%w: repeat-offender minimums must be positive", ErrInvalidConfig)
	}
	return nil
}

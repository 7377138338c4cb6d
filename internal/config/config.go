// Package config holds the application configuration read from YAML.
// User-facing image settings are kept separately in package settings.
package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/robfig/cron/v3"
)

type Config struct {
	Workers      int            `yaml:"workers"` // 0 = one per CPU
	SettingsPath string         `yaml:"settingsPath"`
	Watch        WatchConfig    `yaml:"watch"`
	Schedule     ScheduleConfig `yaml:"schedule"`
	Reports      ReportsConfig  `yaml:"reports"`
	Logging      LoggingConfig  `yaml:"logging"`
	ConfigReload ReloadConfig   `yaml:"configReload"`
}

type WatchConfig struct {
	Inbox           string        `yaml:"inbox"`
	Mode            string        `yaml:"mode"`           // "auto", "poll", "fsnotify"
	PollInterval    time.Duration `yaml:"pollInterval"`   // e.g. 5s
	DebounceWindow  time.Duration `yaml:"debounceWindow"` // e.g. 500ms
	StabilityWindow time.Duration `yaml:"stabilityWindow"`
}

type ScheduleConfig struct {
	Cron string `yaml:"cron"` // empty disables scheduled rescans
}

type ReportsConfig struct {
	Dir  string `yaml:"dir"` // empty disables reports
	Keep int    `yaml:"keep"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json", "text"
}

type ReloadConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		SettingsPath: "settings.json",
		Watch: WatchConfig{
			Mode:            "auto",
			PollInterval:    5 * time.Second,
			DebounceWindow:  500 * time.Millisecond,
			StabilityWindow: time.Second,
		},
		Reports: ReportsConfig{Keep: 20},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// WorkerCount resolves the pool size.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// Validate checks the fields that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	switch c.Watch.Mode {
	case "", "auto", "poll", "fsnotify":
	default:
		return fmt.Errorf("watch.mode: unknown mode %q", c.Watch.Mode)
	}
	if c.Watch.PollInterval < 0 || c.Watch.DebounceWindow < 0 || c.Watch.StabilityWindow < 0 {
		return fmt.Errorf("watch: durations must not be negative")
	}
	if c.Schedule.Cron != "" {
		if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
			return fmt.Errorf("schedule.cron: %w", err)
		}
	}
	if c.Reports.Keep < 0 {
		return fmt.Errorf("reports.keep must be >= 0, got %d", c.Reports.Keep)
	}
	return nil
}

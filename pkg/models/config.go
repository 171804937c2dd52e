package models

import "time"

// Config holds application configuration
type Config struct {
	DataDir      string        `mapstructure:"data_dir" yaml:"data_dir"`           // directory holding alarms.json and history.json
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"` // checker cadence
	AutoStart    bool          `mapstructure:"auto_start" yaml:"auto_start"`       // start at login
	Tray         bool          `mapstructure:"tray" yaml:"tray"`                   // run with a system tray icon
	Sound        SoundConfig   `mapstructure:"sound" yaml:"sound"`
	Notify       NotifyConfig  `mapstructure:"notify" yaml:"notify"`
	Log          LogConfig     `mapstructure:"log" yaml:"log"`
}

// SoundConfig controls the cue played when an alarm fires
type SoundConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	File    string `mapstructure:"file" yaml:"file"` // WAV file, empty for the built-in beep
}

// NotifyConfig controls remote notification delivery
type NotifyConfig struct {
	URLs    []string      `mapstructure:"urls" yaml:"urls"` // shoutrrr service URLs
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LogConfig selects the log level and output format
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
	Env   string `mapstructure:"env" yaml:"env"`     // local, dev, prod
}

// NeedsRemoteNotify returns true if any shoutrrr URL is configured
func (c *Config) NeedsRemoteNotify() bool {
	return len(c.Notify.URLs) > 0
}

// Validate checks values that would make the checker misbehave
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return Errorf(ErrInvalid, "data_dir must not be empty")
	}
	if c.PollInterval <= 0 {
		return Errorf(ErrInvalid, "poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.PollInterval > time.Second {
		return Errorf(ErrInvalid, "poll_interval must not exceed 1s or alarms will be missed, got %s", c.PollInterval)
	}
	if c.Notify.Timeout < 0 {
		return Errorf(ErrInvalid, "notify.timeout must not be negative")
	}
	return nil
}

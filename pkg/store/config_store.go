package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppName names the config directory and the autostart entry
const AppName = "desk-alarm"

// ConfigStore handles configuration persistence using a viper instance
type ConfigStore struct {
	v    *viper.Viper
	fs   afero.Fs
	path string
}

// DefaultConfigDir returns the per-user directory holding config.yaml and the
// database directory.
func DefaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, AppName)
}

// DefaultConfigPath returns the config file used when --config is not given
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// NewConfigStore creates a ConfigStore reading and writing path on fsys
func NewConfigStore(fsys afero.Fs, path string) *ConfigStore {
	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v, filepath.Dir(path))

	return &ConfigStore{v: v, fs: fsys, path: path}
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("data_dir", filepath.Join(configDir, "database"))
	v.SetDefault("poll_interval", time.Second)
	v.SetDefault("auto_start", false)
	v.SetDefault("tray", false)
	v.SetDefault("sound.enabled", true)
	v.SetDefault("sound.file", "")
	v.SetDefault("notify.urls", []string{})
	v.SetDefault("notify.timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.env", "local")
}

// Viper exposes the underlying instance so command-line flags can be bound
func (cs *ConfigStore) Viper() *viper.Viper {
	return cs.v
}

// Path returns the config file location
func (cs *ConfigStore) Path() string {
	return cs.path
}

// Load reads the config file. A missing file yields the defaults.
func (cs *ConfigStore) Load() (*models.Config, error) {
	if err := cs.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", cs.path, err)
		}
	}

	config := &models.Config{}
	if err := cs.v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if config.Notify.URLs == nil {
		config.Notify.URLs = []string{}
	}
	return config, nil
}

// Save writes config to the config file, creating its directory if needed
func (cs *ConfigStore) Save(config *models.Config) error {
	cs.v.Set("data_dir", config.DataDir)
	cs.v.Set("poll_interval", config.PollInterval.String())
	cs.v.Set("auto_start", config.AutoStart)
	cs.v.Set("tray", config.Tray)
	cs.v.Set("sound.enabled", config.Sound.Enabled)
	cs.v.Set("sound.file", config.Sound.File)
	cs.v.Set("notify.urls", config.Notify.URLs)
	cs.v.Set("notify.timeout", config.Notify.Timeout.String())
	cs.v.Set("log.level", config.Log.Level)
	cs.v.Set("log.env", config.Log.Env)

	if err := cs.fs.MkdirAll(filepath.Dir(cs.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := cs.v.WriteConfigAs(cs.path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", cs.path, err)
	}
	return nil
}

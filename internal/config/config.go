package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Backup   BackupConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// BackupConfig holds the settings of file backups.
type BackupConfig struct {
	Dir string
	// Keep is the number of backup files left after pruning. Zero keeps
	// everything.
	Keep int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// Level parses Log.Level, falling back to info.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "moneywallet")
}

// Path returns the config file location: MONEYWALLET_CONFIG when set,
// otherwise config.toml under the user config dir.
func Path() string {
	if p := os.Getenv("MONEYWALLET_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "moneywallet", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix MONEYWALLET_.
func Load() (Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path falls back
// to Path. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(dataDir(), "moneywallet.db"))
	v.SetDefault("backup.dir", filepath.Join(dataDir(), "backups"))
	v.SetDefault("backup.keep", 10)
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")
	if path == "" {
		path = Path()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("MONEYWALLET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Backup.Keep < 0 {
		return Config{}, fmt.Errorf("backup.keep must not be negative, got %d", c.Backup.Keep)
	}
	return c, nil
}

// Save writes the provided config to path, or to Path when path is empty,
// creating the config directory if needed.
func Save(cfg Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("backup.dir", cfg.Backup.Dir)
	v.Set("backup.keep", cfg.Backup.Keep)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

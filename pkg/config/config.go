/*
Package config manages the TOML config for unialias.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/unialias/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Dataset DatasetConfig `toml:"dataset"`
	Suggest SuggestConfig `toml:"suggest"`
	Output  OutputConfig  `toml:"output"`
	Shell   ShellConfig   `toml:"shell"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit     int `toml:"max_limit"`
	DefaultLimit int `toml:"default_limit"`
	MaxInput     int `toml:"max_input"`
}

// DatasetConfig says where datasets live and whether to follow changes.
type DatasetConfig struct {
	Dir        string `toml:"dir"`
	Watch      bool   `toml:"watch"`
	DebounceMs int    `toml:"debounce_ms"`
}

// SuggestConfig tunes completion ranking.
type SuggestConfig struct {
	RecentFirst bool `toml:"recent_first"`
	MaxRecent   int  `toml:"max_recent"`
}

// OutputConfig picks where selected characters go.
type OutputConfig struct {
	Sink string `toml:"sink"`
}

// ShellConfig is read by the desktop shell, not by unialias itself.
type ShellConfig struct {
	Hotkey string `toml:"hotkey"`
}

func (d DatasetConfig) Debounce() time.Duration {
	return time.Duration(d.DebounceMs) * time.Millisecond
}

// GetConfigDir returns the config directory with fallback priority:
// 1. $XDG_CONFIG_HOME/unialias, ~/.config/unialias or %APPDATA%\unialias
// 2. ~/Library/Application Support/unialias (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := utils.UserConfigDir(homeDir)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", utils.AppName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/unialias/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:     64,
			DefaultLimit: 5,
			MaxInput:     60,
		},
		Dataset: DatasetConfig{
			Dir:        "",
			Watch:      true,
			DebounceMs: 500,
		},
		Suggest: SuggestConfig{
			RecentFirst: true,
			MaxRecent:   64,
		},
		Output: OutputConfig{
			Sink: "stdout",
		},
		Shell: ShellConfig{
			Hotkey: "alt+shift+u",
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.sanitize()
	return config, nil
}

// tryPartialParse keeps every section that still parses on its own
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dataset"); ok {
		extractDatasetConfig(section, &config.Dataset)
	}
	if section, ok := utils.ExtractSection(tempConfig, "suggest"); ok {
		extractSuggestConfig(section, &config.Suggest)
	}
	if section, ok := utils.ExtractSection(tempConfig, "output"); ok {
		if val, ok := utils.ExtractString(section, "sink"); ok {
			config.Output.Sink = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "shell"); ok {
		if val, ok := utils.ExtractString(section, "hotkey"); ok {
			config.Shell.Hotkey = val
		}
	}
	config.sanitize()
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		server.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_input"); ok {
		server.MaxInput = val
	}
}

func extractDatasetConfig(data map[string]any, ds *DatasetConfig) {
	if val, ok := utils.ExtractString(data, "dir"); ok {
		ds.Dir = val
	}
	if val, ok := utils.ExtractBool(data, "watch"); ok {
		ds.Watch = val
	}
	if val, ok := utils.ExtractInt64(data, "debounce_ms"); ok {
		ds.DebounceMs = val
	}
}

func extractSuggestConfig(data map[string]any, s *SuggestConfig) {
	if val, ok := utils.ExtractBool(data, "recent_first"); ok {
		s.RecentFirst = val
	}
	if val, ok := utils.ExtractInt64(data, "max_recent"); ok {
		s.MaxRecent = val
	}
}

// sanitize puts out-of-range numbers back to their defaults.
func (c *Config) sanitize() {
	def := DefaultConfig()
	if c.Server.MaxLimit <= 0 {
		log.Warnf("Invalid server.max_limit %d, using %d", c.Server.MaxLimit, def.Server.MaxLimit)
		c.Server.MaxLimit = def.Server.MaxLimit
	}
	if c.Server.DefaultLimit <= 0 || c.Server.DefaultLimit > c.Server.MaxLimit {
		log.Warnf("Invalid server.default_limit %d, using %d", c.Server.DefaultLimit, min(def.Server.DefaultLimit, c.Server.MaxLimit))
		c.Server.DefaultLimit = min(def.Server.DefaultLimit, c.Server.MaxLimit)
	}
	if c.Server.MaxInput <= 0 {
		c.Server.MaxInput = def.Server.MaxInput
	}
	if c.Dataset.DebounceMs < 0 {
		c.Dataset.DebounceMs = def.Dataset.DebounceMs
	}
	if c.Suggest.MaxRecent < 0 {
		c.Suggest.MaxRecent = 0
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the config values and saves to file. Nil arguments keep
// the current value.
func (c *Config) Update(configPath string, maxLimit, defaultLimit *int, recentFirst *bool, sink *string) error {
	if maxLimit != nil {
		c.Server.MaxLimit = *maxLimit
	}
	if defaultLimit != nil {
		c.Server.DefaultLimit = *defaultLimit
	}
	if recentFirst != nil {
		c.Suggest.RecentFirst = *recentFirst
	}
	if sink != nil {
		c.Output.Sink = *sink
	}
	c.sanitize()
	return SaveConfig(c, configPath)
}

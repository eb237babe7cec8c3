/*
Package config manages the TOML (or YAML) config for wordfix.
*/
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/wordfix/internal/utils"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file created in the config directory.
const DefaultFileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Engine  EngineConfig  `toml:"engine" yaml:"engine"`
	Dict    DictConfig    `toml:"dict" yaml:"dict"`
	Storage StorageConfig `toml:"storage" yaml:"storage"`
	Backup  BackupConfig  `toml:"backup" yaml:"backup"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
}

// EngineConfig tunes suggestion generation.
type EngineConfig struct {
	MaxResults      int     `toml:"max_results" yaml:"max_results"`
	MaxEditDistance int     `toml:"max_edit_distance" yaml:"max_edit_distance"`
	ContextWindow   int     `toml:"context_window" yaml:"context_window"`
	MinConfidence   float64 `toml:"min_confidence" yaml:"min_confidence"`
	CacheSize       int     `toml:"cache_size" yaml:"cache_size"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	// DataDir holds <lang>.txt lists; empty means the embedded lists.
	DataDir         string   `toml:"data_dir" yaml:"data_dir"`
	Languages       []string `toml:"languages" yaml:"languages"`
	ActiveLanguages []string `toml:"active_languages" yaml:"active_languages"`
}

// StorageConfig selects where custom words are persisted.
type StorageConfig struct {
	Backend string `toml:"backend" yaml:"backend"`
	// Path is a directory for "file" and a database file for "sqlite";
	// empty picks the platform data directory.
	Path string `toml:"path" yaml:"path"`
}

// BackupConfig holds backup archive options.
type BackupConfig struct {
	AppVersion string `toml:"app_version" yaml:"app_version"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit int `toml:"max_limit" yaml:"max_limit"`
	MaxToken int `toml:"max_token" yaml:"max_token"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxResults:      5,
			MaxEditDistance: 2,
			ContextWindow:   5,
			MinConfidence:   0.5,
			CacheSize:       512,
		},
		Dict: DictConfig{
			DataDir:         "",
			Languages:       []string{"en", "id"},
			ActiveLanguages: []string{"en"},
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    "",
		},
		Backup: BackupConfig{
			AppVersion: "dev",
		},
		Server: ServerConfig{
			MaxLimit: 64,
			MaxToken: 60,
		},
	}
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.GetConfigPath(DefaultFileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/wordfix/config.toml
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

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadConfig loads a config file. Files ending in .yaml or .yml are read as
// YAML, everything else as TOML. A TOML file with type errors still yields
// its valid keys; missing keys keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if isYAML(configPath) {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse yaml config %s: %w", configPath, err)
		}
		config.sanitize()
		return config, nil
	}

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.sanitize()
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "storage"); ok {
		extractStorageConfig(section, &config.Storage)
	}
	if section, ok := utils.ExtractSection(tempConfig, "backup"); ok {
		if val, ok := utils.ExtractString(section, "app_version"); ok {
			config.Backup.AppVersion = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	config.sanitize()
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractInt64(data, "max_results"); ok {
		engine.MaxResults = val
	}
	if val, ok := utils.ExtractInt64(data, "max_edit_distance"); ok {
		engine.MaxEditDistance = val
	}
	if val, ok := utils.ExtractInt64(data, "context_window"); ok {
		engine.ContextWindow = val
	}
	if val, ok := utils.ExtractFloat64(data, "min_confidence"); ok {
		engine.MinConfidence = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		engine.CacheSize = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "data_dir"); ok {
		dict.DataDir = val
	}
	if val, ok := utils.ExtractStringSlice(data, "languages"); ok {
		dict.Languages = val
	}
	if val, ok := utils.ExtractStringSlice(data, "active_languages"); ok {
		dict.ActiveLanguages = val
	}
}

func extractStorageConfig(data map[string]any, storage *StorageConfig) {
	if val, ok := utils.ExtractString(data, "backend"); ok {
		storage.Backend = val
	}
	if val, ok := utils.ExtractString(data, "path"); ok {
		storage.Path = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_token"); ok {
		server.MaxToken = val
	}
}

// sanitize replaces out of range values with their defaults.
func (c *Config) sanitize() {
	d := DefaultConfig()
	if c.Engine.MaxResults <= 0 {
		log.Warnf("engine.max_results %d is invalid, using %d", c.Engine.MaxResults, d.Engine.MaxResults)
		c.Engine.MaxResults = d.Engine.MaxResults
	}
	if c.Engine.MaxEditDistance <= 0 {
		log.Warnf("engine.max_edit_distance %d is invalid, using %d", c.Engine.MaxEditDistance, d.Engine.MaxEditDistance)
		c.Engine.MaxEditDistance = d.Engine.MaxEditDistance
	}
	if c.Engine.ContextWindow <= 0 {
		c.Engine.ContextWindow = d.Engine.ContextWindow
	}
	if c.Engine.MinConfidence <= 0 || c.Engine.MinConfidence > 1 {
		log.Warnf("engine.min_confidence %v is invalid, using %v", c.Engine.MinConfidence, d.Engine.MinConfidence)
		c.Engine.MinConfidence = d.Engine.MinConfidence
	}
	if len(c.Dict.Languages) == 0 {
		c.Dict.Languages = d.Dict.Languages
	}
	switch c.Storage.Backend {
	case "file", "sqlite":
	default:
		log.Warnf("storage.backend %q is not supported, using %q", c.Storage.Backend, d.Storage.Backend)
		c.Storage.Backend = d.Storage.Backend
	}
	if c.Server.MaxLimit <= 0 {
		c.Server.MaxLimit = d.Server.MaxLimit
	}
	if c.Server.MaxToken <= 0 {
		c.Server.MaxToken = d.Server.MaxToken
	}
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

// SaveConfig writes config to configPath, as YAML or TOML by extension.
func SaveConfig(config *Config, configPath string) error {
	if isYAML(configPath) {
		return utils.WriteFileAtomic(configPath, func(w io.Writer) error {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(config); err != nil {
				return err
			}
			return enc.Close()
		})
	}
	return utils.SaveTOMLFile(config, configPath)
}

package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"
)

// Settings backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

// Config holds all engine configuration. Environment variables override the file.
type Config struct {
	ScreenWidth   int      `json:"screen_width" env:"SOUND_SCREEN_WIDTH"`
	ScreenHeight  int      `json:"screen_height" env:"SOUND_SCREEN_HEIGHT"`
	AssetsPath    string   `json:"assets_path" env:"SOUND_ASSETS_PATH"`
	DebugMode     bool     `json:"debug_mode" env:"SOUND_DEBUG"`
	LogLevel      string   `json:"log_level" env:"SOUND_LOG_LEVEL"`
	Backend       string   `json:"settings_backend" env:"SOUND_SETTINGS_BACKEND"`
	SettingsPath  string   `json:"settings_path" env:"SOUND_SETTINGS_PATH"`
	SQLitePath    string   `json:"sqlite_path" env:"SOUND_SQLITE_PATH"`
	S3            S3Config `json:"s3" envPrefix:"SOUND_S3_"`
	ClampVolumes  bool     `json:"clamp_volumes" env:"SOUND_CLAMP_VOLUMES"`
	StartupScript string   `json:"startup_script" env:"SOUND_STARTUP_SCRIPT"`
}

// S3Config locates the snapshot object for the s3 backend.
// Credentials come from the default AWS chain.
type S3Config struct {
	Bucket    string `json:"bucket" env:"BUCKET"`
	Region    string `json:"region" env:"REGION"`
	Endpoint  string `json:"endpoint" env:"ENDPOINT"` // optional, e.g. MinIO
	Key       string `json:"key" env:"KEY"`
	PathStyle bool   `json:"path_style" env:"PATH_STYLE"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ScreenWidth:  800,
		ScreenHeight: 600,
		AssetsPath:   "./assets",
		DebugMode:    false,
		LogLevel:     "info",
		Backend:      BackendFile,
		SettingsPath: "soundSettings.json",
		SQLitePath:   "soundSettings.db",
		S3: S3Config{
			Region: "us-east-1",
			Key:    "soundSettings.json",
		},
	}
}

// Validate checks the fields that select and locate the settings backend
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile:
		if c.SettingsPath == "" {
			return fmt.Errorf("settings_path is required for the %s backend", c.Backend)
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for the %s backend", c.Backend)
		}
	case BackendS3:
		if c.S3.Bucket == "" || c.S3.Key == "" {
			return fmt.Errorf("s3 bucket and key are required for the %s backend", c.Backend)
		}
	default:
		return fmt.Errorf("unknown settings backend %q", c.Backend)
	}
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return fmt.Errorf("invalid screen size %dx%d", c.ScreenWidth, c.ScreenHeight)
	}
	return nil
}

// ParseEnv applies environment overrides to target
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Manager handles configuration loading and saving
type Manager struct {
	config     *Config
	configPath string
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	return &Manager{
		config:     DefaultConfig(),
		configPath: configPath,
	}
}

// Load loads configuration from file, writing defaults when it is missing,
// then applies environment overrides
func (m *Manager) Load() error {
	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		log.Printf("Config file %s not found, using defaults", m.configPath)
		if err := m.Save(); err != nil {
			return err
		}
	} else {
		data, err := os.ReadFile(m.configPath)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		if err := json.Unmarshal(data, m.config); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
		log.Printf("Loaded configuration from %s", m.configPath)
	}

	if err := ParseEnv(m.config); err != nil {
		return err
	}
	return m.config.Validate()
}

// Save saves configuration to file
func (m *Manager) Save() error {
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	log.Printf("Saved configuration to %s", m.configPath)
	return nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

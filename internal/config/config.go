package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = "config.yaml"
	appDirName     = "drivebox"
)

var (
	customConfigDir       string
	customCredentialsPath string
)

// Config holds everything drivebox needs to reach Drive and decide
// local behavior. Fields left empty fall back to defaults.
type Config struct {
	// CredentialsFile is the OAuth client secret JSON for the
	// interactive flow.
	CredentialsFile string `yaml:"credentials_file"`
	// TokenFile caches the OAuth token between runs.
	TokenFile string `yaml:"token_file"`
	// ServiceAccountFile, when set, selects the non-interactive
	// service-account flow instead of OAuth.
	ServiceAccountFile string `yaml:"service_account_file"`
	// Scopes requested during authorization.
	Scopes []string `yaml:"scopes"`
	// ExportFormat is the default format for document exports
	// (txt, md, html, csv).
	ExportFormat string `yaml:"export_format"`
	// PageSize is the per-page result count for listing calls.
	PageSize int64 `yaml:"page_size"`
}

// SetCustomConfigDir overrides the config directory (--config-dir).
func SetCustomConfigDir(dir string) {
	customConfigDir = dir
}

// SetCustomCredentialsPath overrides the credentials file
// (--credentials).
func SetCustomCredentialsPath(path string) {
	customCredentialsPath = path
}

// GetConfigDir returns the global config directory for drivebox.
func GetConfigDir() (string, error) {
	if customConfigDir != "" {
		return customConfigDir, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user config directory: %w", err)
	}

	return filepath.Join(base, appDirName), nil
}

// LoadConfig loads configuration from the standard search paths,
// falling back to defaults when no config file exists.
func LoadConfig() (*Config, error) {
	for _, configPath := range getConfigSearchPaths() {
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	return GetDefaultConfig(), nil
}

// SaveConfig saves configuration to the config directory.
func SaveConfig(cfg *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfig returns the default configuration. Credential and
// token paths resolve under the config directory when available.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	fillDefaults(cfg)
	applyOverrides(cfg)

	return cfg
}

// getConfigSearchPaths returns the list of paths to search for config
// files: custom dir first, then the global config directory, then the
// current directory.
func getConfigSearchPaths() []string {
	var paths []string

	if customConfigDir != "" {
		paths = append(paths, filepath.Join(customConfigDir, ConfigFileName))
	}

	if globalConfigDir, err := GetConfigDir(); err == nil {
		paths = append(paths, filepath.Join(globalConfigDir, ConfigFileName))
	}

	paths = append(paths, ConfigFileName)

	return paths
}

func loadConfigFromFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	fillDefaults(&cfg)
	applyOverrides(&cfg)

	return &cfg, nil
}

func fillDefaults(cfg *Config) {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"https://www.googleapis.com/auth/drive"}
	}

	if cfg.ExportFormat == "" {
		cfg.ExportFormat = "txt"
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}

	configDir, err := GetConfigDir()
	if err != nil {
		return
	}

	if cfg.CredentialsFile == "" {
		cfg.CredentialsFile = filepath.Join(configDir, "credentials.json")
	}

	if cfg.TokenFile == "" {
		cfg.TokenFile = filepath.Join(configDir, "token.json")
	}
}

func applyOverrides(cfg *Config) {
	if customCredentialsPath != "" {
		cfg.CredentialsFile = customCredentialsPath
	}
}

// ValidateConfig checks that the configuration can produce an
// authorized client.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if cfg.ServiceAccountFile == "" && cfg.CredentialsFile == "" {
		return fmt.Errorf("either credentials_file or service_account_file is required")
	}

	if len(cfg.Scopes) == 0 {
		return fmt.Errorf("at least one scope is required")
	}

	switch cfg.ExportFormat {
	case "txt", "md", "html", "csv":
	default:
		return fmt.Errorf("unsupported export format %q (supported: txt, md, html, csv)", cfg.ExportFormat)
	}

	return nil
}

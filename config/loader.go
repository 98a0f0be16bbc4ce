package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "menugen.yaml"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. Project config (menugen.yaml in current or parent directories)
// 3. .env file in the current directory
// 4. Environment variables
func (l *Loader) Load() (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// Load project config
	projectConfigPath := l.findProjectConfig()
	if projectConfigPath != "" {
		if projectConfig, err := LoadFromFile(projectConfigPath); err == nil {
			l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
			config.Merge(projectConfig)
		} else {
			l.logger.Warn("Failed to load project config", slog.String("path", projectConfigPath), slog.String("error", err.Error()))
		}
	} else {
		l.logger.Debug("No project config found")
	}

	l.applyEnv(config)

	// Validate final config
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadFile loads an explicit config path, still applying .env and
// environment overrides.
func (l *Loader) LoadFile(path string) (*Config, error) {
	config := DefaultConfig()

	fileConfig, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	config.Merge(fileConfig)

	l.applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnv overlays .env values and environment variables onto config.
func (l *Loader) applyEnv(config *Config) {
	// godotenv only fills variables that are not already set, so real
	// environment values keep precedence over .env entries.
	if err := godotenv.Load(); err == nil {
		l.logger.Debug("Loaded .env file")
	}

	if v := os.Getenv("SPREADSHEET_ID"); v != "" {
		config.Sheet.SpreadsheetID = v
	}
	if v := os.Getenv("SHEET_TAB"); v != "" {
		config.Sheet.Tab = v
	}
	if v := os.Getenv("DRIVE_FOLDER_ID"); v != "" {
		config.Drive.FolderID = v
	}
	if v := os.Getenv("DRIVE_API_KEY"); v != "" {
		config.Drive.APIKey = v
	}
	if v := os.Getenv("HELP_DOC_URL"); v != "" {
		config.Help.DocURL = v
	}
}

// findProjectConfig searches for menugen.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}

// Package config provides configuration loading and management for menugen.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete menugen configuration
type Config struct {
	Sheet  SheetConfig  `yaml:"sheet"`
	Drive  DriveConfig  `yaml:"drive"`
	Data   DataConfig   `yaml:"data"`
	Site   SiteConfig   `yaml:"site"`
	Images ImagesConfig `yaml:"images"`
	Help   HelpConfig   `yaml:"help"`
}

// SheetConfig identifies the source spreadsheet
type SheetConfig struct {
	// SpreadsheetID is the Google Sheet document id (env: SPREADSHEET_ID)
	SpreadsheetID string `yaml:"spreadsheet_id"`
	// Tab is the sheet tab holding the menu rows (default: "menu")
	Tab string `yaml:"tab"`
}

// DriveConfig configures access to the images folder on Drive
type DriveConfig struct {
	// FolderID is the Drive folder holding the menu images (env: DRIVE_FOLDER_ID)
	FolderID string `yaml:"folder_id"`
	// APIKey authorizes Drive REST calls (env: DRIVE_API_KEY)
	APIKey string `yaml:"api_key"`
}

// DataConfig locates the local data snapshot
type DataConfig struct {
	// Dir is the root of the local data tree (default: "data")
	Dir string `yaml:"dir"`
}

// CSVPath returns the path of the menu CSV snapshot.
func (d DataConfig) CSVPath() string { return filepath.Join(d.Dir, "menu.csv") }

// RawImagesDir returns the directory holding raw Drive image bytes.
func (d DataConfig) RawImagesDir() string { return filepath.Join(d.Dir, "images", "raw") }

// WebImagesDir returns the directory holding derived web images.
func (d DataConfig) WebImagesDir() string { return filepath.Join(d.Dir, "images", "web") }

// ManifestPath returns the path of the image sync manifest.
func (d DataConfig) ManifestPath() string { return filepath.Join(d.Dir, "manifest.json") }

// SiteConfig configures the static site tree and build command
type SiteConfig struct {
	// Dir is the static site root, where the build command runs (default: "site")
	Dir string `yaml:"dir"`
	// ContentDir is the generated-content directory relative to Dir (default: "content")
	ContentDir string `yaml:"content_dir"`
	// BuildCommand is the external site builder binary (default: "hugo")
	BuildCommand string `yaml:"build_command"`
	// BuildArgs are extra arguments passed to the build command
	BuildArgs []string `yaml:"build_args"`
}

// ContentPath returns the absolute-or-relative content directory.
func (s SiteConfig) ContentPath() string { return filepath.Join(s.Dir, s.ContentDir) }

// ImagesConfig bounds the derived web images
type ImagesConfig struct {
	// MaxBytes is the published-image size ceiling (default: 1 MiB)
	MaxBytes int64 `yaml:"max_bytes"`
	// MaxDimension bounds the longest edge of a web image (default: 1200)
	MaxDimension int `yaml:"max_dimension"`
}

// HelpConfig locates the operator help document
type HelpConfig struct {
	// DocURL is the remote help document shown by `menugen helpdoc` (env: HELP_DOC_URL)
	DocURL string `yaml:"doc_url"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Sheet: SheetConfig{
			Tab: "menu",
		},
		Data: DataConfig{
			Dir: "data",
		},
		Site: SiteConfig{
			Dir:          "site",
			ContentDir:   "content",
			BuildCommand: "hugo",
		},
		Images: ImagesConfig{
			MaxBytes:     1 << 20,
			MaxDimension: 1200,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	if c.Site.Dir == "" {
		return fmt.Errorf("site.dir is required")
	}
	if c.Site.ContentDir == "" {
		return fmt.Errorf("site.content_dir is required")
	}
	if c.Site.BuildCommand == "" {
		return fmt.Errorf("site.build_command is required")
	}
	if c.Images.MaxBytes <= 0 {
		return fmt.Errorf("images.max_bytes must be positive")
	}
	if c.Images.MaxDimension <= 0 {
		return fmt.Errorf("images.max_dimension must be positive")
	}
	return nil
}

// Merge overlays non-zero fields from other onto c
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Sheet
	if other.Sheet.SpreadsheetID != "" {
		c.Sheet.SpreadsheetID = other.Sheet.SpreadsheetID
	}
	if other.Sheet.Tab != "" {
		c.Sheet.Tab = other.Sheet.Tab
	}

	// Drive
	if other.Drive.FolderID != "" {
		c.Drive.FolderID = other.Drive.FolderID
	}
	if other.Drive.APIKey != "" {
		c.Drive.APIKey = other.Drive.APIKey
	}

	// Data
	if other.Data.Dir != "" {
		c.Data.Dir = other.Data.Dir
	}

	// Site
	if other.Site.Dir != "" {
		c.Site.Dir = other.Site.Dir
	}
	if other.Site.ContentDir != "" {
		c.Site.ContentDir = other.Site.ContentDir
	}
	if other.Site.BuildCommand != "" {
		c.Site.BuildCommand = other.Site.BuildCommand
	}
	if len(other.Site.BuildArgs) > 0 {
		c.Site.BuildArgs = other.Site.BuildArgs
	}

	// Images
	if other.Images.MaxBytes != 0 {
		c.Images.MaxBytes = other.Images.MaxBytes
	}
	if other.Images.MaxDimension != 0 {
		c.Images.MaxDimension = other.Images.MaxDimension
	}

	// Help
	if other.Help.DocURL != "" {
		c.Help.DocURL = other.Help.DocURL
	}
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

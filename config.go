package quizbuilder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the server and CLI front-ends.
type Config struct {
	// DBPath is the full path to the SQLite archive file. If empty, it is
	// derived from DBName and StorageDir.
	DBPath string `json:"db_path" yaml:"db_path"`

	// DBName is the archive name used when DBPath is empty. Defaults to
	// "quizbuilder"; the file becomes <DBName>.db inside the storage dir.
	DBName string `json:"db_name" yaml:"db_name"`

	// StorageDir controls where the archive lives when DBPath is unset:
	// "home" (default) uses ~/.quizbuilder/, "local" the working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// ListenAddr is the HTTP server bind address.
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`

	// APIKey enables bearer-token auth on the server when non-empty.
	APIKey string `json:"api_key" yaml:"api_key"`

	// CORSOrigins is a comma-separated allow-list; empty disables CORS
	// headers entirely.
	CORSOrigins string `json:"cors_origins" yaml:"cors_origins"`

	// MaxUploadMB bounds multipart uploads on the compile endpoint.
	MaxUploadMB int `json:"max_upload_mb" yaml:"max_upload_mb"`
}

// DefaultConfig returns a Config with sensible local defaults.
func DefaultConfig() Config {
	return Config{
		DBName:      "quizbuilder",
		StorageDir:  "home",
		ListenAddr:  ":8080",
		MaxUploadMB: 50,
	}
}

// LoadConfig reads a YAML or JSON config file (chosen by extension) over the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return cfg, nil
}

// ResolveDBPath returns the archive path, creating the storage directory for
// the "home" layout if needed.
func (c Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	name := c.DBName
	if name == "" {
		name = "quizbuilder"
	}
	if c.StorageDir == "local" {
		return name + ".db", nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".quizbuilder")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating storage directory: %w", err)
	}
	return filepath.Join(dir, name+".db"), nil
}

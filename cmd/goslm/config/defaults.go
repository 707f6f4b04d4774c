package config

import (
	"os"
	"path/filepath"
)

// Backend names accepted in the config file, GOSLM_BACKEND and --backend
const (
	BackendXML      = "xml"
	BackendSettings = "settings"
	BackendMemory   = "memory"
)

// Backends lists every backend name
func Backends() []string {
	return []string{BackendXML, BackendSettings, BackendMemory}
}

// UserDir returns the per-user goslm directory ($HOME/.goslm)
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".goslm"
	}
	return filepath.Join(home, ".goslm")
}

// DefaultConfigPath returns the config file used when --config is not given
func DefaultConfigPath() string {
	return filepath.Join(UserDir(), "config.yaml")
}

// DefaultSettingsDSN returns the sqlite database the settings backend uses by default
func DefaultSettingsDSN() string {
	return filepath.Join(UserDir(), "settings.db")
}

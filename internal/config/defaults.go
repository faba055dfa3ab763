package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultConfigPath returns the default supertonic config directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "supertonic", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "supertonic")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "supertonic")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "supertonic")
		}
		return filepath.Join(home, ".config", "supertonic")
	}
}

// DefaultConfigFile returns the default config file path.
func DefaultConfigFile() string {
	return filepath.Join(DefaultConfigPath(), "config.yaml")
}

// DefaultModelRoot returns the default directory model files are stored in.
func DefaultModelRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "ovos", "tts", "supertonic")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Local", "ovos", "tts", "supertonic")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "ovos", "tts", "supertonic")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "ovos", "tts", "supertonic")
		}
		return filepath.Join(home, ".local", "share", "ovos", "tts", "supertonic")
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName    = "lddc"
	webDirName = "LDDC"
	configFile = "config.json"

	// ConfigDirEnvVar overrides the configuration directory.
	ConfigDirEnvVar = "LDDC_CONFIG_DIR"
)

// ConfigDir returns the directory holding the configuration file.
//
//   - $LDDC_CONFIG_DIR when set
//   - $TMPDIR/LDDC/config on hosting platforms (see IsWebEnvironment)
//   - Linux: $XDG_CONFIG_HOME/lddc or $HOME/.config/lddc
//   - macOS: $HOME/.config/lddc
//   - Windows: %LOCALAPPDATA%\lddc
func ConfigDir() (string, error) {
	return configDir(os.Getenv)
}

func configDir(getenv func(string) string) (string, error) {
	if dir := getenv(ConfigDirEnvVar); dir != "" {
		return dir, nil
	}

	if isWebEnvironment(getenv) {
		// Serverless platforms only guarantee a writable temp directory
		return filepath.Join(os.TempDir(), webDirName, "config"), nil
	}

	switch runtime.GOOS {
	case "windows":
		localAppData := getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			return filepath.Join(userProfile, "AppData", "Local", appName), nil
		}
		return filepath.Join(localAppData, appName), nil

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil

	default:
		if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil
	}
}

// DefaultPath returns the full path of the configuration file. If no
// directory can be determined it falls back to the temp directory.
func DefaultPath() string {
	dir, err := ConfigDir()
	if err != nil {
		dir = filepath.Join(os.TempDir(), webDirName, "config")
	}
	return filepath.Join(dir, configFile)
}

// LyricsDir returns the default directory for saved lyrics. Next to a
// ".../config" directory it is ".../lyrics", otherwise a "lyrics"
// subdirectory of the configuration directory.
func LyricsDir(configPath string) string {
	dir := filepath.Dir(configPath)
	if filepath.Base(dir) == "config" {
		return filepath.Join(filepath.Dir(dir), "lyrics")
	}
	return filepath.Join(dir, "lyrics")
}

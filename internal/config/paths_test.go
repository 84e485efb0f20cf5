package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func mapGetenv(vars map[string]string) func(string) string {
	return func(name string) string {
		return vars[name]
	}
}

func TestConfigDirOverride(t *testing.T) {
	dir, err := configDir(mapGetenv(map[string]string{
		ConfigDirEnvVar: "/srv/lddc",
		"VERCEL":        "1",
	}))
	if err != nil {
		t.Fatalf("configDir() error = %v", err)
	}
	if dir != "/srv/lddc" {
		t.Errorf("configDir() = %q, want /srv/lddc", dir)
	}
}

func TestConfigDirHosted(t *testing.T) {
	for _, indicator := range hostingIndicators {
		t.Run(indicator, func(t *testing.T) {
			dir, err := configDir(mapGetenv(map[string]string{indicator: "1"}))
			if err != nil {
				t.Fatalf("configDir() error = %v", err)
			}
			want := filepath.Join(os.TempDir(), "LDDC", "config")
			if dir != want {
				t.Errorf("configDir() = %q, want %q", dir, want)
			}
		})
	}
}

func TestConfigDirXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}

	dir, err := configDir(mapGetenv(map[string]string{"XDG_CONFIG_HOME": "/home/u/.cfg"}))
	if err != nil {
		t.Fatalf("configDir() error = %v", err)
	}
	if dir != "/home/u/.cfg/lddc" {
		t.Errorf("configDir() = %q", dir)
	}
}

func TestDefaultPathHonoursConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnvVar, dir)

	if got, want := DefaultPath(), filepath.Join(dir, "config.json"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestLyricsDir(t *testing.T) {
	tests := []struct {
		configPath string
		want       string
	}{
		{"/tmp/LDDC/config/config.json", "/tmp/LDDC/lyrics"},
		{"/home/u/.config/lddc/config.json", "/home/u/.config/lddc/lyrics"},
	}

	for _, tt := range tests {
		if got := LyricsDir(filepath.FromSlash(tt.configPath)); got != filepath.FromSlash(tt.want) {
			t.Errorf("LyricsDir(%q) = %q, want %q", tt.configPath, got, tt.want)
		}
	}
}

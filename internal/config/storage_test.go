package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatForPath(t *testing.T) {
	for path, want := range map[string]FileFormat{
		"config.json": FormatJSON,
		"config.yaml": FormatYAML,
		"config.YML":  FormatYAML,
		"config":      FormatJSON,
	} {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestFileStorageMissingFile(t *testing.T) {
	fs := NewFileStorage(filepath.Join(t.TempDir(), "config.json"))

	if _, err := fs.Load(); !errors.Is(err, ErrNoPersistedState) {
		t.Errorf("Load() error = %v, want ErrNoPersistedState", err)
	}
}

func TestFileStorageSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	fs := NewFileStorage(path)

	doc := map[string]any{
		"name":  "歌词",
		"size":  30.0,
		"count": int64(3),
		"list":  []any{"a", "b"},
	}
	if err := fs.Save(doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind, stat error = %v", err)
	}

	got, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := map[string]any{
		"name":  "歌词",
		"size":  json.Number("30.0"),
		"count": json.Number("3"),
		"list":  []any{"a", "b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStorageYAMLHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	fs := NewFileStorage(path)

	if err := fs.Save(map[string]any{"api_timeout": int64(30)}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# LDDC configuration file") {
		t.Errorf("YAML file missing header:\n%s", data)
	}

	doc, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc["api_timeout"] != 30 {
		t.Errorf("api_timeout = %#v, want 30", doc["api_timeout"])
	}
}

func TestFileStorageMalformed(t *testing.T) {
	tests := map[string]string{
		"config.json": `{"a":`,
		"list.json":   `[1, 2]`,
		"config.yaml": "- a\n- b\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			writeFile(t, path, content)

			_, err := NewFileStorage(path).Load()
			if !errors.Is(err, &StoreError{Kind: ErrKindMalformedPersistedData}) {
				t.Errorf("Load() error = %v, want malformed data", err)
			}
		})
	}
}

func TestMemoryStorage(t *testing.T) {
	m := NewMemoryStorage(nil)
	if _, err := m.Load(); !errors.Is(err, ErrNoPersistedState) {
		t.Fatalf("Load() error = %v, want ErrNoPersistedState", err)
	}

	if err := m.Save(map[string]any{"a": true}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	doc, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	doc["b"] = false

	again, _ := m.Load()
	if _, leaked := again["b"]; leaked {
		t.Error("Load() returned the stored map instead of a copy")
	}
}

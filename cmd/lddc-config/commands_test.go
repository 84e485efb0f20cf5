package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/muurk/lddc/internal/config"
	"github.com/muurk/lddc/internal/logging"
)

// run executes the CLI against configPath and returns stdout and stderr.
func run(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", configPath}, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSetThenGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	out, _, err := run(t, path, "set", "langs_order", "orig, ts")
	if err != nil {
		t.Fatalf("set error = %v", err)
	}
	if out != "langs_order = [\"orig\",\"ts\"]\n" {
		t.Errorf("set output = %q", out)
	}

	out, _, err = run(t, path, "get", "langs_order")
	if err != nil {
		t.Fatalf("get error = %v", err)
	}
	if out != "[\"orig\",\"ts\"]\n" {
		t.Errorf("get output = %q", out)
	}
}

func TestSetRejectsBadValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	if _, _, err := run(t, path, "set", "api_timeout", "soon"); err == nil {
		t.Error("set accepted a non-numeric timeout")
	}
	if _, _, err := run(t, path, "set", "no_such_key", "1"); err == nil {
		t.Error("set accepted an unknown key")
	}
}

func TestGetUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	_, _, err := run(t, path, "get", "no_such_key")
	if err == nil || !strings.Contains(err.Error(), "no_such_key") {
		t.Errorf("get error = %v, want a key-not-found error", err)
	}
}

func TestDeleteAndReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	if _, _, err := run(t, path, "set", "api_timeout", "90"); err != nil {
		t.Fatalf("set error = %v", err)
	}
	if _, _, err := run(t, path, "delete", "api_timeout"); err != nil {
		t.Fatalf("delete error = %v", err)
	}

	// A deleted built-in key reads as its default on the next load
	out, _, err := run(t, path, "get", "api_timeout")
	if err != nil {
		t.Fatalf("get error = %v", err)
	}
	if out != "30\n" {
		t.Errorf("get after delete = %q, want 30", out)
	}

	if _, _, err := run(t, path, "set", "cache_ttl", "5"); err != nil {
		t.Fatalf("set error = %v", err)
	}
	if _, _, err := run(t, path, "reset"); err != nil {
		t.Fatalf("reset error = %v", err)
	}
	out, _, _ = run(t, path, "get", "cache_ttl")
	if out != "3600\n" {
		t.Errorf("get after reset = %q, want 3600", out)
	}
}

func TestShowPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	out, _, err := run(t, path, "show")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != config.DefaultSchema("").Len() {
		t.Errorf("show printed %d lines, want one per setting", len(lines))
	}
	if lines[0] != "langs_order = [\"roma\",\"orig\",\"ts\"]" {
		t.Errorf("first line = %q, want the lyrics group first", lines[0])
	}
}

func TestShowJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	out, _, err := run(t, path, "show", "--format", "json")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("show output is not JSON: %v\n%s", err, out)
	}
	if doc["language"] != "auto" {
		t.Errorf("language = %v, want auto", doc["language"])
	}

	if _, _, err := run(t, path, "show", "--format", "xml"); err == nil {
		t.Error("show accepted an unknown format")
	}
}

func TestWebAPI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if _, _, err := run(t, path, "set", "rate_limit_per_minute", "10"); err != nil {
		t.Fatalf("set error = %v", err)
	}

	out, _, err := run(t, path, "webapi")
	if err != nil {
		t.Fatalf("webapi error = %v", err)
	}

	var got config.WebAPIConfig
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("webapi output is not JSON: %v", err)
	}
	want := config.WebAPIConfig{
		Timeout:        30,
		CacheEnabled:   true,
		CacheTTL:       3600,
		RateLimit:      10,
		EnableCORS:     true,
		DefaultSources: []string{"QM", "KG", "NE"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("webapi mismatch (-want +got):\n%s", diff)
	}

	out, _, err = run(t, path, "webapi", "--format", "yaml")
	if err != nil {
		t.Fatalf("webapi yaml error = %v", err)
	}
	if !strings.Contains(out, "rate_limit: 10") {
		t.Errorf("yaml output missing rate_limit:\n%s", out)
	}
}

func TestPathAndStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	out, stderr, err := run(t, path, "--stats", "set", "debug_mode", "true")
	if err != nil {
		t.Fatalf("set error = %v", err)
	}
	if !strings.Contains(stderr, `lddc_config_writes_total{op="set"} 1`) {
		t.Errorf("stats missing write counter:\n%s", stderr)
	}
	if !strings.Contains(out, "debug_mode = true") {
		t.Errorf("set output = %q", out)
	}

	out, _, err = run(t, path, "path")
	if err != nil {
		t.Fatalf("path error = %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("path = %q, want %q", out, path)
	}
}

func TestDeleteAbsentKeyIgnoresEarlierWriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	// The unreadable file makes the store rewrite it at startup, which fails
	path := filepath.Join(blocker, "config.json")

	if _, _, err := run(t, path, "delete", "no_such_key"); err != nil {
		t.Errorf("delete of an absent key error = %v, want nil", err)
	}

	_, _, err := run(t, path, "delete", "api_timeout")
	if err == nil || !strings.Contains(err.Error(), "not saved") {
		t.Errorf("delete error = %v, want a not-saved error", err)
	}
}

func TestUnknownLogLevelWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Cleanup(func() { logging.SetLogger(nil) })

	out, stderr, err := run(t, path, "--log-level", "chatty", "get", "language")
	if err != nil {
		t.Fatalf("get error = %v", err)
	}
	if out != "auto\n" {
		t.Errorf("get output = %q, want auto", out)
	}
	if !strings.Contains(stderr, "Warning: unknown log level") {
		t.Errorf("stderr = %q, want an unknown level warning", stderr)
	}
}

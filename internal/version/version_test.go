package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name        string
		version     string
		commit      string
		info        *debug.BuildInfo
		wantVersion string
		wantCommit  string
		wantDirty   bool
	}{
		{"ldflags win", "v1.2.3", "abc123", info, "v1.2.3", "abc123", false},
		{"from build info", "", "", info, "v0.4.0", "0123456", true},
		{"no build info", "", "", nil, "dev", "unknown", false},
		{"devel build", "", "", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, "dev", "unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolve(tt.version, tt.commit, tt.info)
			if got.Version != tt.wantVersion || got.Commit != tt.wantCommit || got.Dirty != tt.wantDirty {
				t.Errorf("resolve() = %+v, want version=%s commit=%s dirty=%v",
					got, tt.wantVersion, tt.wantCommit, tt.wantDirty)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	s := Info{Version: "v1.0.0", Commit: "abc1234", Dirty: true, GoVersion: "go1.24.10"}.String()
	if !strings.Contains(s, "abc1234-dirty") || !strings.HasPrefix(s, "v1.0.0") {
		t.Errorf("String() = %q", s)
	}
}

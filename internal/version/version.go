// Package version reports the build identity of lddc-config.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/lddc/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/lddc/internal/version.Commit=abc123"
//
// Anything left empty is filled from the module build info on first use.
var (
	Version = ""
	Commit  = ""
)

// Info is the resolved build identity.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Dirty     bool   `json:"dirty,omitempty"`
	GoVersion string `json:"go_version"`
}

var (
	resolveOnce sync.Once
	resolved    Info
)

// Get returns the build identity, resolving it once.
func Get() Info {
	resolveOnce.Do(func() {
		info, _ := debug.ReadBuildInfo()
		resolved = resolve(Version, Commit, info)
	})
	return resolved
}

// resolve merges ldflags values with the VCS stamp in build info.
func resolve(version, commit string, info *debug.BuildInfo) Info {
	out := Info{Version: version, Commit: commit, GoVersion: runtime.Version()}

	if info != nil {
		settings := make(map[string]string, len(info.Settings))
		for _, s := range info.Settings {
			settings[s.Key] = s.Value
		}

		if out.Commit == "" {
			rev := settings["vcs.revision"]
			if len(rev) > 7 {
				rev = rev[:7]
			}
			out.Commit = rev
			out.Dirty = settings["vcs.modified"] == "true"
		}
		// go install pkg@v1.2.3 stamps the module version
		if out.Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			out.Version = info.Main.Version
		}
	}

	if out.Version == "" {
		out.Version = "dev"
	}
	if out.Commit == "" {
		out.Commit = "unknown"
	}
	return out
}

// String formats the identity for "lddc-config version".
func (i Info) String() string {
	commit := i.Commit
	if i.Dirty {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (commit: %s, %s)", i.Version, commit, i.GoVersion)
}

// Full returns Get().String().
func Full() string {
	return Get().String()
}

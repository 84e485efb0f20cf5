package config

import (
	"os"

	"go.uber.org/zap"

	"github.com/muurk/lddc/internal/logging"
)

// hostingIndicators are variables set by serverless hosting platforms, plus
// LDDC_WEB_MODE to force web mode elsewhere.
var hostingIndicators = []string{
	"VERCEL",
	"AWS_LAMBDA_FUNCTION_NAME",
	"LDDC_WEB_MODE",
}

// IsWebEnvironment reports whether the process runs on a hosting platform.
// environ replaces the process environment when non-nil.
func IsWebEnvironment(environ map[string]string) bool {
	return isWebEnvironment(getenvFunc(environ))
}

func isWebEnvironment(getenv func(string) string) bool {
	for _, name := range hostingIndicators {
		if getenv(name) != "" {
			return true
		}
	}
	return false
}

func getenvFunc(environ map[string]string) func(string) string {
	if environ == nil {
		return os.Getenv
	}
	return func(name string) string {
		return environ[name]
	}
}

// ApplyHostingPreset forces the settings a hosted deployment needs: no
// update checks, CORS on, caching on. It runs once after construction and
// writes through Set, so the values are persisted. It returns false when
// no hosting platform is detected.
func ApplyHostingPreset(s *Store, environ map[string]string) bool {
	if !IsWebEnvironment(environ) {
		return false
	}

	preset := []struct {
		key   string
		value Value
	}{
		{KeyAutoCheckUpdate, Bool(false)},
		{KeyEnableCORS, Bool(true)},
		{KeyCacheEnabled, Bool(true)},
	}
	for _, p := range preset {
		if err := s.Set(p.key, p.value); err != nil {
			logging.Warn("Cannot apply hosting preset",
				zap.String("key", p.key),
				zap.Error(err),
			)
		}
	}

	logging.Info("Applied hosting preset", zap.String("path", s.Path()))
	return true
}

package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every override variable name.
const EnvPrefix = "LDDC_"

// envOverrides holds the raw override variables. Values are parsed by
// hand afterwards so an invalid number only drops that one override.
type envOverrides struct {
	LogLevel       string `env:"LOG_LEVEL"`
	DefaultSources string `env:"DEFAULT_SOURCES"`
	APITimeout     string `env:"API_TIMEOUT"`
	CacheEnabled   string `env:"CACHE_ENABLED"`
	CacheTTL       string `env:"CACHE_TTL"`
	RateLimit      string `env:"RATE_LIMIT"`
	DebugMode      string `env:"DEBUG_MODE"`
}

var dotenvLoaded sync.Once

// LoadOverrides reads the LDDC_* override variables and converts them to
// values for their keys. environ replaces the process environment when
// non-nil; otherwise an optional .env file in the working directory is
// loaded first (existing variables win).
//
// Variables that are unset or empty are skipped. Invalid numbers are
// reported in the returned error slice and otherwise ignored.
func LoadOverrides(environ map[string]string) (map[string]Value, []error) {
	if environ == nil {
		dotenvLoaded.Do(func() {
			// The .env file is optional
			_ = godotenv.Load()
		})
	}

	var raw envOverrides
	if err := env.ParseWithOptions(&raw, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		// Only string fields, so this means the environment itself is unusable
		return map[string]Value{}, []error{&StoreError{Kind: ErrKindEnvironmentValueInvalid, Err: err}}
	}

	overrides := make(map[string]Value)
	var errs []error

	setString := func(key, value string) {
		if value != "" {
			overrides[key] = String(value)
		}
	}
	setList := func(key, value string) {
		if value != "" {
			overrides[key] = StringList(splitList(value))
		}
	}
	setBool := func(key, value string) {
		if value != "" {
			overrides[key] = Bool(parseEnvBool(value))
		}
	}
	setInt := func(key, variable, value string) {
		if value == "" {
			return
		}
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			errs = append(errs, &StoreError{
				Kind: ErrKindEnvironmentValueInvalid,
				Key:  EnvPrefix + variable,
				Err:  fmt.Errorf("%q is not an integer", value),
			})
			return
		}
		overrides[key] = Int(n)
	}

	setString(KeyLogLevel, raw.LogLevel)
	setList(KeyMultiSearchSources, raw.DefaultSources)
	setInt(KeyAPITimeout, "API_TIMEOUT", raw.APITimeout)
	setBool(KeyCacheEnabled, raw.CacheEnabled)
	setInt(KeyCacheTTL, "CACHE_TTL", raw.CacheTTL)
	setInt(KeyRateLimitPerMinute, "RATE_LIMIT", raw.RateLimit)
	setBool(KeyDebugMode, raw.DebugMode)

	return overrides, errs
}

// parseEnvBool accepts "true", "1" and "yes" in any case; everything else is false.
func parseEnvBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

package config

// WebAPIConfig is the subset of settings a serving layer needs.
type WebAPIConfig struct {
	Timeout        int      `json:"timeout" yaml:"timeout"`
	CacheEnabled   bool     `json:"cache_enabled" yaml:"cache_enabled"`
	CacheTTL       int      `json:"cache_ttl" yaml:"cache_ttl"`
	RateLimit      int      `json:"rate_limit" yaml:"rate_limit"`
	EnableCORS     bool     `json:"enable_cors" yaml:"enable_cors"`
	Debug          bool     `json:"debug" yaml:"debug"`
	DefaultSources []string `json:"default_sources" yaml:"default_sources"`
}

// WebAPIConfig projects the serving settings from one consistent snapshot.
// A key that was deleted or holds an unexpected shape reads as its default.
func (s *Store) WebAPIConfig() WebAPIConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	return WebAPIConfig{
		Timeout:        int(valueOrDefault[Int](s, KeyAPITimeout)),
		CacheEnabled:   bool(valueOrDefault[Bool](s, KeyCacheEnabled)),
		CacheTTL:       int(valueOrDefault[Int](s, KeyCacheTTL)),
		RateLimit:      int(valueOrDefault[Int](s, KeyRateLimitPerMinute)),
		EnableCORS:     bool(valueOrDefault[Bool](s, KeyEnableCORS)),
		Debug:          bool(valueOrDefault[Bool](s, KeyDebugMode)),
		DefaultSources: []string(clone(valueOrDefault[StringList](s, KeyMultiSearchSources)).(StringList)),
	}
}

// valueOrDefault must be called with s.mu held.
func valueOrDefault[T Value](s *Store, key string) T {
	if v, ok := s.values[key].(T); ok {
		return v
	}
	def, _ := s.baseline.Default(key)
	v, _ := def.(T)
	return v
}

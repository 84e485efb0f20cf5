package config

import "slices"

// Setting keys with behaviour attached to them.
const (
	KeyLyricsFileNameFmt     = "lyrics_file_name_fmt"
	KeyDefaultSavePath       = "default_save_path"
	KeyMultiSearchSources    = "multi_search_sources"
	KeyLangsOrder            = "langs_order"
	KeySkipInstLyrics        = "skip_inst_lyrics"
	KeyAutoSelect            = "auto_select"
	KeyAddEndTimestampLine   = "add_end_timestamp_line"
	KeyLrcMsDigitCount       = "lrc_ms_digit_count"
	KeyLastRefLineTimeSty    = "last_ref_line_time_sty"
	KeyLrcTagInfoSrc         = "lrc_tag_info_src"
	KeyTranslateSource       = "translate_source"
	KeyTranslateTargetLang   = "translate_target_lang"
	KeyOpenAIBaseURL         = "openai_base_url"
	KeyOpenAIAPIKey          = "openai_api_key"
	KeyOpenAIModel           = "openai_model"
	KeyLanguage              = "language"
	KeyLogLevel              = "log_level"
	KeyAutoCheckUpdate       = "auto_check_update"
	KeyAPITimeout            = "api_timeout"
	KeyCacheEnabled          = "cache_enabled"
	KeyCacheTTL              = "cache_ttl"
	KeyRateLimitPerMinute    = "rate_limit_per_minute"
	KeyEnableCORS            = "enable_cors"
	KeyDebugMode             = "debug_mode"
	KeyDesktopPlayedColors   = "desktop_lyrics_played_colors"
	KeyDesktopUnplayedColors = "desktop_lyrics_unplayed_colors"
	KeyDesktopDefaultLangs   = "desktop_lyrics_default_langs"
	KeyDesktopLangsOrder     = "desktop_lyrics_langs_order"
	KeyDesktopSources        = "desktop_lyrics_sources"
	KeyDesktopFontFamily     = "desktop_lyrics_font_family"
	KeyDesktopRefreshRate    = "desktop_lyrics_refresh_rate"
	KeyDesktopRect           = "desktop_lyrics_rect"
	KeyDesktopFontSize       = "desktop_lyrics_font_size"
	KeyID3Version            = "ID3_version"
	KeyColorScheme           = "color_scheme"
)

// Setting is one schema entry.
type Setting struct {
	Key     string
	Default Value
}

// Schema is the immutable set of known keys with their defaults.
type Schema struct {
	keys     []string
	defaults map[string]Value
}

func newSchema(settings []Setting) *Schema {
	s := &Schema{
		keys:     make([]string, 0, len(settings)),
		defaults: make(map[string]Value, len(settings)),
	}
	for _, st := range settings {
		if _, dup := s.defaults[st.Key]; !dup {
			s.keys = append(s.keys, st.Key)
		}
		s.defaults[st.Key] = st.Default
	}
	return s
}

// DefaultSchema returns the built-in schema. lyricsDir becomes the default
// save location for downloaded lyrics.
func DefaultSchema(lyricsDir string) *Schema {
	return newSchema([]Setting{
		{KeyLyricsFileNameFmt, String("%<artist> - %<title> (%<id>)")},
		{KeyDefaultSavePath, String(lyricsDir)},

		{KeyMultiSearchSources, StringList{"QM", "KG", "NE"}},
		{KeyLangsOrder, StringList{"roma", "orig", "ts"}},
		{KeySkipInstLyrics, Bool(true)},
		{KeyAutoSelect, Bool(true)},
		{KeyAddEndTimestampLine, Bool(false)},
		{KeyLrcMsDigitCount, Int(3)},
		// 0: same as the current line's start, 1: close to the next line's start
		{KeyLastRefLineTimeSty, Int(0)},
		// 0: from the lyrics source, 1: from the song file
		{KeyLrcTagInfoSrc, Int(0)},

		{KeyTranslateSource, String("BING")},
		{KeyTranslateTargetLang, String("SIMPLIFIED_CHINESE")},
		{KeyOpenAIBaseURL, String("")},
		{KeyOpenAIAPIKey, String("")},
		{KeyOpenAIModel, String("")},

		{KeyLanguage, String("auto")},
		{KeyLogLevel, String("INFO")},
		{KeyAutoCheckUpdate, Bool(false)},

		{KeyAPITimeout, Int(30)},
		{KeyCacheEnabled, Bool(true)},
		{KeyCacheTTL, Int(3600)},
		{KeyRateLimitPerMinute, Int(60)},
		{KeyEnableCORS, Bool(true)},
		{KeyDebugMode, Bool(false)},

		{KeyDesktopPlayedColors, ColorList{{0, 255, 255}, {0, 128, 255}}},
		{KeyDesktopUnplayedColors, ColorList{{255, 0, 0}, {255, 128, 128}}},
		{KeyDesktopDefaultLangs, StringList{"orig", "ts"}},
		{KeyDesktopLangsOrder, StringList{"roma", "orig", "ts"}},
		{KeyDesktopSources, StringList{"QM", "KG", "NE"}},
		{KeyDesktopFontFamily, String("")},
		{KeyDesktopRefreshRate, Int(-1)},
		{KeyDesktopRect, Rect{}},
		{KeyDesktopFontSize, Float(30.0)},

		// Kept for compatibility with desktop configuration files
		{KeyID3Version, String("v2.3")},
		{KeyColorScheme, String("auto")},
	})
}

// Keys returns the schema keys in declaration order.
func (s *Schema) Keys() []string {
	return slices.Clone(s.keys)
}

// Has reports whether key is declared.
func (s *Schema) Has(key string) bool {
	_, ok := s.defaults[key]
	return ok
}

// Default returns a copy of the default for key.
func (s *Schema) Default(key string) (Value, bool) {
	v, ok := s.defaults[key]
	if !ok {
		return nil, false
	}
	return clone(v), true
}

// KindOf returns the declared kind of key.
func (s *Schema) KindOf(key string) (Kind, bool) {
	v, ok := s.defaults[key]
	if !ok {
		return 0, false
	}
	return v.Kind(), true
}

// Len returns the number of declared keys.
func (s *Schema) Len() int {
	return len(s.keys)
}

// withOverrides returns a new schema whose defaults are replaced by
// overrides. Overrides for unknown keys or of the wrong kind are dropped.
func (s *Schema) withOverrides(overrides map[string]Value) *Schema {
	settings := make([]Setting, 0, len(s.keys))
	for _, key := range s.keys {
		def := s.defaults[key]
		if ov, ok := overrides[key]; ok && ov != nil && ov.Kind() == def.Kind() {
			def = ov
		}
		settings = append(settings, Setting{Key: key, Default: clone(def)})
	}
	return newSchema(settings)
}

// Package config provides the persistent configuration store for LDDC.
//
// The store holds one typed value per key. The set of keys and the shape
// of each value come from a fixed schema (see DefaultSchema); values are
// closed variants of Value (Bool, Int, Float, String, StringList,
// ColorList, Rect).
//
// # Layering
//
// A store is built from three layers, later ones winning:
//
//  1. schema defaults
//  2. LDDC_* environment overrides, applied to the defaults themselves
//  3. the persisted file, merged by Reconcile
//
// Reconcile tolerates files written by other versions: a JSON list is
// accepted for tuple-shaped values, ints and floats convert into each
// other, values of any other wrong shape are dropped, and unknown keys
// are carried along.
//
// # Configuration File Location
//
// The file is config.json (or config.yaml when a .yaml path is given):
//   - $LDDC_CONFIG_DIR when set
//   - $TMPDIR/LDDC/config on hosting platforms (Vercel, AWS Lambda, LDDC_WEB_MODE)
//   - Linux: $XDG_CONFIG_HOME/lddc or $HOME/.config/lddc
//   - macOS: $HOME/.config/lddc
//   - Windows: %LOCALAPPDATA%\lddc
//
// # Usage Example
//
//	store := config.New()
//	store.Subscribe(config.GroupLyrics, func(key string, v config.Value) error {
//	    return converter.Reload()
//	})
//
//	if err := store.Set(config.KeyLangsOrder, config.StringList{"orig", "ts"}); err != nil {
//	    return err
//	}
//	timeout, _ := store.GetInt(config.KeyAPITimeout)
//
// # Thread Safety
//
// One mutex serializes every access to the map. Set holds it while the
// file is written and releases it before subscribers run, so subscribers
// may read the store. Writes to the file are atomic (temporary file plus
// rename) and guarded by a lock file.
//
// # Failures
//
// Nothing in this package aborts the process. An unreadable file is
// replaced by the defaults; a failed write leaves the store working in
// memory and is reported through PersistErr and the log.
package config

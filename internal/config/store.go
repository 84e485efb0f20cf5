package config

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/lddc/internal/logging"
	"github.com/muurk/lddc/internal/notify"
)

// Recorder receives store activity for metrics. All methods must be safe
// for concurrent use.
type Recorder interface {
	RecordWrite(op string)
	RecordPersistFailure()
	RecordLoad(result string)
	RecordReconcileDiscard(key string)
	RecordNotifyFailure(group string)
}

// Load results passed to Recorder.RecordLoad.
const (
	LoadResultOK      = "ok"
	LoadResultMissing = "missing"
	LoadResultFailed  = "failed"
)

type nopRecorder struct{}

func (nopRecorder) RecordWrite(string)            {}
func (nopRecorder) RecordPersistFailure()         {}
func (nopRecorder) RecordLoad(string)             {}
func (nopRecorder) RecordReconcileDiscard(string) {}
func (nopRecorder) RecordNotifyFailure(string)    {}

// Store is the process-wide configuration. Every read and write of the
// map is serialized by one mutex.
type Store struct {
	mu         sync.Mutex
	values     map[string]Value
	baseline   *Schema
	storage    Storage
	notifier   *notify.Notifier[Value]
	recorder   Recorder
	persistErr error
}

type options struct {
	path      string
	storage   Storage
	environ   map[string]string
	lyricsDir string
	notifier  *notify.Notifier[Value]
	recorder  Recorder
}

// Option configures a Store.
type Option func(*options)

// WithPath stores the configuration in the file at path.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithStorage replaces the file storage entirely.
func WithStorage(storage Storage) Option {
	return func(o *options) {
		o.storage = storage
	}
}

// WithEnvironment reads overrides from environ instead of the process environment.
func WithEnvironment(environ map[string]string) Option {
	return func(o *options) {
		o.environ = environ
	}
}

// WithLyricsDir sets the default save path for lyrics.
func WithLyricsDir(dir string) Option {
	return func(o *options) {
		o.lyricsDir = dir
	}
}

// WithNotifier shares an existing notifier with the store.
func WithNotifier(n *notify.Notifier[Value]) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithRecorder reports store activity to r.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// New builds the store: schema defaults, then environment overrides on the
// defaults, then whatever the storage holds. It never fails; unreadable
// storage leaves the defaults in place and rewrites the file from them.
func New(opts ...Option) *Store {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.path == "" {
		o.path = DefaultPath()
	}
	if o.storage == nil {
		o.storage = NewFileStorage(o.path)
	}
	if o.lyricsDir == "" {
		o.lyricsDir = LyricsDir(o.path)
	}
	if o.recorder == nil {
		o.recorder = nopRecorder{}
	}

	s := &Store{
		values:   make(map[string]Value),
		storage:  o.storage,
		recorder: o.recorder,
	}
	s.notifier = o.notifier
	if s.notifier == nil {
		s.notifier = notify.New[Value](notify.WithFailureHook(func(group, _ string, _ error) {
			s.recorder.RecordNotifyFailure(group)
		}))
	}

	overrides, errs := LoadOverrides(o.environ)
	for _, err := range errs {
		logging.Debug("Ignoring environment override", zap.Error(err))
	}
	s.baseline = DefaultSchema(o.lyricsDir).withOverrides(overrides)

	s.Reset()
	s.load()
	return s
}

func (s *Store) load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.storage.Load()
	switch {
	case err == nil:
		s.reconcileLocked(doc)
		s.recorder.RecordLoad(LoadResultOK)
		logging.Info("Config store loaded",
			zap.String("path", s.storage.Location()),
			zap.Int("keys", len(s.values)),
		)
	case errors.Is(err, ErrNoPersistedState):
		s.recorder.RecordLoad(LoadResultMissing)
		logging.Debug("No config file yet, using defaults", zap.String("path", s.storage.Location()))
	default:
		s.recorder.RecordLoad(LoadResultFailed)
		logging.LogLoadFailure(s.storage.Location(), err)
		// Replace the unusable file with the current baseline
		_ = s.persistLocked()
	}
}

// Get returns the value stored for key.
func (s *Store) Get(key string) (Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return clone(v), nil
}

// Lookup returns the value for key and whether it exists.
func (s *Store) Lookup(key string) (Value, bool) {
	v, err := s.Get(key)
	return v, err == nil
}

// GetOr returns the value for key, or fallback when the key is absent.
func (s *Store) GetOr(key string, fallback Value) Value {
	if v, ok := s.Lookup(key); ok {
		return v
	}
	return fallback
}

// GetBool returns a boolean setting.
func (s *Store) GetBool(key string) (bool, error) {
	v, err := s.Get(key)
	if err != nil {
		return false, err
	}
	b, ok := v.(Bool)
	if !ok {
		return false, shapeError(key, KindBool, v)
	}
	return bool(b), nil
}

// GetInt returns an integer setting.
func (s *Store) GetInt(key string) (int, error) {
	v, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	n, ok := v.(Int)
	if !ok {
		return 0, shapeError(key, KindInt, v)
	}
	return int(n), nil
}

// GetFloat returns a floating-point setting.
func (s *Store) GetFloat(key string) (float64, error) {
	v, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	f, ok := v.(Float)
	if !ok {
		return 0, shapeError(key, KindFloat, v)
	}
	return float64(f), nil
}

// GetString returns a text setting.
func (s *Store) GetString(key string) (string, error) {
	v, err := s.Get(key)
	if err != nil {
		return "", err
	}
	str, ok := v.(String)
	if !ok {
		return "", shapeError(key, KindString, v)
	}
	return string(str), nil
}

// GetStrings returns a string-list setting.
func (s *Store) GetStrings(key string) ([]string, error) {
	v, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	list, ok := v.(StringList)
	if !ok {
		return nil, shapeError(key, KindStringList, v)
	}
	return []string(list), nil
}

func shapeError(key string, want Kind, got Value) error {
	return fmt.Errorf("%w: %s is %s, not %s", ErrShapeMismatch, key, got.Kind(), want)
}

// Set replaces the value for key, persists the whole map and then notifies
// the change groups containing key.
//
// The value must have the kind the schema declares for key; nothing is
// coerced. A failed write is logged and remembered (see PersistErr) but
// does not fail Set: the new value stays in memory and subscribers are
// still notified.
func (s *Store) Set(key string, value Value) error {
	if value == nil {
		return fmt.Errorf("%w: nil value for %s", ErrShapeMismatch, key)
	}

	s.mu.Lock()
	if kind, declared := s.baseline.KindOf(key); declared {
		if value.Kind() != kind {
			s.mu.Unlock()
			return shapeError(key, kind, value)
		}
	} else if _, stored := s.values[key]; !stored {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}

	s.values[key] = clone(value)
	_ = s.persistLocked()
	s.mu.Unlock()

	s.recorder.RecordWrite("set")
	logging.LogStoreEvent("set", key, s.storage.Location())

	for _, g := range GroupsFor(key) {
		s.notifier.Notify(string(g), key, clone(value))
	}
	return nil
}

// Delete removes key and persists. Deleting an absent key does nothing
// and reports false. Deletions are not announced to change groups.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	if _, ok := s.values[key]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.values, key)
	_ = s.persistLocked()
	s.mu.Unlock()

	s.recorder.RecordWrite("delete")
	logging.LogStoreEvent("delete", key, s.storage.Location())
	return true
}

// Reset puts every schema key back to its default, including environment
// overrides. Nothing is persisted and nobody is notified.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range s.baseline.Keys() {
		def, _ := s.baseline.Default(key)
		s.values[key] = def
	}
}

// Reconcile merges a persisted document into the live map.
//
// A persisted value replaces the live one when its shape matches, when a
// list can stand in for a tuple-shaped value, or when an int can stand in
// for a float (and the reverse, truncating). Anything else is discarded.
// Keys the live map does not hold are adopted as they are.
func (s *Store) Reconcile(doc map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconcileLocked(doc)
}

func (s *Store) reconcileLocked(doc map[string]any) {
	for key, raw := range doc {
		cur, ok := s.values[key]
		if !ok {
			if kind, declared := s.baseline.KindOf(key); declared {
				// Deleted schema key: keep the declared shape
				if v, ok := coerce(kind, raw); ok {
					s.values[key] = v
				}
				continue
			}
			s.values[key] = Infer(raw)
			continue
		}

		v, ok := coerce(cur.Kind(), raw)
		if !ok {
			s.recorder.RecordReconcileDiscard(key)
			logging.Debug("Discarding persisted value with wrong shape",
				zap.String("key", key),
				zap.String("want", cur.Kind().String()),
				zap.Any("got", raw),
			)
			continue
		}
		s.values[key] = v
	}
}

// coerce converts a persisted value to kind, allowing int/float conversion.
func coerce(kind Kind, raw any) (Value, bool) {
	if v, err := Decode(kind, raw); err == nil {
		return v, true
	}

	n, isNum := asNumber(raw)
	if !isNum {
		return nil, false
	}
	switch kind {
	case KindInt:
		if math.IsNaN(n.f) || math.IsInf(n.f, 0) || n.f > math.MaxInt64 || n.f < math.MinInt64 {
			return nil, false
		}
		return Int(int64(n.f)), true
	case KindFloat:
		return Float(n.f), true
	}
	return nil, false
}

// Save writes the whole map to storage.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	doc := make(map[string]any, len(s.values))
	for key, v := range s.values {
		doc[key] = Plain(v)
	}

	err := s.storage.Save(doc)
	if err != nil {
		s.recorder.RecordPersistFailure()
		logging.LogPersistFailure(s.storage.Location(), err)
	}
	s.persistErr = err
	return err
}

// PersistErr returns the error of the most recent write, or nil if it succeeded.
func (s *Store) PersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// Snapshot returns a copy of the whole map.
func (s *Store) Snapshot() map[string]Value {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Value, len(s.values))
	for key, v := range s.values {
		out[key] = clone(v)
	}
	return out
}

// Keys returns the live keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.values))
}

// Schema returns the defaults in effect, environment overrides included.
func (s *Store) Schema() *Schema {
	return s.baseline
}

// Path returns where the configuration is persisted.
func (s *Store) Path() string {
	return s.storage.Location()
}

// Notifier returns the notifier used for change groups.
func (s *Store) Notifier() *notify.Notifier[Value] {
	return s.notifier
}

// Subscribe registers cb for changes to any key in group.
func (s *Store) Subscribe(group Group, cb notify.Callback[Value]) *notify.Subscription {
	return s.notifier.Subscribe(string(group), cb)
}

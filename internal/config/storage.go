package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// lockTimeout is the maximum time to wait for the configuration lock file
const lockTimeout = 1 * time.Second

// Storage persists the whole configuration map.
type Storage interface {
	// Load returns the persisted document. It returns ErrNoPersistedState
	// when nothing was saved yet.
	Load() (map[string]any, error)
	// Save replaces the persisted document.
	Save(doc map[string]any) error
	// Location describes where the data lives, for logging.
	Location() string
}

// FileFormat selects the file encoding.
type FileFormat int

const (
	FormatJSON FileFormat = iota
	FormatYAML
)

// FormatForPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatForPath(path string) FileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FileStorage keeps the configuration in a single file. Writes go to a
// temporary file that is renamed into place, under a lock file.
type FileStorage struct {
	path   string
	format FileFormat
	mu     sync.Mutex
}

// NewFileStorage creates a file-backed storage. The format follows the extension.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{
		path:   filepath.Clean(path),
		format: FormatForPath(path),
	}
}

// Location returns the file path.
func (s *FileStorage) Location() string {
	return s.path
}

// Load reads and decodes the file. The top level must be an object.
func (s *FileStorage) Load() (map[string]any, error) {
	// #nosec G304: path is chosen by the process owner
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoPersistedState
		}
		return nil, &StoreError{Kind: ErrKindPersistenceReadFailed, Path: s.path, Err: err}
	}

	var doc map[string]any
	switch s.format {
	case FormatYAML:
		doc, err = decodeYAML(data)
	default:
		doc, err = decodeJSON(data)
	}
	if err != nil {
		return nil, &StoreError{Kind: ErrKindMalformedPersistedData, Path: s.path, Err: err}
	}
	return doc, nil
}

// Save encodes doc and atomically replaces the file.
func (s *FileStorage) Save(doc map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		data []byte
		err  error
	)
	switch s.format {
	case FormatYAML:
		data, err = encodeYAML(doc, s.path)
	default:
		data, err = encodeJSON(doc)
	}
	if err != nil {
		return &StoreError{Kind: ErrKindPersistenceWriteFailed, Path: s.path, Err: fmt.Errorf("failed to encode config: %w", err)}
	}

	if err := s.write(data); err != nil {
		return &StoreError{Kind: ErrKindPersistenceWriteFailed, Path: s.path, Err: err}
	}
	return nil
}

func (s *FileStorage) write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// A separate lock file works the same way on every platform
	fileLock := flock.New(s.path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock: timeout after %v", lockTimeout)
	}
	defer func() { _ = fileLock.Unlock() }()

	// Write to temporary file first (atomic write)
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// decodeJSON accepts hand-edited files with comments and trailing commas.
// Numbers stay json.Number so 3 and 3.0 remain distinguishable.
func decodeJSON(data []byte) (map[string]any, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(std))
	dec.UseNumber()
	var top any
	if err := dec.Decode(&top); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	doc, ok := top.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top level is %T, not an object", top)
	}
	return doc, nil
}

func decodeYAML(data []byte) (map[string]any, error) {
	var top any
	if err := yaml.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	doc, ok := top.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top level is %T, not a mapping", top)
	}
	return doc, nil
}

// encodeJSON writes UTF-8 without HTML escaping, indented by four spaces.
func encodeJSON(doc map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(jsonReady(doc)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeYAML(doc map[string]any, path string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# LDDC configuration file\n# Location: " + path + "\n\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(4)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// jsonReady rewrites whole floats as "30.0" so they read back as floats.
func jsonReady(v any) any {
	switch tv := v.(type) {
	case float64:
		if math.IsInf(tv, 0) || math.IsNaN(tv) {
			return tv
		}
		s := strconv.FormatFloat(tv, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return json.Number(s)
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, item := range tv {
			out[k] = jsonReady(item)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = jsonReady(item)
		}
		return out
	default:
		return v
	}
}

// MemoryStorage keeps the document in memory. It is used in tests and
// when no file location is available.
type MemoryStorage struct {
	mu  sync.Mutex
	doc map[string]any
	// FailSave, when set, is returned by every Save.
	FailSave error
}

// NewMemoryStorage creates a storage preloaded with doc (nil = nothing saved).
func NewMemoryStorage(doc map[string]any) *MemoryStorage {
	return &MemoryStorage{doc: doc}
}

// Load returns a copy of the saved document.
func (m *MemoryStorage) Load() (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, ErrNoPersistedState
	}
	return maps.Clone(m.doc), nil
}

// Save stores a copy of doc.
func (m *MemoryStorage) Save(doc map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return &StoreError{Kind: ErrKindPersistenceWriteFailed, Path: m.Location(), Err: m.FailSave}
	}
	m.doc = maps.Clone(doc)
	return nil
}

// Location returns a fixed marker.
func (m *MemoryStorage) Location() string {
	return "memory"
}

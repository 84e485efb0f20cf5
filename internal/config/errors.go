package config

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned for keys that are neither declared nor stored.
	ErrKeyNotFound = errors.New("config key not found")

	// ErrShapeMismatch is returned when a value's kind differs from the kind
	// declared for its key.
	ErrShapeMismatch = errors.New("config value has wrong shape")

	// ErrNoPersistedState is returned by Storage.Load when nothing has been saved yet.
	ErrNoPersistedState = errors.New("no persisted configuration")
)

// ErrorKind represents the category of a store failure.
type ErrorKind int

const (
	// ErrKindPersistenceWriteFailed indicates the configuration file could not be written
	ErrKindPersistenceWriteFailed ErrorKind = iota
	// ErrKindPersistenceReadFailed indicates the configuration file could not be read
	ErrKindPersistenceReadFailed
	// ErrKindMalformedPersistedData indicates the file was read but is not a valid document
	ErrKindMalformedPersistedData
	// ErrKindEnvironmentValueInvalid indicates an override variable could not be parsed
	ErrKindEnvironmentValueInvalid
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrKindPersistenceWriteFailed:
		return "Persistence Write Failed"
	case ErrKindPersistenceReadFailed:
		return "Persistence Read Failed"
	case ErrKindMalformedPersistedData:
		return "Malformed Persisted Data"
	case ErrKindEnvironmentValueInvalid:
		return "Environment Value Invalid"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// StoreError describes a recoverable failure inside the store. None of
// these abort the process; they are logged and the store carries on.
type StoreError struct {
	Kind ErrorKind // Category of failure
	Path string    // Configuration file involved (if any)
	Key  string    // Key or environment variable involved (if any)
	Err  error     // Underlying error (if any)
}

// Error implements the error interface
func (e *StoreError) Error() string {
	var subject string
	switch {
	case e.Key != "":
		subject = e.Key
	case e.Path != "":
		subject = e.Path
	}

	msg := e.Kind.String()
	if subject != "" {
		msg += " (" + subject + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is matches another *StoreError of the same kind, so callers can write
// errors.Is(err, &StoreError{Kind: ErrKindPersistenceWriteFailed}).
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// IsPersistenceError reports whether err is a read, write or parse failure
// of the configuration file.
func IsPersistenceError(err error) bool {
	var se *StoreError
	if !errors.As(err, &se) {
		return false
	}
	return se.Kind != ErrKindEnvironmentValueInvalid
}

package plugin

import (
	"errors"
	"fmt"
)

// Plugin host errors.
var (
	// ErrNilBus is returned when a Host is created without a bus.
	ErrNilBus = errors.New("plugin host requires an event bus")

	// ErrHostClosed is returned when loading a script into a closed host.
	ErrHostClosed = errors.New("plugin host is closed")

	// ErrInvalidPattern is raised to a script that passes a malformed topic pattern.
	ErrInvalidPattern = errors.New("invalid topic pattern")
)

// ScriptError wraps a failure to load or run a script.
type ScriptError struct {
	Script string
	Err    error
}

// Error implements error.
func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s: %v", e.Script, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}

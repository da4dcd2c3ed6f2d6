package entities

import (
	"errors"
	"fmt"
)

// Engine errors surfaced to callers. Configuration and readiness errors are
// actionable: the caller is expected to show them directly to an end user.
var (
	ErrEngineNotConfigured = errors.New("remote engine not configured: add an API credential or switch to the local engine")
	ErrEngineNotReady      = errors.New("local engine not ready: wait for the model to finish loading")
	ErrNoOutput            = errors.New("engine returned no output")

	// ErrMergeRejected is internal and non-fatal: the pipeline logs it and
	// keeps the Pass-1 result.
	ErrMergeRejected = errors.New("merge result rejected by quality guard")
)

// BackendError carries a backend-reported failure. The backend's message is
// usually more specific than anything this layer could add, so it is passed
// through verbatim.
type BackendError struct {
	Engine  EngineCapability
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s engine error: %s", e.Engine, e.Message)
}

// NewBackendError wraps a backend failure message for the given engine.
func NewBackendError(engine EngineCapability, message string) *BackendError {
	return &BackendError{Engine: engine, Message: message}
}

// IsBackendError reports whether err is (or wraps) a BackendError.
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

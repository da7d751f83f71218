package qantani

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks. The typed errors below unwrap to them.
var (
	ErrConfiguration = errors.New("qantani: configuration error")
	ErrValidation    = errors.New("qantani: validation error")
	ErrRemote        = errors.New("qantani: remote error")
)

// ConfigurationError reports missing or unusable client configuration.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// ValidationError reports an invalid caller-supplied parameter. It is
// returned before any network I/O happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// RemoteError reports a transport failure, a non-2xx HTTP status, an
// unparseable response body or a failure reported by the provider itself.
// StatusCode is zero when the request never produced an HTTP response.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote: status=%d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote: %s", e.Message)
}

func (e *RemoteError) Unwrap() error { return ErrRemote }

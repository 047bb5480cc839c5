package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for expected failure modes
var (
	// ErrInvalidFPS rejects a non-positive frame rate before any analysis runs.
	ErrInvalidFPS = errors.New("fps must be greater than zero")

	// ErrInvalidMapping rejects a band mapping missing param or frequency bounds.
	ErrInvalidMapping = errors.New("invalid band mapping")

	// ErrNoDecoder means the audio input needs a codec this build does not
	// carry. Operators should convert the file to WAV or install a decoder;
	// this is not an input-data problem.
	ErrNoDecoder = errors.New("no decoder for audio format")

	// ErrCorruptedAudio means the file claimed a supported format but could
	// not be read as one.
	ErrCorruptedAudio = errors.New("audio file corrupted or unreadable")
)

// ConnectionError reports a failed mediator exchange: refused, unreachable,
// or timed out. The client never retries on its own; callers decide.
type ConnectionError struct {
	Endpoint string // host:port of the mediator
	Op       string // "dial", "send", "recv"
	Cause    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mediator %s failed (%s): %v", e.Op, e.Endpoint, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a ConnectionError.
func NewConnectionError(endpoint, op string, cause error) *ConnectionError {
	return &ConnectionError{Endpoint: endpoint, Op: op, Cause: cause}
}

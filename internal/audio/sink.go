package audio

import (
	"errors"
	"time"
)

// Common errors for Sink implementations
var (
	ErrSinkUnavailable   = errors.New("audio sink hardware unavailable")
	ErrSinkConfiguration = errors.New("invalid sink configuration")
	ErrSinkNotConfigured = errors.New("sink has not been configured")
	ErrSinkNotEnabled    = errors.New("sink is not enabled")
	ErrSinkWrite         = errors.New("sink write failed")
	ErrSinkDestroyed     = errors.New("sink has been destroyed")
)

// TimeoutInfinite makes Write block until the sink accepts the whole buffer.
// This is the playback loop's default: backpressure from the hardware paces
// the session.
const TimeoutInfinite time.Duration = -1

// SinkState tracks where a sink is in its lifecycle.
type SinkState int

const (
	SinkUninitialized SinkState = iota
	SinkConfigured
	SinkEnabled
	SinkDisabled
	SinkDestroyed
)

// String returns a readable state name for logging.
func (s SinkState) String() string {
	switch s {
	case SinkUninitialized:
		return "uninitialized"
	case SinkConfigured:
		return "configured"
	case SinkEnabled:
		return "enabled"
	case SinkDisabled:
		return "disabled"
	case SinkDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Sink is the hardware-facing output channel. Lifecycle:
//
//	Configure -> Enable -> Write* -> Disable -> Destroy
//
// Configure allocates the underlying channel for a sample rate and a mono or
// stereo layout; calling it while a previous channel is live forces that
// channel down first, since the hardware cannot be re-parameterized in place.
// Destroy releases the channel and is idempotent: destroying a sink that was
// never configured, or destroying twice, is a no-op. Every playback session
// must reach Destroy on every exit path.
type Sink interface {
	Configure(sampleRate uint32, channels uint16) error
	Enable() error
	// Write blocks until the sink accepts the samples or the timeout expires.
	// TimeoutInfinite waits without bound. Returns the number of samples
	// accepted.
	Write(samples []int16, timeout time.Duration) (int, error)
	Disable() error
	Destroy() error
	State() SinkState
}

// validateSinkParams applies the checks every backend shares.
func validateSinkParams(sampleRate uint32, channels uint16) error {
	if sampleRate == 0 {
		return ErrSinkConfiguration
	}
	if channels != 1 && channels != 2 {
		return ErrSinkConfiguration
	}
	return nil
}

package audio

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrInvalidBackendType is returned for backend names the factory does not know.
var ErrInvalidBackendType = errors.New("invalid sink backend type")

// SupportedBackends lists the sink backends NewSink accepts.
func SupportedBackends() []string {
	return []string{"auto", "malgo", "oto", "memory"}
}

// IsValidBackendType checks a backend name. Empty defaults to "auto".
func IsValidBackendType(backendType string) bool {
	if backendType == "" {
		return true
	}
	for _, b := range SupportedBackends() {
		if backendType == b {
			return true
		}
	}
	return false
}

// NewSink creates a sink for the named backend. "auto" selects malgo, the
// backend that supports per-session sample rates; "oto" is the fixed-rate
// alternative and "memory" captures output without hardware.
func NewSink(backendType string) (Sink, error) {
	if backendType == "" {
		backendType = "auto"
	}

	slog.Debug("creating sink backend", "type", backendType)

	switch backendType {
	case "auto", "malgo":
		return NewMalgoSink(), nil
	case "oto":
		return NewOtoSink(), nil
	case "memory":
		return NewMemorySink(), nil
	default:
		slog.Error("invalid sink backend requested", "type", backendType)
		return nil, fmt.Errorf("%w: %s", ErrInvalidBackendType, backendType)
	}
}

package audio

import (
	"fmt"
	"log/slog"
	"time"
)

// MemorySink captures written samples instead of reaching hardware. It backs
// silent mode and lets the playback loop be exercised without a device, the
// same way the filesystem layer ships a memory-backed variant.
type MemorySink struct {
	state      SinkState
	rate       uint32
	channels   uint16
	written    []int16
	writeCalls int

	// FailAfterWrites, when >= 0, makes the write with that index fail.
	FailAfterWrites int
}

// NewMemorySink creates an in-memory sink that never fails writes.
func NewMemorySink() *MemorySink {
	return &MemorySink{state: SinkUninitialized, FailAfterWrites: -1}
}

// Configure records the requested format.
func (s *MemorySink) Configure(sampleRate uint32, channels uint16) error {
	if s.state == SinkConfigured || s.state == SinkEnabled || s.state == SinkDisabled {
		if err := s.Destroy(); err != nil {
			return err
		}
	}
	if err := validateSinkParams(sampleRate, channels); err != nil {
		return fmt.Errorf("%w: rate=%d channels=%d", ErrSinkConfiguration, sampleRate, channels)
	}
	s.rate = sampleRate
	s.channels = channels
	s.written = nil
	s.writeCalls = 0
	s.state = SinkConfigured
	slog.Debug("memory sink configured", "sample_rate", sampleRate, "channels", channels)
	return nil
}

// Enable transitions to the enabled state.
func (s *MemorySink) Enable() error {
	if s.state != SinkConfigured {
		return ErrSinkNotConfigured
	}
	s.state = SinkEnabled
	return nil
}

// Write appends samples to the capture buffer, or fails if the injected
// failure point has been reached.
func (s *MemorySink) Write(samples []int16, timeout time.Duration) (int, error) {
	if s.state != SinkEnabled {
		return 0, ErrSinkNotEnabled
	}
	call := s.writeCalls
	s.writeCalls++
	if s.FailAfterWrites >= 0 && call >= s.FailAfterWrites {
		return 0, fmt.Errorf("%w: injected failure on write %d", ErrSinkWrite, call)
	}
	s.written = append(s.written, samples...)
	return len(samples), nil
}

// Disable transitions out of the enabled state; a no-op otherwise.
func (s *MemorySink) Disable() error {
	if s.state != SinkEnabled {
		return nil
	}
	s.state = SinkDisabled
	return nil
}

// Destroy clears the capture buffer reference and marks the sink destroyed.
// Idempotent from any state.
func (s *MemorySink) Destroy() error {
	s.state = SinkDestroyed
	return nil
}

// State returns the current lifecycle state.
func (s *MemorySink) State() SinkState { return s.state }

// Written returns every sample accepted since the last Configure.
func (s *MemorySink) Written() []int16 { return s.written }

// SampleRate returns the configured rate.
func (s *MemorySink) SampleRate() uint32 { return s.rate }

// Channels returns the configured layout.
func (s *MemorySink) Channels() uint16 { return s.channels }

package audio

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"github.com/gen2brain/malgo"
)

// Buffered audio ahead of the device callback, in bytes. Roughly 8K samples.
const malgoBufferBytes = 16384

// MalgoSink drives a hardware playback device through malgo (miniaudio).
// The device callback pulls from an internal buffer; Write blocks while that
// buffer is full, so hardware consumption paces the playback loop.
type MalgoSink struct {
	ctx      *malgo.AllocatedContext
	device   *malgo.Device
	buf      *pcmBuffer
	state    SinkState
	rate     uint32
	channels uint16
	scratch  []byte
}

// NewMalgoSink creates an unconfigured hardware sink.
func NewMalgoSink() *MalgoSink {
	slog.Debug("creating new malgo sink")
	return &MalgoSink{state: SinkUninitialized}
}

// Configure allocates the audio context and a playback device for the given
// rate and layout. A live channel from an earlier configuration is destroyed
// first; the hardware cannot change rate or layout in place.
func (s *MalgoSink) Configure(sampleRate uint32, channels uint16) error {
	if s.state == SinkConfigured || s.state == SinkEnabled || s.state == SinkDisabled {
		slog.Debug("sink already has a live channel, destroying before reconfigure",
			"state", s.state.String())
		if err := s.Destroy(); err != nil {
			return err
		}
	}

	if err := validateSinkParams(sampleRate, channels); err != nil {
		slog.Error("invalid sink parameters", "sample_rate", sampleRate, "channels", channels)
		return fmt.Errorf("%w: rate=%d channels=%d", ErrSinkConfiguration, sampleRate, channels)
	}

	slog.Debug("configuring malgo sink", "sample_rate", sampleRate, "channels", channels)

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		slog.Debug("malgo internal", "message", message)
	})
	if err != nil {
		slog.Error("failed to initialize audio context", "error", err)
		return fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(channels)
	deviceConfig.SampleRate = sampleRate
	deviceConfig.Alsa.NoMMap = 1

	buf := newPCMBuffer(malgoBufferBytes)
	callbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, framecount uint32) {
			buf.consume(pOutputSample)
		},
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, callbacks)
	if err != nil {
		slog.Error("failed to initialize playback device", "error", err)
		ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("%w: %v", ErrSinkConfiguration, err)
	}

	s.ctx = ctx
	s.device = device
	s.buf = buf
	s.rate = sampleRate
	s.channels = channels
	s.state = SinkConfigured

	slog.Info("malgo sink configured", "sample_rate", sampleRate, "channels", channels)
	return nil
}

// Enable starts active output.
func (s *MalgoSink) Enable() error {
	if s.state != SinkConfigured {
		slog.Error("enable called on unconfigured sink", "state", s.state.String())
		return ErrSinkNotConfigured
	}

	if err := s.device.Start(); err != nil {
		slog.Error("failed to start playback device", "error", err)
		return fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}

	s.state = SinkEnabled
	slog.Debug("malgo sink enabled")
	return nil
}

// Write queues samples for the device callback, blocking while the internal
// buffer is full. TimeoutInfinite waits without bound.
func (s *MalgoSink) Write(samples []int16, timeout time.Duration) (int, error) {
	if s.state != SinkEnabled {
		return 0, ErrSinkNotEnabled
	}

	need := len(samples) * 2
	if cap(s.scratch) < need {
		s.scratch = make([]byte, need)
	}
	data := s.scratch[:need]
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(sample))
	}

	n, err := s.buf.write(data, timeout)
	if err != nil {
		slog.Error("sink write failed", "bytes_queued", n, "error", err)
		return n / 2, fmt.Errorf("%w: %v", ErrSinkWrite, err)
	}
	return n / 2, nil
}

// Disable stops output. Safe to call when nothing was ever written, and a
// no-op when the sink is not enabled.
func (s *MalgoSink) Disable() error {
	if s.state != SinkEnabled {
		slog.Debug("disable skipped, sink not enabled", "state", s.state.String())
		return nil
	}

	// Give the callback a moment to drain what the loop already queued.
	deadline := time.Now().Add(500 * time.Millisecond)
	for s.buf.pending() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if err := s.device.Stop(); err != nil {
		slog.Error("failed to stop playback device", "error", err)
		return fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}

	s.state = SinkDisabled
	slog.Debug("malgo sink disabled")
	return nil
}

// Destroy releases the device and context. Idempotent: destroying an
// unconfigured or already-destroyed sink is a no-op.
func (s *MalgoSink) Destroy() error {
	if s.device == nil && s.ctx == nil {
		slog.Debug("destroy on sink with no live channel", "state", s.state.String())
		s.state = SinkDestroyed
		return nil
	}

	slog.Debug("destroying malgo sink", "state", s.state.String())

	if s.buf != nil {
		s.buf.close()
		s.buf = nil
	}
	if s.device != nil {
		s.device.Uninit()
		s.device = nil
	}
	if s.ctx != nil {
		if err := s.ctx.Uninit(); err != nil {
			slog.Error("failed to uninitialize audio context", "error", err)
		}
		s.ctx.Free()
		s.ctx = nil
	}

	s.state = SinkDestroyed
	slog.Info("malgo sink destroyed")
	return nil
}

// State returns the current lifecycle state.
func (s *MalgoSink) State() SinkState {
	return s.state
}

package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// oto allows exactly one context per process, fixed at its first sample rate
// and channel layout. The shared context lives here; OtoSink reuses it across
// sessions and refuses to reconfigure to a different format.
var (
	otoMu       sync.Mutex
	otoShared   *oto.Context
	otoRate     uint32
	otoChannels uint16
)

func sharedOtoContext(sampleRate uint32, channels uint16) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoShared != nil {
		if otoRate != sampleRate || otoChannels != channels {
			return nil, fmt.Errorf("%w: oto context fixed at %d Hz/%d ch, requested %d Hz/%d ch (use the malgo backend for per-session rates)",
				ErrSinkConfiguration, otoRate, otoChannels, sampleRate, channels)
		}
		return otoShared, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   int(sampleRate),
		ChannelCount: int(channels),
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}
	<-ready

	otoShared = ctx
	otoRate = sampleRate
	otoChannels = channels
	slog.Info("oto context created", "sample_rate", sampleRate, "channels", channels)
	return ctx, nil
}

// OtoSink is an alternative output backend built on oto. Unlike MalgoSink it
// cannot change sample rate between sessions; the first configured format is
// locked in for the life of the process.
type OtoSink struct {
	player  *oto.Player
	pr      *io.PipeReader
	pw      *io.PipeWriter
	state   SinkState
	scratch []byte
}

// NewOtoSink creates an unconfigured oto-backed sink.
func NewOtoSink() *OtoSink {
	slog.Debug("creating new oto sink")
	return &OtoSink{state: SinkUninitialized}
}

// Configure attaches a player for the given format to the shared oto context.
func (s *OtoSink) Configure(sampleRate uint32, channels uint16) error {
	if s.state == SinkConfigured || s.state == SinkEnabled || s.state == SinkDisabled {
		slog.Debug("sink already has a live player, destroying before reconfigure",
			"state", s.state.String())
		if err := s.Destroy(); err != nil {
			return err
		}
	}

	if err := validateSinkParams(sampleRate, channels); err != nil {
		return fmt.Errorf("%w: rate=%d channels=%d", ErrSinkConfiguration, sampleRate, channels)
	}

	ctx, err := sharedOtoContext(sampleRate, channels)
	if err != nil {
		slog.Error("failed to obtain oto context", "error", err)
		return err
	}

	pr, pw := io.Pipe()
	s.player = ctx.NewPlayer(pr)
	s.pr = pr
	s.pw = pw
	s.state = SinkConfigured

	slog.Debug("oto sink configured", "sample_rate", sampleRate, "channels", channels)
	return nil
}

// Enable starts the player; it pulls from the pipe as the hardware drains.
func (s *OtoSink) Enable() error {
	if s.state != SinkConfigured {
		return ErrSinkNotConfigured
	}
	s.player.Play()
	s.state = SinkEnabled
	slog.Debug("oto sink enabled")
	return nil
}

// Write pushes samples into the player's pipe. The pipe blocks until the
// player consumes the bytes, which is the backpressure the session relies on.
func (s *OtoSink) Write(samples []int16, timeout time.Duration) (int, error) {
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

	if timeout == TimeoutInfinite {
		n, err := s.pw.Write(data)
		if err != nil {
			return n / 2, fmt.Errorf("%w: %v", ErrSinkWrite, err)
		}
		return n / 2, nil
	}

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := s.pw.Write(data)
		done <- result{n, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return r.n / 2, fmt.Errorf("%w: %v", ErrSinkWrite, r.err)
		}
		return r.n / 2, nil
	case <-time.After(timeout):
		slog.Error("oto sink write timed out", "timeout", timeout)
		return 0, fmt.Errorf("%w: timeout after %v", ErrSinkWrite, timeout)
	}
}

// Disable pauses the player.
func (s *OtoSink) Disable() error {
	if s.state != SinkEnabled {
		slog.Debug("disable skipped, sink not enabled", "state", s.state.String())
		return nil
	}
	s.player.Pause()
	s.state = SinkDisabled
	slog.Debug("oto sink disabled")
	return nil
}

// Destroy closes the player and pipe. The shared oto context stays alive;
// oto has no way to tear it down. Idempotent.
func (s *OtoSink) Destroy() error {
	if s.player == nil {
		s.state = SinkDestroyed
		return nil
	}

	s.pw.Close()
	if err := s.player.Close(); err != nil {
		slog.Error("failed to close oto player", "error", err)
	}
	s.player = nil
	s.pr = nil
	s.pw = nil
	s.state = SinkDestroyed

	slog.Info("oto sink destroyed")
	return nil
}

// State returns the current lifecycle state.
func (s *OtoSink) State() SinkState {
	return s.state
}

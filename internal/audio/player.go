package audio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"varispeed.click/internal/storage"
	"varispeed.click/internal/tracking"
)

// DefaultChunkSize is the number of interleaved samples moved through the
// pipeline per read/decimate/write cycle.
const DefaultChunkSize = 2048

// How often a progress marker is emitted, in chunks.
const progressInterval = 10

// ErrSessionActive is returned when Play is called while another session is
// in flight. Sessions never overlap; callers retry after the current one ends.
var ErrSessionActive = errors.New("a playback session is already active")

// Stats are the aggregate counters of one completed session.
type Stats struct {
	SamplesPlayed  uint64
	SamplesSkipped uint64
}

// SkipPercent returns the share of input samples dropped by decimation.
func (s *Stats) SkipPercent() float64 {
	total := s.SamplesPlayed + s.SamplesSkipped
	if total == 0 {
		return 0
	}
	return float64(s.SamplesSkipped) / float64(total) * 100
}

// Player runs playback sessions: it reads a WAV stream from the store in
// chunks, drops frames according to the speed plan, and pushes the result
// through the sink. One session at a time; the sink channel is torn down on
// every exit path so the next session can configure cleanly.
type Player struct {
	store *storage.Store
	sink  Sink
	speed *SpeedController

	// ChunkSize is the per-cycle sample budget; 0 means DefaultChunkSize.
	ChunkSize int
	// Progress receives a one-byte marker every few chunks when non-nil.
	Progress io.Writer
	// Recorder persists session history when non-nil.
	Recorder *tracking.Recorder
	// Caps describes the sink hardware band; zero value means DefaultSinkCaps.
	Caps SinkCaps

	mu sync.Mutex
}

// NewPlayer creates a player over a media store, a sink and a speed setting.
func NewPlayer(store *storage.Store, sink Sink, speed *SpeedController) *Player {
	slog.Debug("creating new player")
	return &Player{
		store: store,
		sink:  sink,
		speed: speed,
		Caps:  DefaultSinkCaps,
	}
}

// Play streams the file at path through the sink at the current speed
// setting. It returns the session counters on success and an error otherwise.
// Whatever happens, the sink channel is disabled and destroyed and the input
// closed before Play returns.
func (p *Player) Play(path string) (*Stats, error) {
	if !p.mu.TryLock() {
		slog.Error("rejected overlapping playback session", "path", path)
		return nil, ErrSessionActive
	}
	defer p.mu.Unlock()

	speed := p.speed.Speed()
	slog.Info("playback session starting", "path", path, "speed", speed)

	session := tracking.Session{Path: path, Speed: float64(speed)}
	stats, err := p.run(path, speed, &session)

	if err != nil {
		session.Outcome = tracking.OutcomeAborted
		session.Error = err.Error()
	} else {
		session.Outcome = tracking.OutcomeComplete
		session.SamplesPlayed = stats.SamplesPlayed
		session.SamplesSkipped = stats.SamplesSkipped
	}
	p.Recorder.RecordSession(session)

	return stats, err
}

// run executes one session. Split from Play so session recording sees every
// outcome.
func (p *Player) run(path string, speed float32, session *tracking.Session) (*Stats, error) {
	if err := p.store.Ready(); err != nil {
		return nil, err
	}

	f, err := p.store.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, err := ParseHeader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	caps := p.Caps
	if caps.MinRate == 0 && caps.MaxRate == 0 {
		caps = DefaultSinkCaps
	}
	plan := Plan(header.SampleRate, speed, caps)

	session.NominalRate = header.SampleRate
	session.TargetRate = plan.TargetRate
	session.Ratio = float64(plan.Ratio)
	session.Channels = header.Channels

	if err := p.sink.Configure(plan.TargetRate, header.Channels); err != nil {
		return nil, err
	}
	defer func() {
		if err := p.sink.Disable(); err != nil {
			slog.Error("failed to disable sink during teardown", "error", err)
		}
		if err := p.sink.Destroy(); err != nil {
			slog.Error("failed to destroy sink during teardown", "error", err)
		}
	}()

	if err := p.sink.Enable(); err != nil {
		return nil, err
	}

	stats, err := p.stream(f, plan)
	if err != nil {
		return nil, err
	}

	session.SamplesPlayed = stats.SamplesPlayed
	session.SamplesSkipped = stats.SamplesSkipped

	slog.Info("playback session complete",
		"path", path,
		"samples_played", stats.SamplesPlayed,
		"samples_skipped", stats.SamplesSkipped,
		"skip_percent", fmt.Sprintf("%.1f", stats.SkipPercent()))

	return stats, nil
}

// stream is the chunk loop: read, decimate, write, until the input runs dry
// or a write fails.
func (p *Player) stream(f io.Reader, plan PlaybackPlan) (*Stats, error) {
	chunkSize := p.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	byteBuf := make([]byte, chunkSize*2)
	sampleBuf := make([]int16, chunkSize)
	var dec Decimator
	stats := &Stats{}
	chunkCount := 0

	for {
		n, err := io.ReadFull(f, byteBuf)
		if err == io.EOF {
			break
		}
		if err != nil && err != io.ErrUnexpectedEOF {
			slog.Error("failed to read audio chunk", "error", err)
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}

		samples := n / 2
		if samples == 0 {
			break
		}
		for i := 0; i < samples; i++ {
			sampleBuf[i] = int16(byteBuf[i*2]) | int16(byteBuf[i*2+1])<<8
		}

		chunk := sampleBuf[:samples]
		count := dec.Decimate(chunk, plan.Ratio)

		written, werr := p.sink.Write(chunk[:count], TimeoutInfinite)
		stats.SamplesPlayed += uint64(written)
		stats.SamplesSkipped = dec.Dropped()
		if werr != nil {
			slog.Error("sink write failed, aborting session",
				"chunk", chunkCount,
				"samples_written", written,
				"error", werr)
			return nil, werr
		}

		chunkCount++
		if p.Progress != nil && chunkCount%progressInterval == 0 {
			fmt.Fprint(p.Progress, ".")
		}
	}

	if p.Progress != nil && chunkCount > 0 {
		fmt.Fprintln(p.Progress)
	}

	stats.SamplesSkipped = dec.Dropped()
	return stats, nil
}

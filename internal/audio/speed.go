package audio

import (
	"log/slog"
	"math"
	"sync"
)

// Playback speed bounds. Out-of-range requests are clamped, never rejected.
const (
	MinSpeed     float32 = 0.25
	MaxSpeed     float32 = 4.0
	DefaultSpeed float32 = 1.0
)

// SinkCaps describes the sample-rate band a sink's hardware accepts.
type SinkCaps struct {
	MinRate uint32
	MaxRate uint32
}

// DefaultSinkCaps matches the PDM output band of the reference hardware.
var DefaultSinkCaps = SinkCaps{MinRate: 8000, MaxRate: 48000}

// PlaybackPlan is the per-session result of mapping a speed request onto the
// sink's rate band. Immutable once computed. Ratio is 1.0 exactly when no
// frames need to be dropped.
type PlaybackPlan struct {
	TargetRate uint32
	Ratio      float32
}

// SpeedController holds the playback-speed multiplier. Reads and writes are
// guarded so a UI or config reload can adjust it between sessions; the active
// session reads it once at planning time and never again.
type SpeedController struct {
	mu    sync.RWMutex
	speed float32
}

// NewSpeedController creates a controller at normal speed.
func NewSpeedController() *SpeedController {
	return &SpeedController{speed: DefaultSpeed}
}

// SetSpeed stores a clamped speed multiplier. Values <= 0 reset to 1.0,
// values above 4.0 clamp to 4.0, values below 0.25 clamp to 0.25. Always
// succeeds.
func (c *SpeedController) SetSpeed(v float32) {
	clamped := v
	switch {
	case v <= 0:
		clamped = DefaultSpeed
	case v > MaxSpeed:
		clamped = MaxSpeed
	case v < MinSpeed:
		clamped = MinSpeed
	}

	c.mu.Lock()
	old := c.speed
	c.speed = clamped
	c.mu.Unlock()

	slog.Debug("playback speed changed",
		"requested", v,
		"old_speed", old,
		"new_speed", clamped)
}

// Speed returns the current speed multiplier.
func (c *SpeedController) Speed() float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.speed
}

// Plan maps a nominal sample rate and a speed multiplier onto the sink's
// supported band. When the adjusted rate exceeds the ceiling, the excess is
// made up by frame decimation at the returned ratio. When it falls below the
// floor, the rate is pinned to the floor with ratio 1.0: the slow-down intent
// is dropped rather than approximated, which raises the effective pitch.
// Pure function, no failure mode.
func Plan(nominalRate uint32, speed float32, caps SinkCaps) PlaybackPlan {
	adjusted := uint32(math.Round(float64(nominalRate) * float64(speed)))

	var plan PlaybackPlan
	switch {
	case adjusted > caps.MaxRate:
		plan = PlaybackPlan{
			TargetRate: caps.MaxRate,
			Ratio:      float32(float64(adjusted) / float64(caps.MaxRate)),
		}
	case adjusted < caps.MinRate:
		plan = PlaybackPlan{TargetRate: caps.MinRate, Ratio: 1.0}
	default:
		plan = PlaybackPlan{TargetRate: adjusted, Ratio: 1.0}
	}

	slog.Debug("playback plan computed",
		"nominal_rate", nominalRate,
		"speed", speed,
		"adjusted_rate", adjusted,
		"target_rate", plan.TargetRate,
		"decimation_ratio", plan.Ratio)

	return plan
}

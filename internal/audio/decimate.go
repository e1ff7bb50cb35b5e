package audio

import "log/slog"

// Decimator drops samples from interleaved chunks to approximate a playback
// rate the sink cannot reach directly. It is a filter-less approximation:
// samples are selected by a fractional cursor and the rest discarded, with no
// interpolation or anti-aliasing. Counters accumulate across a session so the
// loop can report how much was dropped.
type Decimator struct {
	emitted uint64
	dropped uint64
}

// Decimate compacts buf in place, keeping the sample at floor(pos) for a
// cursor advancing by ratio from 0.0, and returns the new sample count. The
// cursor restarts at 0.0 for every chunk; the fractional remainder is not
// carried across chunk boundaries, so the effective ratio has a small
// discontinuity at each boundary. A ratio <= 1.0 leaves the chunk untouched.
func (d *Decimator) Decimate(buf []int16, ratio float32) int {
	n := len(buf)
	if ratio <= 1.0 {
		d.emitted += uint64(n)
		return n
	}

	step := float64(ratio)
	out := 0
	for pos := 0.0; pos < float64(n); pos += step {
		idx := int(pos)
		if idx < n {
			buf[out] = buf[idx]
			out++
		}
	}

	d.emitted += uint64(out)
	d.dropped += uint64(n - out)

	slog.Debug("chunk decimated",
		"input_samples", n,
		"output_samples", out,
		"ratio", ratio)

	return out
}

// Emitted returns the cumulative number of samples kept.
func (d *Decimator) Emitted() uint64 { return d.emitted }

// Dropped returns the cumulative number of samples discarded.
func (d *Decimator) Dropped() uint64 { return d.dropped }

// Reset clears the session counters.
func (d *Decimator) Reset() {
	d.emitted = 0
	d.dropped = 0
}

package tracking

import (
	"database/sql"
	"log/slog"
	"time"
)

// Session outcome values.
const (
	OutcomeComplete = "complete"
	OutcomeAborted  = "aborted"
)

// Session is one row of playback history: which file was played, how the
// speed plan worked out, and what the loop counted.
type Session struct {
	ID             int64
	Timestamp      time.Time
	Path           string
	Speed          float64
	NominalRate    uint32
	TargetRate     uint32
	Ratio          float64
	Channels       uint16
	SamplesPlayed  uint64
	SamplesSkipped uint64
	Outcome        string
	Error          string
}

// Recorder writes playback sessions to the history database. A nil Recorder
// is valid and records nothing, so tracking can be switched off without
// branching at every call site.
type Recorder struct {
	db *sql.DB
}

// NewRecorder creates a recorder over an open history database.
func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db}
}

// RecordSession inserts one session row. Failures are logged and swallowed:
// history is observational and must never fail a playback call.
func (r *Recorder) RecordSession(s Session) {
	if r == nil || r.db == nil {
		return
	}

	ts := s.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	var errText sql.NullString
	if s.Error != "" {
		errText = sql.NullString{String: s.Error, Valid: true}
	}

	_, err := r.db.Exec(`
		INSERT INTO playback_sessions
			(timestamp, path, speed, nominal_rate, target_rate, ratio, channels,
			 samples_played, samples_skipped, outcome, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.Unix(), s.Path, s.Speed, s.NominalRate, s.TargetRate, s.Ratio,
		s.Channels, s.SamplesPlayed, s.SamplesSkipped, s.Outcome, errText)
	if err != nil {
		slog.Error("failed to record playback session", "path", s.Path, "error", err)
		return
	}

	slog.Debug("playback session recorded",
		"path", s.Path,
		"outcome", s.Outcome,
		"samples_played", s.SamplesPlayed,
		"samples_skipped", s.SamplesSkipped)
}

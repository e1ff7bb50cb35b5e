package tracking

import (
	"database/sql"
	"fmt"
	"time"
)

// Summary aggregates the whole history table.
type Summary struct {
	TotalSessions  int
	Completed      int
	Aborted        int
	SamplesPlayed  uint64
	SamplesSkipped uint64
}

// RecentSessions returns up to limit sessions, newest first.
func RecentSessions(db *sql.DB, limit int) ([]Session, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, timestamp, path, speed, nominal_rate, target_rate, ratio,
		       channels, samples_played, samples_skipped, outcome, error
		FROM playback_sessions
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var ts int64
		var errText sql.NullString

		err := rows.Scan(&s.ID, &ts, &s.Path, &s.Speed, &s.NominalRate,
			&s.TargetRate, &s.Ratio, &s.Channels, &s.SamplesPlayed,
			&s.SamplesSkipped, &s.Outcome, &errText)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}

		s.Timestamp = time.Unix(ts, 0)
		if errText.Valid {
			s.Error = errText.String
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}
	return sessions, nil
}

// Summarize computes aggregate statistics across all recorded sessions.
func Summarize(db *sql.DB) (*Summary, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	row := db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN outcome = 'complete' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN outcome = 'aborted' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(samples_played), 0),
		       COALESCE(SUM(samples_skipped), 0)
		FROM playback_sessions`)

	var s Summary
	if err := row.Scan(&s.TotalSessions, &s.Completed, &s.Aborted,
		&s.SamplesPlayed, &s.SamplesSkipped); err != nil {
		return nil, fmt.Errorf("failed to scan summary: %w", err)
	}
	return &s, nil
}

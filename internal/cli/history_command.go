package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"varispeed.click/internal/config"
	"varispeed.click/internal/tracking"
)

// newHistoryCommand creates the history command over the session database.
func newHistoryCommand() *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent playback sessions",
		Long: `Show recent playback sessions from the history database.

Each play call is recorded with its speed plan and counters, including
aborted sessions and their errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			config.SetupLogging(cfg)
			return runHistory(cmd, limit)
		},
	}

	historyCmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of sessions to show")
	return historyCmd
}

func runHistory(cmd *cobra.Command, limit int) error {
	dbPath := filepath.Join(config.CachePath(""), "sessions.db")
	db, err := tracking.NewDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	sessions, err := tracking.RecentSessions(db, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "no playback sessions recorded")
		return nil
	}

	for _, s := range sessions {
		line := fmt.Sprintf("%s  %-8s %.2fx  %d->%d Hz  played %d skipped %d  %s",
			s.Timestamp.Format(time.DateTime), s.Outcome, s.Speed,
			s.NominalRate, s.TargetRate, s.SamplesPlayed, s.SamplesSkipped, s.Path)
		if s.Error != "" {
			line += "  (" + s.Error + ")"
		}
		fmt.Fprintln(out, line)
	}

	summary, err := tracking.Summarize(db)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d sessions (%d complete, %d aborted), %d samples played, %d skipped\n",
		summary.TotalSessions, summary.Completed, summary.Aborted,
		summary.SamplesPlayed, summary.SamplesSkipped)
	return nil
}

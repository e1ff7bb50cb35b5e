package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"varispeed.click/internal/audio"
	"varispeed.click/internal/config"
	"varispeed.click/internal/storage"
	"varispeed.click/internal/tracking"
)

// newPlayCommand creates the play command.
func (c *CLI) newPlayCommand() *cobra.Command {
	var speed float32
	var backend string
	var silent bool
	var chunkSize int

	playCmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Play a 16-bit PCM WAV file",
		Long: `Play a 16-bit PCM WAV file at the configured speed.

Speeds between 0.25x and 4.0x are supported. When the speeded-up sample rate
exceeds what the output hardware accepts, frames are dropped to compensate;
the summary reports how many. Speeds that would fall below the hardware's
minimum rate play at the minimum instead.

Examples:
  varispeed play song.wav
  varispeed play --speed 2.0 song.wav
  varispeed play --silent --speed 0.5 song.wav`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlay(cmd, args[0], speed, backend, silent, chunkSize)
		},
	}

	playCmd.Flags().Float32Var(&speed, "speed", 0, "Playback speed multiplier (0.25 to 4.0)")
	playCmd.Flags().StringVar(&backend, "backend", "", "Sink backend (auto, malgo, oto, memory)")
	playCmd.Flags().BoolVar(&silent, "silent", false, "Run the full pipeline without audio output")
	playCmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Samples per pipeline chunk")

	return playCmd
}

func (c *CLI) runPlay(cmd *cobra.Command, path string, speed float32, backend string, silent bool, chunkSize int) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	config.SetupLogging(cfg)

	store := storage.NewOsStore(cfg.MediaRoot)

	sniffPlayTarget(store, path)

	controller := audio.NewSpeedController()
	controller.SetSpeed(float32(cfg.Speed))
	if cmd.Flags().Changed("speed") {
		controller.SetSpeed(speed)
	}

	backendType := cfg.Backend
	if backend != "" {
		backendType = backend
	}
	if silent {
		backendType = "memory"
	}
	if !audio.IsValidBackendType(backendType) {
		return fmt.Errorf("unknown backend %q (supported: %v)", backendType, audio.SupportedBackends())
	}

	sink, err := audio.NewSink(backendType)
	if err != nil {
		return err
	}

	player := audio.NewPlayer(store, sink, controller)
	if chunkSize > 0 {
		player.ChunkSize = chunkSize
	} else if cfg.ChunkSize > 0 {
		player.ChunkSize = cfg.ChunkSize
	}
	if c.terminalDetector.IsTerminal(int(os.Stdout.Fd())) {
		player.Progress = cmd.OutOrStdout()
	}

	if cfg.TrackingEnabled {
		dbPath := filepath.Join(config.CachePath(""), "sessions.db")
		db, err := tracking.NewDatabase(dbPath)
		if err != nil {
			// History is observational; play anyway.
			slog.Error("failed to open history database", "path", dbPath, "error", err)
		} else {
			defer db.Close()
			player.Recorder = tracking.NewRecorder(db)
		}
	}

	stats, err := player.Play(path)
	if err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"played %d samples, skipped %d (%.1f%%) at %.2fx\n",
		stats.SamplesPlayed, stats.SamplesSkipped, stats.SkipPercent(), controller.Speed())
	return nil
}

// sniffPlayTarget warns when the input does not look like a WAV container.
// The engine only checks three fixed offsets, so a stray file can parse; a
// content sniff catches the obvious mistakes early. Advisory only.
func sniffPlayTarget(store *storage.Store, path string) {
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(store.Root(), path)
	}

	m, err := mimetype.DetectFile(full)
	if err != nil {
		slog.Debug("skipping content sniff", "path", full, "error", err)
		return
	}
	if !m.Is("audio/wav") && !m.Is("audio/x-wav") {
		slog.Warn("input does not look like a WAV file",
			"path", full,
			"detected_type", m.String())
	}
}

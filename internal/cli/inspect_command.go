package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	wav "github.com/youpy/go-wav"

	"varispeed.click/internal/config"
)

// newInspectCommand creates the inspect command. Unlike the playback path,
// which reads only three fixed header offsets, inspect runs a full WAV parse
// and shows everything the container declares.
func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the full WAV format of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			config.SetupLogging(cfg)
			return runInspect(cmd, args[0])
		},
	}
}

func runInspect(cmd *cobra.Command, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := wav.NewReader(f)
	format, err := reader.Format()
	if err != nil {
		return fmt.Errorf("failed to parse WAV format of %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "file:            %s\n", path)
	fmt.Fprintf(out, "format tag:      %d\n", format.AudioFormat)
	fmt.Fprintf(out, "channels:        %d\n", format.NumChannels)
	fmt.Fprintf(out, "sample rate:     %d Hz\n", format.SampleRate)
	fmt.Fprintf(out, "byte rate:       %d\n", format.ByteRate)
	fmt.Fprintf(out, "block align:     %d\n", format.BlockAlign)
	fmt.Fprintf(out, "bits per sample: %d\n", format.BitsPerSample)

	if duration, err := reader.Duration(); err == nil {
		fmt.Fprintf(out, "duration:        %s\n", duration)
	}

	if format.BitsPerSample != 16 {
		fmt.Fprintln(out, "note: only 16-bit files are playable")
	}
	return nil
}

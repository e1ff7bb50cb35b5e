package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"varispeed.click/internal/config"
)

const Version = "1.2.0"

// CLI wires the cobra command tree to the playback engine.
type CLI struct {
	rootCmd          *cobra.Command
	terminalDetector TerminalDetector
}

// NewCLI creates the command tree.
func NewCLI() *CLI {
	slog.Debug("creating new CLI instance")

	c := &CLI{
		terminalDetector: &DefaultTerminalDetector{},
	}

	rootCmd := &cobra.Command{
		Use:           "varispeed",
		Short:         "Variable-speed WAV playback",
		Long:          "Varispeed streams 16-bit PCM WAV files to an audio sink at an adjustable speed, trading dropped frames for rates the hardware cannot reach.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version information")
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "varispeed %s\n", Version)
			return nil
		}
		return cmd.Help()
	}

	rootCmd.AddCommand(c.newPlayCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newHistoryCommand())

	c.rootCmd = rootCmd
	return c
}

// Execute runs the command tree against the given arguments (without the
// program name).
func (c *CLI) Execute(args []string) error {
	c.rootCmd.SetArgs(args)
	return c.rootCmd.Execute()
}

// Run is the process entry point used by main.
func Run(args []string) error {
	return NewCLI().Execute(args)
}

// loadConfig resolves the configuration: an explicit --config path wins,
// otherwise the XDG search paths, otherwise defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

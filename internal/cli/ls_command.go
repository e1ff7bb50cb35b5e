package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"varispeed.click/internal/config"
	"varispeed.click/internal/storage"
)

// newListCommand creates the ls command.
func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List the media store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			config.SetupLogging(cfg)

			store := storage.NewOsStore(cfg.MediaRoot)
			entries, err := store.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, entry := range entries {
				if entry.Dir {
					fmt.Fprintf(out, "  DIR : %s\n", entry.Name)
				} else {
					fmt.Fprintf(out, "  FILE: %s (%d bytes)\n", entry.Name, entry.Size)
				}
			}
			return nil
		},
	}
}

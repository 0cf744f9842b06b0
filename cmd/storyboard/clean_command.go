package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/damiansian/notebook-storyboards/internal/config"
	"github.com/damiansian/notebook-storyboards/internal/logging"
	"github.com/damiansian/notebook-storyboards/internal/staging"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var rootDir string
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale staging directories left by interrupted runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			root, err := config.ExpandPath(rootDir)
			if err != nil {
				return err
			}

			log := logging.NewComponentLogger(logger, "clean")
			result := staging.CleanStale(root, maxAge)

			stdout := cmd.OutOrStdout()
			for _, removed := range result.Removed {
				log.Info("removed stale staging directory", logging.String("path", removed))
				fmt.Fprintf(stdout, "Removed %s\n", removed)
			}
			for _, cleanupErr := range result.Errors {
				log.Warn("staging cleanup failed",
					logging.String("path", cleanupErr.Path),
					logging.Error(cleanupErr.Error))
			}
			if len(result.Removed) == 0 && len(result.Errors) == 0 {
				fmt.Fprintln(stdout, "Nothing to clean")
			}

			if len(result.Errors) > 0 {
				return fmt.Errorf("%d staging directories could not be removed", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rootDir, "root", ".", "Directory to scan for stale staging directories")
	cmd.Flags().DurationVar(&maxAge, "max-age", 24*time.Hour, "Remove staging directories older than this")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/damiansian/notebook-storyboards/internal/config"
	"github.com/damiansian/notebook-storyboards/internal/logging"
	"github.com/damiansian/notebook-storyboards/internal/site"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	var rootDir string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the index page over a directory of storyboards",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			root, err := config.ExpandPath(rootDir)
			if err != nil {
				return err
			}

			indexPath, entries, err := site.Build(root, site.Options{
				DocumentName: cfg.Output.DocumentName,
				FramesDir:    cfg.Output.FramesDir,
				Logger:       logging.NewComponentLogger(logger, "site"),
			})
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			for _, entry := range entries {
				noun := "scenes"
				if entry.Scenes == 1 {
					noun = "scene"
				}
				fmt.Fprintf(stdout, "%s (%d %s)\n", entry.Name, entry.Scenes, noun)
			}
			fmt.Fprintf(stdout, "Wrote %s (%d storyboards)\n", indexPath, len(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&rootDir, "root", ".", "Directory containing generated storyboards")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/damiansian/notebook-storyboards/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of the required external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.Check(cmd.Context(), cfg)
			missing := 0
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "OK"
				detail := status.Version
				if detail == "" {
					detail = status.Command
				}
				if !status.Available {
					state = "MISSING"
					detail = status.Detail
					missing++
				}
				rows = append(rows, []string{status.Name, state, detail, status.Description})
			}

			stdout := cmd.OutOrStdout()
			if shouldColorize(stdout) {
				fmt.Fprintln(stdout, renderTable([]string{"Tool", "Status", "Detail", "Purpose"}, rows))
			} else {
				for _, row := range rows {
					fmt.Fprintf(stdout, "%s: %s (%s)\n", row[0], row[1], row[2])
				}
			}

			if missing > 0 {
				return fmt.Errorf("%d required tool(s) missing", missing)
			}
			return nil
		},
	}
}

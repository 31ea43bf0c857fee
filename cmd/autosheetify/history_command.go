package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past transcriptions recorded by the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header, err := ctx.gate().AuthorizationHeaderValue()
			if err != nil {
				return fmt.Errorf("%w (run: autosheetify auth login)", err)
			}
			entries, err := ctx.transcribeClient().History(cmd.Context(), header)
			if err != nil {
				return fmt.Errorf("fetch history: %w", err)
			}
			if jsonOut {
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No transcriptions yet")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				when := entry.Timestamp
				if ts, ok := entry.Time(); ok {
					when = humanize.Time(ts)
				}
				rows = append(rows, []string{entry.File, when, entry.SheetURL})
			}
			fmt.Fprintln(out, renderTable([]tableColumn{{title: "File", width: 40}, {title: "When"}, {title: "Sheet", width: 72}}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

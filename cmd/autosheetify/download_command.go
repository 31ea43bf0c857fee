package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"autosheetify/internal/library"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download the PDF and MIDI of a saved transcription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(dir)
			if target == "" {
				target = ctx.configValue().Paths.OutputDir
			}
			dl, err := ctx.downloader()
			if err != nil {
				return err
			}
			return ctx.withLibrary(func(store *library.Store) error {
				entry, err := store.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				set, err := dl.FetchSet(cmd.Context(), entry.Title, entry.SheetURL, entry.MidiURL, target)
				if err != nil {
					return fmt.Errorf("download artifacts: %w", err)
				}
				if err := store.SetArtifactPaths(cmd.Context(), entry.ID, set.Sheet.Path, set.Midi.Path); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Downloaded %s (%s)\n", set.Sheet.Path, set.Sheet.HumanSize())
				fmt.Fprintf(out, "Downloaded %s (%s)\n", set.Midi.Path, set.Midi.HumanSize())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Destination directory (default paths.output_dir)")
	return cmd
}

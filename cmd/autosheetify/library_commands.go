package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"autosheetify/internal/library"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Browse transcriptions saved with --save",
	}
	libraryCmd.AddCommand(newLibraryListCommand(ctx))
	libraryCmd.AddCommand(newLibraryShowCommand(ctx))
	libraryCmd.AddCommand(newLibraryRemoveCommand(ctx))
	return libraryCmd
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved transcriptions, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(store *library.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, entries)
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Library is empty")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						shortID(entry.ID),
						entry.Title,
						entry.Instrument,
						entry.SourceKind,
						humanize.Time(entry.CreatedAt),
						yesNo(entry.Downloaded()),
					})
				}
				fmt.Fprintln(out, renderTable([]tableColumn{
					{title: "ID"},
					{title: "Title", width: 48},
					{title: "Instrument"},
					{title: "Source"},
					{title: "Saved"},
					{title: "Downloaded"},
				}, rows))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newLibraryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved transcription (any unique id prefix)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(store *library.Store) error {
				entry, err := store.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, entry)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderDetails([][2]string{
					{"ID", entry.ID},
					{"Title", entry.Title},
					{"Original file", entry.OriginalFilename},
					{"Instrument", entry.Instrument},
					{"Source", entry.SourceKind + " " + entry.SourceRef},
					{"Sheet URL", entry.SheetURL},
					{"MIDI URL", entry.MidiURL},
					{"Sheet file", entry.SheetPath},
					{"MIDI file", entry.MidiPath},
					{"Saved", entry.CreatedAt.Local().Format(time.DateTime)},
				}))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newLibraryRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a saved transcription (downloaded files are kept)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(store *library.Store) error {
				entry, err := store.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := store.Remove(cmd.Context(), entry.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%s)\n", entry.Title, shortID(entry.ID))
				return nil
			})
		},
	}
}

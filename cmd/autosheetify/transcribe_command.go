package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"autosheetify/internal/artifacts"
	"autosheetify/internal/input"
	"autosheetify/internal/library"
	"autosheetify/internal/orchestrator"
	"autosheetify/internal/transcribe"
)

// defaultDirValue is what a bare --download resolves to: the configured
// output directory.
const defaultDirValue = "@output"

type transcribeOutput struct {
	State orchestrator.State `json:"state"`
	Sheet string             `json:"sheet_url,omitempty"`
	Midi  string             `json:"midi_url,omitempty"`
	Entry *library.Entry     `json:"entry,omitempty"`
	Files *artifacts.Set     `json:"files,omitempty"`
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var filePath string
	var mediaURL string
	var instrumentFlag string
	var save bool
	var downloadDir string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe a media file or YouTube link into sheet music and MIDI",
		Example: `  autosheetify transcribe --file song.mp3
  autosheetify transcribe --url https://youtu.be/dQw4w9WgXcQ --instrument guitar --save --download`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			instrumentValue := instrumentFlag
			if strings.TrimSpace(instrumentValue) == "" {
				instrumentValue = cfg.Transcription.DefaultInstrument
			}
			inst, err := transcribe.ParseInstrument(instrumentValue)
			if err != nil {
				return err
			}

			machine := orchestrator.New(ctx.gate(), ctx.transcribeClient(),
				orchestrator.WithLogger(ctx.log()),
				orchestrator.WithInstrument(inst),
			)
			if filePath != "" {
				file, err := input.FileFromPath(filePath)
				if err != nil {
					return err
				}
				if err := machine.Input().SetFile(file); err != nil {
					return err
				}
			} else if err := machine.Input().SetURL(mediaURL); err != nil {
				return err
			}

			state, err := submitAndWait(cmd.Context(), machine, cmd.ErrOrStderr(), !jsonOut)
			if err != nil {
				return err
			}
			if state.Phase == orchestrator.PhaseFailed {
				if jsonOut {
					if err := writeJSON(cmd, transcribeOutput{State: state}); err != nil {
						return err
					}
				} else {
					out := cmd.OutOrStdout()
					fmt.Fprintln(out, renderStatusLine("Transcription", phaseStatus(state.Phase), string(state.ErrorKind()), shouldColorize(out)))
				}
				return fmt.Errorf("transcription failed: %w", state.Result.Err())
			}

			result := *state.Result
			dl, err := ctx.downloader()
			if err != nil {
				return err
			}
			output := transcribeOutput{State: state}
			output.Sheet, _ = dl.ResolveURL(result.SheetURL)
			output.Midi, _ = dl.ResolveURL(result.MidiURL)

			if save {
				entry, err := library.EntryFromResult(result, state.Input, state.Instrument)
				if err != nil {
					return err
				}
				err = ctx.withLibrary(func(store *library.Store) error {
					saved, err := store.Add(cmd.Context(), entry)
					if err != nil {
						return err
					}
					output.Entry = saved
					return nil
				})
				if err != nil {
					return fmt.Errorf("save to library: %w", err)
				}
			}

			if downloadDir != "" {
				dir := downloadDir
				if dir == defaultDirValue {
					dir = cfg.Paths.OutputDir
				}
				title := downloadTitle(output.Entry, result, state.Input)
				set, err := dl.FetchSet(cmd.Context(), title, result.SheetURL, result.MidiURL, dir)
				if err != nil {
					return fmt.Errorf("download artifacts: %w", err)
				}
				output.Files = &set
				if output.Entry != nil {
					err := ctx.withLibrary(func(store *library.Store) error {
						return store.SetArtifactPaths(cmd.Context(), output.Entry.ID, set.Sheet.Path, set.Midi.Path)
					})
					if err != nil {
						return fmt.Errorf("record download: %w", err)
					}
					output.Entry.SheetPath = set.Sheet.Path
					output.Entry.MidiPath = set.Midi.Path
				}
			}

			if jsonOut {
				return writeJSON(cmd, output)
			}
			printTranscribeResult(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Audio or video file to transcribe")
	cmd.Flags().StringVarP(&mediaURL, "url", "u", "", "YouTube link to transcribe")
	cmd.Flags().StringVarP(&instrumentFlag, "instrument", "i", "", "Target instrument: piano or guitar (default from config)")
	cmd.Flags().BoolVar(&save, "save", false, "Save the result to the local library")
	cmd.Flags().StringVar(&downloadDir, "download", "", "Download the PDF and MIDI into this directory (bare flag uses paths.output_dir)")
	cmd.Flags().Lookup("download").NoOptDefVal = defaultDirValue
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.MarkFlagsMutuallyExclusive("file", "url")
	cmd.MarkFlagsOneRequired("file", "url")
	return cmd
}

// submitAndWait runs one submission to completion. Progress goes to progress
// when verbose is set.
func submitAndWait(ctx context.Context, machine *orchestrator.Machine, progress io.Writer, verbose bool) (orchestrator.State, error) {
	source := machine.Input().Current()
	if err := machine.Submit(ctx); err != nil {
		return orchestrator.State{}, err
	}
	if verbose {
		fmt.Fprintf(progress, "Transcribing %s for %s (this can take several minutes)...\n",
			source.DisplayName(), machine.Instrument())
	}
	state, err := machine.Wait(ctx)
	if err != nil {
		return state, fmt.Errorf("wait for transcription: %w", err)
	}
	return state, nil
}

func downloadTitle(entry *library.Entry, result transcribe.Result, source input.Summary) string {
	if entry != nil {
		return entry.Title
	}
	if preview, err := library.EntryFromResult(result, source, transcribe.Piano); err == nil {
		return preview.Title
	}
	return "transcription"
}

func printTranscribeResult(out io.Writer, output transcribeOutput) {
	result := output.State.Result
	fmt.Fprintln(out, renderStatusLine("Transcription", phaseStatus(output.State.Phase), "complete", shouldColorize(out)))
	if result.OriginalFilename != "" {
		fmt.Fprintf(out, "  Source: %s\n", result.OriginalFilename)
	}
	fmt.Fprintf(out, "  Sheet:  %s\n", output.Sheet)
	fmt.Fprintf(out, "  MIDI:   %s\n", output.Midi)
	if output.Entry != nil {
		fmt.Fprintf(out, "  Saved to library as %s (%s)\n", output.Entry.Title, shortID(output.Entry.ID))
	}
	if output.Files != nil {
		fmt.Fprintf(out, "  Downloaded %s (%s)\n", output.Files.Sheet.Path, output.Files.Sheet.HumanSize())
		fmt.Fprintf(out, "  Downloaded %s (%s)\n", output.Files.Midi.Path, output.Files.Midi.HumanSize())
	}
}

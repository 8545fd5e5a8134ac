package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mager/chordlegend/midi"
	"github.com/mager/chordlegend/timeline"
	"github.com/spf13/cobra"
)

var (
	exportFlags patternFlags
	exportInput string
)

func init() {
	exportFlags.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "", "timeline JSON file to export instead of generating one")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <file.mid>",
	Short: "Write a chord timeline as a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			tl    timeline.Timeline
			bpm   = exportFlags.bpm
			beats = exportFlags.beatsPerMeasure
			err   error
		)
		if exportInput != "" {
			tl, err = readTimeline(exportInput)
		} else {
			tl, bpm, beats, err = exportFlags.build()
		}
		if err != nil {
			return err
		}

		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		opts := midi.Options{BPM: bpm}
		if beats > 0 && beats <= 16 {
			opts.BeatsPerMeasure = uint8(beats)
		}
		if err := midi.Write(f, tl, opts); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d chords to %s\n", len(tl.Entries), args[0])
		return nil
	},
}

// readTimeline accepts either a bare timeline or a stored analysis.
func readTimeline(path string) (timeline.Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return timeline.Timeline{}, err
	}
	var tl timeline.Timeline
	if err := json.Unmarshal(data, &tl); err != nil {
		return timeline.Timeline{}, fmt.Errorf("read %s: %w", path, err)
	}
	if err := timeline.Validate(tl); err != nil {
		return timeline.Timeline{}, fmt.Errorf("read %s: %w", path, err)
	}
	return tl, nil
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mager/chordlegend/catalog"
	"github.com/mager/chordlegend/timeline"
	"github.com/mager/chordlegend/util"
	"github.com/spf13/cobra"
)

// patternFlags describe a timeline from the command line, either a chord
// list or the title of a known song.
type patternFlags struct {
	chords          string
	title           string
	catalogPath     string
	bpm             float64
	duration        float64
	strategy        string
	chordDuration   float64
	beatsPerMeasure int
	seed            int64
}

func (f *patternFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.chords, "chords", "c", "", `chord pattern, e.g. "C,G:2,Am:0.5,F" (chord[:measures])`)
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "use the progression of a known song")
	cmd.Flags().StringVar(&f.catalogPath, "catalog", "", "catalog file to use instead of the built-in songs")
	cmd.Flags().Float64Var(&f.bpm, "bpm", 0, "tempo (defaults to the song's or 120)")
	cmd.Flags().Float64VarP(&f.duration, "duration", "d", 0, "song length in seconds")
	cmd.Flags().StringVarP(&f.strategy, "strategy", "s", "", "varied, measured or fixed")
	cmd.Flags().Float64Var(&f.chordDuration, "chord-duration", 0, "seconds per chord for the fixed strategy")
	cmd.Flags().IntVar(&f.beatsPerMeasure, "beats", 0, "beats per measure")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "seed for the varied strategy")
}

// ParsePattern reads "C,G:2,Am:0.5" into steps. A missing measure count
// means one measure.
func ParsePattern(s string) ([]timeline.Step, error) {
	var steps []timeline.Step
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chord, measures, found := strings.Cut(part, ":")
		step := timeline.Step{Chord: strings.TrimSpace(chord), Measures: 1}
		if found {
			m, err := strconv.ParseFloat(strings.TrimSpace(measures), 64)
			if err != nil || m <= 0 {
				return nil, fmt.Errorf("invalid measures in %q", part)
			}
			step.Measures = m
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("no chords in %q", s)
	}
	return steps, nil
}

// build returns the timeline along with the tempo and meter it was built
// with.
func (f *patternFlags) build() (timeline.Timeline, float64, int, error) {
	strategy, err := timeline.ParseStrategy(f.strategy)
	if err != nil {
		return timeline.Timeline{}, 0, 0, err
	}

	var (
		pattern  []timeline.Step
		bpm      = f.bpm
		beats    = f.beatsPerMeasure
		duration = f.duration
	)
	switch {
	case f.title != "":
		cat, err := catalog.Load(f.catalogPath)
		if err != nil {
			return timeline.Timeline{}, 0, 0, err
		}
		song, _, ok := cat.Match(f.title)
		if !ok {
			return timeline.Timeline{}, 0, 0, fmt.Errorf("no known song matches %q", f.title)
		}
		pattern = song.Progression
		if bpm <= 0 {
			bpm = song.BPM
		}
		if beats <= 0 {
			beats = song.BeatsPerMeasure()
		}
		if duration <= 0 {
			duration = song.Duration
		}
	case f.chords != "":
		pattern, err = ParsePattern(f.chords)
		if err != nil {
			return timeline.Timeline{}, 0, 0, err
		}
	default:
		return timeline.Timeline{}, 0, 0, fmt.Errorf("either --chords or --title is required")
	}
	if bpm <= 0 {
		bpm = timeline.DefaultBPM
	}
	if beats <= 0 {
		beats = 4
	}

	tl, err := timeline.Generate(pattern, bpm, duration, timeline.Options{
		Strategy:        strategy,
		ChordDuration:   f.chordDuration,
		BeatsPerMeasure: beats,
		Seed:            f.seed,
	})
	return tl, bpm, beats, err
}

var (
	timelineFlags patternFlags
	timelineAt    float64
	timelineShift float64
	timelineJSON  bool
)

func init() {
	timelineFlags.register(timelineCmd)
	timelineCmd.Flags().Float64Var(&timelineAt, "at", -1, "print the chord playing at this time instead of the timeline")
	timelineCmd.Flags().Float64Var(&timelineShift, "offset", 0, "timing offset added to --at")
	timelineCmd.Flags().BoolVar(&timelineJSON, "json", false, "print JSON")
	rootCmd.AddCommand(timelineCmd)
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Generate a chord timeline or look up a chord in it",
	Example: `  chordlegend timeline --chords "C,G,Am,F" --duration 60 --strategy measured
  chordlegend timeline --title "let it be" --at 42.5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tl, _, _, err := timelineFlags.build()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if timelineAt >= 0 {
			state := timeline.NewCursor(tl, timelineShift).Seek(timelineAt)
			if timelineJSON {
				return writeJSON(out, state)
			}
			return printState(out, state)
		}
		if timelineJSON {
			return writeJSON(out, tl)
		}
		return printTimeline(out, tl)
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTimeline(w io.Writer, tl timeline.Timeline) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTART\tLENGTH\tCHORD")
	for i, e := range tl.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%.2fs\t%s\n", i+1, util.FormatTimestamp(e.StartTime), e.Duration, e.Chord)
	}
	fmt.Fprintf(tw, "\t%s\t\tend\n", util.FormatTimestamp(tl.Duration))
	return tw.Flush()
}

func printState(w io.Writer, s timeline.State) error {
	if s.Chord == nil {
		_, err := fmt.Fprintf(w, "%s  (silence)\n", util.FormatTimestamp(s.Time))
		return err
	}
	line := fmt.Sprintf("%s  %s", util.FormatTimestamp(s.Time), s.Chord.Chord)
	if s.Next != nil {
		line += fmt.Sprintf("  next %s at %s", s.Next.Chord, util.FormatTimestamp(s.Next.StartTime))
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

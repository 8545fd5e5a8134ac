package timeline

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
)

const (
	DefaultBPM      = 120.0
	DefaultDuration = 240.0
	// MaxDuration is four hours.
	MaxDuration = 4 * 60 * 60.0

	MinChordDuration = 1.5
	MaxChordDuration = 8.0

	minBPM           = 20.0
	maxBPM           = 300.0
	minMeasures      = 0.25
	minFixedDuration = 0.25

	// A chord that would leave less than its own length plus tailAbsorb
	// seconds takes the rest of the song.
	tailAbsorb = 1.0
	// Measured timelines fold remainders shorter than this into the last bar.
	minTail = 0.5

	defaultConfidence = 0.8
)

// durationTable cycles common, mixed and occasional long chord lengths so a
// repeating pattern doesn't sound like a metronome.
var durationTable = []float64{
	2.5, 3.0, 3.5, 4.0, 4.5,
	2.0, 5.0, 3.0, 4.0, 3.5,
	6.0, 2.0, 3.0, 4.0, 3.0,
}

var defaultPattern = []Step{
	{Chord: "C", Measures: 2},
	{Chord: "G", Measures: 2},
}

var ErrDurationTooLong = errors.New("timeline: duration exceeds maximum")

// Step is one element of a repeating chord pattern.
type Step struct {
	Chord    string  `json:"chord" yaml:"chord"`
	Measures float64 `json:"measures,omitempty" yaml:"measures"`
}

// Steps builds a pattern of one-measure steps from chord names.
func Steps(chords ...string) []Step {
	steps := make([]Step, 0, len(chords))
	for _, c := range chords {
		steps = append(steps, Step{Chord: c, Measures: 1})
	}
	return steps
}

type Strategy string

const (
	StrategyVaried   Strategy = "varied"
	StrategyMeasured Strategy = "measured"
	StrategyFixed    Strategy = "fixed"
)

// ParseStrategy maps a user supplied name to a Strategy. Empty means varied.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyVaried:
		return StrategyVaried, nil
	case StrategyMeasured:
		return StrategyMeasured, nil
	case StrategyFixed:
		return StrategyFixed, nil
	}
	return "", fmt.Errorf("timeline: unknown strategy %q", s)
}

// Options tunes Generate.
type Options struct {
	Strategy Strategy
	// ChordDuration is the per-chord length in seconds for StrategyFixed.
	ChordDuration float64
	// BeatsPerMeasure defaults to 4.
	BeatsPerMeasure int
	// Seed drives the duration jitter of StrategyVaried.
	Seed int64
	// Confidence stamped on every entry, defaults to 0.8.
	Confidence float64
}

// Generate expands a repeating chord pattern into a timeline covering
// [0, duration) without gaps or overlaps.
func Generate(pattern []Step, bpm, duration float64, opts Options) (Timeline, error) {
	steps := cleanPattern(pattern)
	if invalid(bpm) {
		bpm = DefaultBPM
	}
	bpm = math.Max(minBPM, math.Min(maxBPM, bpm))
	if invalid(duration) {
		duration = DefaultDuration
	}
	if duration > MaxDuration {
		return Timeline{}, fmt.Errorf("%w: %.0fs", ErrDurationTooLong, duration)
	}

	strategy := opts.Strategy
	if strategy == "" || (strategy == StrategyFixed && (invalid(opts.ChordDuration) || opts.ChordDuration < minFixedDuration)) {
		strategy = StrategyVaried
	}
	confidence := opts.Confidence
	if invalid(confidence) || confidence > 1 {
		confidence = defaultConfidence
	}

	length := lengthFunc(strategy, bpm, opts)

	entries := make([]Entry, 0, int(duration/MinChordDuration)+1)
	start := 0.0
	for i := 0; start < duration; i++ {
		step := steps[i%len(steps)]
		d := length(i, step)
		remaining := duration - start

		var last bool
		switch strategy {
		case StrategyFixed:
			last = d >= remaining
		case StrategyMeasured:
			last = d >= remaining || remaining-d < minTail
		default:
			last = remaining < d+tailAbsorb
		}
		if last {
			d = remaining
		}

		entries = append(entries, Entry{
			Chord:      step.Chord,
			StartTime:  start,
			Duration:   d,
			Confidence: confidence,
			Source:     SourcePredicted,
		})
		if last {
			break
		}
		start += d
	}

	return Timeline{Entries: entries, Duration: duration}, nil
}

func lengthFunc(strategy Strategy, bpm float64, opts Options) func(int, Step) float64 {
	switch strategy {
	case StrategyFixed:
		return func(int, Step) float64 { return opts.ChordDuration }
	case StrategyMeasured:
		beats := opts.BeatsPerMeasure
		if beats <= 0 {
			beats = 4
		}
		secondsPerMeasure := float64(beats) * 60 / bpm
		return func(_ int, s Step) float64 {
			m := s.Measures
			if invalid(m) {
				m = 1
			}
			return math.Max(minMeasures, m) * secondsPerMeasure
		}
	}

	r := rand.New(rand.NewSource(opts.Seed))
	scale := math.Max(0.75, math.Min(1.5, DefaultBPM/bpm))
	return func(i int, _ Step) float64 {
		jitter := 0.9 + r.Float64()*0.2
		d := durationTable[i%len(durationTable)] * scale * jitter
		return math.Max(MinChordDuration, math.Min(MaxChordDuration, d))
	}
}

func cleanPattern(pattern []Step) []Step {
	steps := make([]Step, 0, len(pattern))
	for _, s := range pattern {
		s.Chord = strings.TrimSpace(s.Chord)
		if s.Chord == "" {
			continue
		}
		steps = append(steps, s)
	}
	if len(steps) == 0 {
		return defaultPattern
	}
	return steps
}

package theory

import (
	"math"

	"github.com/mager/chordlegend/timeline"
)

type Section string

const (
	SectionIntro  Section = "intro"
	SectionVerse  Section = "verse"
	SectionChorus Section = "chorus"
	SectionBridge Section = "bridge"
	SectionSolo   Section = "solo"
	SectionOutro  Section = "outro"
)

var (
	structures = map[string][]Section{
		GenrePop:    {SectionIntro, SectionVerse, SectionChorus, SectionVerse, SectionChorus, SectionBridge, SectionChorus, SectionOutro},
		GenreRock:   {SectionIntro, SectionVerse, SectionVerse, SectionChorus, SectionVerse, SectionChorus, SectionSolo, SectionChorus, SectionOutro},
		GenreBlues:  {SectionIntro, SectionVerse, SectionVerse, SectionVerse, SectionVerse, SectionVerse, SectionVerse, SectionOutro},
		GenreBallad: {SectionIntro, SectionVerse, SectionChorus, SectionVerse, SectionChorus, SectionBridge, SectionChorus, SectionOutro},
	}

	repeatSections = []Section{SectionChorus, SectionVerse, SectionChorus, SectionOutro}
)

// SongStructure lays out sections for a genre. Songs under three minutes
// lose their last two sections, songs over five minutes gain a chorus and
// an outro.
func SongStructure(genre string, duration float64) []Section {
	base, ok := structures[genre]
	if !ok {
		base = structures[GenrePop]
	}
	s := make([]Section, len(base))
	copy(s, base)

	switch {
	case duration < 180:
		s = s[:len(s)-2]
	case duration > 300:
		s = append(s, SectionChorus, SectionOutro)
	}
	return s
}

// SectionDuration is the share of the song a section gets.
func SectionDuration(s Section, total float64, sections int) float64 {
	if sections <= 0 {
		return total
	}
	base := total / float64(sections)
	switch s {
	case SectionIntro:
		return base * 0.5
	case SectionVerse:
		return base * 1.2
	case SectionBridge:
		return base * 0.8
	case SectionOutro:
		return base * 0.6
	}
	return base
}

// ChordLengthMultiplier stretches chords in atmospheric sections and packs
// them tighter in solos.
func ChordLengthMultiplier(s Section) float64 {
	switch s {
	case SectionIntro, SectionOutro:
		return 2
	case SectionBridge:
		return 1.5
	case SectionSolo:
		return 0.5
	}
	return 1
}

// DynamicTimeline builds a section-by-section timeline from the genre's
// stock progression. Each section restarts the progression; chords last a
// bar (scaled per section) and the final chord runs to the end of the song.
func DynamicTimeline(key, genre string, bpm, duration, confidence float64) (timeline.Timeline, error) {
	if bpm <= 0 || math.IsNaN(bpm) {
		bpm = GenreBPM(genre)
	}
	if duration <= 0 || math.IsNaN(duration) {
		duration = timeline.DefaultDuration
	}
	if duration > timeline.MaxDuration {
		return timeline.Timeline{}, timeline.ErrDurationTooLong
	}

	chords := Progression(key, genre)
	structure := SongStructure(genre, duration)
	secondsPerMeasure := 4 * 60 / bpm

	var steps []timeline.Step
	var planned float64
	for i := 0; planned < duration; i++ {
		if i >= len(structure) {
			structure = append(structure, repeatSections...)
		}
		section := structure[i]
		length := secondsPerMeasure * ChordLengthMultiplier(section)
		count := int(math.Max(1, math.Round(SectionDuration(section, duration, len(structure))/length)))
		for c := 0; c < count; c++ {
			steps = append(steps, timeline.Step{
				Chord:    chords[c%len(chords)],
				Measures: ChordLengthMultiplier(section),
			})
			planned += length
		}
	}

	return timeline.Generate(steps, bpm, duration, timeline.Options{
		Strategy:   timeline.StrategyMeasured,
		Confidence: confidence,
	})
}

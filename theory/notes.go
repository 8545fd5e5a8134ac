// Package theory holds the music theory used to predict chord progressions
// when no audio analysis is available.
package theory

import (
	"fmt"
	"strings"
)

var (
	sharpNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	flatNames  = []string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

	letterPitch = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

	// keys conventionally spelled with flats
	flatKeys = map[string]bool{
		"F": true, "Bb": true, "Eb": true, "Ab": true, "Db": true, "Gb": true,
		"Dm": true, "Gm": true, "Cm": true, "Fm": true, "Bbm": true, "Ebm": true,
	}
)

// PitchClass parses a note name ("C", "f#", "Bb") into 0-11.
func PitchClass(note string) (int, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return 0, fmt.Errorf("theory: empty note")
	}
	pc, ok := letterPitch[strings.ToUpper(note[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("theory: invalid note %q", note)
	}
	for _, acc := range note[1:] {
		switch acc {
		case '#':
			pc++
		case 'b':
			pc--
		default:
			return 0, fmt.Errorf("theory: invalid note %q", note)
		}
	}
	return (pc%12 + 12) % 12, nil
}

// NoteName spells a pitch class, preferring flats when flats is set.
func NoteName(pc int, flats bool) string {
	pc = (pc%12 + 12) % 12
	if flats {
		return flatNames[pc]
	}
	return sharpNames[pc]
}

// splitRoot separates "F#m7/C#" into "F#" and "m7/C#".
func splitRoot(chord string) (string, string) {
	chord = strings.TrimSpace(chord)
	if chord == "" {
		return "", ""
	}
	n := 1
	if len(chord) > 1 && (chord[1] == '#' || chord[1] == 'b') {
		n = 2
	}
	return chord[:n], chord[n:]
}

var qualities = map[string][]int{
	"":      {0, 4, 7},
	"maj":   {0, 4, 7},
	"M":     {0, 4, 7},
	"m":     {0, 3, 7},
	"min":   {0, 3, 7},
	"-":     {0, 3, 7},
	"5":     {0, 7},
	"6":     {0, 4, 7, 9},
	"m6":    {0, 3, 7, 9},
	"7":     {0, 4, 7, 10},
	"maj7":  {0, 4, 7, 11},
	"M7":    {0, 4, 7, 11},
	"m7":    {0, 3, 7, 10},
	"min7":  {0, 3, 7, 10},
	"m7b5":  {0, 3, 6, 10},
	"dim":   {0, 3, 6},
	"dim7":  {0, 3, 6, 9},
	"aug":   {0, 4, 8},
	"+":     {0, 4, 8},
	"sus2":  {0, 2, 7},
	"sus4":  {0, 5, 7},
	"sus":   {0, 5, 7},
	"7sus4": {0, 5, 7, 10},
	"add9":  {0, 4, 7, 14},
	"9":     {0, 4, 7, 10, 14},
	"m9":    {0, 3, 7, 10, 14},
	"maj9":  {0, 4, 7, 11, 14},
}

// ChordNotes returns MIDI note numbers for a chord symbol voiced from the
// given octave (C4 = 60). A slash bass is added an octave below the root.
func ChordNotes(chord string, octave int) ([]uint8, error) {
	symbol, bass, _ := strings.Cut(strings.TrimSpace(chord), "/")

	rootName, rest := splitRoot(symbol)
	root, err := PitchClass(rootName)
	if err != nil {
		return nil, fmt.Errorf("invalid chord %q: %w", chord, err)
	}

	intervals, ok := qualities[rest]
	if !ok {
		// Unknown extension: fall back to the triad implied by the prefix.
		intervals = []int{0, 4, 7}
		if strings.HasPrefix(rest, "m") && !strings.HasPrefix(rest, "maj") {
			intervals = []int{0, 3, 7}
		}
	}

	base := (octave+1)*12 + root
	notes := make([]uint8, 0, len(intervals)+1)
	if bass != "" {
		if pc, err := PitchClass(bass); err == nil {
			b := octave*12 + pc
			if b >= 0 && b <= 127 {
				notes = append(notes, uint8(b))
			}
		}
	}
	for _, iv := range intervals {
		n := base + iv
		if n < 0 || n > 127 {
			continue
		}
		notes = append(notes, uint8(n))
	}
	if len(notes) == 0 {
		return nil, fmt.Errorf("no playable notes for chord %q", chord)
	}
	return notes, nil
}

// IsMinor reports whether a chord or key symbol is minor ("Am", "F#m7", "Cmin").
func IsMinor(symbol string) bool {
	_, rest := splitRoot(symbol)
	return (strings.HasPrefix(rest, "m") && !strings.HasPrefix(rest, "maj")) || strings.HasPrefix(rest, "-")
}

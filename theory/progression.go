package theory

import (
	"strings"
)

const (
	GenrePop       = "pop"
	GenreRock      = "rock"
	GenreBlues     = "blues"
	GenreJazz      = "jazz"
	GenreCountry   = "country"
	GenreClassical = "classical"
	GenreFolk      = "folk"
	GenreBallad    = "ballad"
)

var (
	majorSteps = []int{0, 2, 4, 5, 7, 9, 11}
	minorSteps = []int{0, 2, 3, 5, 7, 8, 10}

	romanDegrees = map[string]int{
		"i": 0, "ii": 1, "iii": 2, "iv": 3, "v": 4, "vi": 5, "vii": 6,
	}

	progressions = map[string]struct{ major, minor []string }{
		GenrePop: {
			major: []string{"I", "V", "vi", "IV"},
			minor: []string{"i", "VII", "VI", "VII"},
		},
		GenreRock: {
			major: []string{"I", "V", "vi", "IV", "I", "V", "IV", "V"},
			minor: []string{"i", "VII", "VI", "i", "iv", "VII", "i", "V"},
		},
		GenreBlues: {
			major: []string{"I7", "I7", "I7", "I7", "IV7", "IV7", "I7", "I7", "V7", "IV7", "I7", "V7"},
			minor: []string{"i7", "i7", "i7", "i7", "iv7", "iv7", "i7", "i7", "V7", "iv7", "i7", "V7"},
		},
	}

	genreBPM = map[string]float64{
		GenrePop:       120,
		GenreRock:      120,
		GenreBlues:     90,
		GenreJazz:      120,
		GenreCountry:   110,
		GenreClassical: 100,
		GenreFolk:      100,
		"electronic":   128,
		"hip-hop":      90,
		GenreBallad:    70,
	}
)

// RomanToChord resolves a roman numeral degree ("IV", "vi", "V7") in the
// given key. Lower case numerals are minor chords, a trailing 7 adds a
// seventh. Unknown numerals resolve to "C".
func RomanToChord(roman, key string) string {
	minor := IsMinor(key)
	rootName, _ := splitRoot(key)
	root, err := PitchClass(rootName)
	if err != nil {
		root = 0
	}

	numeral := strings.TrimRight(roman, "7")
	seventh := numeral != roman
	degree, ok := romanDegrees[strings.ToLower(numeral)]
	if !ok {
		return "C"
	}

	steps := majorSteps
	if minor {
		steps = minorSteps
	}
	chord := NoteName(root+steps[degree], flatKeys[keyName(key)])
	if strings.ToLower(numeral) == numeral {
		chord += "m"
	}
	if seventh {
		chord += "7"
	}
	return chord
}

// Progression returns the stock progression for a genre in a key ("Am", "E").
// Genres without their own table use the pop progression.
func Progression(key, genre string) []string {
	p, ok := progressions[genre]
	if !ok {
		p = progressions[GenrePop]
	}
	numerals := p.major
	if IsMinor(key) {
		numerals = p.minor
	}

	chords := make([]string, len(numerals))
	for i, n := range numerals {
		chords[i] = RomanToChord(n, key)
	}
	return chords
}

// GenreBPM is a typical tempo for the genre, 120 when unknown.
func GenreBPM(genre string) float64 {
	if bpm, ok := genreBPM[genre]; ok {
		return bpm
	}
	return 120
}

// keyName normalises "A minor"-ish keys to "Am" for the flat key table.
func keyName(key string) string {
	root, _ := splitRoot(key)
	if root == "" {
		return ""
	}
	root = strings.ToUpper(root[:1]) + root[1:]
	if IsMinor(key) {
		return root + "m"
	}
	return root
}

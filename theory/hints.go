package theory

import (
	"regexp"
	"strings"
)

// Hints are guesses about a song derived from its title and tags.
type Hints struct {
	Genre string `json:"genre"`
	Mood  string `json:"mood"`
	Key   string `json:"key"`
}

var (
	// later rules win, so "blues rock" is rock
	genreKeywords = []struct {
		genre    string
		keywords []string
	}{
		{GenreBlues, []string{"blues", "bb king"}},
		{GenreJazz, []string{"jazz", "swing"}},
		{GenreRock, []string{"rock", "metal"}},
		{GenreCountry, []string{"country", "folk"}},
		{GenreClassical, []string{"classical", "symphony"}},
	}

	moodKeywords = []struct {
		mood     string
		keywords []string
	}{
		{"sad", []string{"sad", "cry", "blue"}},
		{"happy", []string{"happy", "joy", "dance"}},
		{"dark", []string{"dark", "minor", "death"}},
	}

	keyWithMode = regexp.MustCompile(`\b([a-g])(#|b)?\s?(major|minor|maj|min)\b`)
	keyOf       = regexp.MustCompile(`\bkey of ([a-g])(#|b)?\b`)
)

// HintsFromTitle guesses genre, mood and key from keywords in a song title.
// Defaults are pop, neutral and C.
func HintsFromTitle(title string) Hints {
	t := strings.ToLower(title)
	h := Hints{Genre: GenrePop, Mood: "neutral", Key: "C"}

	for _, g := range genreKeywords {
		if containsAny(t, g.keywords) {
			h.Genre = g.genre
		}
	}
	for _, m := range moodKeywords {
		if containsAny(t, m.keywords) {
			h.Mood = m.mood
		}
	}

	if m := keyWithMode.FindStringSubmatch(t); m != nil {
		h.Key = strings.ToUpper(m[1]) + m[2]
		if strings.HasPrefix(m[3], "min") {
			h.Key += "m"
		}
	} else if m := keyOf.FindStringSubmatch(t); m != nil {
		h.Key = strings.ToUpper(m[1]) + m[2]
	}

	if h.Mood == "sad" || h.Mood == "dark" {
		if !IsMinor(h.Key) {
			h.Key = RelativeMinor(h.Key)
		}
	}
	return h
}

// GenreFromTags picks the first known genre mentioned by metadata tags
// (e.g. MusicBrainz genres), or "" when none match.
func GenreFromTags(tags []string) string {
	for _, tag := range tags {
		t := strings.ToLower(tag)
		for i := len(genreKeywords) - 1; i >= 0; i-- {
			if containsAny(t, genreKeywords[i].keywords) {
				return genreKeywords[i].genre
			}
		}
		if strings.Contains(t, "pop") {
			return GenrePop
		}
		if strings.Contains(t, "ballad") {
			return GenreBallad
		}
	}
	return ""
}

// RelativeMinor returns the relative minor of a major key ("C" -> "Am").
func RelativeMinor(key string) string {
	root, _ := splitRoot(key)
	pc, err := PitchClass(root)
	if err != nil {
		return "Am"
	}
	minor := NoteName(pc+9, flatKeys[keyName(key)]) + "m"
	return minor
}

// KeyFromPitchClass renders a pitch class and mode (1 major, 0 minor) as a
// key name. A negative pitch class means unknown and yields "".
func KeyFromPitchClass(pc, mode int) string {
	if pc < 0 || pc > 11 {
		return ""
	}
	if mode == 0 {
		name := NoteName(pc, false) + "m"
		if flatKeys[NoteName(pc, true)+"m"] {
			name = NoteName(pc, true) + "m"
		}
		return name
	}
	if flatKeys[NoteName(pc, true)] {
		return NoteName(pc, true)
	}
	return NoteName(pc, false)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Package catalog is the database of known songs used to predict chords
// when the audio could not be analysed.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/mager/chordlegend/timeline"
	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"
)

//go:embed songs.yaml
var embedded []byte

var ErrEmpty = errors.New("catalog: no songs")

const (
	// MinWordRatio is the share of a song's title words that must appear in
	// a video title for a direct match.
	MinWordRatio = 0.5
	// MinFuzzyScore is the threshold for the typo tolerant fallback.
	MinFuzzyScore = 0.6
	// fuzzy per-word similarity below this counts as no match
	minWordSimilarity = 0.6
)

// words too common to identify a song by themselves
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "it": true, "to": true, "of": true,
	"be": true, "in": true, "on": true, "me": true, "my": true, "o": true,
}

type Song struct {
	Title         string          `json:"title" yaml:"title"`
	Artist        string          `json:"artist,omitempty" yaml:"artist"`
	Aliases       []string        `json:"aliases,omitempty" yaml:"aliases"`
	Key           string          `json:"key" yaml:"key"`
	BPM           float64         `json:"bpm" yaml:"bpm"`
	TimeSignature string          `json:"time_signature" yaml:"time_signature"`
	Duration      float64         `json:"duration" yaml:"duration"`
	Structure     []string        `json:"structure" yaml:"structure"`
	Progression   []timeline.Step `json:"progression" yaml:"progression"`
}

// BeatsPerMeasure reads the numerator of the time signature, 4 when unset.
func (s Song) BeatsPerMeasure() int {
	num, _, _ := strings.Cut(s.TimeSignature, "/")
	var n int
	if _, err := fmt.Sscanf(num, "%d", &n); err != nil || n <= 0 {
		return 4
	}
	return n
}

type file struct {
	Songs     []Song             `yaml:"songs"`
	Durations map[string]float64 `yaml:"durations"`
}

// Catalog is safe for concurrent use; Reload swaps the contents atomically.
type Catalog struct {
	mu        sync.RWMutex
	songs     []Song
	durations map[string]float64
	patterns  []string
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := c.load(data); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(embedded)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog from path, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Reload replaces the contents with the file at path. On error the current
// contents are kept.
func (c *Catalog) Reload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	return c.load(data)
}

func (c *Catalog) load(data []byte) error {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmpty
		}
		return fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Songs) == 0 {
		return ErrEmpty
	}

	songs := make([]Song, 0, len(f.Songs))
	durations := make(map[string]float64, len(f.Durations)+len(f.Songs))
	for k, v := range f.Durations {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && v > 0 {
			durations[k] = v
		}
	}
	for i, s := range f.Songs {
		s.Title = strings.ToLower(strings.TrimSpace(s.Title))
		if s.Title == "" {
			return fmt.Errorf("parse catalog: song %d has no title", i)
		}
		if len(s.Progression) == 0 {
			return fmt.Errorf("parse catalog: %q has no progression", s.Title)
		}
		if s.Duration > 0 {
			durations[s.Title] = s.Duration
		}
		songs = append(songs, s)
	}

	// longest pattern first so "let it be" wins over a shorter substring
	patterns := maps.Keys(durations)
	sort.Slice(patterns, func(i, j int) bool {
		if len(patterns[i]) != len(patterns[j]) {
			return len(patterns[i]) > len(patterns[j])
		}
		return patterns[i] < patterns[j]
	})

	c.mu.Lock()
	c.songs = songs
	c.durations = durations
	c.patterns = patterns
	c.mu.Unlock()
	return nil
}

// Songs returns a copy of the known songs.
func (c *Catalog) Songs() []Song {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Song, len(c.songs))
	copy(out, c.songs)
	return out
}

// KnownDuration finds a recording length for a title (or any text that
// contains the song name).
func (c *Catalog) KnownDuration(text string) (float64, bool) {
	t := strings.ToLower(text)
	if strings.TrimSpace(t) == "" {
		return 0, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.patterns {
		if strings.Contains(t, p) {
			return c.durations[p], true
		}
	}
	return 0, false
}

// Match finds the best known song for a video title. The returned ratio is
// in [0, 1]; direct word matches score at least MinWordRatio, typo tolerant
// matches at least MinFuzzyScore.
func (c *Catalog) Match(title string) (Song, float64, bool) {
	words := tokenize(title)
	if len(words) == 0 {
		return Song{}, 0, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var (
		best      Song
		bestScore float64
		found     bool
	)
	for _, s := range c.songs {
		for _, name := range append([]string{s.Title}, s.Aliases...) {
			score, ok := matchScore(words, tokenize(name))
			if ok && score > bestScore {
				best, bestScore, found = s, score, true
			}
		}
	}
	return best, bestScore, found
}

// matchScore tries the direct word ratio first and falls back to fuzzy
// similarity.
func matchScore(title, name []string) (float64, bool) {
	if len(name) == 0 {
		return 0, false
	}
	present := make(map[string]bool, len(title))
	for _, w := range title {
		present[w] = true
	}

	var matched int
	var significant bool
	for _, w := range name {
		if present[w] {
			matched++
			if !stopWords[w] {
				significant = true
			}
		}
	}
	ratio := float64(matched) / float64(len(name))
	if ratio >= MinWordRatio && significant {
		return ratio, true
	}

	if fuzzy := fuzzyScore(title, name); fuzzy >= MinFuzzyScore {
		return fuzzy, true
	}
	return 0, false
}

// fuzzyScore averages, over the song's words, the best similarity to any
// title word. Exact words score 1, substrings up to 0.8 and near spellings
// up to 0.6.
func fuzzyScore(title, name []string) float64 {
	var total float64
	var counted int
	for _, nw := range name {
		if len(nw) < 2 {
			continue
		}
		counted++
		var best float64
		for _, tw := range title {
			if len(tw) < 2 {
				continue
			}
			var score float64
			switch {
			case tw == nw:
				score = 1
			case strings.Contains(tw, nw) || strings.Contains(nw, tw):
				score = 0.8 * float64(min(len(tw), len(nw))) / float64(max(len(tw), len(nw)))
			default:
				score = similarity(tw, nw)
				if score <= minWordSimilarity {
					score = 0
				}
				score *= 0.6
			}
			best = max(best, score)
		}
		total += best
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

func similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func tokenize(s string) []string {
	s = strings.ReplaceAll(strings.ToLower(s), "'", "")
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

package timeline

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

const (
	MinDetectedDuration     = 0.5
	defaultDetectedDuration = 2.0
)

// Detection is a chord change reported by the audio analysis backend.
type Detection struct {
	Time       float64 `json:"time"`
	Chord      string  `json:"chord"`
	Confidence float64 `json:"confidence"`
	Duration   float64 `json:"duration,omitempty"`
	Beat       int     `json:"beat,omitempty"`
}

// FromDetections turns chord changes into a timeline. Each chord lasts until
// the next change; the final one uses its reported duration (at least 2s).
// Changes closer than MinDetectedDuration to the previous one are dropped and
// repeated chords are merged. Silence before the first change is kept as a gap.
func FromDetections(ds []Detection) Timeline {
	kept := make([]Detection, 0, len(ds))
	for _, d := range ds {
		d.Chord = strings.TrimSpace(d.Chord)
		if d.Chord == "" || d.Time < 0 || math.IsNaN(d.Time) || math.IsInf(d.Time, 0) {
			continue
		}
		kept = append(kept, d)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Time < kept[j].Time
	})

	merged := kept[:0]
	for _, d := range kept {
		if n := len(merged); n > 0 {
			prev := &merged[n-1]
			if d.Chord == prev.Chord || d.Time-prev.Time < MinDetectedDuration {
				prev.Confidence = math.Max(prev.Confidence, d.Confidence)
				if d.Duration > 0 {
					prev.Duration = d.Time + d.Duration - prev.Time
				}
				continue
			}
		}
		merged = append(merged, d)
	}

	entries := make([]Entry, 0, len(merged))
	for i, d := range merged {
		var dur float64
		if i+1 < len(merged) {
			dur = merged[i+1].Time - d.Time
		} else {
			dur = math.Max(defaultDetectedDuration, d.Duration)
		}

		conf := d.Confidence
		if math.IsNaN(conf) || conf <= 0 {
			conf = defaultConfidence
		}

		entries = append(entries, Entry{
			Chord:      d.Chord,
			StartTime:  d.Time,
			Duration:   dur,
			Confidence: math.Min(1, conf),
			Source:     SourceDetected,
		})
	}

	tl := Timeline{Entries: entries}
	if n := len(entries); n > 0 {
		tl.Duration = entries[n-1].End()
	}
	return tl
}

// FilterConfidence drops detections below threshold.
func FilterConfidence(ds []Detection, threshold float64) []Detection {
	if threshold <= 0 {
		return ds
	}
	out := make([]Detection, 0, len(ds))
	for _, d := range ds {
		if d.Confidence >= threshold {
			out = append(out, d)
		}
	}
	return out
}

// DetectKey guesses the key as the most frequent chord root. Ties go to the
// root heard first.
func DetectKey(tl Timeline) string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, e := range tl.Entries {
		root := Root(e.Chord)
		if root == "" {
			continue
		}
		if _, ok := firstSeen[root]; !ok {
			firstSeen[root] = i
		}
		counts[root]++
	}
	if len(counts) == 0 {
		return "C"
	}

	roots := maps.Keys(counts)
	sort.Slice(roots, func(i, j int) bool {
		if counts[roots[i]] != counts[roots[j]] {
			return counts[roots[i]] > counts[roots[j]]
		}
		return firstSeen[roots[i]] < firstSeen[roots[j]]
	})
	return roots[0]
}

// EstimateBPM assumes one chord per 4/4 bar and derives a tempo from the mean
// chord length, clamped to [60, 200].
func EstimateBPM(tl Timeline) int {
	if len(tl.Entries) < 2 {
		return int(DefaultBPM)
	}
	var total float64
	for _, e := range tl.Entries {
		total += e.Duration
	}
	avg := total / float64(len(tl.Entries))
	if avg <= 0 {
		return int(DefaultBPM)
	}
	bpm := 60 / avg * 4
	return int(math.Round(math.Max(60, math.Min(200, bpm))))
}

// Root returns the root note of a chord symbol ("F#m7" -> "F#", "Bbmaj7" -> "Bb").
func Root(chord string) string {
	chord = strings.TrimSpace(chord)
	if chord == "" {
		return ""
	}
	letter := strings.ToUpper(chord[:1])
	if letter < "A" || letter > "G" {
		return ""
	}
	if len(chord) > 1 && (chord[1] == '#' || chord[1] == 'b') {
		return letter + chord[1:2]
	}
	return letter
}

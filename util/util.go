package util

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
)

var (
	videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

	// path prefixes that are followed by the video ID
	videoPathPrefixes = []string{"/embed/", "/v/", "/shorts/", "/live/", "/e/"}

	// bracketed video decorations: "(Official Video)", "[HD]", "(Remastered 2009)"
	bracketed   = regexp.MustCompile(`\s*[\(\[][^\)\]]*[\)\]]`)
	decorations = regexp.MustCompile(`(?i)\s+(official\s+(music\s+)?(video|audio)|lyrics?(\s+video)?|hd|4k)\s*$`)
	featuring   = regexp.MustCompile(`(?i)\s+(feat\.?|ft\.?|featuring)\s+.*$`)
)

// ExtractVideoID returns the 11 character YouTube video ID from a watch,
// short, embed or shorts URL. A bare ID is returned as is. The second
// return value is false when no ID could be found.
func ExtractVideoID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if videoIDPattern.MatchString(s) {
		return s, true
	}

	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch {
	case host == "youtu.be":
		id = strings.Trim(u.Path, "/")
	case host == "youtube.com" || host == "music.youtube.com" || host == "youtube-nocookie.com":
		if v := u.Query().Get("v"); v != "" {
			id = v
			break
		}
		for _, prefix := range videoPathPrefixes {
			if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
				id, _, _ = strings.Cut(rest, "/")
				break
			}
		}
	}

	if !videoIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

// WatchURL builds the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// FormatTimestamp renders seconds as m:ss, or h:mm:ss past an hour.
// Negative and NaN values render as 0:00.
func FormatTimestamp(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// CleanTitle strips the decorations video titles carry around the song name.
func CleanTitle(title string) string {
	t := bracketed.ReplaceAllString(title, "")
	t = decorations.ReplaceAllString(t, "")
	return strings.Join(strings.Fields(t), " ")
}

// SplitTitle splits "Artist ft. Guest - Song (Official Video)" into artist
// and song. Titles without a separator return an empty artist.
func SplitTitle(title string) (artist, song string) {
	t := CleanTitle(title)
	for _, sep := range []string{" - ", " – ", " — ", " | "} {
		if a, s, ok := strings.Cut(t, sep); ok {
			artist = featuring.ReplaceAllString(strings.TrimSpace(a), "")
			song = featuring.ReplaceAllString(strings.TrimSpace(s), "")
			return artist, song
		}
	}
	return "", featuring.ReplaceAllString(t, "")
}

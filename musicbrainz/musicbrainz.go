package musicbrainz

import (
	"context"
	"sort"

	"github.com/mager/chordlegend/util"
	"github.com/mager/musicbrainz-go/musicbrainz"
)

type MusicbrainzClient struct {
	Client *musicbrainz.MusicbrainzClient
}

func ProvideMusicbrainz() *MusicbrainzClient {
	var c MusicbrainzClient
	c.Client = musicbrainz.NewMusicbrainzClient().
		WithUserAgent("chordlegend", "1.0.0", "https://github.com/mager/chordlegend")

	return &c
}

var Options = ProvideMusicbrainz

// Genres returns the genres voted on the best matching recording for a
// video title, most voted first. Titles without an "Artist - Song" shape
// are not searched.
func (c *MusicbrainzClient) Genres(ctx context.Context, title string) ([]string, error) {
	artist, song := util.SplitTitle(title)
	if artist == "" || song == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := c.Client.SearchRecordingsByArtistAndTrack(musicbrainz.SearchRecordingsByArtistAndTrackRequest{
		Artist: artist,
		Track:  song,
	})
	if err != nil {
		return nil, err
	}
	if resp.Count == 0 || len(resp.Recordings) == 0 {
		return nil, nil
	}

	rec := resp.Recordings[0]
	if rec.Genres == nil {
		return nil, nil
	}
	genres := *rec.Genres
	sort.SliceStable(genres, func(i, j int) bool {
		return genres[i].Count > genres[j].Count
	})

	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names, nil
}

package spotify

import (
	"context"
	"errors"
	"net/http"

	"github.com/mager/chordlegend/chordlegend"
	"github.com/mager/chordlegend/config"
	"github.com/mager/chordlegend/theory"
	"github.com/mager/chordlegend/util"
	spot "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrNotFound means the search returned no tracks.
var ErrNotFound = errors.New("spotify: track not found")

type SpotifyClient struct {
	Client *spot.Client
	ID     string
	Secret string

	log *zap.SugaredLogger
}

// ProvideSpotify builds an app-level client using the client credentials
// flow. Without credentials the client is left nil and lookups are skipped.
func ProvideSpotify(cfg config.Config, log *zap.SugaredLogger) *SpotifyClient {
	c := SpotifyClient{ID: cfg.SpotifyID, Secret: cfg.SpotifySecret, log: log}
	if !c.Enabled() {
		log.Info("spotify credentials not set, skipping spotify client")
		return &c
	}

	log.Info("setting up spotify client")
	cc := &clientcredentials.Config{
		ClientID:     cfg.SpotifyID,
		ClientSecret: cfg.SpotifySecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	// tokens are fetched lazily and refreshed by the oauth2 transport
	c.Client = spot.New(cc.Client(context.Background()))
	return &c
}

var Options = ProvideSpotify

// NewWithHTTPClient wires a client to an arbitrary API base URL.
func NewWithHTTPClient(log *zap.SugaredLogger, httpClient *http.Client, baseURL string) *SpotifyClient {
	return &SpotifyClient{
		Client: spot.New(httpClient, spot.WithBaseURL(baseURL)),
		ID:     "custom",
		Secret: "custom",
		log:    log,
	}
}

// Enabled reports whether credentials were configured.
func (c *SpotifyClient) Enabled() bool {
	return c != nil && c.ID != "" && c.Secret != ""
}

// LookupTrack searches for the best matching track for a video title and
// fills in its length, tempo, key and meter. Audio features are optional;
// when Spotify refuses them the track length is still returned.
func (c *SpotifyClient) LookupTrack(ctx context.Context, title string) (*chordlegend.TrackMeta, error) {
	if !c.Enabled() || c.Client == nil {
		return nil, ErrNotFound
	}

	query := util.CleanTitle(title)
	if artist, song := util.SplitTitle(title); artist != "" {
		query = "track:" + song + " artist:" + artist
	}

	results, err := c.Client.Search(ctx, query, spot.SearchTypeTrack, spot.Limit(1))
	if err != nil {
		return nil, err
	}
	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		return nil, ErrNotFound
	}
	track := results.Tracks.Tracks[0]

	meta := &chordlegend.TrackMeta{
		Name:     track.Name,
		Artist:   firstArtist(track.Artists),
		Duration: float64(int(track.Duration)) / 1000,
	}

	features, err := c.Client.GetAudioFeatures(ctx, track.ID)
	if err != nil {
		c.log.Warnw("Failed to fetch audio features", "track", track.ID, "error", err)
		return meta, nil
	}
	if len(features) > 0 && features[0] != nil {
		f := features[0]
		meta.Tempo = float64(f.Tempo)
		meta.Key = theory.KeyFromPitchClass(int(f.Key), int(f.Mode))
		meta.TimeSignature = int(f.TimeSignature)
	}
	return meta, nil
}

func firstArtist(artists []spot.SimpleArtist) string {
	if len(artists) == 0 {
		return ""
	}
	return artists[0].Name
}

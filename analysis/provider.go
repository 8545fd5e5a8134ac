package analysis

import (
	"github.com/mager/chordlegend/catalog"
	"github.com/mager/chordlegend/config"
	"github.com/mager/chordlegend/detector"
	"github.com/mager/chordlegend/musicbrainz"
	"github.com/mager/chordlegend/spotify"
	"github.com/mager/chordlegend/store"
	"go.uber.org/zap"
)

// ProvideAnalyzer wires the configured providers into an Analyzer. Providers
// without configuration are left out rather than failing every call.
func ProvideAnalyzer(
	log *zap.SugaredLogger,
	cfg config.Config,
	cache store.AnalysisCache,
	cat *catalog.Catalog,
	det *detector.Client,
	spotifyClient *spotify.SpotifyClient,
	musicbrainzClient *musicbrainz.MusicbrainzClient,
) *Analyzer {
	a := New(log, cache, cat)
	if cfg.DefaultDuration > 0 {
		a.DefaultDuration = cfg.DefaultDuration
	}
	if cfg.ConfidenceThreshold >= 0 {
		a.ConfidenceThreshold = cfg.ConfidenceThreshold
	}

	if det.Enabled() {
		a.Detector = det
	}
	if spotifyClient.Enabled() {
		a.Tracks = spotifyClient
	}
	if musicbrainzClient != nil {
		a.Genres = musicbrainzClient
	}

	log.Infow("Analyzer ready",
		"chord_api", a.Detector != nil,
		"spotify", a.Tracks != nil,
		"musicbrainz", a.Genres != nil,
	)
	return a
}

var Options = ProvideAnalyzer

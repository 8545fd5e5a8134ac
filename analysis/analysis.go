// Package analysis turns a YouTube video into a chord timeline. It tries the
// audio analysis backend first, then the catalog of known songs, and falls
// back to a progression predicted from music theory.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mager/chordlegend/catalog"
	"github.com/mager/chordlegend/chordlegend"
	"github.com/mager/chordlegend/detector"
	"github.com/mager/chordlegend/store"
	"github.com/mager/chordlegend/theory"
	"github.com/mager/chordlegend/timeline"
	"github.com/mager/chordlegend/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	UnknownTitle = "Unknown Song"

	DefaultDuration            = 300.0
	DefaultConfidenceThreshold = 0.3
	DefaultRunTimeout          = 2 * time.Minute

	realAudioConfidence = 0.9
	theoryConfidence    = 0.6
)

var (
	ErrMissingVideoID = errors.New("analysis: video id is required")
	ErrInvalidVideoID = errors.New("analysis: not a YouTube video id or url")
)

// Detector finds chord changes in the audio of a video.
type Detector interface {
	Analyze(ctx context.Context, youtubeURL string) (*detector.Result, error)
}

// TrackLookup finds recording metadata for a video title.
type TrackLookup interface {
	LookupTrack(ctx context.Context, title string) (*chordlegend.TrackMeta, error)
}

// GenreLookup finds genre tags for a video title.
type GenreLookup interface {
	Genres(ctx context.Context, title string) ([]string, error)
}

// AnalyzeOptions controls a single Analyze call.
type AnalyzeOptions struct {
	// UseChordAPI asks the audio analysis backend first.
	UseChordAPI bool `json:"use_chord_api"`
	// Refresh ignores a cached analysis.
	Refresh bool `json:"refresh"`
}

type Request struct {
	// VideoID is a YouTube video ID or URL.
	VideoID string  `json:"video_id"`
	Title   string  `json:"title"`
	Options AnalyzeOptions `json:"options"`
}

// Analyzer runs the analysis pipeline. Detector, Tracks and Genres are
// optional.
type Analyzer struct {
	log      *zap.SugaredLogger
	cache    store.AnalysisCache
	catalog  *catalog.Catalog
	Detector Detector
	Tracks   TrackLookup
	Genres   GenreLookup

	DefaultDuration     float64
	ConfidenceThreshold float64
	// RunTimeout bounds one pipeline run, independent of the caller.
	RunTimeout time.Duration

	flight singleflight.Group
	now    func() time.Time
	newID  func() string
}

func New(log *zap.SugaredLogger, cache store.AnalysisCache, cat *catalog.Catalog) *Analyzer {
	return &Analyzer{
		log:                 log,
		cache:               cache,
		catalog:             cat,
		DefaultDuration:     DefaultDuration,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		RunTimeout:          DefaultRunTimeout,
		now:                 time.Now,
		newID:               uuid.NewString,
	}
}

// Analyze returns the chord timeline for a video. Concurrent requests for
// the same video share one run.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*chordlegend.SongAnalysis, error) {
	raw := strings.TrimSpace(req.VideoID)
	if raw == "" {
		return nil, ErrMissingVideoID
	}
	videoID, ok := util.ExtractVideoID(raw)
	if !ok {
		return nil, ErrInvalidVideoID
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = UnknownTitle
	}

	key := fmt.Sprintf("%s|%t|%t", videoID, req.Options.UseChordAPI, req.Options.Refresh)
	timeout := a.RunTimeout
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}
	ch := a.flight.DoChan(key, func() (any, error) {
		// the run outlives the caller that started it; others may be waiting
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		return a.analyze(runCtx, videoID, title, req.Options)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		if r.Shared {
			a.log.Debugw("Shared in-flight analysis", "video_id", videoID)
		}
		return clone(r.Val.(*chordlegend.SongAnalysis)), nil
	}
}

func clone(a *chordlegend.SongAnalysis) *chordlegend.SongAnalysis {
	res := *a
	res.Chords = slices.Clone(a.Chords)
	res.Genres = slices.Clone(a.Genres)
	return &res
}

// Cached returns the stored analysis of a video without running the
// pipeline.
func (a *Analyzer) Cached(ctx context.Context, video string) (*chordlegend.SongAnalysis, error) {
	videoID, ok := util.ExtractVideoID(video)
	if !ok {
		return nil, ErrInvalidVideoID
	}
	if a.cache == nil {
		return nil, store.ErrNotFound
	}
	return a.cache.Get(ctx, videoID)
}

// Catalog returns the known songs used for pattern matching.
func (a *Analyzer) Catalog() *catalog.Catalog {
	return a.catalog
}

func (a *Analyzer) analyze(ctx context.Context, videoID, title string, opts AnalyzeOptions) (*chordlegend.SongAnalysis, error) {
	l := a.log.With("video_id", videoID, "title", title)

	if !opts.Refresh && a.cache != nil {
		cached, err := a.cache.Get(ctx, videoID)
		switch {
		case err == nil:
			l.Infow("Using cached analysis", "method", cached.Method)
			return cached, nil
		case !errors.Is(err, store.ErrNotFound):
			l.Warnw("Failed to read analysis cache", "error", err)
		}
	}

	var (
		res *chordlegend.SongAnalysis
		err error
	)
	if opts.UseChordAPI {
		res, err = a.fromAudio(ctx, l, videoID, title)
		if err != nil {
			return nil, err
		}
	}
	if res == nil {
		res, err = a.predict(ctx, l, videoID, title)
		if err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.ID = a.newID()
	res.VideoID = videoID
	res.CreatedAt = a.now().UTC()
	if res.SongTitle == "" {
		res.SongTitle = title
	}

	l.Infow("Analysis complete",
		"method", res.Method,
		"chords", len(res.Chords),
		"duration", res.Duration,
		"confidence", res.Confidence,
	)

	if a.cache != nil {
		if err := a.cache.Put(ctx, res); err != nil {
			l.Warnw("Failed to cache analysis", "error", err)
		}
	}
	return res, nil
}

// fromAudio runs the backend detector. A detector failure returns a nil
// analysis so the caller can fall back to prediction; only a done context is
// an error.
func (a *Analyzer) fromAudio(ctx context.Context, l *zap.SugaredLogger, videoID, title string) (*chordlegend.SongAnalysis, error) {
	if a.Detector == nil {
		return nil, nil
	}
	result, err := a.Detector.Analyze(ctx, util.WatchURL(videoID))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, detector.ErrDisabled) {
			l.Debugw("Chord detection backend disabled")
		} else {
			l.Warnw("Chord detection failed, predicting instead", "error", err)
		}
		return nil, nil
	}

	detections := timeline.FilterConfidence(result.Detections, a.ConfidenceThreshold)
	tl := timeline.FromDetections(detections)
	if len(tl.Entries) == 0 {
		l.Infow("Chord detection found no usable chords", "detections", len(result.Detections))
		return nil, nil
	}
	if result.Duration > tl.Duration && result.Duration <= timeline.MaxDuration {
		tl.Duration = result.Duration
	}

	songTitle := title
	if title == UnknownTitle && result.Title != "" {
		songTitle = result.Title
	}

	return &chordlegend.SongAnalysis{
		SongTitle:     songTitle,
		Chords:        tl.Entries,
		Duration:      tl.Duration,
		Key:           timeline.DetectKey(tl),
		TimeSignature: "4/4",
		BPM:           float64(timeline.EstimateBPM(tl)),
		Method:        chordlegend.MethodRealAudio,
		Confidence:    realAudioConfidence,
	}, nil
}

// predict builds a timeline from the catalog or, failing that, from theory.
func (a *Analyzer) predict(ctx context.Context, l *zap.SugaredLogger, videoID, title string) (*chordlegend.SongAnalysis, error) {
	meta := a.enrich(ctx, l, title)
	duration := a.duration(title, meta)
	seed := seedFor(videoID)

	if a.catalog != nil {
		if song, ratio, ok := a.catalog.Match(title); ok {
			tl, err := timeline.Generate(song.Progression, song.BPM, duration, timeline.Options{
				Strategy:        timeline.StrategyVaried,
				BeatsPerMeasure: song.BeatsPerMeasure(),
				Seed:            seed,
			})
			if err == nil {
				l.Infow("Matched known song", "song", song.Title, "ratio", ratio)
				return &chordlegend.SongAnalysis{
					Chords:        tl.Entries,
					Duration:      tl.Duration,
					Key:           song.Key,
					TimeSignature: song.TimeSignature,
					BPM:           song.BPM,
					Genres:        meta.Genres,
					Method:        fmt.Sprintf("%s (%s)", chordlegend.MethodPattern, song.Title),
					Confidence:    0.85 + 0.1*ratio,
				}, nil
			}
			l.Warnw("Failed to time known song", "song", song.Title, "error", err)
		}
	}

	hints := theory.HintsFromTitle(title)
	genre := hints.Genre
	if g := theory.GenreFromTags(meta.Genres); g != "" {
		genre = g
	}
	key := hints.Key
	if meta.Key != "" {
		key = meta.Key
	}
	bpm := theory.GenreBPM(genre)
	if meta.Tempo > 0 {
		bpm = meta.Tempo
	}
	timeSignature := "4/4"
	if meta.TimeSignature >= 3 && meta.TimeSignature <= 7 {
		timeSignature = fmt.Sprintf("%d/4", meta.TimeSignature)
	}

	tl, err := theory.DynamicTimeline(key, genre, bpm, duration, theoryConfidence)
	if err != nil {
		return nil, fmt.Errorf("predict chords: %w", err)
	}
	l.Infow("Predicted chords from theory", "genre", genre, "key", key, "mood", hints.Mood, "bpm", bpm)

	return &chordlegend.SongAnalysis{
		Chords:        tl.Entries,
		Duration:      tl.Duration,
		Key:           key,
		TimeSignature: timeSignature,
		BPM:           bpm,
		Genres:        meta.Genres,
		Method:        chordlegend.MethodTheoryFallback,
		Confidence:    theoryConfidence,
	}, nil
}

// enrich asks the metadata providers in parallel. Failures only cost us the
// metadata they would have provided.
func (a *Analyzer) enrich(ctx context.Context, l *zap.SugaredLogger, title string) chordlegend.TrackMeta {
	var (
		meta   chordlegend.TrackMeta
		genres []string
	)
	if title == UnknownTitle {
		return meta
	}

	g, gctx := errgroup.WithContext(ctx)
	if a.Tracks != nil {
		g.Go(func() error {
			m, err := a.Tracks.LookupTrack(gctx, title)
			if err != nil {
				l.Infow("Track lookup failed", "error", err)
				return nil
			}
			meta = *m
			return nil
		})
	}
	if a.Genres != nil {
		g.Go(func() error {
			gs, err := a.Genres.Genres(gctx, title)
			if err != nil {
				l.Infow("Genre lookup failed", "error", err)
				return nil
			}
			genres = gs
			return nil
		})
	}
	g.Wait()

	if len(genres) > 0 {
		meta.Genres = genres
	}
	return meta
}

// duration picks the song length: a known recording, then the metadata
// provider, then the configured default.
func (a *Analyzer) duration(title string, meta chordlegend.TrackMeta) float64 {
	if a.catalog != nil {
		if d, ok := a.catalog.KnownDuration(title); ok {
			return d
		}
	}
	if meta.Duration > 0 && meta.Duration <= timeline.MaxDuration {
		return meta.Duration
	}
	if a.DefaultDuration > 0 {
		return a.DefaultDuration
	}
	return DefaultDuration
}

// seedFor keeps predicted timings stable across runs for the same video.
func seedFor(videoID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(videoID))
	return int64(h.Sum64())
}

package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/mager/chordlegend/chordlegend"
	"github.com/mager/chordlegend/config"
	"github.com/mager/chordlegend/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const analysesCollection = "analyses"

// ProvideDB provides a firestore client, or nil when no project is
// configured.
func ProvideDB(lc fx.Lifecycle, log *zap.SugaredLogger, cfg config.Config) (*firestore.Client, error) {
	if cfg.FirestoreProject == "" {
		log.Info("No firestore project configured, analyses are cached in memory")
		return nil, nil
	}

	client, err := firestore.NewClient(context.Background(), cfg.FirestoreProject)
	if err != nil {
		log.Errorw("Failed to create firestore client", "project", cfg.FirestoreProject, "error", err)
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

var Options = ProvideDB

// ProvideAnalysisCache caches analyses in firestore when a client exists.
func ProvideAnalysisCache(client *firestore.Client) store.AnalysisCache {
	if client == nil {
		return store.NewMemoryAnalysisCache()
	}
	return NewAnalysisCache(client)
}

// AnalysisCache stores one document per video ID.
type AnalysisCache struct {
	client     *firestore.Client
	collection string
}

func NewAnalysisCache(client *firestore.Client) *AnalysisCache {
	return &AnalysisCache{client: client, collection: analysesCollection}
}

func (c *AnalysisCache) Get(ctx context.Context, videoID string) (*chordlegend.SongAnalysis, error) {
	doc, err := c.client.Collection(c.collection).Doc(videoID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var a chordlegend.SongAnalysis
	if err := doc.DataTo(&a); err != nil {
		return nil, fmt.Errorf("decode analysis %s: %w", videoID, err)
	}
	return &a, nil
}

func (c *AnalysisCache) Put(ctx context.Context, a *chordlegend.SongAnalysis) error {
	_, err := c.client.Collection(c.collection).Doc(a.VideoID).Set(ctx, a)
	return err
}

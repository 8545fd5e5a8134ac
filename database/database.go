package database

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/mager/chordlegend/config"
	"github.com/mager/chordlegend/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS favorites (
		user_id       TEXT NOT NULL,
		video_id      TEXT NOT NULL,
		title         TEXT NOT NULL DEFAULT '',
		timing_offset DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, video_id)
	)`,
	`CREATE INDEX IF NOT EXISTS favorites_user_updated_idx ON favorites (user_id, updated_at DESC)`,
}

// ProvideDatabase provides a postgres client, or nil when no database is
// configured.
func ProvideDatabase(lc fx.Lifecycle, logger *zap.SugaredLogger, cfg config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		logger.Info("No database configured, favorites are kept in memory")
		return nil, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Errorw("Failed to open database connection", "error", err)
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		logger.Errorw("Failed to ping database", "error", err)
		return nil, err
	}

	if err := Migrate(context.Background(), db); err != nil {
		logger.Errorw("Failed to migrate database", "error", err)
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return db.Close()
		},
	})
	return db, nil
}

// Migrate creates the tables the service needs.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// ProvideFavorites backs favorites with postgres when a database is
// available.
func ProvideFavorites(db *sql.DB) store.Favorites {
	if db == nil {
		return store.NewMemoryFavorites()
	}
	return NewFavorites(db)
}

var Options = ProvideDatabase

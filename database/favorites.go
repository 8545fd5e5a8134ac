package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mager/chordlegend/chordlegend"
	"github.com/mager/chordlegend/store"
)

const (
	listFavorites = `SELECT user_id, video_id, title, timing_offset, created_at, updated_at
		FROM favorites WHERE user_id = $1 ORDER BY updated_at DESC, video_id`
	getFavorite = `SELECT user_id, video_id, title, timing_offset, created_at, updated_at
		FROM favorites WHERE user_id = $1 AND video_id = $2`
	upsertFavorite = `INSERT INTO favorites (user_id, video_id, title, timing_offset)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, video_id)
		DO UPDATE SET title = EXCLUDED.title, timing_offset = EXCLUDED.timing_offset, updated_at = now()
		RETURNING created_at, updated_at`
	deleteFavorite = `DELETE FROM favorites WHERE user_id = $1 AND video_id = $2`
)

// Favorites stores the favorites library in postgres.
type Favorites struct {
	db *sql.DB
}

func NewFavorites(db *sql.DB) *Favorites {
	return &Favorites{db: db}
}

func (f *Favorites) List(ctx context.Context, userID string) ([]chordlegend.Favorite, error) {
	rows, err := f.db.QueryContext(ctx, listFavorites, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favs := []chordlegend.Favorite{}
	for rows.Next() {
		var fav chordlegend.Favorite
		if err := rows.Scan(&fav.UserID, &fav.VideoID, &fav.Title, &fav.Offset, &fav.CreatedAt, &fav.UpdatedAt); err != nil {
			return nil, err
		}
		favs = append(favs, fav)
	}
	return favs, rows.Err()
}

func (f *Favorites) Get(ctx context.Context, userID, videoID string) (*chordlegend.Favorite, error) {
	var fav chordlegend.Favorite
	err := f.db.QueryRowContext(ctx, getFavorite, userID, videoID).
		Scan(&fav.UserID, &fav.VideoID, &fav.Title, &fav.Offset, &fav.CreatedAt, &fav.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

func (f *Favorites) Put(ctx context.Context, fav chordlegend.Favorite) (*chordlegend.Favorite, error) {
	err := f.db.QueryRowContext(ctx, upsertFavorite, fav.UserID, fav.VideoID, fav.Title, fav.Offset).
		Scan(&fav.CreatedAt, &fav.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

func (f *Favorites) Delete(ctx context.Context, userID, videoID string) error {
	res, err := f.db.ExecContext(ctx, deleteFavorite, userID, videoID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

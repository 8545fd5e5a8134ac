package database

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mager/chordlegend/chordlegend"
	"github.com/mager/chordlegend/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"user_id", "video_id", "title", "timing_offset", "created_at", "updated_at"}

func newMock(t *testing.T) (*Favorites, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewFavorites(db), mock
}

func TestFavoritesList(t *testing.T) {
	f, mock := newMock(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(listFavorites)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("u1", "dQw4w9WgXcQ", "Never Gonna", 0.5, now, now).
			AddRow("u1", "aaaaaaaaaaa", "Other", 0.0, now, now))

	favs, err := f.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, chordlegend.Favorite{
		UserID: "u1", VideoID: "dQw4w9WgXcQ", Title: "Never Gonna", Offset: 0.5,
		CreatedAt: now, UpdatedAt: now,
	}, favs[0])
}

func TestFavoritesGetNotFound(t *testing.T) {
	f, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(getFavorite)).
		WithArgs("u1", "missing0000").
		WillReturnError(sql.ErrNoRows)

	_, err := f.Get(context.Background(), "u1", "missing0000")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFavoritesPut(t *testing.T) {
	f, mock := newMock(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(upsertFavorite)).
		WithArgs("u1", "dQw4w9WgXcQ", "Never Gonna", -0.3).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, updated))

	fav, err := f.Put(context.Background(), chordlegend.Favorite{
		UserID: "u1", VideoID: "dQw4w9WgXcQ", Title: "Never Gonna", Offset: -0.3,
	})
	require.NoError(t, err)
	assert.Equal(t, created, fav.CreatedAt)
	assert.Equal(t, updated, fav.UpdatedAt)
}

func TestFavoritesDelete(t *testing.T) {
	f, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(deleteFavorite)).
		WithArgs("u1", "dQw4w9WgXcQ").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteFavorite)).
		WithArgs("u1", "dQw4w9WgXcQ").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, f.Delete(context.Background(), "u1", "dQw4w9WgXcQ"))
	assert.ErrorIs(t, f.Delete(context.Background(), "u1", "dQw4w9WgXcQ"), store.ErrNotFound)
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for _, m := range migrations {
		mock.ExpectExec(regexp.QuoteMeta(m)).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProvideFavoritesFallsBackToMemory(t *testing.T) {
	_, ok := ProvideFavorites(nil).(*store.MemoryFavorites)
	assert.True(t, ok)
}

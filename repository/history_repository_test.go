// file: repository/history_repository_test.go

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func historyColumns() []string {
	return []string{"id", "owner_id", "title", "thumbnail", "duration", "views", "created_at", "username", "fullname", "avatar"}
}

func TestHistoryRepository_GetWatchHistory(t *testing.T) {
	t.Run("rows keep their stored order and carry owner public fields", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewHistoryRepository(db)

		now := time.Now()
		rows := sqlmock.NewRows(historyColumns()).
			AddRow(1, 11, "first video", "http://cdn/t1.png", 120, 1000, now, "u1", "Owner One", "http://cdn/u1.png").
			AddRow(2, 12, "second video", "http://cdn/t2.png", 90, 20, now, "u2", "Owner Two", "http://cdn/u2.png")
		mock.ExpectQuery(`SELECT v.id, v.owner_id, v.title`).
			WithArgs(7).
			WillReturnRows(rows)

		entries, err := repo.GetWatchHistory(context.Background(), 7)

		assert.NoError(t, err)
		assert.Len(t, entries, 2)
		assert.Equal(t, "first video", entries[0].Video.Title)
		assert.Equal(t, "u1", entries[0].Owner.Username)
		assert.Equal(t, "second video", entries[1].Video.Title)
		assert.Equal(t, "u2", entries[1].Owner.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty history yields an empty slice", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewHistoryRepository(db)

		mock.ExpectQuery(`SELECT v.id, v.owner_id, v.title`).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows(historyColumns()))

		entries, err := repo.GetWatchHistory(context.Background(), 7)

		assert.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})
}

// file: repository/user_repository_test.go

package repository

import (
	"context"
	"testing"
	"time"
	"vidtube-api/logger"
	"vidtube-api/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func init() {
	logger.Init()
}

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)
	user := &model.User{
		Username: "chai",
		Email:    "chai@example.com",
		Fullname: "Chai",
		Password: "$2a$10$digest",
		Avatar:   "http://cdn/a.png",
	}

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(user.Username, user.Email, user.Fullname, user.Password, user.Avatar, user.CoverImage).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))

	err = repo.CreateUser(context.Background(), user)

	assert.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetPublicUserByID_ExcludesSecrets(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "fullname", "avatar", "cover_image", "created_at"}).
		AddRow(1, "chai", "chai@example.com", "Chai", "http://cdn/a.png", "", time.Now())
	mock.ExpectQuery(`SELECT id, username, email, fullname, avatar, cover_image, created_at`).
		WithArgs(1).
		WillReturnRows(rows)

	user, err := repo.GetPublicUserByID(context.Background(), 1)

	assert.NoError(t, err)
	assert.Empty(t, user.Password)
	assert.Empty(t, user.RefreshToken)
	assert.Equal(t, "chai", user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_RotateRefreshToken(t *testing.T) {
	t.Run("matching stored token rotates", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewUserRepository(db)

		mock.ExpectExec(`UPDATE users SET refresh_token = \$1 WHERE id = \$2 AND refresh_token = \$3`).
			WithArgs("new-token", 1, "old-token").
			WillReturnResult(sqlmock.NewResult(0, 1))

		rotated, err := repo.RotateRefreshToken(context.Background(), 1, "old-token", "new-token")

		assert.NoError(t, err)
		assert.True(t, rotated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale token affects no rows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewUserRepository(db)

		mock.ExpectExec(`UPDATE users SET refresh_token = \$1 WHERE id = \$2 AND refresh_token = \$3`).
			WithArgs("new-token", 1, "stale-token").
			WillReturnResult(sqlmock.NewResult(0, 0))

		rotated, err := repo.RotateRefreshToken(context.Background(), 1, "stale-token", "new-token")

		assert.NoError(t, err)
		assert.False(t, rotated)
	})
}

func TestUserRepository_SetRefreshToken_Clear(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	// Clearing an already-empty slot still succeeds.
	mock.ExpectExec(`UPDATE users SET refresh_token = \$1 WHERE id = \$2`).
		WithArgs("", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SetRefreshToken(context.Background(), 5, "")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"database/sql"
	"vidtube-api/logger"
	"vidtube-api/model"

	"github.com/sirupsen/logrus"
)

// IUserRepository defines the contract for account persistence. The refresh
// token lives in a single slot on the user row; RotateRefreshToken is the
// only way to swap it conditionally.
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int) (*model.User, error)
	GetPublicUserByID(ctx context.Context, id int) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	SetRefreshToken(ctx context.Context, userID int, token string) error
	RotateRefreshToken(ctx context.Context, userID int, oldToken, newToken string) (bool, error)
	UpdatePassword(ctx context.Context, userID int, digest string) error
	UpdateProfile(ctx context.Context, userID int, fullname, email string) (*model.User, error)
	UpdateAvatar(ctx context.Context, userID int, url string) (*model.User, error)
	UpdateCoverImage(ctx context.Context, userID int, url string) (*model.User, error)
}

// UserRepository implements IUserRepository on PostgreSQL.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"username": user.Username,
		"email":    user.Email,
	})
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (username, email, fullname, password, avatar, cover_image)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.Fullname, user.Password, user.Avatar, user.CoverImage,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}
	return nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, username, email, fullname, password, avatar, cover_image, refresh_token, created_at
	          FROM users WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.Fullname, &user.Password,
		&user.Avatar, &user.CoverImage, &user.RefreshToken, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetPublicUserByID loads a user without the password digest and refresh
// token. This is the projection the auth middleware attaches to requests.
func (r *UserRepository) GetPublicUserByID(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, username, email, fullname, avatar, cover_image, created_at
	          FROM users WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.Fullname,
		&user.Avatar, &user.CoverImage, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, username, email, fullname, password, avatar, cover_image, refresh_token, created_at
	          FROM users WHERE email = $1`
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Username, &user.Email, &user.Fullname, &user.Password,
		&user.Avatar, &user.CoverImage, &user.RefreshToken, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, username, email, fullname, password, avatar, cover_image, refresh_token, created_at
	          FROM users WHERE username = $1`
	err := r.DB.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.Fullname, &user.Password,
		&user.Avatar, &user.CoverImage, &user.RefreshToken, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)`
	err := r.DB.QueryRowContext(ctx, query, username, email).Scan(&exists)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute user existence query")
		return false, err
	}
	return exists, nil
}

// SetRefreshToken overwrites the stored refresh token unconditionally.
// Login stores the new token; logout passes the empty string to clear the
// slot, which succeeds even if it was already empty.
func (r *UserRepository) SetRefreshToken(ctx context.Context, userID int, token string) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to set refresh token")

	query := `UPDATE users SET refresh_token = $1 WHERE id = $2`
	_, err := r.DB.ExecContext(ctx, query, token, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute set refresh token query")
		return err
	}
	return nil
}

// RotateRefreshToken swaps the stored refresh token only if it still equals
// oldToken. The conditional UPDATE is a single atomic statement, so two
// concurrent refreshes presenting the same stale token cannot both win.
// Returns false when the stored value no longer matches.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, userID int, oldToken, newToken string) (bool, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to rotate refresh token")

	query := `UPDATE users SET refresh_token = $1 WHERE id = $2 AND refresh_token = $3`
	res, err := r.DB.ExecContext(ctx, query, newToken, userID, oldToken)
	if err != nil {
		log.WithError(err).Error("Failed to execute rotate refresh token query")
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, digest string) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to update password digest")

	query := `UPDATE users SET password = $1 WHERE id = $2`
	_, err := r.DB.ExecContext(ctx, query, digest, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update password query")
		return err
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID int, fullname, email string) (*model.User, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to update profile fields")

	user := &model.User{}
	query := `UPDATE users SET fullname = $1, email = $2 WHERE id = $3
	          RETURNING id, username, email, fullname, avatar, cover_image, created_at`
	err := r.DB.QueryRowContext(ctx, query, fullname, email, userID).Scan(
		&user.ID, &user.Username, &user.Email, &user.Fullname,
		&user.Avatar, &user.CoverImage, &user.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute update profile query")
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, userID int, url string) (*model.User, error) {
	return r.updateImage(ctx, userID, "avatar", url)
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, userID int, url string) (*model.User, error) {
	return r.updateImage(ctx, userID, "cover_image", url)
}

func (r *UserRepository) updateImage(ctx context.Context, userID int, column, url string) (*model.User, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"column":  column,
	})
	log.Info("Executing query to update media reference")

	user := &model.User{}
	// column is one of two compile-time constants, never user input.
	query := `UPDATE users SET ` + column + ` = $1 WHERE id = $2
	          RETURNING id, username, email, fullname, avatar, cover_image, created_at`
	err := r.DB.QueryRowContext(ctx, query, url, userID).Scan(
		&user.ID, &user.Username, &user.Email, &user.Fullname,
		&user.Avatar, &user.CoverImage, &user.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute update media reference query")
		return nil, err
	}
	return user, nil
}

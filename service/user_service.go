package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"vidtube-api/logger"
	"vidtube-api/model"
	"vidtube-api/repository"

	"github.com/lib/pq"
)

// ErrUserExists means the requested username or email is already taken.
var ErrUserExists = errors.New("username or email already exists")

const (
	profileCacheTTL       = 5 * time.Minute
	profileCacheKeyFormat = "user_profile:%d"
)

// UserService handles account lifecycle outside of sessions: registration,
// password change, profile and media updates, and the current-user read.
// The current-user profile is cached in Redis and invalidated on every
// mutation; session state is never cached.
type UserService struct {
	userRepo repository.IUserRepository
	auth     *AuthService
	media    IMediaStore
	cache    ICacheClient
}

func NewUserService(userRepo repository.IUserRepository, auth *AuthService, media IMediaStore, cache ICacheClient) *UserService {
	return &UserService{
		userRepo: userRepo,
		auth:     auth,
		media:    media,
		cache:    cache,
	}
}

// Register creates a new account. The username is stored case-folded, the
// password digested. The returned user carries no secret fields.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	username := strings.ToLower(req.Username)

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, username, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	digest, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:   username,
		Email:      req.Email,
		Fullname:   req.Fullname,
		Password:   digest,
		Avatar:     req.Avatar,
		CoverImage: req.Cover,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if isUniqueViolation(err) {
			// Lost a race with a concurrent registration for the same handle.
			return nil, ErrUserExists
		}
		return nil, err
	}

	user.Password = ""
	user.RefreshToken = ""
	return user, nil
}

// GetCurrentUser returns the caller's public profile, served from the cache
// when possible. Cache failures fall through to the database.
func (s *UserService) GetCurrentUser(ctx context.Context, userID int) (*model.User, error) {
	cacheKey := fmt.Sprintf(profileCacheKeyFormat, userID)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			user := &model.User{}
			if err := json.Unmarshal([]byte(cached), user); err == nil {
				return user, nil
			}
		}
	}

	user, err := s.userRepo.GetPublicUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(user); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, profileCacheTTL).Err(); err != nil {
				logger.Log.WithError(err).Warn("Failed to cache user profile")
			}
		}
	}
	return user, nil
}

// ChangePassword verifies the old password before storing a new digest.
func (s *UserService) ChangePassword(ctx context.Context, userID int, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.auth.CheckPasswordHash(oldPassword, user.Password) {
		return ErrInvalidCredentials
	}

	digest, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, digest); err != nil {
		return err
	}

	s.invalidateProfile(ctx, userID)
	return nil
}

// UpdateAccount overwrites the display name and email.
func (s *UserService) UpdateAccount(ctx context.Context, userID int, fullname, email string) (*model.User, error) {
	user, err := s.userRepo.UpdateProfile(ctx, userID, fullname, email)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.invalidateProfile(ctx, userID)
	return user, nil
}

// UpdateAvatar uploads the new image, persists its URL and removes the old
// object best-effort.
func (s *UserService) UpdateAvatar(ctx context.Context, userID int, contentType string, body io.Reader) (*model.User, error) {
	return s.updateImage(ctx, userID, contentType, body, s.userRepo.UpdateAvatar, func(u *model.User) string { return u.Avatar })
}

// UpdateCoverImage is the cover-image counterpart of UpdateAvatar.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID int, contentType string, body io.Reader) (*model.User, error) {
	return s.updateImage(ctx, userID, contentType, body, s.userRepo.UpdateCoverImage, func(u *model.User) string { return u.CoverImage })
}

func (s *UserService) updateImage(
	ctx context.Context,
	userID int,
	contentType string,
	body io.Reader,
	persist func(context.Context, int, string) (*model.User, error),
	current func(*model.User) string,
) (*model.User, error) {
	previous, err := s.userRepo.GetPublicUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.media.Upload(ctx, contentType, body)
	if err != nil {
		return nil, err
	}

	user, err := persist(ctx, userID, url)
	if err != nil {
		return nil, err
	}

	if old := current(previous); old != "" {
		if err := s.media.Delete(ctx, old); err != nil {
			logger.Log.WithError(err).WithField("url", old).Warn("Failed to delete replaced media object")
		}
	}

	s.invalidateProfile(ctx, userID)
	return user, nil
}

func (s *UserService) invalidateProfile(ctx context.Context, userID int) {
	if s.cache == nil {
		return
	}
	cacheKey := fmt.Sprintf(profileCacheKeyFormat, userID)
	if err := s.cache.Del(ctx, cacheKey).Err(); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Warn("Failed to invalidate profile cache")
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

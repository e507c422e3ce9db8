package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"vidtube-api/config"
	"vidtube-api/logger"
	"vidtube-api/model"
	"vidtube-api/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers unknown account and wrong password alike,
	// so login failures don't reveal which part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers bad signature, expiry and unknown subject.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenReused means the presented refresh token was valid once but has
	// already been rotated out (or cleared by logout).
	ErrTokenReused = errors.New("refresh token no longer matches stored session")

	// ErrMissingSecret is a configuration error: a signing secret is empty.
	ErrMissingSecret = errors.New("token signing secret is not configured")
)

// AuthService owns the credential and session lifecycle: password digests,
// token issuance, login, refresh rotation and logout. The signing secrets
// and TTLs come from the injected config, never from globals.
type AuthService struct {
	userRepo repository.IUserRepository
	cfg      config.AuthConfig
}

func NewAuthService(userRepo repository.IUserRepository, cfg config.AuthConfig) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	cost := s.cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash reports whether password matches the stored digest.
// A mismatch is a false return, never an error. The cost factor used for
// verification is the one embedded in the digest, so raising the configured
// cost later does not break existing accounts.
func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (s *AuthService) GenerateAccessToken(userID int) (string, error) {
	return signToken(userID, s.cfg.AccessTokenSecret, s.cfg.AccessTokenTTL())
}

func (s *AuthService) GenerateRefreshToken(userID int) (string, error) {
	return signToken(userID, s.cfg.RefreshTokenSecret, s.cfg.RefreshTokenTTL())
}

func signToken(userID int, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}

	claims := &model.AccessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

// ParseAccessToken verifies signature and expiry of an access token and
// returns its claims. Access tokens are stateless: there is no stored-value
// comparison here.
func (s *AuthService) ParseAccessToken(tokenString string) (*model.AccessClaims, error) {
	return parseToken(tokenString, s.cfg.AccessTokenSecret)
}

func (s *AuthService) parseRefreshToken(tokenString string) (*model.RefreshClaims, error) {
	claims, err := parseToken(tokenString, s.cfg.RefreshTokenSecret)
	if err != nil {
		return nil, err
	}
	return &model.RefreshClaims{UserID: claims.UserID, RegisteredClaims: claims.RegisteredClaims}, nil
}

func parseToken(tokenString, secret string) (*model.AccessClaims, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	claims := &model.AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Login verifies the credential and opens the account's single session:
// it mints a fresh access/refresh pair and stores the refresh token,
// unconditionally replacing whatever session existed before.
func (s *AuthService) Login(ctx context.Context, email, username, password string) (*model.User, *model.TokenPair, error) {
	var (
		user *model.User
		err  error
	)
	if email != "" {
		user, err = s.userRepo.GetUserByEmail(ctx, email)
	} else {
		user, err = s.userRepo.GetUserByUsername(ctx, strings.ToLower(username))
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !s.CheckPasswordHash(password, user.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, nil, err
	}

	user.Password = ""
	user.RefreshToken = ""
	return user, pair, nil
}

// RefreshTokens exchanges a valid refresh token for a new pair and
// invalidates the old one. The steps, in order:
//
//  1. verify signature and expiry,
//  2. load the account named in the claims,
//  3. compare the presented token against the stored session slot,
//  4. swap in the new refresh token with a compare-and-set update.
//
// Step 4 repeats the comparison atomically at the store, so a concurrent
// refresh racing on the same stale token loses even if it passed step 3.
func (s *AuthService) RefreshTokens(ctx context.Context, presented string) (*model.TokenPair, error) {
	claims, err := s.parseRefreshToken(presented)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(presented), []byte(user.RefreshToken)) != 1 {
		logger.Log.WithField("user_id", user.ID).Warn("Refresh token reuse detected")
		return nil, ErrTokenReused
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, err
	}

	rotated, err := s.userRepo.RotateRefreshToken(ctx, user.ID, presented, pair.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !rotated {
		// Lost the race to a concurrent refresh holding the same token.
		logger.Log.WithField("user_id", user.ID).Warn("Refresh token rotation race lost")
		return nil, ErrTokenReused
	}

	return pair, nil
}

// Logout clears the stored refresh token. Clearing an already-empty slot is
// not an error.
func (s *AuthService) Logout(ctx context.Context, userID int) error {
	return s.userRepo.SetRefreshToken(ctx, userID, "")
}

func (s *AuthService) issuePair(userID int) (*model.TokenPair, error) {
	access, err := s.GenerateAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.GenerateRefreshToken(userID)
	if err != nil {
		return nil, err
	}
	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

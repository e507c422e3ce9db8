package model

import "github.com/golang-jwt/jwt/v5"

// AccessClaims ride inside the short-lived access token.
type AccessClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// RefreshClaims ride inside the long-lived refresh token. The token is only
// honored while it matches the value stored on the user row.
type RefreshClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

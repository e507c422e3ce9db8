package model

import "time"

// User is the account entity. Password holds the bcrypt digest and
// RefreshToken the single active session slot; neither is ever serialized.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Fullname     string    `json:"fullname"`
	Password     string    `json:"-"`
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"coverImage,omitempty"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicProfile is the owner projection embedded in denormalized reads.
// It carries only fields safe to show to any caller.
type PublicProfile struct {
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Avatar   string `json:"avatar"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		Username: u.Username,
		Fullname: u.Fullname,
		Avatar:   u.Avatar,
	}
}

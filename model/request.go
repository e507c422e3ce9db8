// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Fullname string `json:"fullname" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=8"`
	Avatar   string `json:"avatar" validate:"required,url"`
	Cover    string `json:"coverImage" validate:"omitempty,url"`
}

// LoginRequest defines the payload for user authentication. Either the
// email or the username may identify the account.
type LoginRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Username string `json:"username" validate:"omitempty,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshRequest carries the refresh token when the client prefers the
// request body over the cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest defines the payload for rotating a password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// UpdateAccountRequest defines the payload for the plain profile edit.
type UpdateAccountRequest struct {
	Fullname string `json:"fullname" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
}

package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"vidtube-api/common"
	"vidtube-api/config"
	"vidtube-api/model"
	"vidtube-api/service"
)

// maxUploadSize bounds avatar and cover uploads.
const maxUploadSize = 5 << 20

type UserHandler struct {
	userService *service.UserService
	authService *service.AuthService
	authCfg     config.AuthConfig
}

func NewUserHandler(userService *service.UserService, authService *service.AuthService, authCfg config.AuthConfig) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
		authCfg:     authCfg,
	}
}

// Register godoc
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body model.RegisterRequest true "New account"
// @Success      201 {object} common.ApiResponse
// @Failure      400 {object} common.AppError
// @Failure      409 {object} common.AppError
// @Router       /api/v1/users/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			return common.NewConflictError("Username or email already exists", err)
		}
		return common.NewInternalError("Failed to register user", err)
	}

	common.Respond(w, http.StatusCreated, user, "User registered successfully")
	return nil
}

// Login godoc
// @Summary      Log in with email or username and password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body model.LoginRequest true "Credentials"
// @Success      200 {object} common.ApiResponse
// @Failure      401 {object} common.AppError
// @Router       /api/v1/users/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}
	if req.Email == "" && req.Username == "" {
		return common.NewValidationError("Email or username is required", nil)
	}

	user, pair, err := h.authService.Login(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return common.NewUnauthorizedError("Invalid user credentials", err)
		}
		return common.NewInternalError("Failed to log in", err)
	}

	h.setAuthCookies(w, pair)
	common.Respond(w, http.StatusOK, map[string]interface{}{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "User logged in successfully")
	return nil
}

// Logout godoc
// @Summary      Log out the current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} common.ApiResponse
// @Failure      401 {object} common.AppError
// @Router       /api/v1/users/logout [post]
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, ok := userFromContext(r)
	if !ok {
		return common.NewUnauthorizedError("Unauthorized request", nil)
	}

	if err := h.authService.Logout(r.Context(), user.ID); err != nil {
		return common.NewInternalError("Failed to log out", err)
	}

	h.clearAuthCookies(w)
	common.Respond(w, http.StatusOK, nil, "User logged out successfully")
	return nil
}

// RefreshToken godoc
// @Summary      Exchange a refresh token for a new token pair
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body model.RefreshRequest false "Refresh token (alternative to cookie)"
// @Success      200 {object} common.ApiResponse
// @Failure      401 {object} common.AppError
// @Router       /api/v1/users/refresh-token [post]
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) *common.AppError {
	presented := refreshTokenFromRequest(r)
	if presented == "" {
		return common.NewUnauthorizedError("Unauthorized request", nil)
	}

	pair, err := h.authService.RefreshTokens(r.Context(), presented)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrTokenReused):
			return common.NewInvalidTokenError(err)
		case errors.Is(err, service.ErrMissingSecret):
			return common.NewInternalError("Token signing is not configured", err)
		}
		return common.NewInternalError("Failed to refresh tokens", err)
	}

	h.setAuthCookies(w, pair)
	common.Respond(w, http.StatusOK, pair, "Access token refreshed successfully")
	return nil
}

// ChangePassword godoc
// @Summary      Change the current user's password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.ChangePasswordRequest true "Old and new password"
// @Success      200 {object} common.ApiResponse
// @Failure      400 {object} common.AppError
// @Router       /api/v1/users/change-password [post]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, ok := userFromContext(r)
	if !ok {
		return common.NewUnauthorizedError("Unauthorized request", nil)
	}

	var req model.ChangePasswordRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	if err := h.userService.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return common.NewValidationError("Invalid old password", err)
		}
		return common.NewInternalError("Failed to change password", err)
	}

	common.Respond(w, http.StatusOK, nil, "Password changed successfully")
	return nil
}

// CurrentUser godoc
// @Summary      Return the caller's public profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} common.ApiResponse
// @Failure      401 {object} common.AppError
// @Router       /api/v1/users/current-user [get]
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, ok := userFromContext(r)
	if !ok {
		return common.NewUnauthorizedError("Unauthorized request", nil)
	}

	profile, err := h.userService.GetCurrentUser(r.Context(), user.ID)
	if err != nil {
		return common.NewInternalError("Failed to load current user", err)
	}

	common.Respond(w, http.StatusOK, profile, "Current user fetched successfully")
	return nil
}

// UpdateAccount godoc
// @Summary      Update display name and email
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.UpdateAccountRequest true "Profile fields"
// @Success      200 {object} common.ApiResponse
// @Failure      409 {object} common.AppError
// @Router       /api/v1/users/account [patch]
func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	user, ok := userFromContext(r)
	if !ok {
		return common.NewUnauthorizedError("Unauthorized request", nil)
	}

	var req model.UpdateAccountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	updated, err := h.userService.UpdateAccount(r.Context(), user.ID, req.Fullname, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			return common.NewConflictError("Email already in use", err)
		}
		return common.NewInternalError("Failed to update account", err)
	}

	common.Respond(w, http.StatusOK, updated, "Account details updated successfully")
	return nil
}

// UpdateAvatar godoc
// @Summary      Replace the caller's avatar image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar formData file true "Avatar image"
// @Success      200 {object} common.ApiResponse
// @Failure      400 {object} common.AppError
// @Router       /api/v1/users/avatar [patch]
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.updateImage(w, r, "avatar", h.userService.UpdateAvatar, "Avatar updated successfully")
}

// UpdateCoverImage godoc
// @Summary      Replace the caller's cover image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        coverImage formData file true "Cover image"
// @Success      200 {object} common.ApiResponse
// @Failure      400 {object} common.AppError
// @Router       /api/v1/users/cover-image [patch]
func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.updateImage(w, r, "coverImage", h.userService.UpdateCoverImage, "Cover image updated successfully")
}

func (h *UserHandler) updateImage(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	update func(ctx context.Context, userID int, contentType string, body io.Reader) (*model.User, error),
	message string,
) *common.AppError {
	user, ok := userFromContext(r)
	if !ok {
		return common.NewUnauthorizedError("Unauthorized request", nil)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile(field)
	if err != nil {
		return common.NewValidationError(field+" file is required", err)
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	updated, err := update(r.Context(), user.ID, contentType, file)
	if err != nil {
		return common.NewInternalError("Failed to update "+field, err)
	}

	common.Respond(w, http.StatusOK, updated, message)
	return nil
}

func (h *UserHandler) setAuthCookies(w http.ResponseWriter, pair *model.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(h.authCfg.AccessTokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(h.authCfg.RefreshTokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *UserHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// refreshTokenFromRequest accepts the refresh token from the cookie or,
// failing that, from the request body.
func refreshTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("refreshToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var req model.RefreshRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr == nil {
		return req.RefreshToken
	}
	return ""
}

// file: handler/user_handler_test.go

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"vidtube-api/common"
	"vidtube-api/model"
	"vidtube-api/service"

	"github.com/stretchr/testify/assert"
)

func newRefreshHandler(repo *stubUserRepo) (*UserHandler, *service.AuthService) {
	authService := service.NewAuthService(repo, testAuthConfig())
	return NewUserHandler(nil, authService, testAuthConfig()), authService
}

func TestUserHandler_RefreshToken(t *testing.T) {
	t.Run("cookie token rotates and sets fresh cookies", func(t *testing.T) {
		repo := &stubUserRepo{rotated: true}
		h, authService := newRefreshHandler(repo)

		presented, err := authService.GenerateRefreshToken(1)
		assert.NoError(t, err)
		repo.fullUser = &model.User{ID: 1, RefreshToken: presented}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: presented})

		appErr := h.RefreshToken(rec, req)
		assert.Nil(t, appErr)
		assert.Equal(t, http.StatusOK, rec.Code)

		var envelope common.ApiResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
		assert.True(t, envelope.Success)

		cookieNames := map[string]bool{}
		for _, c := range rec.Result().Cookies() {
			cookieNames[c.Name] = true
			assert.True(t, c.HttpOnly)
			assert.True(t, c.Secure)
		}
		assert.True(t, cookieNames["accessToken"])
		assert.True(t, cookieNames["refreshToken"])
	})

	t.Run("body token works when no cookie is present", func(t *testing.T) {
		repo := &stubUserRepo{rotated: true}
		h, authService := newRefreshHandler(repo)

		presented, err := authService.GenerateRefreshToken(1)
		assert.NoError(t, err)
		repo.fullUser = &model.User{ID: 1, RefreshToken: presented}

		rec := httptest.NewRecorder()
		body := strings.NewReader(`{"refreshToken":"` + presented + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", body)

		appErr := h.RefreshToken(rec, req)
		assert.Nil(t, appErr)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		h, _ := newRefreshHandler(&stubUserRepo{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", strings.NewReader(`{}`))

		appErr := h.RefreshToken(rec, req)
		assert.NotNil(t, appErr)
		assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
	})

	t.Run("rotated-out token is rejected with the uniform message", func(t *testing.T) {
		repo := &stubUserRepo{rotated: false}
		h, authService := newRefreshHandler(repo)

		stale, err := authService.GenerateRefreshToken(1)
		assert.NoError(t, err)
		// The stored slot holds a different (newer) token.
		repo.fullUser = &model.User{ID: 1, RefreshToken: "someone-else-rotated"}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: stale})

		appErr := h.RefreshToken(rec, req)
		assert.NotNil(t, appErr)
		assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
		assert.Equal(t, "Invalid or expired token", appErr.Message)
	})
}

func TestUserHandler_Login_Validation(t *testing.T) {
	h, _ := newRefreshHandler(&stubUserRepo{})

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"password":"longenough1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", body)

	appErr := h.Login(rec, req)
	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
}

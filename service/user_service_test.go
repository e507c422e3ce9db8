// service/user_service_test.go
package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"vidtube-api/model"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockMediaStore struct{ mock.Mock }

func (m *mockMediaStore) Upload(ctx context.Context, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, contentType, body)
	return args.String(0), args.Error(1)
}
func (m *mockMediaStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func newUserServiceForTest(repo *mockUserRepo, media IMediaStore) *UserService {
	auth := NewAuthService(repo, fixtureAuthConfig())
	return NewUserService(repo, auth, media, nil)
}

func TestUserService_Register(t *testing.T) {
	req := &model.RegisterRequest{
		Username: "ChaiLover",
		Email:    "chai@example.com",
		Fullname: "Chai Lover",
		Password: "aVerySecret1",
		Avatar:   "http://cdn.example.com/a.png",
	}

	t.Run("success stores a digest, not the plaintext", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("ExistsByUsernameOrEmail", mock.Anything, "chailover", "chai@example.com").Return(false, nil).Once()
		mockRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Username == "chailover" && u.Password != req.Password && u.Password != ""
		})).Return(nil).Once()

		userService := newUserServiceForTest(mockRepo, nil)
		user, err := userService.Register(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, "chailover", user.Username)
		assert.Empty(t, user.Password)
		assert.Empty(t, user.RefreshToken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate handle or email is a conflict", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("ExistsByUsernameOrEmail", mock.Anything, "chailover", "chai@example.com").Return(true, nil).Once()

		userService := newUserServiceForTest(mockRepo, nil)
		_, err := userService.Register(context.Background(), req)

		assert.ErrorIs(t, err, ErrUserExists)
		mockRepo.AssertNotCalled(t, "CreateUser")
	})

	t.Run("losing the registration race is still a conflict", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("ExistsByUsernameOrEmail", mock.Anything, "chailover", "chai@example.com").Return(false, nil).Once()
		mockRepo.On("CreateUser", mock.Anything, mock.Anything).Return(&pq.Error{Code: "23505"}).Once()

		userService := newUserServiceForTest(mockRepo, nil)
		_, err := userService.Register(context.Background(), req)

		assert.ErrorIs(t, err, ErrUserExists)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	auth := NewAuthService(nil, fixtureAuthConfig())
	digest, err := auth.HashPassword("old-password1")
	assert.NoError(t, err)

	t.Run("success verifies old and stores a new digest", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		stored := &model.User{ID: 3, Password: digest}
		mockRepo.On("GetUserByID", mock.Anything, 3).Return(stored, nil).Once()
		mockRepo.On("UpdatePassword", mock.Anything, 3, mock.MatchedBy(func(d string) bool {
			return d != "new-password1" && d != ""
		})).Return(nil).Once()

		userService := newUserServiceForTest(mockRepo, nil)
		err := userService.ChangePassword(context.Background(), 3, "old-password1", "new-password1")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong old password", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		stored := &model.User{ID: 3, Password: digest}
		mockRepo.On("GetUserByID", mock.Anything, 3).Return(stored, nil).Once()

		userService := newUserServiceForTest(mockRepo, nil)
		err := userService.ChangePassword(context.Background(), 3, "not-the-old-one", "new-password1")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		mockRepo.AssertNotCalled(t, "UpdatePassword")
	})
}

func TestUserService_UpdateAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		updated := &model.User{ID: 4, Fullname: "New Name", Email: "new@example.com"}
		mockRepo.On("UpdateProfile", mock.Anything, 4, "New Name", "new@example.com").Return(updated, nil).Once()

		userService := newUserServiceForTest(mockRepo, nil)
		user, err := userService.UpdateAccount(context.Background(), 4, "New Name", "new@example.com")

		assert.NoError(t, err)
		assert.Equal(t, updated, user)
		mockRepo.AssertExpectations(t)
	})

	t.Run("email collision maps to conflict", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("UpdateProfile", mock.Anything, 4, "New Name", "taken@example.com").
			Return(nil, &pq.Error{Code: "23505"}).Once()

		userService := newUserServiceForTest(mockRepo, nil)
		_, err := userService.UpdateAccount(context.Background(), 4, "New Name", "taken@example.com")

		assert.ErrorIs(t, err, ErrUserExists)
	})
}

func TestUserService_UpdateAvatar(t *testing.T) {
	mockRepo := new(mockUserRepo)
	mockMedia := new(mockMediaStore)

	previous := &model.User{ID: 6, Avatar: "http://cdn.example.com/old.png"}
	updated := &model.User{ID: 6, Avatar: "http://cdn.example.com/new.png"}
	body := strings.NewReader("png-bytes")

	mockRepo.On("GetPublicUserByID", mock.Anything, 6).Return(previous, nil).Once()
	mockMedia.On("Upload", mock.Anything, "image/png", body).Return("http://cdn.example.com/new.png", nil).Once()
	mockRepo.On("UpdateAvatar", mock.Anything, 6, "http://cdn.example.com/new.png").Return(updated, nil).Once()
	mockMedia.On("Delete", mock.Anything, "http://cdn.example.com/old.png").Return(nil).Once()

	userService := newUserServiceForTest(mockRepo, mockMedia)
	user, err := userService.UpdateAvatar(context.Background(), 6, "image/png", body)

	assert.NoError(t, err)
	assert.Equal(t, updated, user)
	mockRepo.AssertExpectations(t)
	mockMedia.AssertExpectations(t)
}

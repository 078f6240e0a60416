package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/contactbook/backend/internal/domain/identity"
	"github.com/contactbook/backend/internal/domain/shared"
)

// MockUploader is a mock implementation of avatar.Uploader
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	args := m.Called(ctx, filename, data)
	return args.String(0), args.Error(1)
}

func TestUserService_Me(t *testing.T) {
	repo := new(MockUserRepository)
	uploader := new(MockUploader)
	svc := NewUserService(repo, uploader, zap.NewNop())

	user := confirmedUser(t, 7, "alice@example.com", "secret123")
	repo.On("FindByID", mock.Anything, uint(7)).Return(user, nil)

	resp, err := svc.Me(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), resp.ID)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.True(t, resp.Confirmed)
}

func TestUserService_MeNotFound(t *testing.T) {
	repo := new(MockUserRepository)
	uploader := new(MockUploader)
	svc := NewUserService(repo, uploader, zap.NewNop())

	repo.On("FindByID", mock.Anything, uint(42)).Return(nil, shared.ErrNotFound)

	_, err := svc.Me(context.Background(), 42)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUserService_UpdateAvatar(t *testing.T) {
	repo := new(MockUserRepository)
	uploader := new(MockUploader)
	svc := NewUserService(repo, uploader, zap.NewNop())

	user := confirmedUser(t, 7, "alice@example.com", "secret123")
	image := []byte{0xFF, 0xD8, 0xFF}

	repo.On("FindByID", mock.Anything, uint(7)).Return(user, nil)
	uploader.On("Upload", mock.Anything, "user_7", image).
		Return("https://images.example.com/avatars/user_7.jpg", nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
		return u.Avatar == "https://images.example.com/avatars/user_7.jpg"
	})).Return(nil)

	resp, err := svc.UpdateAvatar(context.Background(), 7, image)
	require.NoError(t, err)
	assert.Equal(t, "https://images.example.com/avatars/user_7.jpg", resp.Avatar)
	repo.AssertExpectations(t)
	uploader.AssertExpectations(t)
}

func TestUserService_UpdateAvatarUploadFails(t *testing.T) {
	repo := new(MockUserRepository)
	uploader := new(MockUploader)
	svc := NewUserService(repo, uploader, zap.NewNop())

	user := confirmedUser(t, 7, "alice@example.com", "secret123")
	repo.On("FindByID", mock.Anything, uint(7)).Return(user, nil)
	uploader.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError)

	_, err := svc.UpdateAvatar(context.Background(), 7, []byte{1})
	require.Error(t, err)
	repo.AssertNotCalled(t, "Update")
}

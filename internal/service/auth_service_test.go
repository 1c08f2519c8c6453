package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/flappy-api/internal/domain/entity"
	apperrors "github.com/yourusername/flappy-api/internal/pkg/errors"
	"github.com/yourusername/flappy-api/pkg/auth"
)

// ============================================================================
// Моки для AuthService
// ============================================================================

// MockUserRepoForAuthService реализует repository.UserRepository
type MockUserRepoForAuthService struct {
	mock.Mock
}

func (m *MockUserRepoForAuthService) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepoForAuthService) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepoForAuthService) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepoForAuthService) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepoForAuthService) GetByIdentifier(identifier string) (*entity.User, error) {
	args := m.Called(identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepoForAuthService) Exists(username, email string) (bool, error) {
	args := m.Called(username, email)
	return args.Bool(0), args.Error(1)
}

// MockCacheRepoForAuthService реализует repository.CacheRepository
type MockCacheRepoForAuthService struct {
	mock.Mock
}

func (m *MockCacheRepoForAuthService) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepoForAuthService) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepoForAuthService) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepoForAuthService) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

func newAuthServiceWithMocks(t *testing.T) (*AuthService, *MockUserRepoForAuthService, *MockScoreRepoForScoreService, *MockCacheRepoForAuthService) {
	t.Helper()

	userRepo := new(MockUserRepoForAuthService)
	scoreRepo := new(MockScoreRepoForScoreService)
	cacheRepo := new(MockCacheRepoForAuthService)

	jwtService, err := auth.NewJWTService("test-secret", 1, cacheRepo)
	require.NoError(t, err)

	svc, err := NewAuthService(userRepo, scoreRepo, jwtService)
	require.NoError(t, err)

	return svc, userRepo, scoreRepo, cacheRepo
}

// ============================================================================
// Тесты
// ============================================================================

func TestRegister_Success(t *testing.T) {
	svc, userRepo, _, _ := newAuthServiceWithMocks(t)

	userRepo.On("Exists", "alice", "alice@example.com").Return(false, nil)
	userRepo.On("Create", mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.User).ID = 1
		}).
		Return(nil)

	user, token, err := svc.Register("alice", "Alice@Example.com", "secret123")

	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	// Email нормализуется к нижнему регистру
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, token)
	userRepo.AssertExpectations(t)
}

func TestRegister_DuplicateUser(t *testing.T) {
	svc, userRepo, _, _ := newAuthServiceWithMocks(t)

	userRepo.On("Exists", "alice", "alice@example.com").Return(true, nil)

	user, token, err := svc.Register("alice", "alice@example.com", "secret123")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Nil(t, user)
	assert.Empty(t, token)
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	svc, userRepo, _, _ := newAuthServiceWithMocks(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	stored := &entity.User{ID: 1, Username: "alice", Email: "alice@example.com", Password: string(hash)}
	userRepo.On("GetByIdentifier", "alice").Return(stored, nil)

	user, token, err := svc.Login("alice", "secret123")

	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, userRepo, _, _ := newAuthServiceWithMocks(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	stored := &entity.User{ID: 1, Username: "alice", Password: string(hash)}
	userRepo.On("GetByIdentifier", "alice").Return(stored, nil)

	user, token, err := svc.Login("alice", "wrong-password")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestLogin_UnknownUser(t *testing.T) {
	// Неизвестный идентификатор маскируется под "invalid credentials",
	// чтобы не раскрывать существование аккаунтов
	svc, userRepo, _, _ := newAuthServiceWithMocks(t)

	userRepo.On("GetByIdentifier", "ghost").Return(nil, apperrors.ErrNotFound)

	user, _, err := svc.Login("ghost", "whatever")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, user)
}

func TestGetProfile_WithStats(t *testing.T) {
	svc, userRepo, scoreRepo, _ := newAuthServiceWithMocks(t)

	userRepo.On("GetByID", uint(1)).
		Return(&entity.User{ID: 1, Username: "alice", Email: "alice@example.com"}, nil)
	scoreRepo.On("GetHighestScore", uint(1)).Return(int64(80), nil)
	scoreRepo.On("CountUserScores", uint(1)).Return(int64(3), nil)

	profile, err := svc.GetProfile(1)

	require.NoError(t, err)
	assert.Equal(t, int64(80), profile.HighestScore)
	assert.Equal(t, int64(3), profile.GamesPlayed)
	assert.Equal(t, "alice", profile.Username)
}

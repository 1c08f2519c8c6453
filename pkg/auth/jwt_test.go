package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/flappy-api/internal/pkg/errors"
)

// MockCacheRepoForJWTService реализует repository.CacheRepository
type MockCacheRepoForJWTService struct {
	mock.Mock
}

func (m *MockCacheRepoForJWTService) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepoForJWTService) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepoForJWTService) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepoForJWTService) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

const testSecret = "test-secret-key"

func newJWTServiceForTest(t *testing.T, cache *MockCacheRepoForJWTService) *JWTService {
	t.Helper()
	svc, err := NewJWTService(testSecret, 1, cache)
	require.NoError(t, err)
	return svc
}

func TestJWTService_GenerateAndParse(t *testing.T) {
	// Arrange: метки инвалидации нет
	cache := new(MockCacheRepoForJWTService)
	cache.On("Get", "auth:invalidated:42").Return("", apperrors.ErrNotFound)
	svc := newJWTServiceForTest(t, cache)

	// Act
	token, err := svc.GenerateToken(42, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ParseToken(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "42", claims.Subject)
}

func TestJWTService_ParseToken_Expired(t *testing.T) {
	cache := new(MockCacheRepoForJWTService)
	svc := newJWTServiceForTest(t, cache)

	// Подписываем токен с истекшим сроком тем же секретом
	expired := JWTCustomClaims{
		UserID:   42,
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			Subject:   "42",
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte(testSecret))
	require.NoError(t, err)

	claims, err := svc.ParseToken(tokenString)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Nil(t, claims)
	// До проверки кеша дело не доходит
	cache.AssertNotCalled(t, "Get", mock.Anything)
}

func TestJWTService_ParseToken_WrongSignature(t *testing.T) {
	cache := new(MockCacheRepoForJWTService)
	svc := newJWTServiceForTest(t, cache)

	otherSvc, err := NewJWTService("another-secret", 1, cache)
	require.NoError(t, err)
	token, err := otherSvc.GenerateToken(42, "alice")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Nil(t, claims)
}

func TestJWTService_ParseToken_RevokedAfterLogout(t *testing.T) {
	// Arrange: метка инвалидации установлена ПОСЛЕ выпуска токена
	cache := new(MockCacheRepoForJWTService)
	svc := newJWTServiceForTest(t, cache)

	token, err := svc.GenerateToken(42, "alice")
	require.NoError(t, err)

	future := strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10)
	cache.On("Get", "auth:invalidated:42").Return(future, nil)

	// Act
	claims, err := svc.ParseToken(token)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Nil(t, claims)
}

func TestJWTService_ParseToken_CacheFailureFailsOpen(t *testing.T) {
	// Недоступный кеш не блокирует вход: подпись и срок уже проверены
	cache := new(MockCacheRepoForJWTService)
	cache.On("Get", "auth:invalidated:42").Return("", apperrors.ErrUnavailable)
	svc := newJWTServiceForTest(t, cache)

	token, err := svc.GenerateToken(42, "alice")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)

	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestJWTService_InvalidateUserTokens(t *testing.T) {
	cache := new(MockCacheRepoForJWTService)
	svc := newJWTServiceForTest(t, cache)

	cache.On("Set", "auth:invalidated:42", mock.AnythingOfType("string"), svc.TokenExpiry()).Return(nil)

	err := svc.InvalidateUserTokens(42)

	require.NoError(t, err)
	cache.AssertExpectations(t)
}

package auth

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/yourusername/flappy-api/internal/domain/repository"
	apperrors "github.com/yourusername/flappy-api/internal/pkg/errors"
)

// invalidationKeyPrefix — ключ в кеше, под которым хранится момент инвалидации
// токенов пользователя (unix-время). Токены, выпущенные раньше этого момента,
// считаются отозванными.
const invalidationKeyPrefix = "auth:invalidated:"

// JWTCustomClaims содержит пользовательские поля для токена
type JWTCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTService предоставляет методы для работы с JWT
type JWTService struct {
	secretKey     string
	expirationHrs int
	// Кеш с метками инвалидации (logout). Запись живет не дольше срока
	// действия токена, дальше токен истекает сам.
	cacheRepo repository.CacheRepository
}

// NewJWTService создает новый сервис JWT и возвращает ошибку при проблемах
func NewJWTService(secretKey string, expirationHrs int, cacheRepo repository.CacheRepository) (*JWTService, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("JWT secret key is required for JWTService")
	}
	if cacheRepo == nil {
		return nil, fmt.Errorf("CacheRepository is required for JWTService")
	}
	if expirationHrs <= 0 {
		expirationHrs = 24 * 7 // По умолчанию 7 дней, как в конфигурации по умолчанию
	}

	return &JWTService{
		secretKey:     secretKey,
		expirationHrs: expirationHrs,
		cacheRepo:     cacheRepo,
	}, nil
}

// TokenExpiry возвращает срок действия выпускаемых токенов
func (s *JWTService) TokenExpiry() time.Duration {
	return time.Duration(s.expirationHrs) * time.Hour
}

// GenerateToken выпускает подписанный токен для пользователя
func (s *JWTService) GenerateToken(userID uint, username string) (string, error) {
	now := time.Now()
	claims := JWTCustomClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenExpiry())),
			Subject:   strconv.FormatUint(uint64(userID), 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		log.Printf("[JWTService] Ошибка при подписи токена для user_id=%d: %v", userID, err)
		return "", err
	}
	return signed, nil
}

// ParseToken проверяет подпись и срок действия токена, а также метку
// инвалидации после logout
func (s *JWTService) ParseToken(tokenString string) (*JWTCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}

	invalidated, err := s.isInvalidated(claims)
	if err != nil {
		// При недоступном кеше пропускаем проверку (fail-open), но логируем:
		// подпись и срок действия уже проверены
		log.Printf("[JWTService] Не удалось проверить метку инвалидации для user_id=%d: %v", claims.UserID, err)
	} else if invalidated {
		return nil, fmt.Errorf("%w: token revoked", apperrors.ErrUnauthorized)
	}

	return claims, nil
}

// InvalidateUserTokens помечает все выпущенные к этому моменту токены
// пользователя как отозванные (используется при logout)
func (s *JWTService) InvalidateUserTokens(userID uint) error {
	key := invalidationKeyPrefix + strconv.FormatUint(uint64(userID), 10)
	now := strconv.FormatInt(time.Now().Unix(), 10)
	if err := s.cacheRepo.Set(key, now, s.TokenExpiry()); err != nil {
		log.Printf("[JWTService] Ошибка при установке метки инвалидации для user_id=%d: %v", userID, err)
		return err
	}
	log.Printf("[JWTService] Токены пользователя user_id=%d инвалидированы", userID)
	return nil
}

// isInvalidated сравнивает момент выпуска токена с меткой инвалидации
func (s *JWTService) isInvalidated(claims *JWTCustomClaims) (bool, error) {
	key := invalidationKeyPrefix + strconv.FormatUint(uint64(claims.UserID), 10)
	val, err := s.cacheRepo.Get(key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	invalidatedAt, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false, err
	}
	if claims.IssuedAt == nil {
		// Токен без iat не можем сверить с меткой — считаем отозванным
		return true, nil
	}
	return !claims.IssuedAt.Time.After(time.Unix(invalidatedAt, 0)), nil
}

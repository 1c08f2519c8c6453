package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/flappy-api/internal/domain/entity"
	"github.com/yourusername/flappy-api/internal/domain/repository"
	"github.com/yourusername/flappy-api/internal/handler/dto"
	apperrors "github.com/yourusername/flappy-api/internal/pkg/errors"
	"github.com/yourusername/flappy-api/pkg/auth"
)

// AuthService предоставляет методы для регистрации, входа и профиля.
// Ядро доверяет выданному токену: проверка личности на защищенных маршрутах
// выполняется middleware, сервисы получают уже аутентифицированный user_id.
type AuthService struct {
	userRepo   repository.UserRepository
	scoreRepo  repository.ScoreRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(
	userRepo repository.UserRepository,
	scoreRepo repository.ScoreRepository,
	jwtService *auth.JWTService,
) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if scoreRepo == nil {
		return nil, fmt.Errorf("ScoreRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}

	return &AuthService{
		userRepo:   userRepo,
		scoreRepo:  scoreRepo,
		jwtService: jwtService,
	}, nil
}

// Register регистрирует нового пользователя и выдает токен
func (s *AuthService) Register(username, email, password string) (*entity.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	exists, err := s.userRepo.Exists(username, email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", fmt.Errorf("%w: username or email already exists", apperrors.ErrConflict)
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: password, // Хешируется хуком BeforeSave
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	log.Printf("[AuthService] Зарегистрирован пользователь %s (id=%d)", user.Username, user.ID)
	return user, token, nil
}

// Login проверяет учетные данные (username или email) и выдает токен
func (s *AuthService) Login(identifier, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetByIdentifier(strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Не раскрываем, что именно не совпало
			return nil, "", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, "", err
	}

	if !user.CheckPassword(password) {
		return nil, "", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	log.Printf("[AuthService] Вход пользователя %s (id=%d)", user.Username, user.ID)
	return user, token, nil
}

// Logout инвалидирует все выпущенные токены пользователя
func (s *AuthService) Logout(userID uint) error {
	return s.jwtService.InvalidateUserTokens(userID)
}

// GetProfile возвращает профиль пользователя с игровой статистикой
func (s *AuthService) GetProfile(userID uint) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	highest, err := s.scoreRepo.GetHighestScore(userID)
	if err != nil {
		return nil, err
	}
	gamesPlayed, err := s.scoreRepo.CountUserScores(userID)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		HighestScore: highest,
		GamesPlayed:  gamesPlayed,
	}, nil
}

package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/flappy-api/internal/handler/dto"
	apperrors "github.com/yourusername/flappy-api/internal/pkg/errors"
	"github.com/yourusername/flappy-api/internal/service"
	"github.com/yourusername/flappy-api/pkg/auth"
)

// AuthHandler обрабатывает запросы, связанные с аутентификацией
type AuthHandler struct {
	authService *service.AuthService
	jwtService  *auth.JWTService
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
	}
}

// RegisterRequest представляет запрос на регистрацию
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

// LoginRequest представляет запрос на вход (username или email)
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse структура для ответа с пользовательскими данными и токеном
type AuthResponse struct {
	Message   string       `json:"message"`
	User      *dto.UserDTO `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int          `json:"expires_in"`
}

// Register обрабатывает запрос на регистрацию
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Message:   "User created successfully",
		User:      dto.NewUserDTO(user),
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(h.jwtService.TokenExpiry().Seconds()),
	})
}

// Login обрабатывает запрос на вход
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Message:   "Login successful",
		User:      dto.NewUserDTO(user),
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(h.jwtService.TokenExpiry().Seconds()),
	})
}

// Logout инвалидирует токены текущего пользователя
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	if err := h.authService.Logout(userID); err != nil {
		log.Printf("[AuthHandler] Ошибка при выходе user_id=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetMe возвращает профиль текущего пользователя со статистикой
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	profile, err := h.authService.GetProfile(userID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// handleAuthError преобразует ошибки сервиса в HTTP-статусы
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, apperrors.ErrUnavailable):
		log.Printf("[AuthHandler] Хранилище недоступно: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage temporarily unavailable"})
	default:
		log.Printf("[AuthHandler] Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

package dto

import (
	"github.com/yourusername/flappy-api/internal/domain/entity"
)

// UserDTO представляет публичные данные пользователя
type UserDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewUserDTO строит DTO из сущности
func NewUserDTO(user *entity.User) *UserDTO {
	return &UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ProfileResponse представляет профиль пользователя с игровой статистикой
type ProfileResponse struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	HighestScore int64  `json:"highest_score"`
	GamesPlayed  int64  `json:"games_played"`
}

package repository

import (
	"github.com/yourusername/flappy-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	// GetByIdentifier ищет пользователя по username ИЛИ email (форма логина
	// принимает и то, и другое).
	GetByIdentifier(identifier string) (*entity.User, error)
	// Exists проверяет занятость username или email при регистрации.
	Exists(username, email string) (bool, error)
}

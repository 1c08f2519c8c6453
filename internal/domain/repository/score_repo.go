package repository

import (
	"github.com/yourusername/flappy-api/internal/domain/entity"
)

// ScoreRepository определяет контракт хранилища результатов (Score Store).
// Хранилище append-only: Create — единственный мутатор.
type ScoreRepository interface {
	// Create добавляет новую запись результата.
	Create(score *entity.Score) error

	// GetHighestScore возвращает максимальный счет пользователя.
	// 0 означает "записей нет" — это валидное значение, а не ошибка.
	GetHighestScore(userID uint) (int64, error)

	// GetUserScores возвращает страницу результатов пользователя,
	// отсортированных по score DESC, created_at DESC.
	GetUserScores(userID uint, limit, offset int) ([]entity.Score, error)

	// CountUsersWithHigherMaxScore возвращает количество РАЗНЫХ пользователей,
	// чей собственный максимум строго больше threshold.
	CountUsersWithHigherMaxScore(threshold int64) (int64, error)

	// CountScoresAbove возвращает количество ОТДЕЛЬНЫХ записей со счетом строго
	// больше threshold, без дедупликации по пользователю. Один игрок может дать
	// несколько подходящих записей, поэтому результат может расходиться с
	// CountUsersWithHigherMaxScore.
	CountScoresAbove(threshold int64) (int64, error)

	// GetLeaderboard возвращает страницу рейтинга и общее количество игроков,
	// у которых есть хотя бы одна запись. Ранг в строках — глобальная позиция
	// в полном упорядочивании, а не индекс внутри страницы.
	GetLeaderboard(limit, offset int) ([]entity.UserStanding, int64, error)

	// CountUsersWithScores возвращает количество разных пользователей,
	// имеющих хотя бы одну запись результата.
	CountUsersWithScores() (int64, error)

	// CountUserScores возвращает количество сыгранных партий пользователя.
	CountUserScores(userID uint) (int64, error)
}

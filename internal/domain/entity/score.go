package entity

import (
	"fmt"
	"time"

	apperrors "github.com/yourusername/flappy-api/internal/pkg/errors"
)

// Score представляет один результат сыгранной партии.
// Записи иммутабельны: единственная операция записи — вставка,
// обновление и удаление не предусмотрены.
type Score struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Score     int64     `gorm:"not null;index:idx_scores_score,sort:desc" json:"score"`
	Level     int       `gorm:"not null;default:1" json:"level"`
	CreatedAt time.Time `gorm:"index:idx_scores_created_at,sort:desc" json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Score) TableName() string {
	return "scores"
}

// Validate проверяет инварианты записи: score >= 0 и level >= 1.
// Нулевой level трактуется как "не указан" и заменяется на 1.
func (s *Score) Validate() error {
	if s.Score < 0 {
		return fmt.Errorf("%w: score must be non-negative", apperrors.ErrValidation)
	}
	if s.Level == 0 {
		s.Level = 1
	}
	if s.Level < 1 {
		return fmt.Errorf("%w: level must be at least 1", apperrors.ErrValidation)
	}
	return nil
}

// UserStanding — агрегированное лучшее выступление игрока. Не персистится:
// строится запросом по таблице scores (игроки без записей в выборку не попадают).
type UserStanding struct {
	Rank         int64     `json:"rank"`
	UserID       uint      `json:"user_id"`
	Username     string    `json:"username"`
	HighestScore int64     `json:"highest_score"`
	GamesPlayed  int64     `json:"games_played"`
	LastPlayed   time.Time `json:"last_played"`
}

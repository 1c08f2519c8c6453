package dto

import (
	"time"

	"github.com/yourusername/flappy-api/internal/domain/entity"
)

// LeaderboardEntryDTO представляет одну строку лидерборда
type LeaderboardEntryDTO struct {
	Rank         int64     `json:"rank"`          // Глобальная позиция в полном рейтинге (не индекс на странице)
	UserID       uint      `json:"user_id"`       // ID пользователя
	Username     string    `json:"username"`      // Имя пользователя
	HighestScore int64     `json:"highest_score"` // Лучший счет
	GamesPlayed  int64     `json:"games_played"`  // Количество сыгранных партий
	LastPlayed   time.Time `json:"last_played"`   // Время последней партии
}

// PaginationDTO представляет параметры пагинации лидерборда
type PaginationDTO struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"` // Количество игроков с хотя бы одним результатом
}

// LeaderboardResponse представляет пагинированный ответ для лидерборда
type LeaderboardResponse struct {
	Leaderboard []LeaderboardEntryDTO `json:"leaderboard"`
	Pagination  PaginationDTO         `json:"pagination"`
}

// ScoreStatsDTO — статистика, возвращаемая сразу после отправки результата
type ScoreStatsDTO struct {
	HighestScore int64 `json:"highest_score"`
	Rank         int64 `json:"rank"`
}

// SubmitScoreResponse представляет ответ на отправку результата
type SubmitScoreResponse struct {
	Score *entity.Score `json:"score"`
	Stats ScoreStatsDTO `json:"stats"`
}

// ScoresPaginationDTO — пагинация списка собственных результатов (без total)
type ScoresPaginationDTO struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// UserScoresResponse представляет список результатов пользователя
type UserScoresResponse struct {
	Scores     []entity.Score      `json:"scores"`
	Rank       int64               `json:"rank"`
	Pagination ScoresPaginationDTO `json:"pagination"`
}

// UserRankResponse представляет текущий ранг пользователя.
// Rank == nil означает, что пользователь еще не отправлял результатов:
// тогда заполняется Message.
type UserRankResponse struct {
	Rank         *int64 `json:"rank"`
	Username     string `json:"username"`
	HighestScore int64  `json:"highest_score"`
	Message      string `json:"message,omitempty"`
}

package service

import (
	"log"

	"github.com/yourusername/flappy-api/internal/domain/entity"
	"github.com/yourusername/flappy-api/internal/domain/repository"
	"github.com/yourusername/flappy-api/internal/handler/dto"
)

// Константы пагинации и сообщений
const (
	DefaultLimit  = 10
	DefaultOffset = 0
	MaxLimit      = 100

	// ExportLimit ограничивает размер выгрузки лидерборда в файл
	ExportLimit = 10000

	NoScoresMessage = "No scores submitted yet"
)

// ScoreService предоставляет методы для работы с результатами и лидербордом
type ScoreService struct {
	scoreRepo   repository.ScoreRepository
	userRepo    repository.UserRepository
	rankService *RankService
}

// NewScoreService создает новый сервис результатов
func NewScoreService(
	scoreRepo repository.ScoreRepository,
	userRepo repository.UserRepository,
	rankService *RankService,
) *ScoreService {
	return &ScoreService{
		scoreRepo:   scoreRepo,
		userRepo:    userRepo,
		rankService: rankService,
	}
}

// SubmitScore проводит отправку результата по шагам
// Received -> Validated -> Persisted -> RankComputed -> Reported.
// Ошибка на шаге Persisted прерывает весь воркфлоу: ничего не репортится,
// ретраев нет. Чтение максимума идет после коммита вставки, поэтому
// конкурентная отправка того же игрока может успеть поднять максимум —
// это принятое окно ослабленной согласованности, ранг при этом остается >= 1.
func (s *ScoreService) SubmitScore(userID uint, score int64, level int) (*dto.SubmitScoreResponse, error) {
	record := &entity.Score{
		UserID: userID,
		Score:  score,
		Level:  level,
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := s.scoreRepo.Create(record); err != nil {
		return nil, err
	}

	highest, err := s.scoreRepo.GetHighestScore(userID)
	if err != nil {
		return nil, err
	}

	// Быстрая обратная связь: формула по отдельным записям, не по игрокам
	rank, err := s.rankService.CalculateRankByScore(highest)
	if err != nil {
		return nil, err
	}

	log.Printf("[ScoreService] Результат принят: user_id=%d, score=%d, rank=%d", userID, score, rank)

	return &dto.SubmitScoreResponse{
		Score: record,
		Stats: dto.ScoreStatsDTO{
			HighestScore: highest,
			Rank:         rank,
		},
	}, nil
}

// GetLeaderboard возвращает страницу рейтинга. Для одинакового состояния
// хранилища и одинаковых (limit, offset) ответ детерминирован.
func (s *ScoreService) GetLeaderboard(limit, offset int) (*dto.LeaderboardResponse, error) {
	limit = clampLimit(limit)
	offset = clampOffset(offset)

	standings, total, err := s.scoreRepo.GetLeaderboard(limit, offset)
	if err != nil {
		log.Printf("[ScoreService] Ошибка при получении лидерборда: %v", err)
		return nil, err
	}

	entries := make([]dto.LeaderboardEntryDTO, len(standings))
	for i, st := range standings {
		entries[i] = dto.LeaderboardEntryDTO{
			Rank:         st.Rank,
			UserID:       st.UserID,
			Username:     st.Username,
			HighestScore: st.HighestScore,
			GamesPlayed:  st.GamesPlayed,
			LastPlayed:   st.LastPlayed,
		}
	}

	return &dto.LeaderboardResponse{
		Leaderboard: entries,
		Pagination: dto.PaginationDTO{
			Limit:  limit,
			Offset: offset,
			Total:  total,
		},
	}, nil
}

// GetUserScores возвращает страницу результатов пользователя вместе с его
// историческим рангом. Игрок без результатов получает пустой список и ранг 1.
func (s *ScoreService) GetUserScores(userID uint, limit, offset int) (*dto.UserScoresResponse, error) {
	limit = clampLimit(limit)
	offset = clampOffset(offset)

	scores, err := s.scoreRepo.GetUserScores(userID, limit, offset)
	if err != nil {
		return nil, err
	}

	rank, err := s.rankService.CalculateUserRank(userID)
	if err != nil {
		return nil, err
	}
	effectiveRank := int64(1)
	if rank != nil {
		effectiveRank = *rank
	}

	return &dto.UserScoresResponse{
		Scores: scores,
		Rank:   effectiveRank,
		Pagination: dto.ScoresPaginationDTO{
			Limit:  limit,
			Offset: offset,
		},
	}, nil
}

// GetUserRank возвращает исторический ранг пользователя. Для игрока без
// результатов ранг отсутствует (null) и вместо него отдается сообщение.
func (s *ScoreService) GetUserRank(userID uint) (*dto.UserRankResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	highest, err := s.scoreRepo.GetHighestScore(userID)
	if err != nil {
		return nil, err
	}

	if highest == 0 {
		return &dto.UserRankResponse{
			Rank:         nil,
			Username:     user.Username,
			HighestScore: 0,
			Message:      NoScoresMessage,
		}, nil
	}

	rank, err := s.rankService.CalculateUserRank(userID)
	if err != nil {
		return nil, err
	}

	return &dto.UserRankResponse{
		Rank:         rank,
		Username:     user.Username,
		HighestScore: highest,
	}, nil
}

// GetFullLeaderboard возвращает полное упорядочивание (с верхней границей
// ExportLimit) для выгрузки в файл
func (s *ScoreService) GetFullLeaderboard() ([]entity.UserStanding, error) {
	standings, _, err := s.scoreRepo.GetLeaderboard(ExportLimit, 0)
	if err != nil {
		log.Printf("[ScoreService] Ошибка при выгрузке лидерборда: %v", err)
		return nil, err
	}
	return standings, nil
}

// clampLimit приводит limit к диапазону [1, MaxLimit];
// 0 означает "не указан" и заменяется значением по умолчанию
func clampLimit(limit int) int {
	if limit == 0 {
		return DefaultLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// clampOffset не допускает отрицательных смещений
func clampOffset(offset int) int {
	if offset < 0 {
		return DefaultOffset
	}
	return offset
}

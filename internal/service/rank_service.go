package service

import (
	"github.com/yourusername/flappy-api/internal/domain/repository"
)

// RankService вычисляет позицию игрока в рейтинге.
//
// В системе сосуществуют две формулы ранга, и они намеренно НЕ объединены:
//
//   - CalculateUserRank — "строго лучшие игроки": 1 + количество разных
//     пользователей, чей собственный максимум строго выше максимума игрока.
//     Используется для исторического ранга (my-rank, my-scores).
//   - CalculateRankByScore — "строго лучшие записи": 1 + количество отдельных
//     записей со счетом строго выше порога, без дедупликации по пользователю.
//     Используется для быстрой обратной связи сразу после отправки результата.
//
// Формулы могут расходиться: один игрок с несколькими записями выше порога
// увеличивает вторую оценку, но не первую.
type RankService struct {
	scoreRepo repository.ScoreRepository
}

// NewRankService создает новый сервис рангов
func NewRankService(scoreRepo repository.ScoreRepository) *RankService {
	return &RankService{scoreRepo: scoreRepo}
}

// CalculateUserRank возвращает ранг игрока по его историческому максимуму.
// nil означает, что у игрока еще нет ни одной записи (ранга нет).
func (s *RankService) CalculateUserRank(userID uint) (*int64, error) {
	highest, err := s.scoreRepo.GetHighestScore(userID)
	if err != nil {
		return nil, err
	}
	if highest == 0 {
		// Нет результатов — нет и ранга
		return nil, nil
	}

	count, err := s.scoreRepo.CountUsersWithHigherMaxScore(highest)
	if err != nil {
		return nil, err
	}

	rank := count + 1
	return &rank, nil
}

// CalculateRankByScore возвращает ранг для конкретного значения счета.
// Определен для любого score, включая 0; результат всегда >= 1.
func (s *RankService) CalculateRankByScore(score int64) (int64, error) {
	count, err := s.scoreRepo.CountScoresAbove(score)
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}

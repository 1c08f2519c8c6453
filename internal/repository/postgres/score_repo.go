package postgres

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/yourusername/flappy-api/internal/domain/entity"
	apperrors "github.com/yourusername/flappy-api/internal/pkg/errors"
)

// ScoreRepo реализует repository.ScoreRepository поверх PostgreSQL.
// Таблица scores append-only: записи никогда не обновляются и не удаляются,
// поэтому конкурентные вставки разных пользователей друг друга не блокируют,
// а агрегатным чтениям достаточно read-committed изоляции.
type ScoreRepo struct {
	db *gorm.DB
}

// NewScoreRepo создает новый репозиторий результатов
func NewScoreRepo(db *gorm.DB) *ScoreRepo {
	return &ScoreRepo{db: db}
}

// storeErr переводит ошибку драйвера в ErrUnavailable, сохраняя исходный текст.
// gorm.ErrRecordNotFound сюда не попадает: агрегатные запросы по пустой таблице
// возвращают валидные нулевые значения, а не ошибку.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
}

// Create добавляет новую запись результата
func (r *ScoreRepo) Create(score *entity.Score) error {
	if err := r.db.Create(score).Error; err != nil {
		log.Printf("[ScoreRepo] Ошибка при создании записи результата для user_id=%d: %v", score.UserID, err)
		return storeErr(err)
	}
	return nil
}

// GetHighestScore возвращает максимальный счет пользователя (0, если записей нет)
func (r *ScoreRepo) GetHighestScore(userID uint) (int64, error) {
	var highest int64
	err := r.db.Model(&entity.Score{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(score), 0)").
		Scan(&highest).Error
	if err != nil {
		log.Printf("[ScoreRepo] Ошибка при получении максимального счета user_id=%d: %v", userID, err)
		return 0, storeErr(err)
	}
	return highest, nil
}

// GetUserScores возвращает страницу результатов пользователя
func (r *ScoreRepo) GetUserScores(userID uint, limit, offset int) ([]entity.Score, error) {
	var scores []entity.Score
	err := r.db.Where("user_id = ?", userID).
		Order("score DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&scores).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return scores, nil
}

// CountUsersWithHigherMaxScore возвращает количество разных пользователей,
// чей максимум строго больше threshold
func (r *ScoreRepo) CountUsersWithHigherMaxScore(threshold int64) (int64, error) {
	var count int64
	err := r.db.Raw(`
		SELECT COUNT(*)
		FROM (
		    SELECT user_id
		    FROM scores
		    GROUP BY user_id
		    HAVING MAX(score) > ?
		) AS better_users`, threshold).
		Scan(&count).Error
	if err != nil {
		log.Printf("[ScoreRepo] Ошибка при подсчете пользователей с максимумом выше %d: %v", threshold, err)
		return 0, storeErr(err)
	}
	return count, nil
}

// CountScoresAbove возвращает количество отдельных записей со счетом строго
// больше threshold (без дедупликации по пользователю)
func (r *ScoreRepo) CountScoresAbove(threshold int64) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Score{}).
		Where("score > ?", threshold).
		Count(&count).Error
	if err != nil {
		log.Printf("[ScoreRepo] Ошибка при подсчете записей со счетом выше %d: %v", threshold, err)
		return 0, storeErr(err)
	}
	return count, nil
}

// GetLeaderboard возвращает страницу рейтинга и общее количество игроков с результатами.
// Ранг считается оконной функцией по полному упорядочиванию
// (MAX(score) DESC, MAX(created_at) DESC) и поэтому остается глобальным
// при любом offset. Игроки без записей отсекаются INNER JOIN-ом.
func (r *ScoreRepo) GetLeaderboard(limit, offset int) ([]entity.UserStanding, int64, error) {
	var standings []entity.UserStanding
	var total int64

	// Используем транзакцию для согласованности страницы и общего количества.
	// Если падает запрос количества — падает весь вызов, частичные страницы не отдаем.
	tx := r.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if tx.Error != nil {
		return nil, 0, storeErr(tx.Error)
	}

	err := tx.Model(&entity.Score{}).
		Distinct("user_id").
		Count(&total).Error
	if err != nil {
		tx.Rollback()
		log.Printf("[ScoreRepo] Ошибка при подсчете участников лидерборда: %v", err)
		return nil, 0, storeErr(err)
	}

	err = tx.Raw(`
		SELECT
		    ROW_NUMBER() OVER (ORDER BY MAX(s.score) DESC, MAX(s.created_at) DESC) AS rank,
		    u.id AS user_id,
		    u.username,
		    MAX(s.score) AS highest_score,
		    COUNT(s.id) AS games_played,
		    MAX(s.created_at) AS last_played
		FROM users u
		JOIN scores s ON s.user_id = u.id
		GROUP BY u.id, u.username
		ORDER BY rank
		LIMIT ? OFFSET ?`, limit, offset).
		Scan(&standings).Error
	if err != nil {
		tx.Rollback()
		log.Printf("[ScoreRepo] Ошибка при получении страницы лидерборда: %v", err)
		return nil, 0, storeErr(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, 0, storeErr(err)
	}

	return standings, total, nil
}

// CountUsersWithScores возвращает количество разных пользователей с хотя бы одной записью
func (r *ScoreRepo) CountUsersWithScores() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Score{}).
		Distinct("user_id").
		Count(&count).Error
	if err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

// CountUserScores возвращает количество сыгранных партий пользователя
func (r *ScoreRepo) CountUserScores(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Score{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

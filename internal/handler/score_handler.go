package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/flappy-api/internal/domain/entity"
	apperrors "github.com/yourusername/flappy-api/internal/pkg/errors"
	"github.com/yourusername/flappy-api/internal/service"
)

// ScoreHandler обрабатывает запросы, связанные с результатами и лидербордом
type ScoreHandler struct {
	scoreService *service.ScoreService
}

// NewScoreHandler создает новый обработчик результатов
func NewScoreHandler(scoreService *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService}
}

// SubmitScoreRequest представляет запрос на отправку результата.
// Значение score валидируется в сервисе: отрицательные значения отклоняются,
// а вот 0 — легальный результат партии.
type SubmitScoreRequest struct {
	Score int64 `json:"score"`
	Level int   `json:"level" binding:"omitempty,min=1"`
}

// GetInfo возвращает описание API (для удобства ручной проверки)
func (h *ScoreHandler) GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Scores API",
		"endpoints": gin.H{
			"POST /api/scores/submit":            "Submit a score (requires authentication)",
			"GET /api/scores/leaderboard":        "Get leaderboard (public)",
			"GET /api/scores/leaderboard/export": "Export leaderboard as xlsx or csv (public)",
			"GET /api/scores/my-scores":          "Get user scores (requires authentication)",
			"GET /api/scores/my-rank":            "Get user rank (requires authentication)",
		},
	})
}

// SubmitScore обрабатывает отправку нового результата
func (h *ScoreHandler) SubmitScore(c *gin.Context) {
	var req SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uint)

	result, err := h.scoreService.SubmitScore(userID, req.Score, req.Level)
	if err != nil {
		h.handleScoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Score submitted successfully",
		"score":   result.Score,
		"stats":   result.Stats,
	})
}

// GetLeaderboard возвращает страницу лидерборда
func (h *ScoreHandler) GetLeaderboard(c *gin.Context) {
	limit, offset := paginationParams(c)

	result, err := h.scoreService.GetLeaderboard(limit, offset)
	if err != nil {
		h.handleScoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMyScores возвращает результаты текущего пользователя
func (h *ScoreHandler) GetMyScores(c *gin.Context) {
	limit, offset := paginationParams(c)
	userID := c.MustGet("user_id").(uint)

	result, err := h.scoreService.GetUserScores(userID, limit, offset)
	if err != nil {
		h.handleScoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMyRank возвращает текущий ранг пользователя
func (h *ScoreHandler) GetMyRank(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	result, err := h.scoreService.GetUserRank(userID)
	if err != nil {
		h.handleScoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportLeaderboard выгружает полный лидерборд в файл (xlsx по умолчанию, csv по запросу)
func (h *ScoreHandler) ExportLeaderboard(c *gin.Context) {
	standings, err := h.scoreService.GetFullLeaderboard()
	if err != nil {
		h.handleScoreError(c, err)
		return
	}

	filename := fmt.Sprintf("leaderboard_%s", time.Now().Format("2006-01-02"))

	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		h.exportCSV(c, standings, filename)
	case "xlsx":
		h.exportXLSX(c, standings, filename)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format, use xlsx or csv"})
	}
}

// exportCSV выгружает лидерборд в CSV
func (h *ScoreHandler) exportCSV(c *gin.Context, standings []entity.UserStanding, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	if err := w.Write([]string{"rank", "username", "highest_score", "games_played", "last_played"}); err != nil {
		log.Printf("[ScoreHandler] Ошибка записи заголовков CSV: %v", err)
		return
	}

	for _, st := range standings {
		row := []string{
			strconv.FormatInt(st.Rank, 10),
			sanitizeForExcel(st.Username),
			strconv.FormatInt(st.HighestScore, 10),
			strconv.FormatInt(st.GamesPlayed, 10),
			st.LastPlayed.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			log.Printf("[ScoreHandler] Ошибка записи строки CSV: %v", err)
			return
		}
	}
}

// exportXLSX выгружает лидерборд в Excel с использованием StreamWriter
func (h *ScoreHandler) exportXLSX(c *gin.Context, standings []entity.UserStanding, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Leaderboard"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ScoreHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Rank", "Username", "Highest score", "Games played", "Last played"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ScoreHandler] Ошибка записи заголовков: %v", err)
	}

	for i, st := range standings {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			st.Rank,
			sanitizeForExcel(st.Username),
			st.HighestScore,
			st.GamesPlayed,
			st.LastPlayed.Format(time.RFC3339),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ScoreHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ScoreHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ScoreHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// paginationParams читает limit/offset из query. Нечисловые и отсутствующие
// значения превращаются в 0 — сервис подставит умолчания и выполнит клампинг.
func paginationParams(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		limit = 0
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		offset = 0
	}
	return limit, offset
}

// handleScoreError преобразует ошибки сервиса в HTTP-статусы
func (h *ScoreHandler) handleScoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, apperrors.ErrUnavailable):
		log.Printf("[ScoreHandler] Хранилище недоступно: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage temporarily unavailable"})
	default:
		log.Printf("[ScoreHandler] Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

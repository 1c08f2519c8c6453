package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/flappy-api/internal/pkg/errors"
)

func TestScore_Validate_AcceptsZeroScore(t *testing.T) {
	// Ноль — легальный результат партии (например, мгновенный проигрыш)
	score := &Score{UserID: 1, Score: 0, Level: 1}

	err := score.Validate()

	require.NoError(t, err)
	assert.Equal(t, 1, score.Level)
}

func TestScore_Validate_RejectsNegativeScore(t *testing.T) {
	score := &Score{UserID: 1, Score: -5, Level: 1}

	err := score.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestScore_Validate_DefaultsLevel(t *testing.T) {
	// Нулевой level означает "не указан" и заменяется на 1
	score := &Score{UserID: 1, Score: 42}

	err := score.Validate()

	require.NoError(t, err)
	assert.Equal(t, 1, score.Level)
}

func TestScore_Validate_RejectsNegativeLevel(t *testing.T) {
	score := &Score{UserID: 1, Score: 42, Level: -1}

	err := score.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

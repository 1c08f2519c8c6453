package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, неверные учетные данные).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation используется для ошибок валидации входных данных
	// (например, отрицательный счет или level < 1 при отправке результата).
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния
	// (например, регистрация с уже занятым username или email).
	ErrConflict = errors.New("resource state conflict")

	// ErrUnavailable используется, когда хранилище недоступно или запрос к нему
	// завершился ошибкой драйвера. Воркфлоу отправки счета такие ошибки не ретраит.
	ErrUnavailable = errors.New("storage unavailable")
)

package climbertoken

import "errors"

var (
	// ErrTokenNotFound возвращается, когда токен не найден
	ErrTokenNotFound = errors.New("climbertoken.repository: token not found")

	// ErrReminderAlreadySent возвращается, когда напоминание этой стадии уже отмечено
	ErrReminderAlreadySent = errors.New("climbertoken.repository: reminder already sent")

	// ErrUnknownReminderStage возвращается для неизвестной стадии напоминания
	ErrUnknownReminderStage = errors.New("climbertoken.repository: unknown reminder stage")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("climbertoken.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("climbertoken.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("climbertoken.repository: failed to scan row")
)

package climber

import "errors"

var (
	// ErrDetailsNotFound возвращается, когда данных участника нет
	ErrDetailsNotFound = errors.New("climber.repository: climber details not found")

	// ErrAlreadyCompleted возвращается условным upsert, если запись уже завершена
	ErrAlreadyCompleted = errors.New("climber.repository: climber details already completed")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("climber.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("climber.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("climber.repository: failed to scan row")
)

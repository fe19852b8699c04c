package commission

import "errors"

var (
	// ErrPartnerNotFound возвращается, когда активный партнер с кодом не найден
	ErrPartnerNotFound = errors.New("commission.repository: partner not found")

	// ErrCommissionNotFound возвращается, когда комиссия бронирования не найдена
	ErrCommissionNotFound = errors.New("commission.repository: commission not found")

	// ErrCommissionExists возвращается, когда у бронирования уже есть комиссия
	ErrCommissionExists = errors.New("commission.repository: commission already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("commission.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("commission.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("commission.repository: failed to scan row")
)

package create_booking

import "errors"

var (
	// ErrDepartureNotFound возвращается, когда выезд не найден
	ErrDepartureNotFound = errors.New("create_booking: departure not found")

	// ErrDepartureStarted возвращается, когда выезд уже начался
	ErrDepartureStarted = errors.New("create_booking: departure has already started")

	// ErrNotEnoughPlaces возвращается, когда на выезде не хватает свободных мест
	ErrNotEnoughPlaces = errors.New("create_booking: not enough places left on departure")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

package climberdetails

import "errors"

var (
	// ErrTokenNotFound возвращается для неизвестного кода
	ErrTokenNotFound = errors.New("climberdetails: token not found")

	// ErrTokenExpired возвращается, когда срок действия токена истек
	ErrTokenExpired = errors.New("climberdetails: token expired")

	// ErrAlreadyCompleted возвращается, когда данные участника уже отправлены
	ErrAlreadyCompleted = errors.New("climberdetails: details already completed")

	// ErrBookingNotFound возвращается, когда бронирование не найдено или email лида не совпал
	ErrBookingNotFound = errors.New("climberdetails: booking not found")

	// ErrInvalidClimberIndex возвращается для индекса вне 1..N-1
	ErrInvalidClimberIndex = errors.New("climberdetails: invalid climber index")

	// ErrInvalidInput возвращается при ошибках валидации
	ErrInvalidInput = errors.New("climberdetails: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("climberdetails: internal error")
)

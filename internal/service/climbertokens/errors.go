package climbertokens

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("climbertokens: booking not found")

	// ErrTokenNotFound возвращается, когда токен не найден или относится к другому бронированию
	ErrTokenNotFound = errors.New("climbertokens: token not found")

	// ErrNoEmail возвращается, когда у токена нет email для отправки
	ErrNoEmail = errors.New("climbertokens: token has no email")

	// ErrNoPendingTokens возвращается, когда нет незавершенных токенов
	ErrNoPendingTokens = errors.New("climbertokens: no pending tokens")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("climbertokens: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("climbertokens: internal error")
)

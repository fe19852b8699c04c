package emailservice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("emailservice client: internal error")

	// ErrUnavailable возвращается, когда провайдер недоступен (сеть, 429, 5xx); повтор имеет смысл
	ErrUnavailable = errors.New("emailservice client: provider unavailable")

	// ErrRejected возвращается, когда провайдер отклонил письмо (4xx); повтор не поможет
	ErrRejected = errors.New("emailservice client: message rejected")

	// ErrInvalidResponse возвращается при некорректном ответе от провайдера
	ErrInvalidResponse = errors.New("emailservice client: invalid response")
)

package notifier

import "errors"

var (
	// ErrNoRecipient возвращается, когда у письма нет адресата
	ErrNoRecipient = errors.New("notifier: email has no recipient")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("notifier: internal error")
)

package send_climber_reminders

import "errors"

var (
	// ErrInternal возвращается, когда не удалось выбрать токены для напоминаний
	ErrInternal = errors.New("send_climber_reminders: internal error")
)

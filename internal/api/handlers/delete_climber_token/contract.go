package delete_climber_token

import "context"

type ClimberTokenService interface {
	Delete(ctx context.Context, bookingID string, tokenID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package get_climber_tokens

import (
	"context"

	"github.com/m04kA/TrekBookingService/internal/service/climbertokens/models"
)

type ClimberTokenService interface {
	Status(ctx context.Context, bookingID string) (*models.StatusResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

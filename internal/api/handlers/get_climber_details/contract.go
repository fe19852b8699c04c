package get_climber_details

import (
	"context"

	"github.com/m04kA/TrekBookingService/internal/service/climberdetails/models"
)

type ClimberDetailsService interface {
	GetByToken(ctx context.Context, code string) (*models.TokenFormResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

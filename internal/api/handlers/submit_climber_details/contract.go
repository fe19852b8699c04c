package submit_climber_details

import (
	"context"

	"github.com/m04kA/TrekBookingService/internal/service/climberdetails/models"
)

type ClimberDetailsService interface {
	SubmitByToken(ctx context.Context, code string, req *models.Submission) (*models.SubmitResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package submit_manage_climbers

import (
	"context"

	"github.com/m04kA/TrekBookingService/internal/service/climberdetails/models"
)

type ClimberDetailsService interface {
	SubmitByLead(ctx context.Context, bookingRef string, req *models.LeadSubmission) (*models.SubmitResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package get_manage_climbers

import (
	"context"

	"github.com/m04kA/TrekBookingService/internal/service/climberdetails/models"
)

type ClimberDetailsService interface {
	GetForLead(ctx context.Context, bookingRef, leadEmail string) (*models.LeadViewResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

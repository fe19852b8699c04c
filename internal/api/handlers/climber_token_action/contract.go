package climber_token_action

import (
	"context"

	"github.com/m04kA/TrekBookingService/internal/service/climbertokens/models"
)

type ClimberTokenService interface {
	Generate(ctx context.Context, bookingID string) (*models.GenerateResponse, error)
	Resend(ctx context.Context, bookingID string, req *models.ResendRequest) (*models.SendResponse, error)
	SendAll(ctx context.Context, bookingID string, req *models.SendAllRequest) (*models.SendResponse, error)
	SendToLead(ctx context.Context, bookingID string) (*models.SendResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

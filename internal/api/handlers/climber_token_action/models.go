package climber_token_action

import (
	"github.com/m04kA/TrekBookingService/internal/service/climbertokens/models"
)

// Действия над токенами участников
const (
	ActionGenerate   = "generate"
	ActionResend     = "resend"
	ActionSendAll    = "send_all"
	ActionSendToLead = "send_to_lead"
)

// ActionRequest HTTP request model
type ActionRequest struct {
	Action       string   `json:"action"`
	ClimberIndex *int     `json:"climberIndex,omitempty"` // resend
	Email        *string  `json:"email,omitempty"`        // resend
	Emails       []string `json:"emails,omitempty"`       // send_all
}

// ToResendRequest конвертирует запрос для действия resend
func (r *ActionRequest) ToResendRequest() *models.ResendRequest {
	return &models.ResendRequest{
		ClimberIndex: *r.ClimberIndex,
		Email:        r.Email,
	}
}

// ToSendAllRequest конвертирует запрос для действия send_all
func (r *ActionRequest) ToSendAllRequest() *models.SendAllRequest {
	return &models.SendAllRequest{Emails: r.Emails}
}

package submit_manage_climbers

import (
	"github.com/m04kA/TrekBookingService/internal/service/climberdetails/models"
)

// SubmitRequest HTTP request model: повторная проверка email лида плюс поля формы участника
type SubmitRequest struct {
	LeadEmail    string `json:"leadEmail"`
	ClimberIndex *int   `json:"climberIndex"`
	models.Submission
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *SubmitRequest) ToServiceRequest() *models.LeadSubmission {
	return &models.LeadSubmission{
		LeadEmail:    r.LeadEmail,
		ClimberIndex: *r.ClimberIndex,
		Submission:   r.Submission,
	}
}

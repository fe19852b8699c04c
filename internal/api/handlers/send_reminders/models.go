package send_reminders

import (
	sendReminders "github.com/m04kA/TrekBookingService/internal/usecase/send_climber_reminders"
)

// RemindersResponse HTTP response model
type RemindersResponse struct {
	SevenDayReminders int      `json:"sevenDayReminders"`
	ThreeDayReminders int      `json:"threeDayReminders"`
	Errors            []string `json:"errors"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *sendReminders.Response) *RemindersResponse {
	errs := resp.Errors
	if errs == nil {
		errs = []string{}
	}
	return &RemindersResponse{
		SevenDayReminders: resp.SevenDayReminders,
		ThreeDayReminders: resp.ThreeDayReminders,
		Errors:            errs,
	}
}

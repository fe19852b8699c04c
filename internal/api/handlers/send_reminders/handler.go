package send_reminders

import (
	"net/http"

	"github.com/m04kA/TrekBookingService/internal/api/handlers"
)

type Handler struct {
	useCase SendRemindersUseCase
	logger  Logger
}

func NewHandler(useCase SendRemindersUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/cron/climber-reminders
// Ошибки отдельных писем попадают в errors, 500 только при сбое выборки
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.useCase.Execute(r.Context())
	if err != nil {
		h.logger.Error("GET /cron/climber-reminders - Failed to run reminders: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	if len(result.Errors) > 0 {
		h.logger.Warn("GET /cron/climber-reminders - Completed with %d errors", len(result.Errors))
	}

	h.logger.Info("GET /cron/climber-reminders - Reminders queued: seven_day=%d, three_day=%d",
		result.SevenDayReminders, result.ThreeDayReminders)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

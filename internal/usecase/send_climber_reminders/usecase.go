package send_climber_reminders

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TrekBookingService/internal/domain"
	tokenRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/climbertoken"
)

// UseCase рассылает напоминания участникам, не заполнившим данные
// Запускается внешним планировщиком; повторный запуск в том же окне писем не дублирует
type UseCase struct {
	tokenRepo     TokenRepository
	bookingRepo   BookingRepository
	departureRepo DepartureRepository
	notifier      Notifier
	composer      EmailComposer
	metrics       Metrics
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tokenRepo TokenRepository,
	bookingRepo BookingRepository,
	departureRepo DepartureRepository,
	notifier Notifier,
	composer EmailComposer,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		tokenRepo:     tokenRepo,
		bookingRepo:   bookingRepo,
		departureRepo: departureRepo,
		notifier:      notifier,
		composer:      composer,
		metrics:       metrics,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

type bookingContext struct {
	booking   *domain.Booking
	departure *domain.GroupDeparture
}

// Execute выполняет оба прохода: 7 дней и 3 дня до истечения токена
// Кандидаты обоих проходов выбираются до отправки
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	now := uc.timeProvider.Now()
	uc.logger.Info("SendClimberReminders: started at %s", now.Format("2006-01-02T15:04:05Z07:00"))

	candidates := make([][]*domain.ClimberToken, len(domain.ReminderWindows))
	for i, window := range domain.ReminderWindows {
		filter := domain.TokenReminderFilter{
			Stage:         window.Stage,
			ExpiresAfter:  now.Add(window.From),
			ExpiresBefore: now.Add(window.To),
		}

		tokens, err := uc.tokenRepo.ListForReminder(ctx, filter)
		if err != nil {
			uc.logger.Error("SendClimberReminders: failed to list %s candidates: %v", window.Stage, err)
			return nil, fmt.Errorf("%w: failed to list %s candidates: %v", ErrInternal, window.Stage, err)
		}
		candidates[i] = tokens
	}

	resp := &Response{Errors: make([]string, 0)}
	cache := make(map[string]*bookingContext)

	for i, window := range domain.ReminderWindows {
		for _, token := range candidates[i] {
			if err := uc.remind(ctx, cache, token, window.Stage); err != nil {
				uc.logger.Warn("SendClimberReminders: %s reminder for token id=%d failed: %v", window.Stage, token.ID, err)
				resp.Errors = append(resp.Errors, fmt.Sprintf("token %d (%s): %v", token.ID, window.Stage, err))
				continue
			}

			uc.metrics.ReminderEnqueued(string(window.Stage))
			switch window.Stage {
			case domain.ReminderSevenDays:
				resp.SevenDayReminders++
			case domain.ReminderThreeDays:
				resp.ThreeDayReminders++
			}
		}
	}

	uc.logger.Info("SendClimberReminders: sent 7d=%d 3d=%d errors=%d",
		resp.SevenDayReminders, resp.ThreeDayReminders, len(resp.Errors))

	return resp, nil
}

// remind ставит письмо и отметку в одной транзакции: без отметки письмо не уйдет
func (uc *UseCase) remind(
	ctx context.Context,
	cache map[string]*bookingContext,
	token *domain.ClimberToken,
	stage domain.ReminderStage,
) error {
	bc, err := uc.loadBooking(ctx, cache, token.BookingID)
	if err != nil {
		return err
	}

	now := uc.timeProvider.Now()
	return uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.tokenRepo.MarkReminderSent(txCtx, token.ID, stage, now); err != nil {
			if errors.Is(err, tokenRepo.ErrReminderAlreadySent) {
				return fmt.Errorf("already sent by a concurrent run")
			}
			return fmt.Errorf("mark sent: %w", err)
		}

		email := uc.composer.Reminder(bc.booking, bc.departure, token, stage)
		if err := uc.notifier.Enqueue(txCtx, email); err != nil {
			return fmt.Errorf("enqueue: %w", err)
		}
		return nil
	})
}

func (uc *UseCase) loadBooking(ctx context.Context, cache map[string]*bookingContext, bookingID string) (*bookingContext, error) {
	if bc, ok := cache[bookingID]; ok {
		return bc, nil
	}

	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}

	departure, err := uc.departureRepo.GetByID(ctx, booking.DepartureID)
	if err != nil {
		return nil, fmt.Errorf("get departure %d: %w", booking.DepartureID, err)
	}

	bc := &bookingContext{booking: booking, departure: departure}
	cache[bookingID] = bc
	return bc, nil
}

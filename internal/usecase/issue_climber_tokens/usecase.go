package issue_climber_tokens

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/TrekBookingService/internal/domain"
	bookingRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/booking"
	"github.com/m04kA/TrekBookingService/pkg/tokencode"
)

// UseCase выдает токены участникам бронирования (индексы 1..N-1)
// Повторный запуск безопасен: уникальный ключ (booking_id, climber_index) не даст создать дубль
type UseCase struct {
	bookingRepo   BookingRepository
	departureRepo DepartureRepository
	climberRepo   ClimberRepository
	tokenRepo     TokenRepository
	notifier      Notifier
	composer      EmailComposer
	metrics       Metrics
	generateCode  CodeGenerator
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	departureRepo DepartureRepository,
	climberRepo ClimberRepository,
	tokenRepo TokenRepository,
	notifier Notifier,
	composer EmailComposer,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		departureRepo: departureRepo,
		climberRepo:   climberRepo,
		tokenRepo:     tokenRepo,
		notifier:      notifier,
		composer:      composer,
		metrics:       metrics,
		generateCode: func() (string, error) {
			return tokencode.Generate(tokencode.DefaultBytes)
		},
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute создает недостающие токены и ставит письма в очередь
func (uc *UseCase) Execute(ctx context.Context, bookingID string) (*Response, error) {
	uc.logger.Info("IssueClimberTokens: booking=%s", bookingID)

	if strings.TrimSpace(bookingID) == "" {
		return nil, fmt.Errorf("%w: bookingID is required", ErrInvalidInput)
	}

	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("IssueClimberTokens: booking id=%s not found", bookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("IssueClimberTokens: failed to get booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	departure, err := uc.departureRepo.GetByID(ctx, booking.DepartureID)
	if err != nil {
		uc.logger.Error("IssueClimberTokens: failed to get departure id=%d: %v", booking.DepartureID, err)
		return nil, fmt.Errorf("%w: failed to get departure: %v", ErrInternal, err)
	}

	roster, err := uc.climberRepo.GetRoster(ctx, booking.ID)
	if err != nil {
		uc.logger.Error("IssueClimberTokens: failed to get roster for booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to get roster: %v", ErrInternal, err)
	}

	existing, err := uc.tokenRepo.ListByBooking(ctx, booking.ID)
	if err != nil {
		uc.logger.Error("IssueClimberTokens: failed to list tokens for booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to list tokens: %v", ErrInternal, err)
	}

	hasToken := make(map[int]bool, len(existing))
	for _, t := range existing {
		hasToken[t.ClimberIndex] = true
	}

	now := uc.timeProvider.Now()
	resp := &Response{BookingID: booking.ID}

	for index := domain.LeadClimberIndex + 1; index < booking.TotalClimbers; index++ {
		if roster.IsComplete(index) {
			resp.SkippedCompleted = append(resp.SkippedCompleted, index)
			continue
		}
		if hasToken[index] {
			resp.SkippedExisting = append(resp.SkippedExisting, index)
			continue
		}

		code, err := uc.generateCode()
		if err != nil {
			uc.logger.Error("IssueClimberTokens: failed to generate code: %v", err)
			return nil, fmt.Errorf("%w: failed to generate code: %v", ErrInternal, err)
		}

		token := &domain.ClimberToken{
			BookingID:    booking.ID,
			Code:         code,
			ClimberIndex: index,
			ExpiresAt:    now.Add(domain.TokenTTL),
		}

		// Заранее известные имя и email берутся из незавершенной записи участника
		if known, ok := roster[index]; ok && known != nil {
			if known.Name != "" {
				token.ClimberName = &known.Name
			}
			if known.Email != "" {
				token.Email = &known.Email
			}
		}

		created, err := uc.tokenRepo.CreateIfAbsent(ctx, token)
		if err != nil {
			uc.logger.Error("IssueClimberTokens: failed to create token for booking id=%s index=%d: %v", booking.ID, index, err)
			return nil, fmt.Errorf("%w: failed to create token: %v", ErrInternal, err)
		}
		if !created {
			// Параллельный запуск успел создать токен первым
			resp.SkippedExisting = append(resp.SkippedExisting, index)
			continue
		}

		resp.Created = append(resp.Created, token)
	}

	uc.metrics.TokensIssued(len(resp.Created))

	if len(resp.Created) == 0 {
		uc.logger.Info("IssueClimberTokens: nothing to issue for booking id=%s", booking.ID)
		return resp, nil
	}

	if uc.notifier.EnqueueBestEffort(ctx, uc.composer.LeadSummary(booking, departure, resp.Created, now)) {
		resp.EmailsQueued++
	}

	for _, token := range resp.Created {
		if !token.HasEmail() {
			continue
		}
		if uc.notifier.EnqueueBestEffort(ctx, uc.composer.ClimberRequest(booking, departure, token)) {
			resp.EmailsQueued++
		}
	}

	uc.logger.Info("IssueClimberTokens: booking id=%s created=%d skipped_completed=%d skipped_existing=%d emails=%d",
		booking.ID, len(resp.Created), len(resp.SkippedCompleted), len(resp.SkippedExisting), resp.EmailsQueued)

	return resp, nil
}

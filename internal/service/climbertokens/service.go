package climbertokens

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/TrekBookingService/internal/domain"
	bookingRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/booking"
	tokenRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/climbertoken"
	"github.com/m04kA/TrekBookingService/internal/service/climbertokens/models"
	issueTokens "github.com/m04kA/TrekBookingService/internal/usecase/issue_climber_tokens"
	"github.com/m04kA/TrekBookingService/pkg/validate"
)

// Service административные операции с токенами участников
type Service struct {
	bookingRepo   BookingRepository
	departureRepo DepartureRepository
	climberRepo   ClimberRepository
	tokenRepo     TokenRepository
	issuer        TokenIssuer
	notifier      Notifier
	composer      EmailComposer
	validator     *validate.Validator
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса токенов
func NewService(
	bookingRepo BookingRepository,
	departureRepo DepartureRepository,
	climberRepo ClimberRepository,
	tokenRepo TokenRepository,
	issuer TokenIssuer,
	notifier Notifier,
	composer EmailComposer,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		departureRepo: departureRepo,
		climberRepo:   climberRepo,
		tokenRepo:     tokenRepo,
		issuer:        issuer,
		notifier:      notifier,
		composer:      composer,
		validator:     validate.New(),
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Status возвращает бронирование и состояние каждого участника 0..N-1
func (s *Service) Status(ctx context.Context, bookingID string) (*models.StatusResponse, error) {
	s.logger.Info("Status: fetching climber status for booking id=%s", bookingID)

	booking, departure, err := s.loadBooking(ctx, "Status", bookingID)
	if err != nil {
		return nil, err
	}

	roster, err := s.climberRepo.GetRoster(ctx, booking.ID)
	if err != nil {
		s.logger.Error("Status: failed to get roster for booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: Status - roster error: %v", ErrInternal, err)
	}

	tokens, err := s.tokenRepo.ListByBooking(ctx, booking.ID)
	if err != nil {
		s.logger.Error("Status: failed to list tokens for booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: Status - tokens error: %v", ErrInternal, err)
	}

	climbers, completed := models.BuildClimberStatuses(booking, roster, tokens, s.timeProvider.Now(), s.composer.ClimberLink)

	return &models.StatusResponse{
		Booking:        models.FromDomainBooking(booking, departure),
		Climbers:       climbers,
		CompletedCount: completed,
		TotalClimbers:  booking.TotalClimbers,
	}, nil
}

// Generate создает недостающие токены (идемпотентно)
func (s *Service) Generate(ctx context.Context, bookingID string) (*models.GenerateResponse, error) {
	s.logger.Info("Generate: issuing tokens for booking id=%s", bookingID)

	result, err := s.issuer.Execute(ctx, bookingID)
	if err != nil {
		if errors.Is(err, issueTokens.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Generate: issuer failed for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Generate - issuer error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	resp := &models.GenerateResponse{
		Created:          len(result.Created),
		Tokens:           make([]models.TokenView, 0, len(result.Created)),
		SkippedCompleted: nonNil(result.SkippedCompleted),
		SkippedExisting:  nonNil(result.SkippedExisting),
	}
	for _, t := range result.Created {
		resp.Tokens = append(resp.Tokens, *models.FromDomainToken(t, now, s.composer.ClimberLink))
	}

	return resp, nil
}

// Resend повторно отправляет письмо участнику, при необходимости сначала обновив email
func (s *Service) Resend(ctx context.Context, bookingID string, req *models.ResendRequest) (*models.SendResponse, error) {
	s.logger.Info("Resend: booking id=%s, climber index=%d", bookingID, req.ClimberIndex)

	if req.ClimberIndex < 0 {
		return nil, fmt.Errorf("%w: climberIndex must not be negative", ErrInvalidInput)
	}

	var email string
	if req.Email != nil {
		email = domain.NormalizeEmail(*req.Email)
		if email != "" {
			if err := s.validator.Var("email", email, "email"); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
		}
	}

	booking, departure, err := s.loadBooking(ctx, "Resend", bookingID)
	if err != nil {
		return nil, err
	}

	token, err := s.tokenRepo.GetByBookingAndIndex(ctx, booking.ID, req.ClimberIndex)
	if err != nil {
		if errors.Is(err, tokenRepo.ErrTokenNotFound) {
			s.logger.Warn("Resend: no token for booking id=%s index=%d", booking.ID, req.ClimberIndex)
			return nil, ErrTokenNotFound
		}
		s.logger.Error("Resend: failed to get token: %v", err)
		return nil, fmt.Errorf("%w: Resend - token error: %v", ErrInternal, err)
	}

	if email != "" {
		if err := s.tokenRepo.UpdateEmail(ctx, token.ID, email); err != nil {
			s.logger.Error("Resend: failed to update email for token id=%d: %v", token.ID, err)
			return nil, fmt.Errorf("%w: Resend - update email error: %v", ErrInternal, err)
		}
		token.Email = &email
	}

	if !token.HasEmail() {
		s.logger.Warn("Resend: token id=%d has no email", token.ID)
		return nil, ErrNoEmail
	}

	resp := &models.SendResponse{}
	if s.notifier.EnqueueBestEffort(ctx, s.composer.ClimberRequest(booking, departure, token)) {
		resp.Sent = 1
	}

	s.logger.Info("Resend: queued email for token id=%d to %s", token.ID, *token.Email)
	return resp, nil
}

// SendAll отправляет письма всем участникам с незавершенными действующими токенами
func (s *Service) SendAll(ctx context.Context, bookingID string, req *models.SendAllRequest) (*models.SendResponse, error) {
	s.logger.Info("SendAll: booking id=%s, emails provided=%d", bookingID, len(req.Emails))

	emails := make([]string, len(req.Emails))
	for i, raw := range req.Emails {
		emails[i] = domain.NormalizeEmail(raw)
		if emails[i] == "" {
			continue
		}
		if err := s.validator.Var(fmt.Sprintf("emails[%d]", i), emails[i], "email"); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	booking, departure, err := s.loadBooking(ctx, "SendAll", bookingID)
	if err != nil {
		return nil, err
	}

	tokens, err := s.tokenRepo.ListByBooking(ctx, booking.ID)
	if err != nil {
		s.logger.Error("SendAll: failed to list tokens for booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: SendAll - tokens error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	resp := &models.SendResponse{}

	for _, token := range tokens {
		if token.IsCompleted {
			continue
		}
		if token.IsExpired(now) {
			resp.Skipped++
			continue
		}

		if token.ClimberIndex < len(emails) && emails[token.ClimberIndex] != "" {
			email := emails[token.ClimberIndex]
			if err := s.tokenRepo.UpdateEmail(ctx, token.ID, email); err != nil {
				s.logger.Error("SendAll: failed to update email for token id=%d: %v", token.ID, err)
				return nil, fmt.Errorf("%w: SendAll - update email error: %v", ErrInternal, err)
			}
			token.Email = &email
		}

		if !token.HasEmail() {
			resp.Skipped++
			continue
		}

		if s.notifier.EnqueueBestEffort(ctx, s.composer.ClimberRequest(booking, departure, token)) {
			resp.Sent++
		} else {
			resp.Skipped++
		}
	}

	s.logger.Info("SendAll: booking id=%s sent=%d skipped=%d", booking.ID, resp.Sent, resp.Skipped)
	return resp, nil
}

// SendToLead отправляет лиду сводку ссылок по всем незавершенным токенам
// Истекшие ссылки попадают в письмо с пометкой
func (s *Service) SendToLead(ctx context.Context, bookingID string) (*models.SendResponse, error) {
	s.logger.Info("SendToLead: booking id=%s", bookingID)

	booking, departure, err := s.loadBooking(ctx, "SendToLead", bookingID)
	if err != nil {
		return nil, err
	}

	tokens, err := s.tokenRepo.ListByBooking(ctx, booking.ID)
	if err != nil {
		s.logger.Error("SendToLead: failed to list tokens for booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: SendToLead - tokens error: %v", ErrInternal, err)
	}

	pending := make([]*domain.ClimberToken, 0, len(tokens))
	for _, token := range tokens {
		if !token.IsCompleted {
			pending = append(pending, token)
		}
	}

	if len(pending) == 0 {
		s.logger.Warn("SendToLead: no pending tokens for booking id=%s", booking.ID)
		return nil, ErrNoPendingTokens
	}

	resp := &models.SendResponse{}
	if s.notifier.EnqueueBestEffort(ctx, s.composer.LeadSummary(booking, departure, pending, s.timeProvider.Now())) {
		resp.Sent = 1
	}

	s.logger.Info("SendToLead: queued summary of %d tokens to lead of booking id=%s", len(pending), booking.ID)
	return resp, nil
}

// Delete удаляет токен бронирования
func (s *Service) Delete(ctx context.Context, bookingID string, tokenID int64) error {
	s.logger.Info("Delete: booking id=%s, token id=%d", bookingID, tokenID)

	if tokenID <= 0 {
		return fmt.Errorf("%w: tokenId must be positive", ErrInvalidInput)
	}

	if err := s.tokenRepo.Delete(ctx, bookingID, tokenID); err != nil {
		if errors.Is(err, tokenRepo.ErrTokenNotFound) {
			s.logger.Warn("Delete: token id=%d not found in booking id=%s", tokenID, bookingID)
			return ErrTokenNotFound
		}
		s.logger.Error("Delete: failed to delete token id=%d: %v", tokenID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: token id=%d deleted from booking id=%s", tokenID, bookingID)
	return nil
}

func (s *Service) loadBooking(ctx context.Context, op, bookingID string) (*domain.Booking, *domain.GroupDeparture, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, bookingID)
			return nil, nil, ErrBookingNotFound
		}
		s.logger.Error("%s: failed to get booking id=%s: %v", op, bookingID, err)
		return nil, nil, fmt.Errorf("%w: %s - booking error: %v", ErrInternal, op, err)
	}

	departure, err := s.departureRepo.GetByID(ctx, booking.DepartureID)
	if err != nil {
		s.logger.Error("%s: failed to get departure id=%d: %v", op, booking.DepartureID, err)
		return nil, nil, fmt.Errorf("%w: %s - departure error: %v", ErrInternal, op, err)
	}

	return booking, departure, nil
}

func nonNil(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

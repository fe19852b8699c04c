package climberdetails

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/TrekBookingService/internal/domain"
	bookingRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/booking"
	climberRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/climber"
	tokenRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/climbertoken"
	"github.com/m04kA/TrekBookingService/internal/service/climberdetails/models"
	tokenModels "github.com/m04kA/TrekBookingService/internal/service/climbertokens/models"
	"github.com/m04kA/TrekBookingService/pkg/validate"
)

const (
	pathToken = "token"
	pathLead  = "lead"

	newsletterSource = "climber_details"
)

// Service прием данных участников по токену и от лида
type Service struct {
	bookingRepo   BookingRepository
	departureRepo DepartureRepository
	climberRepo   ClimberRepository
	tokenRepo     TokenRepository
	notifier      Notifier
	composer      EmailComposer
	metrics       Metrics
	validator     *validate.Validator
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса данных участников
func NewService(
	bookingRepo BookingRepository,
	departureRepo DepartureRepository,
	climberRepo ClimberRepository,
	tokenRepo TokenRepository,
	notifier Notifier,
	composer EmailComposer,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		departureRepo: departureRepo,
		climberRepo:   climberRepo,
		tokenRepo:     tokenRepo,
		notifier:      notifier,
		composer:      composer,
		metrics:       metrics,
		validator:     validate.New(),
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// GetByToken возвращает контекст бронирования и сохраненные данные для формы участника
// Проверки по порядку: код существует, срок не истек, данные ещё не отправлены
func (s *Service) GetByToken(ctx context.Context, code string) (*models.TokenFormResponse, error) {
	token, err := s.checkToken(ctx, "GetByToken", code)
	if err != nil {
		return nil, err
	}

	booking, departure, err := s.loadBooking(ctx, "GetByToken", token.BookingID)
	if err != nil {
		return nil, err
	}

	saved, err := s.climberRepo.Get(ctx, booking.ID, token.ClimberIndex)
	if err != nil && !errors.Is(err, climberRepo.ErrDetailsNotFound) {
		s.logger.Error("GetByToken: failed to get details for booking id=%s, climber=%d: %v", booking.ID, token.ClimberIndex, err)
		return nil, fmt.Errorf("%w: GetByToken - details error: %v", ErrInternal, err)
	}

	details := tokenModels.FromDomainDetails(saved)
	if details == nil && (token.ClimberName != nil || token.Email != nil) {
		details = &tokenModels.DetailsView{}
		if token.ClimberName != nil {
			details.Name = *token.ClimberName
		}
		if token.Email != nil {
			details.Email = *token.Email
		}
	}

	return &models.TokenFormResponse{
		Booking:      models.NewBookingContext(booking, departure),
		ClimberIndex: token.ClimberIndex,
		ExpiresAt:    token.ExpiresAt,
		Details:      details,
	}, nil
}

// SubmitByToken сохраняет данные участника по токену
// Первая отправка выигрывает: повторная получает ErrAlreadyCompleted
func (s *Service) SubmitByToken(ctx context.Context, code string, req *models.Submission) (*models.SubmitResponse, error) {
	token, err := s.checkToken(ctx, "SubmitByToken", code)
	if err != nil {
		return nil, err
	}

	if err := s.validateSubmission(req); err != nil {
		s.logger.Warn("SubmitByToken: validation failed for token id=%d: %v", token.ID, err)
		return nil, err
	}

	booking, _, err := s.loadBooking(ctx, "SubmitByToken", token.BookingID)
	if err != nil {
		return nil, err
	}

	details := s.toDetails(req, booking.ID, token.ClimberIndex)
	if err := s.climberRepo.Upsert(ctx, details, true); err != nil {
		if errors.Is(err, climberRepo.ErrAlreadyCompleted) {
			s.logger.Warn("SubmitByToken: concurrent submission lost for token id=%d", token.ID)
			return nil, ErrAlreadyCompleted
		}
		s.logger.Error("SubmitByToken: failed to save details for token id=%d: %v", token.ID, err)
		return nil, fmt.Errorf("%w: SubmitByToken - upsert error: %v", ErrInternal, err)
	}

	s.logger.Info("SubmitByToken: climber index=%d of booking id=%s completed", token.ClimberIndex, booking.ID)
	return s.afterSubmit(ctx, booking, details, req.SubscribeNewsletter, pathToken), nil
}

// GetForLead возвращает всех участников бронирования лиду
func (s *Service) GetForLead(ctx context.Context, bookingRef, leadEmail string) (*models.LeadViewResponse, error) {
	booking, err := s.findForLead(ctx, "GetForLead", bookingRef, leadEmail)
	if err != nil {
		return nil, err
	}

	_, departure, err := s.loadBooking(ctx, "GetForLead", booking.ID)
	if err != nil {
		return nil, err
	}

	roster, err := s.climberRepo.GetRoster(ctx, booking.ID)
	if err != nil {
		s.logger.Error("GetForLead: failed to get roster for booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: GetForLead - roster error: %v", ErrInternal, err)
	}

	tokens, err := s.tokenRepo.ListByBooking(ctx, booking.ID)
	if err != nil {
		s.logger.Error("GetForLead: failed to list tokens for booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: GetForLead - tokens error: %v", ErrInternal, err)
	}

	// Коды токенов лиду не показываются
	climbers, completed := tokenModels.BuildClimberStatuses(booking, roster, tokens, s.timeProvider.Now(), nil)

	return &models.LeadViewResponse{
		Booking:        models.NewBookingContext(booking, departure),
		Climbers:       climbers,
		CompletedCount: completed,
		TotalClimbers:  booking.TotalClimbers,
	}, nil
}

// SubmitByLead сохраняет данные участника от имени лида
// Допустимы индексы 1..N-1; уже заполненные данные не перезаписываются
func (s *Service) SubmitByLead(ctx context.Context, bookingRef string, req *models.LeadSubmission) (*models.SubmitResponse, error) {
	booking, err := s.findForLead(ctx, "SubmitByLead", bookingRef, req.LeadEmail)
	if err != nil {
		return nil, err
	}

	if !booking.IsNonLeadIndex(req.ClimberIndex) {
		s.logger.Warn("SubmitByLead: invalid climber index=%d for booking id=%s (total=%d)",
			req.ClimberIndex, booking.ID, booking.TotalClimbers)
		return nil, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidClimberIndex, booking.TotalClimbers-1)
	}

	if err := s.validateSubmission(&req.Submission); err != nil {
		s.logger.Warn("SubmitByLead: validation failed for booking id=%s: %v", booking.ID, err)
		return nil, err
	}

	details := s.toDetails(&req.Submission, booking.ID, req.ClimberIndex)
	if err := s.climberRepo.Upsert(ctx, details, true); err != nil {
		if errors.Is(err, climberRepo.ErrAlreadyCompleted) {
			s.logger.Warn("SubmitByLead: climber index=%d of booking id=%s already completed", req.ClimberIndex, booking.ID)
			return nil, ErrAlreadyCompleted
		}
		s.logger.Error("SubmitByLead: failed to save details for booking id=%s index=%d: %v", booking.ID, req.ClimberIndex, err)
		return nil, fmt.Errorf("%w: SubmitByLead - upsert error: %v", ErrInternal, err)
	}

	s.logger.Info("SubmitByLead: climber index=%d of booking id=%s saved by lead", req.ClimberIndex, booking.ID)
	return s.afterSubmit(ctx, booking, details, req.SubscribeNewsletter, pathLead), nil
}

func (s *Service) checkToken(ctx context.Context, op, code string) (*domain.ClimberToken, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrTokenNotFound
	}

	token, err := s.tokenRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, tokenRepo.ErrTokenNotFound) {
			s.logger.Warn("%s: unknown token", op)
			return nil, ErrTokenNotFound
		}
		s.logger.Error("%s: failed to get token: %v", op, err)
		return nil, fmt.Errorf("%w: %s - token error: %v", ErrInternal, op, err)
	}

	if token.IsExpired(s.timeProvider.Now()) {
		s.logger.Warn("%s: token id=%d expired at %s", op, token.ID, token.ExpiresAt)
		return nil, ErrTokenExpired
	}

	if token.IsCompleted {
		s.logger.Warn("%s: token id=%d already completed", op, token.ID)
		return nil, ErrAlreadyCompleted
	}

	return token, nil
}

func (s *Service) findForLead(ctx context.Context, op, bookingRef, leadEmail string) (*domain.Booking, error) {
	ref := domain.NormalizeBookingRef(bookingRef)
	email := domain.NormalizeEmail(leadEmail)

	// Неверный код и неверный email неразличимы для клиента
	if ref == "" || email == "" {
		return nil, ErrBookingNotFound
	}

	booking, err := s.bookingRepo.GetByRefAndLeadEmail(ctx, ref, email)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: no booking for ref=%s and given lead email", op, ref)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: failed to find booking ref=%s: %v", op, ref, err)
		return nil, fmt.Errorf("%w: %s - booking error: %v", ErrInternal, op, err)
	}

	return booking, nil
}

func (s *Service) loadBooking(ctx context.Context, op, bookingID string) (*domain.Booking, *domain.GroupDeparture, error) {
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

func (s *Service) validateSubmission(req *models.Submission) error {
	req.Normalize()
	if err := s.validator.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

func (s *Service) toDetails(req *models.Submission, bookingID string, index int) *domain.ClimberDetails {
	now := s.timeProvider.Now()
	return req.ToDomain().MergeInto(nil, bookingID, index, now)
}

// afterSubmit побочные эффекты после записи; ошибки только логируются
func (s *Service) afterSubmit(
	ctx context.Context,
	booking *domain.Booking,
	details *domain.ClimberDetails,
	subscribe bool,
	path string,
) *models.SubmitResponse {
	s.metrics.DetailsSubmitted(path)

	completed := 0
	roster, err := s.climberRepo.GetRoster(ctx, booking.ID)
	if err != nil {
		s.logger.Error("afterSubmit: failed to reload roster for booking id=%s: %v", booking.ID, err)
	} else {
		completed = roster.CompletedCount(booking.TotalClimbers)
	}

	if subscribe {
		s.notifier.Subscribe(ctx, details.Email, &details.Name, newsletterSource)
	}

	s.notifier.EnqueueBestEffort(ctx, s.composer.StaffDetailsSubmitted(booking, details, completed, path == pathLead))

	link := "/admin/bookings/" + booking.ID
	bookingID := booking.ID
	s.notifier.Notify(ctx, &domain.Notification{
		Type:  domain.NotificationDetailsSubmitted,
		Title: "Climber details submitted",
		Message: fmt.Sprintf("%s (climber %d) on booking %s. %d of %d climbers complete.",
			details.Name, details.ClimberIndex+1, booking.BookingRef, completed, booking.TotalClimbers),
		Link:      &link,
		BookingID: &bookingID,
	})

	return &models.SubmitResponse{
		Success:        true,
		ClimberIndex:   details.ClimberIndex,
		CompletedCount: completed,
		TotalClimbers:  booking.TotalClimbers,
	}
}

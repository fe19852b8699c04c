package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TrekBookingService/internal/domain"
	bookingRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/booking"
	commissionRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/commission"
	departureRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/departure"
	"github.com/m04kA/TrekBookingService/internal/service/bookings/models"
	"github.com/m04kA/TrekBookingService/pkg/validate"
)

// Service сервис администрирования бронирований
type Service struct {
	bookingRepo    BookingRepository
	departureRepo  DepartureRepository
	commissionRepo CommissionRepository
	issuer         TokenIssuer
	notifier       Notifier
	txManager      TransactionManager
	validator      *validate.Validator
	timeProvider   TimeProvider
	logger         Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	departureRepo DepartureRepository,
	commissionRepo CommissionRepository,
	issuer TokenIssuer,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:    bookingRepo,
		departureRepo:  departureRepo,
		commissionRepo: commissionRepo,
		issuer:         issuer,
		notifier:       notifier,
		txManager:      txManager,
		validator:      validate.New(),
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// GetByID получает бронирование с выездом и комиссией
func (s *Service) GetByID(ctx context.Context, id string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return s.toResponse(ctx, "GetByID", booking)
}

// ListByDeparture возвращает бронирования выезда
// По умолчанию только активные; комиссии в списке не загружаются
func (s *Service) ListByDeparture(ctx context.Context, req *models.ListDepartureBookingsRequest) (*models.DepartureBookingsResponse, error) {
	s.logger.Info("ListByDeparture: departure id=%d, status=%v, include_inactive=%t",
		req.DepartureID, req.Status, req.IncludeInactive)

	var statuses []domain.BookingStatus
	switch {
	case req.Status != nil:
		status, ok := domain.ParseBookingStatus(*req.Status)
		if !ok {
			s.logger.Warn("ListByDeparture: invalid status filter %q", *req.Status)
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *req.Status)
		}
		statuses = []domain.BookingStatus{status}
	case !req.IncludeInactive:
		statuses = domain.ActiveStatuses
	}

	departure, err := s.departureRepo.GetByID(ctx, req.DepartureID)
	if err != nil {
		if errors.Is(err, departureRepo.ErrDepartureNotFound) {
			s.logger.Warn("ListByDeparture: departure id=%d not found", req.DepartureID)
			return nil, ErrDepartureNotFound
		}
		s.logger.Error("ListByDeparture: failed to get departure id=%d: %v", req.DepartureID, err)
		return nil, fmt.Errorf("%w: ListByDeparture - departure error: %v", ErrInternal, err)
	}

	list, err := s.bookingRepo.ListByDeparture(ctx, req.DepartureID, statuses)
	if err != nil {
		s.logger.Error("ListByDeparture: repository error for departure id=%d: %v", req.DepartureID, err)
		return nil, fmt.Errorf("%w: ListByDeparture - repository error: %v", ErrInternal, err)
	}

	resp := &models.DepartureBookingsResponse{
		Departure: models.DepartureSummary{
			ID:        departure.ID,
			RouteName: departure.RouteName,
			StartDate: departure.StartDate.Format(domain.DateFormat),
			EndDate:   departure.EndDate.Format(domain.DateFormat),
		},
		MaxClimbers: departure.MaxClimbers,
		Bookings:    make([]*models.BookingResponse, 0, len(list)),
	}
	for _, b := range list {
		if b.IsActive() {
			resp.ReservedClimbers += b.TotalClimbers
		}
		resp.Bookings = append(resp.Bookings, models.FromDomainBooking(b, nil, nil))
	}

	s.logger.Info("ListByDeparture: found %d bookings for departure id=%d", len(resp.Bookings), req.DepartureID)
	return resp, nil
}

// Update применяет изменения администратора
// Переход depositPaid false->true переводит INQUIRY/PENDING в DEPOSIT_PAID и запускает выдачу токенов
// Отмена или возврат аннулирует комиссию партнера
func (s *Service) Update(ctx context.Context, id string, req *models.UpdateBookingRequest) (*models.UpdateBookingResponse, error) {
	s.logger.Info("Update: updating booking id=%s", id)

	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if err := s.validator.Struct(req); err != nil {
		s.logger.Warn("Update: validation failed for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	update := domain.BookingUpdate{
		DepositPaid: req.DepositPaid,
		BalancePaid: req.BalancePaid,
		Notes:       req.Notes,
	}
	if req.Status != nil {
		status, ok := domain.ParseBookingStatus(*req.Status)
		if !ok {
			s.logger.Warn("Update: invalid status=%q for booking id=%s", *req.Status, id)
			return nil, ErrInvalidStatus
		}
		update.Status = &status
	}

	var (
		updated      *domain.Booking
		depositNewly bool
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		now := s.timeProvider.Now()

		// Строка блокируется, чтобы два запроса не запустили выдачу токенов дважды
		current, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Update: booking id=%s not found", id)
				return ErrBookingNotFound
			}
			s.logger.Error("Update: failed to get booking id=%s: %v", id, err)
			return fmt.Errorf("%w: Update - get error: %v", ErrInternal, err)
		}

		depositNewly = req.DepositPaid != nil && *req.DepositPaid && !current.DepositPaid
		if depositNewly && update.Status == nil &&
			(current.Status == domain.StatusInquiry || current.Status == domain.StatusPending) {
			status := domain.StatusDepositPaid
			update.Status = &status
		}

		updated, err = s.bookingRepo.Update(txCtx, id, update, now)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("Update: failed to update booking id=%s: %v", id, err)
			return fmt.Errorf("%w: Update - update error: %v", ErrInternal, err)
		}

		if current.IsActive() && !updated.IsActive() {
			cancelled, err := s.commissionRepo.CancelByBooking(txCtx, id, now)
			if err != nil {
				s.logger.Error("Update: failed to cancel commission for booking id=%s: %v", id, err)
				return fmt.Errorf("%w: Update - commission error: %v", ErrInternal, err)
			}
			if cancelled {
				s.logger.Info("Update: commission for booking id=%s cancelled", id)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := &models.UpdateBookingResponse{}

	if depositNewly {
		s.notifyDepositPaid(ctx, updated)

		issued, err := s.issuer.Execute(ctx, updated.ID)
		if err != nil {
			s.logger.Error("Update: token issuance failed for booking id=%s: %v", updated.ID, err)
		} else {
			resp.TokensIssued = len(issued.Created)
		}
	}

	resp.Booking, err = s.toResponse(ctx, "Update", updated)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: booking id=%s updated, status=%s", updated.ID, updated.Status)
	return resp, nil
}

// Delete удаляет бронирование вместе с участниками, токенами и комиссией
func (s *Service) Delete(ctx context.Context, id string) error {
	s.logger.Info("Delete: deleting booking id=%s", id)

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Delete: booking id=%s not found", id)
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: booking id=%s deleted", id)
	return nil
}

func (s *Service) notifyDepositPaid(ctx context.Context, b *domain.Booking) {
	link := "/admin/bookings/" + b.ID
	bookingID := b.ID
	s.notifier.Notify(ctx, &domain.Notification{
		Type:      domain.NotificationDepositPaid,
		Title:     "Deposit received",
		Message:   fmt.Sprintf("Deposit paid for booking %s (%s, %d climbers).", b.BookingRef, b.LeadName, b.TotalClimbers),
		Link:      &link,
		BookingID: &bookingID,
	})
}

func (s *Service) toResponse(ctx context.Context, op string, b *domain.Booking) (*models.BookingResponse, error) {
	departure, err := s.departureRepo.GetByID(ctx, b.DepartureID)
	if err != nil {
		s.logger.Error("%s: failed to get departure id=%d: %v", op, b.DepartureID, err)
		return nil, fmt.Errorf("%w: %s - departure error: %v", ErrInternal, op, err)
	}

	commission, err := s.commissionRepo.GetByBooking(ctx, b.ID)
	if err != nil {
		if !errors.Is(err, commissionRepo.ErrCommissionNotFound) {
			s.logger.Error("%s: failed to get commission for booking id=%s: %v", op, b.ID, err)
			return nil, fmt.Errorf("%w: %s - commission error: %v", ErrInternal, op, err)
		}
		commission = nil
	}

	return models.FromDomainBooking(b, departure, commission), nil
}

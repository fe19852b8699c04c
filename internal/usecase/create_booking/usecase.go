package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/TrekBookingService/internal/domain"
	bookingRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/booking"
	commissionRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/commission"
	departureRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/departure"
	"github.com/m04kA/TrekBookingService/pkg/validate"
)

const (
	// maxRefAttempts попыток подобрать уникальный bookingRef
	maxRefAttempts = 3

	newsletterSource = "booking"
)

// UseCase use case для создания бронирования на групповой выезд
type UseCase struct {
	bookingRepo    BookingRepository
	departureRepo  DepartureRepository
	climberRepo    ClimberRepository
	commissionRepo CommissionRepository
	notifier       Notifier
	composer       EmailComposer
	txManager      TransactionManager
	validator      *validate.Validator
	newID          IDGenerator
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	departureRepo DepartureRepository,
	climberRepo ClimberRepository,
	commissionRepo CommissionRepository,
	notifier Notifier,
	composer EmailComposer,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		departureRepo:  departureRepo,
		climberRepo:    climberRepo,
		commissionRepo: commissionRepo,
		notifier:       notifier,
		composer:       composer,
		txManager:      txManager,
		validator:      validate.New(),
		newID:          uuid.NewString,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования
// Свободные места считаются под блокировкой строки выезда
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	req.Normalize()
	if err := uc.validator.Struct(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if len(req.Climbers) > req.TotalClimbers-1 {
		uc.logger.Warn("CreateBooking: %d known climbers for %d places", len(req.Climbers), req.TotalClimbers)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, &validate.Error{Fields: []validate.FieldError{{
			Field:   "climbers",
			Message: fmt.Sprintf("must contain at most %d entries", req.TotalClimbers-1),
		}}})
	}

	uc.logger.Info("CreateBooking: departure=%d, climbers=%d, lead=%s", req.DepartureID, req.TotalClimbers, req.LeadEmail)

	// 2. Реферальный код: неизвестный или неактивный партнер не мешает бронированию
	partner := uc.findPartner(ctx, req.ReferralCode)

	// 3. Бронирование, данные участников и комиссия в одной транзакции
	var (
		booking   *domain.Booking
		departure *domain.GroupDeparture
		err       error
	)
	for attempt := 1; attempt <= maxRefAttempts; attempt++ {
		booking, departure, err = uc.create(ctx, req, partner)
		if !errors.Is(err, bookingRepo.ErrDuplicateBookingRef) {
			break
		}
		uc.logger.Warn("CreateBooking: booking ref collision, attempt %d/%d", attempt, maxRefAttempts)
	}
	if err != nil {
		if errors.Is(err, bookingRepo.ErrDuplicateBookingRef) {
			uc.logger.Error("CreateBooking: could not allocate unique booking ref")
			return nil, fmt.Errorf("%w: could not allocate booking ref: %v", ErrInternal, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s ref=%s", booking.ID, booking.BookingRef)

	// 4. Побочные эффекты после фиксации транзакции
	uc.afterCreate(ctx, req, booking, departure, partner)

	return &Response{
		ID:            booking.ID,
		BookingRef:    booking.BookingRef,
		DepartureID:   booking.DepartureID,
		Status:        string(booking.Status),
		TotalClimbers: booking.TotalClimbers,
		TotalPrice:    booking.TotalPrice,
		PartnerID:     booking.PartnerID,
		CreatedAt:     booking.CreatedAt,
	}, nil
}

func (uc *UseCase) create(
	ctx context.Context,
	req *Request,
	partner *domain.Partner,
) (*domain.Booking, *domain.GroupDeparture, error) {
	var (
		result    *domain.Booking
		departure *domain.GroupDeparture
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		now := uc.timeProvider.Now()

		// 3.1. Выезд блокируется до конца транзакции
		dep, err := uc.departureRepo.GetByID(txCtx, req.DepartureID)
		if err != nil {
			if errors.Is(err, departureRepo.ErrDepartureNotFound) {
				uc.logger.Warn("CreateBooking: departure id=%d not found", req.DepartureID)
				return ErrDepartureNotFound
			}
			uc.logger.Error("CreateBooking: failed to get departure id=%d: %v", req.DepartureID, err)
			return fmt.Errorf("%w: failed to get departure: %v", ErrInternal, err)
		}
		if dep.HasStarted(now) {
			uc.logger.Warn("CreateBooking: departure id=%d started at %s", dep.ID, dep.StartDate.Format(domain.DateFormat))
			return ErrDepartureStarted
		}

		// 3.2. Проверка вместимости; MaxClimbers = 0 означает без ограничения
		if dep.MaxClimbers > 0 {
			reserved, err := uc.bookingRepo.CountReservedClimbers(txCtx, dep.ID)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to count reserved climbers: %v", err)
				return fmt.Errorf("%w: failed to count reserved climbers: %v", ErrInternal, err)
			}
			availability := domain.Availability{MaxClimbers: dep.MaxClimbers, Reserved: reserved}
			if !availability.Fits(req.TotalClimbers) {
				uc.logger.Warn("CreateBooking: departure id=%d has %d/%d places taken, requested %d",
					dep.ID, reserved, dep.MaxClimbers, req.TotalClimbers)
				return fmt.Errorf("%w: %d places left", ErrNotEnoughPlaces, availability.PlacesLeft())
			}
		}

		// 3.3. Создаем бронирование
		id := uc.newID()
		booking := &domain.Booking{
			ID:            id,
			BookingRef:    domain.BookingRefFromID(id),
			DepartureID:   dep.ID,
			LeadName:      req.LeadName,
			LeadEmail:     req.LeadEmail,
			LeadPhone:     req.LeadPhone,
			TotalClimbers: req.TotalClimbers,
			TotalPrice:    dep.PricePerPerson * float64(req.TotalClimbers),
			Status:        domain.StatusPending,
			Notes:         req.Notes,
		}
		if partner != nil {
			booking.PartnerID = &partner.ID
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateBookingRef) {
				return err
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 3.4. Лид заполняет свои данные при бронировании
		lead := &domain.ClimberDetails{
			BookingID:    created.ID,
			ClimberIndex: domain.LeadClimberIndex,
			Name:         req.LeadName,
			Email:        req.LeadEmail,
			Phone:        req.LeadPhone,
			IsComplete:   true,
			CompletedAt:  &now,
			UpdatedAt:    now,
		}
		if err := uc.climberRepo.Upsert(txCtx, lead, false); err != nil {
			uc.logger.Error("CreateBooking: failed to save lead details: %v", err)
			return fmt.Errorf("%w: failed to save lead details: %v", ErrInternal, err)
		}

		// 3.5. Известные контакты участников сохраняются незавершенными
		for i, known := range req.Climbers {
			if known.Name == "" && known.Email == "" {
				continue
			}
			details := &domain.ClimberDetails{
				BookingID:    created.ID,
				ClimberIndex: i + 1,
				Name:         known.Name,
				Email:        known.Email,
				UpdatedAt:    now,
			}
			if err := uc.climberRepo.Upsert(txCtx, details, true); err != nil {
				uc.logger.Error("CreateBooking: failed to save known climber index=%d: %v", i+1, err)
				return fmt.Errorf("%w: failed to save known climber: %v", ErrInternal, err)
			}
		}

		// 3.6. Комиссия партнера
		if partner != nil {
			commission := &domain.Commission{
				BookingID: created.ID,
				PartnerID: partner.ID,
				Rate:      partner.CommissionRate,
				Amount:    domain.CalculateCommission(created.TotalPrice, partner.CommissionRate),
				Status:    domain.CommissionPending,
			}
			if err := uc.commissionRepo.Create(txCtx, commission); err != nil {
				uc.logger.Error("CreateBooking: failed to create commission for partner id=%d: %v", partner.ID, err)
				return fmt.Errorf("%w: failed to create commission: %v", ErrInternal, err)
			}
		}

		result = created
		departure = dep
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return result, departure, nil
}

func (uc *UseCase) findPartner(ctx context.Context, code *string) *domain.Partner {
	if code == nil {
		return nil
	}

	partner, err := uc.commissionRepo.GetActivePartnerByCode(ctx, *code)
	if err != nil {
		if errors.Is(err, commissionRepo.ErrPartnerNotFound) {
			uc.logger.Warn("CreateBooking: referral code %q unknown or inactive, ignored", *code)
			return nil
		}
		uc.logger.Error("CreateBooking: failed to look up referral code %q: %v", *code, err)
		return nil
	}

	return partner
}

// afterCreate уведомления по новому бронированию; ошибки только логируются
func (uc *UseCase) afterCreate(
	ctx context.Context,
	req *Request,
	booking *domain.Booking,
	departure *domain.GroupDeparture,
	partner *domain.Partner,
) {
	link := "/admin/bookings/" + booking.ID
	bookingID := booking.ID
	uc.notifier.Notify(ctx, &domain.Notification{
		Type:  domain.NotificationBookingCreated,
		Title: "New booking",
		Message: fmt.Sprintf("%s booked %d place(s) on %s (%s).",
			booking.LeadName, booking.TotalClimbers, departure.RouteName, booking.BookingRef),
		Link:      &link,
		BookingID: &bookingID,
	})

	if req.SubscribeNewsletter {
		uc.notifier.Subscribe(ctx, booking.LeadEmail, &booking.LeadName, newsletterSource)
	}

	uc.notifier.EnqueueBestEffort(ctx, uc.composer.BookingReceived(booking, departure))
	uc.notifier.EnqueueBestEffort(ctx, uc.composer.StaffNewBooking(booking, departure, partner))
}

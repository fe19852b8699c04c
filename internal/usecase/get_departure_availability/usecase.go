package get_departure_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TrekBookingService/internal/domain"
	departureRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/departure"
)

// UseCase use case для получения свободных мест на выезде
type UseCase struct {
	bookingRepo   BookingRepository
	departureRepo DepartureRepository
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	departureRepo DepartureRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		departureRepo: departureRepo,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case получения свободных мест
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetDepartureAvailability: departure=%d", req.DepartureID)

	// 1. Валидация входных данных
	if req.DepartureID <= 0 {
		uc.logger.Warn("GetDepartureAvailability: invalid departure id=%d", req.DepartureID)
		return nil, fmt.Errorf("%w: departure id must be positive", ErrInvalidInput)
	}

	// 2. Получаем выезд
	departure, err := uc.departureRepo.GetByID(ctx, req.DepartureID)
	if err != nil {
		if errors.Is(err, departureRepo.ErrDepartureNotFound) {
			uc.logger.Warn("GetDepartureAvailability: departure id=%d not found", req.DepartureID)
			return nil, ErrDepartureNotFound
		}
		uc.logger.Error("GetDepartureAvailability: failed to get departure id=%d: %v", req.DepartureID, err)
		return nil, fmt.Errorf("%w: failed to get departure: %v", ErrInternal, err)
	}

	// 3. Считаем занятые места
	reserved, err := uc.bookingRepo.CountReservedClimbers(ctx, departure.ID)
	if err != nil {
		uc.logger.Error("GetDepartureAvailability: failed to count reserved climbers for departure id=%d: %v", departure.ID, err)
		return nil, fmt.Errorf("%w: failed to count reserved climbers: %v", ErrInternal, err)
	}

	availability := domain.Availability{MaxClimbers: departure.MaxClimbers, Reserved: reserved}
	started := departure.HasStarted(uc.timeProvider.Now())

	uc.logger.Info("GetDepartureAvailability: departure id=%d reserved=%d/%d started=%t",
		departure.ID, reserved, departure.MaxClimbers, started)

	return &Response{
		DepartureID:    departure.ID,
		RouteName:      departure.RouteName,
		StartDate:      departure.StartDate,
		EndDate:        departure.EndDate,
		PricePerPerson: departure.PricePerPerson,
		MaxClimbers:    departure.MaxClimbers,
		Reserved:       reserved,
		PlacesLeft:     availability.PlacesLeft(),
		IsBookable:     !started && !availability.IsFull(),
	}, nil
}

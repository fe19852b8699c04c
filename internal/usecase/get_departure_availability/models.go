package get_departure_availability

import "time"

// Request модель запроса свободных мест на выезде
type Request struct {
	DepartureID int64
}

// Response модель ответа со свободными местами
type Response struct {
	DepartureID    int64
	RouteName      string
	StartDate      time.Time
	EndDate        time.Time
	PricePerPerson float64
	MaxClimbers    int  // 0 = без ограничения
	Reserved       int  // Участники в активных бронированиях
	PlacesLeft     int  // -1 = без ограничения
	IsBookable     bool // Выезд не начался и есть места
}

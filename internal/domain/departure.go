package domain

import "time"

// GroupDeparture represents a fixed-date group trip (climb or safari)
type GroupDeparture struct {
	ID             int64
	RouteName      string
	StartDate      time.Time
	EndDate        time.Time
	MaxClimbers    int
	PricePerPerson float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasStarted returns true once the departure date has been reached
func (d *GroupDeparture) HasStarted(now time.Time) bool {
	return !now.Before(d.StartDate)
}

package domain

// Availability represents the places situation on a group departure
// MaxClimbers = 0 means the departure has no capacity limit
type Availability struct {
	MaxClimbers int
	Reserved    int // Climbers in active bookings
}

// IsUnlimited returns true if the departure has no capacity limit
func (a Availability) IsUnlimited() bool {
	return a.MaxClimbers <= 0
}

// PlacesLeft returns the number of free places, -1 for unlimited departures
func (a Availability) PlacesLeft() int {
	if a.IsUnlimited() {
		return -1
	}
	return max(a.MaxClimbers-a.Reserved, 0)
}

// Fits returns true if n more climbers can join the departure
func (a Availability) Fits(n int) bool {
	return a.IsUnlimited() || a.Reserved+n <= a.MaxClimbers
}

// IsFull returns true if no places are left
func (a Availability) IsFull() bool {
	return !a.IsUnlimited() && a.Reserved >= a.MaxClimbers
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (a Availability) OccupancyRate() float64 {
	if a.IsUnlimited() {
		return 0
	}
	return min(float64(a.Reserved)/float64(a.MaxClimbers)*100, 100)
}

package domain

import (
	"math"
	"time"
)

// CommissionStatus статус комиссии партнера
type CommissionStatus string

const (
	CommissionPending   CommissionStatus = "PENDING"
	CommissionApproved  CommissionStatus = "APPROVED"
	CommissionPaid      CommissionStatus = "PAID"
	CommissionCancelled CommissionStatus = "CANCELLED"
)

// Partner referral partner earning a commission on bookings
type Partner struct {
	ID             int64
	Name           string
	ReferralCode   string
	CommissionRate float64 // проценты
	Email          *string
	IsActive       bool
}

// Commission financial record tied 1:1 to a booking
type Commission struct {
	ID        int64
	BookingID string
	PartnerID int64
	Rate      float64
	Amount    float64
	Status    CommissionStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CalculateCommission сумма комиссии, округленная до центов
func CalculateCommission(totalPrice, rate float64) float64 {
	return math.Round(totalPrice*rate) / 100
}

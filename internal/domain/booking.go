package domain

import (
	"strings"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusInquiry     BookingStatus = "INQUIRY"
	StatusPending     BookingStatus = "PENDING"
	StatusDepositPaid BookingStatus = "DEPOSIT_PAID"
	StatusConfirmed   BookingStatus = "CONFIRMED"
	StatusCancelled   BookingStatus = "CANCELLED"
	StatusRefunded    BookingStatus = "REFUNDED"
	StatusCompleted   BookingStatus = "COMPLETED"
)

// Booking represents a reservation of places on a group departure
type Booking struct {
	ID            string
	BookingRef    string // 8 символов, уникален, см. BookingRefFromID
	DepartureID   int64
	LeadName      string
	LeadEmail     string
	LeadPhone     *string
	TotalClimbers int
	TotalPrice    float64
	Status        BookingStatus
	PartnerID     *int64
	Notes         *string

	DepositPaid   bool
	DepositPaidAt *time.Time
	BalancePaid   bool
	BalancePaidAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true unless the booking was cancelled or refunded
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled && b.Status != StatusRefunded
}

// IsValidClimberIndex проверяет, что индекс попадает в 0..TotalClimbers-1
func (b *Booking) IsValidClimberIndex(index int) bool {
	return index >= 0 && index < b.TotalClimbers
}

// IsNonLeadIndex проверяет, что индекс относится к участнику, а не к лиду
func (b *Booking) IsNonLeadIndex(index int) bool {
	return index > LeadClimberIndex && index < b.TotalClimbers
}

// LeadEmailMatches сравнивает email лида без учета регистра и пробелов
func (b *Booking) LeadEmailMatches(email string) bool {
	return NormalizeEmail(b.LeadEmail) == NormalizeEmail(email)
}

// BookingRefFromID формирует короткий код бронирования: последние 8 символов ID в верхнем регистре
func BookingRefFromID(id string) string {
	compact := strings.ReplaceAll(id, "-", "")
	if len(compact) > BookingRefLength {
		compact = compact[len(compact)-BookingRefLength:]
	}
	return strings.ToUpper(compact)
}

// NormalizeBookingRef приводит пользовательский ввод к формату хранения
func NormalizeBookingRef(ref string) string {
	return strings.ToUpper(strings.TrimSpace(ref))
}

// NormalizeEmail приводит email к формату хранения
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BookingUpdate частичное обновление бронирования администратором
type BookingUpdate struct {
	DepositPaid *bool
	BalancePaid *bool
	Status      *BookingStatus
	Notes       *string
}

// ValidBookingStatuses все допустимые статусы
var ValidBookingStatuses = []BookingStatus{
	StatusInquiry,
	StatusPending,
	StatusDepositPaid,
	StatusConfirmed,
	StatusCancelled,
	StatusRefunded,
	StatusCompleted,
}

// ParseBookingStatus конвертирует строку в BookingStatus с валидацией
func ParseBookingStatus(s string) (BookingStatus, bool) {
	status := BookingStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, valid := range ValidBookingStatuses {
		if status == valid {
			return status, true
		}
	}
	return "", false
}

package domain

import "time"

// Day сутки
const Day = 24 * time.Hour

// Climber token constants
const (
	LeadClimberIndex = 0
	TokenTTL         = 30 * Day
	BookingRefLength = 8
)

// Validation constants
const (
	MinClimberNameLength  = 2
	MaxClimberNameLength  = 120
	MaxFreeTextLength     = 1000
	MaxNotesLength        = 2000
	MaxClimbersPerBooking = 30
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses бронирования, занимающие места на выезде
var ActiveStatuses = []BookingStatus{
	StatusInquiry,
	StatusPending,
	StatusDepositPaid,
	StatusConfirmed,
	StatusCompleted,
}

package domain

import "time"

// OutboxStatus статус письма в очереди
type OutboxStatus string

const (
	OutboxPending OutboxStatus = "PENDING"
	OutboxSent    OutboxStatus = "SENT"
	OutboxFailed  OutboxStatus = "FAILED"
)

// EmailKind тип письма (для логов и аналитики)
type EmailKind string

const (
	EmailClimberRequest  EmailKind = "climber_details_request"
	EmailLeadSummary     EmailKind = "lead_token_summary"
	EmailReminder        EmailKind = "climber_reminder"
	EmailFinalReminder   EmailKind = "climber_final_reminder"
	EmailStaffDetails    EmailKind = "staff_details_submitted"
	EmailBookingReceived EmailKind = "booking_received"
	EmailStaffNewBooking EmailKind = "staff_new_booking"
)

// Email письмо для отправки
type Email struct {
	Kind    EmailKind
	To      string
	Subject string
	Body    string
}

// OutboxMessage письмо в исходящей очереди
type OutboxMessage struct {
	ID            int64
	Email         Email
	Status        OutboxStatus
	Attempts      int
	LastError     *string
	NextAttemptAt time.Time
	CreatedAt     time.Time
	SentAt        *time.Time
}

package domain

import "time"

// NotificationType тип внутреннего уведомления для сотрудников
type NotificationType string

const (
	NotificationBookingCreated   NotificationType = "BOOKING_CREATED"
	NotificationDepositPaid      NotificationType = "DEPOSIT_PAID"
	NotificationDetailsSubmitted NotificationType = "CLIMBER_DETAILS_SUBMITTED"
)

// Notification in-app notification shown in the admin panel
type Notification struct {
	ID        int64
	Type      NotificationType
	Title     string
	Message   string
	Link      *string
	BookingID *string
	IsRead    bool
	CreatedAt time.Time
}

// NewsletterSubscriber подписчик рассылки
type NewsletterSubscriber struct {
	Email     string
	Name      *string
	Source    string
	CreatedAt time.Time
}

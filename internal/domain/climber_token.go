package domain

import "time"

// ClimberToken одноразовый код доступа участника к форме своих данных
// Завершенность не хранится в токене, а выводится из ClimberDetails того же индекса
type ClimberToken struct {
	ID                  int64
	BookingID           string
	Code                string
	ClimberIndex        int
	ClimberName         *string
	Email               *string
	ExpiresAt           time.Time
	ReminderSentAt      *time.Time
	FinalReminderSentAt *time.Time
	CreatedAt           time.Time

	// Производные поля, заполняются репозиторием из climber_details
	IsCompleted bool
	CompletedAt *time.Time
}

// IsExpired returns true when now is strictly after ExpiresAt
func (t *ClimberToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// HasEmail returns true if the token has a non-empty email to send to
func (t *ClimberToken) HasEmail() bool {
	return t.Email != nil && *t.Email != ""
}

// ReminderStage стадия напоминания
type ReminderStage string

const (
	ReminderSevenDays ReminderStage = "7d"
	ReminderThreeDays ReminderStage = "3d"
)

// ReminderWindow окно до истечения токена, в котором отправляется напоминание
type ReminderWindow struct {
	Stage ReminderStage
	From  time.Duration
	To    time.Duration
}

// ReminderWindows окна напоминаний: 6-8 дней и 2-4 дня до истечения
var ReminderWindows = []ReminderWindow{
	{Stage: ReminderSevenDays, From: 6 * Day, To: 8 * Day},
	{Stage: ReminderThreeDays, From: 2 * Day, To: 4 * Day},
}

// TokenReminderFilter критерии выборки токенов для напоминания
type TokenReminderFilter struct {
	Stage         ReminderStage
	ExpiresAfter  time.Time
	ExpiresBefore time.Time
}

package issue_climber_tokens

import "github.com/m04kA/TrekBookingService/internal/domain"

// Response результат выдачи токенов
type Response struct {
	BookingID        string
	Created          []*domain.ClimberToken // новые токены по возрастанию индекса
	SkippedCompleted []int                  // индексы с уже заполненными данными
	SkippedExisting  []int                  // индексы, у которых токен уже есть
	EmailsQueued     int
}

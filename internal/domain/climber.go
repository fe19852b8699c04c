package domain

import "time"

// ClimberDetails personal data of one climber on a booking
// Отсутствие записи означает, что данные по индексу ещё не отправлялись
type ClimberDetails struct {
	BookingID           string
	ClimberIndex        int
	Name                string
	Email               string
	Phone               *string
	Nationality         *string
	PassportNumber      *string
	DateOfBirth         *string // YYYY-MM-DD
	DietaryRequirements *string
	MedicalConditions   *string
	IsComplete          bool
	CompletedAt         *time.Time
	UpdatedAt           time.Time
}

// ClimberRoster данные участников бронирования по индексу
type ClimberRoster map[int]*ClimberDetails

// IsComplete returns true if the climber at index has submitted complete details
func (r ClimberRoster) IsComplete(index int) bool {
	d, ok := r[index]
	return ok && d != nil && d.IsComplete
}

// CompletedCount число участников с заполненными данными среди индексов 0..total-1
func (r ClimberRoster) CompletedCount(total int) int {
	count := 0
	for i := 0; i < total; i++ {
		if r.IsComplete(i) {
			count++
		}
	}
	return count
}

// ClimberSubmission новые данные участника
// nil-поля при слиянии сохраняют ранее сохраненные значения
type ClimberSubmission struct {
	Name                string
	Email               string
	Phone               *string
	Nationality         *string
	PassportNumber      *string
	DateOfBirth         *string
	DietaryRequirements *string
	MedicalConditions   *string
	SubscribeNewsletter bool
}

// MergeInto накладывает отправленные поля на существующую запись
// Используется для предпросмотра; в БД слияние выполняется одним upsert
func (s *ClimberSubmission) MergeInto(existing *ClimberDetails, bookingID string, index int, now time.Time) *ClimberDetails {
	merged := &ClimberDetails{BookingID: bookingID, ClimberIndex: index}
	if existing != nil {
		copied := *existing
		merged = &copied
	}

	merged.Name = s.Name
	merged.Email = NormalizeEmail(s.Email)
	merged.Phone = coalesce(s.Phone, merged.Phone)
	merged.Nationality = coalesce(s.Nationality, merged.Nationality)
	merged.PassportNumber = coalesce(s.PassportNumber, merged.PassportNumber)
	merged.DateOfBirth = coalesce(s.DateOfBirth, merged.DateOfBirth)
	merged.DietaryRequirements = coalesce(s.DietaryRequirements, merged.DietaryRequirements)
	merged.MedicalConditions = coalesce(s.MedicalConditions, merged.MedicalConditions)
	merged.IsComplete = true
	merged.CompletedAt = &now
	merged.UpdatedAt = now

	return merged
}

func coalesce(v, fallback *string) *string {
	if v != nil {
		return v
	}
	return fallback
}

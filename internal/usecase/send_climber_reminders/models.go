package send_climber_reminders

// Response итог одного запуска напоминаний
type Response struct {
	SevenDayReminders int      // Поставлено напоминаний за 7 дней
	ThreeDayReminders int      // Поставлено срочных напоминаний за 3 дня
	Errors            []string // Ошибки по отдельным токенам
}

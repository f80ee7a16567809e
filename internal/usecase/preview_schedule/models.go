package preview_schedule

import "time"

// Request модель запроса предпросмотра расписания
type Request struct {
	Weekday        *int      // День недели, 0 - воскресенье
	TimeOfDay      string    // Время начала в часовом поясе расписания (HH:MM)
	Frequency      string    // weekly, biweekly, monthly, custom
	IntervalWeeks  int       // Шаг в неделях для custom
	Timezone       string    // Часовой пояс расписания (терапевта)
	StartsOn       string    // Дата начала, YYYY-MM-DD (опционально)
	EndsOn         string    // Дата окончания, YYYY-MM-DD (опционально)
	SkipDates      []string  // Пропускаемые даты, YYYY-MM-DD
	SkipHolidays   bool      // Пропускать праздники из конфигурации
	Count          int       // Сколько сессий показать
	ViewerTimezone string    // Часовой пояс пользователя (опционально)
	From           time.Time // Точка отсчёта; нулевое значение - текущее время
}

// Response модель ответа с ближайшими сессиями
type Response struct {
	Summary     string
	Occurrences []Occurrence
}

// Occurrence одна сессия расписания
type Occurrence struct {
	At          time.Time // Момент начала в UTC
	Local       string    // Время в часовом поясе расписания
	Display     string    // Время в часовом поясе пользователя
	DisplayDual string    // Время расписания и пользователя, если пояса различаются
}

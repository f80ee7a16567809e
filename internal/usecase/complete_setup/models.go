package complete_setup

import (
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
)

// Request модель запроса на завершение оформления
type Request struct {
	FlowID         string // ID сценария оформления
	UserID         string // ID пользователя из сессии
	ViewerTimezone string // Часовой пояс пользователя для отображения (опционально)
}

// Response модель ответа с созданной подпиской
type Response struct {
	Subscription *domain.Subscription // Созданная подписка
	Plan         domain.Plan          // Выбранный тарифный план
	Sessions     []SessionItem        // Первые запланированные сессии
	Summary      string               // Описание расписания ("Every week on Monday at 18:30 (Europe/Berlin)")
}

// SessionItem запланированная сессия с готовыми строками отображения
type SessionItem struct {
	ID          string
	StartsAt    time.Time
	Display     string // Время в часовом поясе пользователя
	DisplayDual string // Время терапевта и пользователя, если пояса различаются
}

// Options параметры создания подписки из конфигурации
type Options struct {
	InitialSessions int // Сколько сессий запланировать сразу
}

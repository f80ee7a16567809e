package flows

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/setup"
)

// FlowStore хранилище незавершённых сценариев оформления подписки
type FlowStore interface {
	Start(ownerID string, now time.Time) *setup.State
	Get(id, ownerID string, now time.Time) (*setup.State, error)
	Update(id, ownerID string, now time.Time, fn func(*setup.State) error) (*setup.State, error)
	Discard(id, ownerID string) error
	Sweep(now time.Time) int
	Len() int
}

// AvailabilityChecker проверка, что расписание попадает в окна доступности терапевта
type AvailabilityChecker interface {
	FitsSchedule(ctx context.Context, therapistID string, schedule domain.RecurringSchedule, durationMinutes int, ref time.Time) (bool, error)
}

// Metrics счётчики переходов между шагами
type Metrics interface {
	ObserveSetupTransition(step, action, result string)
	SetActiveFlows(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

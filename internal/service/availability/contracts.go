package availability

import (
	"context"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
)

// AvailabilityRepository интерфейс хранилища окон доступности
type AvailabilityRepository interface {
	ListByTherapist(ctx context.Context, therapistID string) ([]domain.AvailabilitySlot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

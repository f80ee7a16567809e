package sessions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
)

// SessionRepository интерфейс хранилища сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	List(ctx context.Context, filter domain.SessionsFilter) ([]*domain.Session, error)
	Cancel(ctx context.Context, id string, at time.Time) error
}

// AnalyticsTracker журнал продуктовых событий
type AnalyticsTracker interface {
	Track(ctx context.Context, userID, event string, properties map[string]interface{}, at time.Time) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

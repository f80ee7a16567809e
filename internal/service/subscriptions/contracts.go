package subscriptions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
)

// SubscriptionRepository интерфейс хранилища подписок
type SubscriptionRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Subscription, error)
	Cancel(ctx context.Context, id string, reason *string, at time.Time) error
}

// SessionRepository интерфейс хранилища сессий
type SessionRepository interface {
	CancelUpcoming(ctx context.Context, subscriptionID string, from time.Time) (int, error)
}

// AnalyticsTracker журнал продуктовых событий
type AnalyticsTracker interface {
	Track(ctx context.Context, userID, event string, properties map[string]interface{}, at time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

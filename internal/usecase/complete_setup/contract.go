package complete_setup

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/integrations/paymentservice"
	"github.com/m04kA/SMC-TherapySessions/internal/setup"
)

// FlowStore хранилище сценариев оформления
type FlowStore interface {
	Update(id, ownerID string, now time.Time, fn func(*setup.State) error) (*setup.State, error)
	Discard(id, ownerID string) error
	Len() int
}

// PaymentClient интерфейс клиента платёжного сервиса
type PaymentClient interface {
	SetupRecurringPayment(ctx context.Context, req paymentservice.RecurringPaymentRequest) (*paymentservice.RecurringPayment, error)
}

// SubscriptionRepository интерфейс хранилища подписок
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error)
	Delete(ctx context.Context, id string) error
}

// SessionRepository интерфейс хранилища сессий
type SessionRepository interface {
	CreateBatch(ctx context.Context, sessions []*domain.Session) error
}

// AgreementRepository интерфейс хранилища согласий и экстренных контактов
type AgreementRepository interface {
	Create(ctx context.Context, a *domain.Agreement) error
	CreateEmergencyContact(ctx context.Context, c *domain.EmergencyContact) error
	Delete(ctx context.Context, id string) error
	DeleteEmergencyContact(ctx context.Context, id string) error
}

// AnalyticsTracker журнал продуктовых событий
type AnalyticsTracker interface {
	Track(ctx context.Context, userID, event string, properties map[string]interface{}, at time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчики переходов сценария
type Metrics interface {
	ObserveSetupTransition(step, action, result string)
	SetActiveFlows(n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

package main

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	agreementRepo "github.com/m04kA/SMC-TherapySessions/internal/infra/storage/agreement"
	analyticsRepo "github.com/m04kA/SMC-TherapySessions/internal/infra/storage/analytics"
	availabilityRepo "github.com/m04kA/SMC-TherapySessions/internal/infra/storage/availability"
	sessionRepo "github.com/m04kA/SMC-TherapySessions/internal/infra/storage/session"
	subscriptionRepo "github.com/m04kA/SMC-TherapySessions/internal/infra/storage/subscription"
	"github.com/m04kA/SMC-TherapySessions/internal/integrations/dataservice"
	"github.com/m04kA/SMC-TherapySessions/pkg/dbmetrics"
	"github.com/m04kA/SMC-TherapySessions/pkg/txmanager"
)

type subscriptionStore interface {
	Create(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error)
	GetByID(ctx context.Context, id string) (*domain.Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Subscription, error)
	Cancel(ctx context.Context, id string, reason *string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type sessionStore interface {
	CreateBatch(ctx context.Context, sessions []*domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	List(ctx context.Context, filter domain.SessionsFilter) ([]*domain.Session, error)
	Cancel(ctx context.Context, id string, at time.Time) error
	CancelUpcoming(ctx context.Context, subscriptionID string, from time.Time) (int, error)
}

type agreementStore interface {
	Create(ctx context.Context, a *domain.Agreement) error
	CreateEmergencyContact(ctx context.Context, c *domain.EmergencyContact) error
	Delete(ctx context.Context, id string) error
	DeleteEmergencyContact(ctx context.Context, id string) error
}

type availabilityStore interface {
	ListByTherapist(ctx context.Context, therapistID string) ([]domain.AvailabilitySlot, error)
}

type analyticsStore interface {
	Track(ctx context.Context, userID, event string, properties map[string]interface{}, at time.Time) error
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// storage репозитории одного из режимов: Postgres напрямую или REST API хранилища
type storage struct {
	subscriptions subscriptionStore
	sessions      sessionStore
	agreements    agreementStore
	availability  availabilityStore
	analytics     analyticsStore
	tx            txManager
}

// newSQLStorage репозитории поверх Postgres; записи подписки и сессий идут в одной транзакции
func newSQLStorage(db *dbmetrics.DB) *storage {
	return &storage{
		subscriptions: subscriptionRepo.NewRepository(db),
		sessions:      sessionRepo.NewRepository(db),
		agreements:    agreementRepo.NewRepository(db),
		availability:  availabilityRepo.NewRepository(db),
		analytics:     analyticsRepo.NewRepository(db),
		tx:            txmanager.NewTransactionManager(db),
	}
}

// newRESTStorage репозитории поверх REST API; транзакций нет, запросы идут от имени пользователя
func newRESTStorage(client *dataservice.Client) *storage {
	return &storage{
		subscriptions: dataservice.NewSubscriptionStore(client),
		sessions:      dataservice.NewSessionStore(client),
		agreements:    dataservice.NewAgreementStore(client),
		availability:  dataservice.NewAvailabilityStore(client),
		analytics:     dataservice.NewAnalyticsStore(client),
		tx:            txmanager.Noop{},
	}
}

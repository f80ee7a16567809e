package agreement

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/pkg/dbmetrics"
	"github.com/m04kA/SMC-TherapySessions/pkg/psqlbuilder"
)

// Repository репозиторий согласий с терапевтической рамкой и экстренных контактов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет принятое согласие
func (r *Repository) Create(ctx context.Context, a *domain.Agreement) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("agreements").
		Columns("id", "user_id", "subscription_id", "version", "accepted_at").
		Values(a.ID, a.UserID, a.SubscriptionID, a.Version, a.AcceptedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// CreateEmergencyContact сохраняет экстренный контакт клиента
func (r *Repository) CreateEmergencyContact(ctx context.Context, c *domain.EmergencyContact) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("emergency_contacts").
		Columns("id", "user_id", "name", "phone", "email", "relationship").
		Values(c.ID, c.UserID, c.Name, c.Phone, c.Email, c.Relationship).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateEmergencyContact - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateEmergencyContact - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "agreements", "Delete", id)
}

func (r *Repository) DeleteEmergencyContact(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "emergency_contacts", "DeleteEmergencyContact", id)
}

func (r *Repository) deleteByID(ctx context.Context, table, op, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build delete query: %v", ErrBuildQuery, op, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %s - execute delete: %v", ErrExecQuery, op, err)
	}
	return nil
}

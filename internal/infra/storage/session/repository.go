package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/pkg/dbmetrics"
	"github.com/m04kA/SMC-TherapySessions/pkg/psqlbuilder"
)

const table = "sessions"

var columns = []string{
	"id",
	"subscription_id",
	"user_id",
	"therapist_id",
	"starts_at",
	"duration_minutes",
	"timezone",
	"status",
	"cancelled_at",
	"created_at",
}

// Repository репозиторий сессий в Postgres
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBatch сохраняет сессии одним INSERT
func (r *Repository) CreateBatch(ctx context.Context, sessions []*domain.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert(table).Columns(
		"id",
		"subscription_id",
		"user_id",
		"therapist_id",
		"starts_at",
		"duration_minutes",
		"timezone",
		"status",
	)
	for _, s := range sessions {
		insert = insert.Values(
			s.ID,
			s.SubscriptionID,
			s.UserID,
			s.TherapistID,
			s.StartsAt.UTC(),
			s.DurationMinutes,
			s.Timezone,
			s.Status,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateBatch - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает сессию по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSession(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan session: %v", ErrScanRow, err)
	}

	return s, nil
}

// List получает сессии пользователя по фильтру, по возрастанию времени начала
// Границы периода: From включительно, To исключительно
func (r *Repository) List(ctx context.Context, filter domain.SessionsFilter) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": filter.UserID}).
		OrderBy("starts_at ASC")

	if filter.SubscriptionID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"subscription_id": *filter.SubscriptionID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"starts_at": filter.From.UTC()})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"starts_at": filter.To.UTC()})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan session: %v", ErrScanRow, err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %v", ErrScanRow, err)
	}

	return result, nil
}

// Cancel отменяет одну сессию
func (r *Repository) Cancel(ctx context.Context, id string, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.SessionCancelled).
		Set("cancelled_at", at.UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	affected, err := exec(ctx, executor, query, args)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id=%s", ErrSessionNotFound, id)
	}

	return nil
}

// CancelUpcoming отменяет запланированные сессии подписки, начинающиеся не раньше from
func (r *Repository) CancelUpcoming(ctx context.Context, subscriptionID string, from time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.SessionCancelled).
		Set("cancelled_at", from.UTC()).
		Where(squirrel.Eq{
			"subscription_id": subscriptionID,
			"status":          domain.SessionScheduled,
		}).
		Where(squirrel.GtOrEq{"starts_at": from.UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelUpcoming - build update query: %v", ErrBuildQuery, err)
	}

	affected, err := exec(ctx, executor, query, args)
	if err != nil {
		return 0, fmt.Errorf("%w: CancelUpcoming - execute update: %v", ErrExecQuery, err)
	}

	return int(affected), nil
}

func exec(ctx context.Context, executor DBExecutor, query string, args []interface{}) (int64, error) {
	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row scanner) (*domain.Session, error) {
	var (
		s         domain.Session
		createdAt sql.NullTime
	)
	err := row.Scan(
		&s.ID,
		&s.SubscriptionID,
		&s.UserID,
		&s.TherapistID,
		&s.StartsAt,
		&s.DurationMinutes,
		&s.Timezone,
		&s.Status,
		&s.CancelledAt,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	s.StartsAt = s.StartsAt.UTC()
	s.CreatedAt = createdAt.Time
	return &s, nil
}

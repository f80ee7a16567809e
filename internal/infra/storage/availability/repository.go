package availability

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/pkg/dbmetrics"
	"github.com/m04kA/SMC-TherapySessions/pkg/psqlbuilder"
)

// Repository окна доступности терапевтов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByTherapist получает недельные окна терапевта по дню недели и времени начала
func (r *Repository) ListByTherapist(ctx context.Context, therapistID string) ([]domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("therapist_id", "weekday", "start_time", "end_time", "timezone").
		From("availability").
		Where(squirrel.Eq{"therapist_id": therapistID}).
		OrderBy("weekday ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTherapist - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTherapist - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.AvailabilitySlot, 0)
	for rows.Next() {
		var slot domain.AvailabilitySlot
		if err := rows.Scan(&slot.TherapistID, &slot.Weekday, &slot.StartTime, &slot.EndTime, &slot.Timezone); err != nil {
			return nil, fmt.Errorf("%w: ListByTherapist - scan slot: %v", ErrScanRow, err)
		}
		result = append(result, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByTherapist - iterate rows: %v", ErrScanRow, err)
	}

	return result, nil
}

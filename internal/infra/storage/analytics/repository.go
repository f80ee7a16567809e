package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapySessions/pkg/dbmetrics"
	"github.com/m04kA/SMC-TherapySessions/pkg/psqlbuilder"
)

// Repository журнал продуктовых событий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Track записывает событие; properties сохраняются в JSONB
func (r *Repository) Track(ctx context.Context, userID, event string, properties map[string]interface{}, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var props interface{}
	if len(properties) > 0 {
		raw, err := json.Marshal(properties)
		if err != nil {
			return fmt.Errorf("%w: Track - event=%s: %v", ErrEncode, event, err)
		}
		props = string(raw)
	}

	query, args, err := psqlbuilder.Insert("analytics").
		Columns("user_id", "event", "properties", "occurred_at").
		Values(userID, event, props, at.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Track - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Track - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

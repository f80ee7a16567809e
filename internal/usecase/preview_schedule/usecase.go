package preview_schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/formatting"
	"github.com/m04kA/SMC-TherapySessions/internal/recurrence"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
)

// UseCase use case для предпросмотра ближайших сессий расписания
type UseCase struct {
	options      recurrence.Options
	defaultCount int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case; options - политики пропусков и праздники из конфигурации,
// defaultCount - сколько сессий показать, если в запросе не указано
func NewUseCase(options recurrence.Options, defaultCount int, logger Logger) *UseCase {
	// в предпросмотре первая сессия может прийтись на день запроса
	options.SameDay = recurrence.PolicyPreview
	if defaultCount <= 0 {
		defaultCount = domain.DefaultPreviewCount
	}
	return &UseCase{
		options:      options,
		defaultCount: defaultCount,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case предпросмотра расписания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	schedule, err := buildSchedule(req)
	if err != nil {
		uc.logger.Warn("PreviewSchedule: invalid request: %v", err)
		return nil, err
	}

	count := req.Count
	if count == 0 {
		count = uc.defaultCount
	}
	ref := req.From
	if ref.IsZero() {
		ref = uc.timeProvider.Now()
	}

	opts := uc.options
	opts.ViewerTimezone = req.ViewerTimezone
	if schedule.Frequency() == domain.FrequencyCustom {
		weeks := req.IntervalWeeks
		opts.CustomStep = func(base time.Time, index int) time.Time {
			return base.AddDate(0, 0, 7*weeks*index)
		}
	}

	occurrences, err := recurrence.NextOccurrences(schedule, ref, count, opts)
	if err != nil {
		if errors.Is(err, recurrence.ErrInvalidSchedule) {
			var invalid *recurrence.InvalidScheduleError
			if errors.As(err, &invalid) {
				result := validation.NewResult()
				result.Add(invalid.Field, invalid.Reason)
				return nil, result.Err()
			}
		}
		uc.logger.Error("PreviewSchedule: failed to compute occurrences: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	resp := &Response{
		Summary:     formatting.ScheduleSummary(schedule),
		Occurrences: make([]Occurrence, 0, len(occurrences)),
	}
	for _, occ := range occurrences {
		local, err := formatting.FormatInZone(occ.At, occ.AuthoringTimezone)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		display, err := formatting.FormatClientOnly(occ, "")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		dual, err := formatting.FormatDual(occ, "")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		resp.Occurrences = append(resp.Occurrences, Occurrence{
			At:          occ.At.UTC(),
			Local:       local,
			Display:     display,
			DisplayDual: dual,
		})
	}

	uc.logger.Info("PreviewSchedule: %d occurrences for %s", len(resp.Occurrences), resp.Summary)
	return resp, nil
}

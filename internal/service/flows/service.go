package flows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/service/flows/models"
	"github.com/m04kA/SMC-TherapySessions/internal/setup"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
)

const (
	actionStart   = "start"
	actionUpdate  = "update"
	actionAdvance = "advance"
	actionBack    = "back"
	actionAbandon = "abandon"

	resultOK       = "ok"
	resultInvalid  = "invalid"
	resultRejected = "rejected"
	resultError    = "error"
)

// Service сервис пошагового оформления подписки
type Service struct {
	store        FlowStore
	rules        setup.Rules
	availability AvailabilityChecker
	metrics      Metrics
	ttl          time.Duration
	logger       Logger
	now          func() time.Time
}

// NewService создает новый экземпляр сервиса; availability может быть nil, тогда окна терапевта не проверяются
func NewService(
	store FlowStore,
	rules setup.Rules,
	availability AvailabilityChecker,
	metrics Metrics,
	ttl time.Duration,
	logger Logger,
) *Service {
	return &Service{
		store:        store,
		rules:        rules,
		availability: availability,
		metrics:      metrics,
		ttl:          ttl,
		logger:       logger,
		now:          time.Now,
	}
}

// Plans возвращает доступные тарифные планы
func (s *Service) Plans() *models.PlanListResponse {
	return models.FromDomainPlans(s.rules.Plans)
}

// Start начинает новый сценарий оформления
func (s *Service) Start(ctx context.Context, userID string) *models.FlowResponse {
	state := s.store.Start(userID, s.now())

	s.logger.Info("Start: setup flow=%s started for user=%s", state.ID, userID)
	s.metrics.ObserveSetupTransition(string(state.Step), actionStart, resultOK)
	s.metrics.SetActiveFlows(s.store.Len())
	return s.response(state)
}

// Get возвращает состояние сценария
func (s *Service) Get(ctx context.Context, id, userID string) (*models.FlowResponse, error) {
	state, err := s.store.Get(id, userID, s.now())
	if err != nil {
		return nil, s.mapError("Get", id, err)
	}
	return s.response(state), nil
}

// Update сохраняет данные текущего и пройденных шагов
func (s *Service) Update(ctx context.Context, id, userID string, req *models.UpdateFlowRequest) (*models.FlowResponse, error) {
	if req == nil || req.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	now := s.now()
	state, err := s.store.Update(id, userID, now, func(st *setup.State) error {
		return st.Apply(req.ToPatch(), now)
	})
	if state != nil {
		s.observe(state.Step, actionUpdate, err)
	}
	if err != nil {
		return nil, s.mapError("Update", id, err)
	}

	return s.response(state), nil
}

// Advance переходит к следующему шагу. При ошибках проверки возвращается и состояние
// с заполненным Errors, и ошибка ErrStepInvalid.
// На шаге выбора расписания окна терапевта запрашиваются под флагом processing.
func (s *Service) Advance(ctx context.Context, id, userID string) (*models.FlowResponse, error) {
	now := s.now()

	current, err := s.store.Get(id, userID, now)
	if err != nil {
		return nil, s.mapError("Advance", id, err)
	}

	var validator setup.StepValidator = s.rules
	schedule, checkAvailability := s.availabilityTarget(current)
	if checkAvailability {
		locked, err := s.store.Update(id, userID, now, func(st *setup.State) error {
			return st.BeginProcessing()
		})
		if err != nil {
			s.observe(current.Step, actionAdvance, err)
			return nil, s.mapError("Advance", id, err)
		}

		validator, err = s.checkAvailability(ctx, locked, schedule, now)
		if err != nil {
			s.release(id, userID)
			s.metrics.ObserveSetupTransition(string(current.Step), actionAdvance, resultError)
			return nil, err
		}
	}

	state, err := s.store.Update(id, userID, now, func(st *setup.State) error {
		if checkAvailability {
			if err := st.EndProcessing(); err != nil {
				return err
			}
		}
		return st.Advance(validator)
	})
	s.observe(current.Step, actionAdvance, err)
	if err != nil {
		if state != nil && errors.Is(err, setup.ErrStepInvalid) {
			s.logger.Info("Advance: flow=%s step=%s rejected: %s", id, current.Step, state.Errors)
			return s.response(state), fmt.Errorf("%w: %w", ErrStepInvalid, err)
		}
		return nil, s.mapError("Advance", id, err)
	}

	s.logger.Info("Advance: flow=%s moved %s -> %s", id, current.Step, state.Step)
	return s.response(state), nil
}

// Back возвращается к предыдущему шагу, введённые данные сохраняются
func (s *Service) Back(ctx context.Context, id, userID string) (*models.FlowResponse, error) {
	now := s.now()
	state, err := s.store.Update(id, userID, now, func(st *setup.State) error {
		return st.Back()
	})
	if state != nil {
		s.observe(state.Step, actionBack, err)
	}
	if err != nil {
		return nil, s.mapError("Back", id, err)
	}
	return s.response(state), nil
}

// Abandon удаляет сценарий
func (s *Service) Abandon(ctx context.Context, id, userID string) error {
	state, err := s.store.Get(id, userID, s.now())
	if err != nil {
		return s.mapError("Abandon", id, err)
	}
	if state.Processing {
		return ErrAlreadyProcessing
	}
	if err := s.store.Discard(id, userID); err != nil {
		return s.mapError("Abandon", id, err)
	}

	s.logger.Info("Abandon: setup flow=%s abandoned by user=%s at step=%s", id, userID, state.Step)
	s.metrics.ObserveSetupTransition(string(state.Step), actionAbandon, resultOK)
	s.metrics.SetActiveFlows(s.store.Len())
	return nil
}

// Sweep удаляет брошенные сценарии и возвращает их количество
func (s *Service) Sweep() int {
	removed := s.store.Sweep(s.now())
	active := s.store.Len()
	if removed > 0 {
		s.logger.Info("Sweep: removed %d expired setup flows, %d active", removed, active)
	}
	s.metrics.SetActiveFlows(active)
	return removed
}

// availabilityTarget возвращает расписание, которое нужно сверить с окнами терапевта.
// Проверка нужна только на шаге выбора расписания и только для корректного черновика
func (s *Service) availabilityTarget(state *setup.State) (domain.RecurringSchedule, bool) {
	if state.Step != setup.StepScheduleSelection || s.availability == nil {
		return domain.RecurringSchedule{}, false
	}
	if !s.rules.ValidateStep(state, setup.StepScheduleSelection).Valid() {
		return domain.RecurringSchedule{}, false
	}
	schedule, err := state.Schedule.ToSchedule()
	if err != nil {
		return domain.RecurringSchedule{}, false
	}
	return schedule, true
}

// checkAvailability дополняет правила результатом запроса окон терапевта
func (s *Service) checkAvailability(ctx context.Context, state *setup.State, schedule domain.RecurringSchedule, now time.Time) (setup.StepValidator, error) {
	fits, err := s.availability.FitsSchedule(ctx, state.Schedule.TherapistID, schedule, domain.DefaultSessionDurationMinutes, now)
	if err != nil {
		s.logger.Error("Advance: availability check failed for flow=%s: %v", state.ID, err)
		return nil, fmt.Errorf("%w: Advance - availability check: %v", ErrInternal, err)
	}
	return availabilityRules{Rules: s.rules, checked: state.Schedule, fits: fits}, nil
}

// release снимает флаг processing после неудачного внешнего запроса
func (s *Service) release(id, userID string) {
	if _, err := s.store.Update(id, userID, s.now(), func(st *setup.State) error {
		return st.EndProcessing()
	}); err != nil {
		s.logger.Warn("Advance: failed to clear processing flag for flow=%s: %v", id, err)
	}
}

func (s *Service) observe(step setup.Step, action string, err error) {
	result := resultOK
	switch {
	case err == nil:
	case errors.Is(err, setup.ErrStepInvalid):
		result = resultInvalid
	case errors.Is(err, setup.ErrFlowNotFound), errors.Is(err, setup.ErrAccessDenied):
		return
	default:
		result = resultRejected
	}
	s.metrics.ObserveSetupTransition(string(step), action, result)
}

func (s *Service) response(state *setup.State) *models.FlowResponse {
	return models.FromState(state, s.rules.Plans, s.ttl)
}

func (s *Service) mapError(op, id string, err error) error {
	switch {
	case errors.Is(err, setup.ErrFlowNotFound):
		s.logger.Warn("%s: setup flow=%s not found", op, id)
		return ErrFlowNotFound
	case errors.Is(err, setup.ErrAccessDenied):
		s.logger.Warn("%s: access to setup flow=%s denied", op, id)
		return ErrAccessDenied
	case errors.Is(err, setup.ErrStepLocked):
		return fmt.Errorf("%w: %v", ErrStepLocked, err)
	case errors.Is(err, setup.ErrNoPreviousStep):
		return ErrNoPreviousStep
	case errors.Is(err, setup.ErrNoNextStep):
		return ErrNoNextStep
	case errors.Is(err, setup.ErrAlreadyProcessing):
		return ErrAlreadyProcessing
	default:
		s.logger.Error("%s: unexpected error for setup flow=%s: %v", op, id, err)
		return fmt.Errorf("%w: %s - %v", ErrInternal, op, err)
	}
}

// availabilityRules добавляет к правилам шага расписания результат проверки окон терапевта
type availabilityRules struct {
	setup.Rules
	checked setup.ScheduleDraft
	fits    bool
}

func (r availabilityRules) ValidateStep(s *setup.State, step setup.Step) validation.Result {
	res := r.Rules.ValidateStep(s, step)
	if step != setup.StepScheduleSelection || !res.Valid() {
		return res
	}
	if !sameSchedule(r.checked, s.Schedule) {
		res.Add("schedule", "the schedule changed while it was being checked, try again")
		return res
	}
	if !r.fits {
		res.Add("schedule.timeOfDay", "the therapist is not available at the selected time")
	}
	return res
}

func sameSchedule(a, b setup.ScheduleDraft) bool {
	if (a.Weekday == nil) != (b.Weekday == nil) {
		return false
	}
	if a.Weekday != nil && *a.Weekday != *b.Weekday {
		return false
	}
	return a.TherapistID == b.TherapistID &&
		a.TimeOfDay == b.TimeOfDay &&
		a.Frequency == b.Frequency &&
		a.Timezone == b.Timezone &&
		a.StartsOn == b.StartsOn
}

package complete_setup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/formatting"
	"github.com/m04kA/SMC-TherapySessions/internal/integrations/paymentservice"
	"github.com/m04kA/SMC-TherapySessions/internal/recurrence"
	"github.com/m04kA/SMC-TherapySessions/internal/setup"
	"github.com/m04kA/SMC-TherapySessions/pkg/txmanager"
)

const (
	eventSubscriptionCreated = "subscription_created"

	actionComplete = "complete"
)

// UseCase use case для завершения оформления подписки
type UseCase struct {
	flowStore        FlowStore
	paymentClient    PaymentClient
	subscriptionRepo SubscriptionRepository
	sessionRepo      SessionRepository
	agreementRepo    AgreementRepository
	analytics        AnalyticsTracker
	txManager        TransactionManager
	metrics          Metrics
	rules            setup.Rules
	recurrence       recurrence.Options
	options          Options
	timeProvider     TimeProvider
	logger           Logger
	newID            func() string
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	flowStore FlowStore,
	paymentClient PaymentClient,
	subscriptionRepo SubscriptionRepository,
	sessionRepo SessionRepository,
	agreementRepo AgreementRepository,
	analytics AnalyticsTracker,
	txManager TransactionManager,
	metrics Metrics,
	rules setup.Rules,
	recurrenceOptions recurrence.Options,
	options Options,
	logger Logger,
) *UseCase {
	if options.InitialSessions <= 0 {
		options.InitialSessions = domain.DefaultInitialSessionsCount
	}
	// первая сессия никогда не назначается на день оформления
	recurrenceOptions.SameDay = recurrence.PolicyFirstOccurrence

	return &UseCase{
		flowStore:        flowStore,
		paymentClient:    paymentClient,
		subscriptionRepo: subscriptionRepo,
		sessionRepo:      sessionRepo,
		agreementRepo:    agreementRepo,
		analytics:        analytics,
		txManager:        txManager,
		metrics:          metrics,
		rules:            rules,
		recurrence:       recurrenceOptions,
		options:          options,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
		newID:            uuid.NewString,
	}
}

// Execute выполняет use case завершения оформления.
// Пока идёт обращение к платёжному сервису, сценарий помечен как обрабатываемый:
// повторный запрос, возврат на шаг назад и удаление сценария отклоняются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CompleteSetup: flow=%s, user=%s", req.FlowID, req.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CompleteSetup: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Проверяем все шаги и захватываем сценарий
	state, err := uc.flowStore.Update(req.FlowID, req.UserID, now, func(st *setup.State) error {
		if !st.Step.IsFinal() {
			return setup.ErrNotFinalStep
		}
		if result := st.ValidateAll(uc.rules); !result.Valid() {
			st.Errors = result
			return fmt.Errorf("%w: %w", ErrFlowInvalid, result.Err())
		}
		return st.BeginProcessing()
	})
	if err != nil {
		uc.observe(resultOf(err))
		return nil, uc.mapFlowError(req.FlowID, err)
	}

	resp, err := uc.complete(ctx, state, req.ViewerTimezone, now)
	if err != nil {
		uc.release(state)
		uc.observe(resultOf(err))
		return nil, err
	}

	// 3. Сценарий выполнен и больше не нужен
	if err := uc.flowStore.Discard(state.ID, state.OwnerID); err != nil {
		uc.logger.Warn("CompleteSetup: failed to discard flow=%s: %v", state.ID, err)
	}
	uc.observe("ok")
	uc.metrics.SetActiveFlows(uc.flowStore.Len())

	uc.logger.Info("CompleteSetup: subscription id=%s created with %d sessions", resp.Subscription.ID, len(resp.Sessions))
	return resp, nil
}

func (uc *UseCase) complete(ctx context.Context, state *setup.State, viewerTZ string, now time.Time) (*Response, error) {
	plan, ok := domain.FindPlan(uc.rules.Plans, state.Pricing.PlanCode)
	if !ok {
		return nil, fmt.Errorf("%w: plan %q is not configured", ErrInvalidInput, state.Pricing.PlanCode)
	}

	schedule, err := state.Schedule.ToSchedule()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 4. Рассчитываем первые сессии до списания, чтобы не регистрировать платёж впустую
	occurrences, err := recurrence.NextOccurrences(schedule, now, uc.options.InitialSessions, uc.recurrence)
	if err != nil {
		uc.logger.Warn("CompleteSetup: cannot compute sessions for flow=%s: %v", state.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(occurrences) == 0 {
		return nil, ErrNoSessions
	}

	interval, intervalCount, err := billingInterval(plan.Frequency)
	if err != nil {
		return nil, err
	}

	// 5. Регистрируем регулярное списание; ключ идемпотентности - ID сценария
	payment, err := uc.paymentClient.SetupRecurringPayment(ctx, paymentservice.RecurringPaymentRequest{
		CustomerID:      state.Payment.CustomerID,
		PaymentMethodID: state.Payment.PaymentMethodID,
		AmountMinor:     plan.MinorUnits(),
		Currency:        plan.Currency,
		Interval:        interval,
		IntervalCount:   intervalCount,
		IdempotencyKey:  state.ID,
	})
	if err != nil {
		if errors.Is(err, paymentservice.ErrPaymentDeclined) || errors.Is(err, paymentservice.ErrInvalidRequest) {
			uc.logger.Warn("CompleteSetup: payment declined for flow=%s: %v", state.ID, err)
			return nil, fmt.Errorf("%w: %v", ErrPaymentDeclined, err)
		}
		uc.logger.Error("CompleteSetup: payment service error for flow=%s: %v", state.ID, err)
		return nil, fmt.Errorf("%w: failed to set up recurring payment: %v", ErrInternal, err)
	}

	first := occurrences[0].At.In(locationOrUTC(schedule.Timezone()))
	startsOn := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, first.Location())

	sub := &domain.Subscription{
		ID:                    uc.newID(),
		UserID:                state.OwnerID,
		TherapistID:           state.Schedule.TherapistID,
		PlanCode:              plan.Code,
		Weekday:               schedule.Weekday(),
		StartTime:             schedule.TimeOfDay(),
		Frequency:             schedule.Frequency(),
		Timezone:              schedule.Timezone(),
		DurationMinutes:       plan.DurationMinutes,
		PriceMinor:            plan.MinorUnits(),
		Currency:              plan.Currency,
		Status:                domain.SubscriptionActive,
		PaymentRegistrationID: &payment.ID,
		StartsOn:              startsOn,
	}

	sessions := make([]*domain.Session, 0, len(occurrences))
	for _, occ := range occurrences {
		sessions = append(sessions, &domain.Session{
			ID:              uc.newID(),
			SubscriptionID:  sub.ID,
			UserID:          sub.UserID,
			TherapistID:     sub.TherapistID,
			StartsAt:        occ.At.UTC(),
			DurationMinutes: sub.DurationMinutes,
			Timezone:        sub.Timezone,
			Status:          domain.SessionScheduled,
		})
	}

	acceptedAt := now
	if state.Agreement.AcceptedAt != nil {
		acceptedAt = *state.Agreement.AcceptedAt
	}
	agreement := &domain.Agreement{
		ID:             uc.newID(),
		UserID:         sub.UserID,
		SubscriptionID: sub.ID,
		Version:        state.Agreement.Version,
		AcceptedAt:     acceptedAt,
	}

	contact := &domain.EmergencyContact{
		ID:           uc.newID(),
		UserID:       sub.UserID,
		Name:         state.EmergencyContact.Name,
		Phone:        state.EmergencyContact.Phone,
		Relationship: state.EmergencyContact.Relationship,
	}
	if state.EmergencyContact.Email != "" {
		email := state.EmergencyContact.Email
		contact.Email = &email
	}

	// 6. Сохраняем подписку, согласие, контакт и сессии в одной транзакции.
	// Без транзакции (REST) уже записанные строки удаляются в обратном порядке
	var created *domain.Subscription
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		created, err = uc.subscriptionRepo.Create(txCtx, sub)
		if err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		txmanager.Compensate(txCtx, func(ctx context.Context) error {
			return uc.subscriptionRepo.Delete(ctx, sub.ID)
		})

		if err := uc.agreementRepo.Create(txCtx, agreement); err != nil {
			return fmt.Errorf("failed to create agreement: %w", err)
		}
		txmanager.Compensate(txCtx, func(ctx context.Context) error {
			return uc.agreementRepo.Delete(ctx, agreement.ID)
		})

		if err := uc.agreementRepo.CreateEmergencyContact(txCtx, contact); err != nil {
			return fmt.Errorf("failed to create emergency contact: %w", err)
		}
		txmanager.Compensate(txCtx, func(ctx context.Context) error {
			return uc.agreementRepo.DeleteEmergencyContact(ctx, contact.ID)
		})

		if err := uc.sessionRepo.CreateBatch(txCtx, sessions); err != nil {
			return fmt.Errorf("failed to create sessions: %w", err)
		}
		return nil
	})
	if err != nil {
		// платёж уже зарегистрирован: повтор с тем же ключом идемпотентности не создаст второй.
		// ID строк нужны для ручной очистки, если отмена записи тоже не удалась
		uc.logger.Error("CompleteSetup: failed to persist subscription for flow=%s, payment=%s, subscription=%s, agreement=%s, contact=%s: %v",
			state.ID, payment.ID, sub.ID, agreement.ID, contact.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.track(ctx, created, plan)

	return &Response{
		Subscription: created,
		Plan:         plan,
		Sessions:     renderSessions(sessions, viewerTZ),
		Summary:      formatting.ScheduleSummary(schedule),
	}, nil
}

// release снимает признак обработки, чтобы пользователь мог исправить данные и повторить
func (uc *UseCase) release(state *setup.State) {
	_, err := uc.flowStore.Update(state.ID, state.OwnerID, uc.timeProvider.Now(), func(st *setup.State) error {
		return st.EndProcessing()
	})
	if err != nil {
		uc.logger.Warn("CompleteSetup: failed to release flow=%s: %v", state.ID, err)
	}
}

func (uc *UseCase) track(ctx context.Context, sub *domain.Subscription, plan domain.Plan) {
	props := map[string]interface{}{
		"subscription_id": sub.ID,
		"plan_code":       plan.Code,
		"frequency":       string(sub.Frequency),
		"price_minor":     sub.PriceMinor,
		"currency":        sub.Currency,
	}
	if err := uc.analytics.Track(ctx, sub.UserID, eventSubscriptionCreated, props, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CompleteSetup: failed to track %s for subscription id=%s: %v", eventSubscriptionCreated, sub.ID, err)
	}
}

func (uc *UseCase) observe(result string) {
	uc.metrics.ObserveSetupTransition(string(setup.StepFinalConfirmation), actionComplete, result)
}

func (uc *UseCase) mapFlowError(flowID string, err error) error {
	switch {
	case errors.Is(err, setup.ErrFlowNotFound):
		uc.logger.Warn("CompleteSetup: flow=%s not found", flowID)
		return ErrFlowNotFound
	case errors.Is(err, setup.ErrAccessDenied):
		uc.logger.Warn("CompleteSetup: access to flow=%s denied", flowID)
		return ErrAccessDenied
	case errors.Is(err, setup.ErrNotFinalStep):
		return ErrNotFinalStep
	case errors.Is(err, setup.ErrAlreadyProcessing):
		uc.logger.Warn("CompleteSetup: flow=%s is already processing", flowID)
		return ErrAlreadyProcessing
	case errors.Is(err, ErrFlowInvalid):
		uc.logger.Warn("CompleteSetup: flow=%s has invalid steps: %v", flowID, err)
		return err
	default:
		uc.logger.Error("CompleteSetup: unexpected flow error for flow=%s: %v", flowID, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, ErrFlowInvalid):
		return "invalid"
	case errors.Is(err, ErrPaymentDeclined):
		return "declined"
	case errors.Is(err, ErrInternal):
		return "error"
	default:
		return "rejected"
	}
}

func renderSessions(sessions []*domain.Session, viewerTZ string) []SessionItem {
	items := make([]SessionItem, 0, len(sessions))
	for _, s := range sessions {
		occ := s.Occurrence()
		// часовой пояс проверен в validateRequest, пояс сессии - при проверке шага расписания
		display, _ := formatting.FormatClientOnly(occ, viewerTZ)
		dual, _ := formatting.FormatDual(occ, viewerTZ)
		items = append(items, SessionItem{
			ID:          s.ID,
			StartsAt:    s.StartsAt,
			Display:     display,
			DisplayDual: dual,
		})
	}
	return items
}

func locationOrUTC(tz string) *time.Location {
	loc, err := formatting.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

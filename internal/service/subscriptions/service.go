package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/service/subscriptions/models"
)

const eventSubscriptionCancelled = "subscription_cancelled"

// Service сервис для работы с подписками
type Service struct {
	subscriptionRepo SubscriptionRepository
	sessionRepo      SessionRepository
	analytics        AnalyticsTracker
	txManager        TransactionManager
	logger           Logger
	now              func() time.Time
}

// NewService создает новый экземпляр сервиса подписок
func NewService(
	subscriptionRepo SubscriptionRepository,
	sessionRepo SessionRepository,
	analytics AnalyticsTracker,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		subscriptionRepo: subscriptionRepo,
		sessionRepo:      sessionRepo,
		analytics:        analytics,
		txManager:        txManager,
		logger:           logger,
		now:              time.Now,
	}
}

// List получает подписки пользователя
func (s *Service) List(ctx context.Context, userID string) (*models.SubscriptionListResponse, error) {
	s.logger.Info("List: fetching subscriptions for user=%s", userID)

	subs, err := s.subscriptionRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("List: repository error for user=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d subscriptions for user=%s", len(subs), userID)
	return models.FromDomainSubscriptionList(subs), nil
}

// GetByID получает подписку по ID; пользователь видит только свои подписки
func (s *Service) GetByID(ctx context.Context, id, userID string) (*models.SubscriptionResponse, error) {
	s.logger.Info("GetByID: fetching subscription id=%s for user=%s", id, userID)

	sub, err := s.getOwned(ctx, "GetByID", id, userID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainSubscription(sub), nil
}

// Cancel отменяет подписку и все её будущие запланированные сессии
func (s *Service) Cancel(ctx context.Context, id string, req *models.CancelSubscriptionRequest) (*models.CancelSubscriptionResponse, error) {
	s.logger.Info("Cancel: cancelling subscription id=%s by user=%s", id, req.UserID)

	if req.Reason != nil && utf8.RuneCountInString(*req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason is longer than %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	sub, err := s.getOwned(ctx, "Cancel", id, req.UserID)
	if err != nil {
		return nil, err
	}

	if !sub.CanBeCancelled() {
		s.logger.Warn("Cancel: subscription id=%s cannot be cancelled, status=%s", id, sub.Status)
		return nil, ErrCannotCancel
	}

	now := s.now().UTC()
	var cancelledSessions int

	// Сессии отменяются первыми: без транзакции (REST) частичный сбой оставляет подписку активной,
	// и повторная отмена проходит
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		n, err := s.sessionRepo.CancelUpcoming(ctx, id, now)
		if err != nil {
			return err
		}
		cancelledSessions = n
		return s.subscriptionRepo.Cancel(ctx, id, req.Reason, now)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Cancel: subscription id=%s not found during cancellation", id)
			return nil, ErrSubscriptionNotFound
		}
		s.logger.Error("Cancel: repository error for subscription id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.track(ctx, req.UserID, eventSubscriptionCancelled, map[string]interface{}{
		"subscription_id":    id,
		"cancelled_sessions": cancelledSessions,
	}, now)

	s.logger.Info("Cancel: successfully cancelled subscription id=%s, sessions cancelled=%d", id, cancelledSessions)
	return &models.CancelSubscriptionResponse{
		SubscriptionID:    id,
		CancelledSessions: cancelledSessions,
	}, nil
}

func (s *Service) getOwned(ctx context.Context, op, id, userID string) (*domain.Subscription, error) {
	sub, err := s.subscriptionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("%s: subscription id=%s not found", op, id)
			return nil, ErrSubscriptionNotFound
		}
		s.logger.Error("%s: repository error for subscription id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if sub.UserID != userID {
		s.logger.Warn("%s: access denied for user=%s to subscription id=%s", op, userID, id)
		return nil, ErrAccessDenied
	}
	return sub, nil
}

// track пишет событие аналитики; ошибка не влияет на результат операции
func (s *Service) track(ctx context.Context, userID, event string, props map[string]interface{}, at time.Time) {
	if s.analytics == nil {
		return
	}
	if err := s.analytics.Track(ctx, userID, event, props, at); err != nil {
		s.logger.Warn("track: failed to record event=%s for user=%s: %v", event, userID, err)
	}
}

package dataservice

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
)

// SubscriptionStore хранилище подписок поверх REST API
type SubscriptionStore struct {
	client *Client
}

func NewSubscriptionStore(client *Client) *SubscriptionStore {
	return &SubscriptionStore{client: client}
}

// Create сохраняет подписку; ID назначает вызывающий
func (s *SubscriptionStore) Create(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	var row SubscriptionRow
	if err := s.client.Create(ctx, ResourceSubscriptions, subscriptionToRow(sub), &row); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (s *SubscriptionStore) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	var row SubscriptionRow
	if err := s.client.Get(ctx, ResourceSubscriptions, id, &row); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (s *SubscriptionStore) ListByUser(ctx context.Context, userID string) ([]*domain.Subscription, error) {
	var rows []SubscriptionRow
	query := url.Values{
		"user_id": {"eq." + userID},
		"order":   {"created_at.desc"},
	}
	if err := s.client.List(ctx, ResourceSubscriptions, query, &rows); err != nil {
		return nil, err
	}

	result := make([]*domain.Subscription, 0, len(rows))
	for _, row := range rows {
		sub, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: subscription id=%s: %v", ErrInternal, row.ID, err)
		}
		result = append(result, sub)
	}
	return result, nil
}

// Cancel переводит подписку в статус cancelled
func (s *SubscriptionStore) Cancel(ctx context.Context, id string, reason *string, at time.Time) error {
	patch := map[string]interface{}{
		"status":              domain.SubscriptionCancelled,
		"cancellation_reason": reason,
		"cancelled_at":        at.UTC(),
		"updated_at":          at.UTC(),
	}
	return s.client.Update(ctx, ResourceSubscriptions, id, patch, nil)
}

// Delete удаляет подписку, используется для отмены незавершённого оформления
func (s *SubscriptionStore) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, ResourceSubscriptions, id)
}

// SessionStore хранилище сессий поверх REST API
type SessionStore struct {
	client *Client
}

func NewSessionStore(client *Client) *SessionStore {
	return &SessionStore{client: client}
}

// CreateBatch сохраняет сессии одним запросом
func (s *SessionStore) CreateBatch(ctx context.Context, sessions []*domain.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	rows := make([]SessionRow, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, sessionToRow(session))
	}
	return s.client.CreateMany(ctx, ResourceSessions, rows)
}

func (s *SessionStore) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	var row SessionRow
	if err := s.client.Get(ctx, ResourceSessions, id, &row); err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// List возвращает сессии пользователя по фильтру, отсортированные по времени начала
func (s *SessionStore) List(ctx context.Context, filter domain.SessionsFilter) ([]*domain.Session, error) {
	query := url.Values{
		"user_id": {"eq." + filter.UserID},
		"order":   {"starts_at.asc"},
	}
	if filter.SubscriptionID != nil {
		query.Set("subscription_id", "eq."+*filter.SubscriptionID)
	}
	if filter.From != nil {
		query.Add("starts_at", "gte."+filter.From.UTC().Format(time.RFC3339))
	}
	if filter.To != nil {
		query.Add("starts_at", "lt."+filter.To.UTC().Format(time.RFC3339))
	}
	if filter.Status != nil {
		query.Set("status", "eq."+string(*filter.Status))
	}

	var rows []SessionRow
	if err := s.client.List(ctx, ResourceSessions, query, &rows); err != nil {
		return nil, err
	}

	result := make([]*domain.Session, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

// Cancel отменяет одну сессию
func (s *SessionStore) Cancel(ctx context.Context, id string, at time.Time) error {
	patch := map[string]interface{}{
		"status":       domain.SessionCancelled,
		"cancelled_at": at.UTC(),
	}
	return s.client.Update(ctx, ResourceSessions, id, patch, nil)
}

// CancelUpcoming отменяет запланированные сессии подписки, начинающиеся не раньше from
func (s *SessionStore) CancelUpcoming(ctx context.Context, subscriptionID string, from time.Time) (int, error) {
	query := url.Values{
		"subscription_id": {"eq." + subscriptionID},
		"status":          {"eq." + string(domain.SessionScheduled)},
		"starts_at":       {"gte." + from.UTC().Format(time.RFC3339)},
	}
	patch := map[string]interface{}{
		"status":       domain.SessionCancelled,
		"cancelled_at": from.UTC(),
	}

	var rows []SessionRow
	if err := s.client.UpdateWhere(ctx, ResourceSessions, query, patch, &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// AgreementStore хранилище согласий с терапевтической рамкой и экстренных контактов
type AgreementStore struct {
	client *Client
}

func NewAgreementStore(client *Client) *AgreementStore {
	return &AgreementStore{client: client}
}

func (s *AgreementStore) Create(ctx context.Context, a *domain.Agreement) error {
	row := AgreementRow{
		ID:             a.ID,
		UserID:         a.UserID,
		SubscriptionID: a.SubscriptionID,
		Version:        a.Version,
		AcceptedAt:     a.AcceptedAt.UTC(),
	}
	return s.client.Create(ctx, ResourceAgreements, row, nil)
}

func (s *AgreementStore) CreateEmergencyContact(ctx context.Context, c *domain.EmergencyContact) error {
	row := EmergencyContactRow{
		ID:           c.ID,
		UserID:       c.UserID,
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		Relationship: c.Relationship,
	}
	return s.client.Create(ctx, ResourceEmergencyContacts, row, nil)
}

func (s *AgreementStore) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, ResourceAgreements, id)
}

func (s *AgreementStore) DeleteEmergencyContact(ctx context.Context, id string) error {
	return s.client.Delete(ctx, ResourceEmergencyContacts, id)
}

// AvailabilityStore расписание доступности терапевтов
type AvailabilityStore struct {
	client *Client
}

func NewAvailabilityStore(client *Client) *AvailabilityStore {
	return &AvailabilityStore{client: client}
}

func (s *AvailabilityStore) ListByTherapist(ctx context.Context, therapistID string) ([]domain.AvailabilitySlot, error) {
	query := url.Values{
		"therapist_id": {"eq." + therapistID},
		"order":        {"weekday.asc,start_time.asc"},
	}

	var rows []AvailabilityRow
	if err := s.client.List(ctx, ResourceAvailability, query, &rows); err != nil {
		return nil, err
	}

	result := make([]domain.AvailabilitySlot, 0, len(rows))
	for _, row := range rows {
		slot, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: availability therapist_id=%s: %v", ErrInternal, therapistID, err)
		}
		result = append(result, slot)
	}
	return result, nil
}

// AnalyticsStore журнал продуктовых событий
type AnalyticsStore struct {
	client *Client
}

func NewAnalyticsStore(client *Client) *AnalyticsStore {
	return &AnalyticsStore{client: client}
}

func (s *AnalyticsStore) Track(ctx context.Context, userID, event string, properties map[string]interface{}, at time.Time) error {
	row := AnalyticsRow{
		UserID:     userID,
		Event:      event,
		Properties: properties,
		OccurredAt: at.UTC(),
	}
	return s.client.Create(ctx, ResourceAnalytics, row, nil)
}

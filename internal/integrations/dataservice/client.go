package dataservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/m04kA/SMC-TherapySessions/pkg/authctx"
	"github.com/m04kA/SMC-TherapySessions/pkg/restclient"
)

const target = "dataservice"

// Resource путь таблицы во внешнем хранилище
type Resource string

const (
	ResourceSubscriptions     Resource = "subscriptions"
	ResourceSessions          Resource = "sessions"
	ResourceAnalytics         Resource = "analytics"
	ResourceAvailability      Resource = "availability"
	ResourceAgreements        Resource = "agreements"
	ResourceEmergencyContacts Resource = "emergency_contacts"
)

// Client клиент REST API хранилища (PostgREST-совместимый)
// Запросы выполняются от имени пользователя из контекста (authctx), иначе с сервисным ключом
type Client struct {
	rest   *restclient.Client
	apiKey string
	log    Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL, apiKey string, timeout time.Duration, log Logger, opts ...restclient.Option) *Client {
	opts = append([]restclient.Option{restclient.WithHeader("apikey", apiKey)}, opts...)
	return &Client{
		rest:   restclient.New(target, baseURL, timeout, opts...),
		apiKey: apiKey,
		log:    log,
	}
}

// List читает записи ресурса; query - фильтры PostgREST (user_id=eq.42, order=starts_at.asc)
func (c *Client) List(ctx context.Context, resource Resource, query url.Values, out interface{}) error {
	err := c.rest.Do(ctx, restclient.Request{
		Method:    http.MethodGet,
		Path:      path(resource),
		Query:     query,
		Headers:   c.headers(ctx, ""),
		Operation: "list_" + string(resource),
	}, out)
	return c.wrap("List", resource, err)
}

// Get читает одну запись по id
func (c *Client) Get(ctx context.Context, resource Resource, id string, out interface{}) error {
	var rows []json.RawMessage
	err := c.rest.Do(ctx, restclient.Request{
		Method:    http.MethodGet,
		Path:      path(resource),
		Query:     url.Values{"id": {"eq." + id}, "limit": {"1"}},
		Headers:   c.headers(ctx, ""),
		Operation: "get_" + string(resource),
	}, &rows)
	if err != nil {
		return c.wrap("Get", resource, err)
	}
	return first(rows, out, resource, id)
}

// Create создает запись и возвращает её в out (если out != nil)
func (c *Client) Create(ctx context.Context, resource Resource, body interface{}, out interface{}) error {
	var rows []json.RawMessage
	err := c.rest.Do(ctx, restclient.Request{
		Method:    http.MethodPost,
		Path:      path(resource),
		Body:      body,
		Headers:   c.headers(ctx, "return=representation"),
		Operation: "create_" + string(resource),
	}, &rows)
	if err != nil {
		return c.wrap("Create", resource, err)
	}
	if out == nil {
		return nil
	}
	return first(rows, out, resource, "")
}

// CreateMany создает несколько записей одним запросом
func (c *Client) CreateMany(ctx context.Context, resource Resource, rows interface{}) error {
	err := c.rest.Do(ctx, restclient.Request{
		Method:    http.MethodPost,
		Path:      path(resource),
		Body:      rows,
		Headers:   c.headers(ctx, "return=minimal"),
		Operation: "create_many_" + string(resource),
	}, nil)
	return c.wrap("CreateMany", resource, err)
}

// Update частично обновляет запись по id и возвращает её в out (если out != nil)
func (c *Client) Update(ctx context.Context, resource Resource, id string, patch interface{}, out interface{}) error {
	var rows []json.RawMessage
	err := c.rest.Do(ctx, restclient.Request{
		Method:    http.MethodPatch,
		Path:      path(resource),
		Query:     url.Values{"id": {"eq." + id}},
		Body:      patch,
		Headers:   c.headers(ctx, "return=representation"),
		Operation: "update_" + string(resource),
	}, &rows)
	if err != nil {
		return c.wrap("Update", resource, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: %s id=%s", ErrNotFound, resource, id)
	}
	if out == nil {
		return nil
	}
	return first(rows, out, resource, id)
}

// UpdateWhere обновляет все записи, подходящие под фильтр; out получает массив обновлённых записей
func (c *Client) UpdateWhere(ctx context.Context, resource Resource, query url.Values, patch interface{}, out interface{}) error {
	err := c.rest.Do(ctx, restclient.Request{
		Method:    http.MethodPatch,
		Path:      path(resource),
		Query:     query,
		Body:      patch,
		Headers:   c.headers(ctx, "return=representation"),
		Operation: "update_many_" + string(resource),
	}, out)
	return c.wrap("UpdateWhere", resource, err)
}

// Delete удаляет запись по id
func (c *Client) Delete(ctx context.Context, resource Resource, id string) error {
	err := c.rest.Do(ctx, restclient.Request{
		Method:    http.MethodDelete,
		Path:      path(resource),
		Query:     url.Values{"id": {"eq." + id}},
		Headers:   c.headers(ctx, ""),
		Operation: "delete_" + string(resource),
	}, nil)
	return c.wrap("Delete", resource, err)
}

func (c *Client) headers(ctx context.Context, prefer string) map[string]string {
	token, ok := authctx.AccessToken(ctx)
	if !ok {
		token = c.apiKey
	}
	h := map[string]string{"Authorization": "Bearer " + token}
	if prefer != "" {
		h["Prefer"] = prefer
	}
	return h
}

func (c *Client) wrap(op string, resource Resource, err error) error {
	if err == nil {
		return nil
	}
	var statusErr *restclient.StatusError
	if errors.As(err, &statusErr) {
		c.log.Warn("%s %s: data service responded with status %d: %s", op, resource, statusErr.StatusCode, statusErr.Body)
		return fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, op, resource, err)
	}
	c.log.Error("%s %s: data service call failed: %v", op, resource, err)
	return fmt.Errorf("%w: %s %s: %v", ErrInternal, op, resource, err)
}

func path(resource Resource) string {
	return "/rest/v1/" + string(resource)
}

func first(rows []json.RawMessage, out interface{}, resource Resource, id string) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: %s id=%s", ErrNotFound, resource, id)
	}
	if err := json.Unmarshal(rows[0], out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInternal, resource, err)
	}
	return nil
}

package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const maxErrorBodyBytes = 4 << 10

var (
	// ErrTransport запрос не дошёл до сервиса или ответ не был получен
	ErrTransport = errors.New("restclient: transport error")

	// ErrEncode не удалось сериализовать тело запроса
	ErrEncode = errors.New("restclient: failed to encode request")

	// ErrDecode не удалось разобрать тело ответа
	ErrDecode = errors.New("restclient: failed to decode response")
)

// StatusError ответ с кодом вне диапазона 2xx
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}

// StatusCode возвращает HTTP код из ошибки, если это StatusError
func StatusCode(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	return 0, false
}

// Observer получатель метрик исходящих запросов
type Observer interface {
	ObserveOutbound(target, operation, outcome string, elapsed time.Duration)
}

// Request описание исходящего запроса
type Request struct {
	Method    string
	Path      string
	Query     url.Values
	Body      interface{}
	Headers   map[string]string
	Operation string // метка для метрик
}

// Client базовый JSON-клиент для внешних сервисов
type Client struct {
	target     string
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
	limiter    *rate.Limiter
	observer   Observer
}

// Option настройка клиента
type Option func(*Client)

// WithHeader добавляет заголовок ко всем запросам
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if value != "" {
			c.headers[key] = value
		}
	}
}

// WithRateLimit ограничивает частоту исходящих запросов (rps <= 0 - без ограничения)
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithObserver подключает сбор метрик
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// WithHTTPClient подменяет http.Client (для тестов)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New создает клиента; target используется в метриках и сообщениях об ошибках
func New(target, baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		target:  target,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Target имя внешнего сервиса
func (c *Client) Target() string {
	return c.target
}

// Do выполняет запрос; при 2xx декодирует тело в out (если out != nil и тело не пустое)
func (c *Client) Do(ctx context.Context, req Request, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveOutbound(c.target, req.Operation, outcome(err), time.Since(start))
		}
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %s rate limiter: %v", ErrTransport, c.target, err)
		}
	}

	endpoint := c.baseURL + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncode, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrTransport, err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	if code, ok := StatusCode(err); ok {
		return fmt.Sprintf("status_%dxx", code/100)
	}
	return "error"
}

package authservice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/m04kA/SMC-TherapySessions/pkg/restclient"
)

const target = "authservice"

// Client клиент сервиса аутентификации (GoTrue-совместимый API)
type Client struct {
	rest      *restclient.Client
	listeners listeners
	log       Logger
}

// NewClient создает новый экземпляр клиента; apiKey передаётся в заголовке apikey каждого запроса
func NewClient(baseURL, apiKey string, timeout time.Duration, log Logger, opts ...restclient.Option) *Client {
	opts = append([]restclient.Option{restclient.WithHeader("apikey", apiKey)}, opts...)
	return &Client{
		rest: restclient.New(target, baseURL, timeout, opts...),
		log:  log,
	}
}

// SignIn вход по email и паролю
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.rest.Do(ctx, restclient.Request{
		Method:    http.MethodPost,
		Path:      "/auth/v1/token",
		Query:     url.Values{"grant_type": {"password"}},
		Body:      passwordGrantRequest{Email: email, Password: password},
		Operation: "sign_in",
	}, &session)
	if err != nil {
		code, ok := restclient.StatusCode(err)
		if ok && (code == http.StatusBadRequest || code == http.StatusUnauthorized) {
			return nil, ErrInvalidCredentials
		}
		return nil, c.wrap("SignIn", err)
	}

	c.log.Info("SignIn: user signed in: user_id=%s", session.User.ID)
	c.listeners.emit(EventSignedIn, &session)
	return &session, nil
}

// SignUp регистрация; metadata сохраняется в профиле пользователя.
// Если сервис требует подтверждения email, возвращается пользователь без сессии (session == nil).
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*User, *Session, error) {
	var resp signUpResponse
	err := c.rest.Do(ctx, restclient.Request{
		Method:    http.MethodPost,
		Path:      "/auth/v1/signup",
		Body:      signUpRequest{Email: email, Password: password, Data: metadata},
		Operation: "sign_up",
	}, &resp)
	if err != nil {
		code, ok := restclient.StatusCode(err)
		if ok && (code == http.StatusUnprocessableEntity || code == http.StatusConflict) {
			return nil, nil, ErrUserAlreadyExists
		}
		return nil, nil, c.wrap("SignUp", err)
	}

	if resp.AccessToken == "" {
		user := &User{ID: resp.ID, Email: resp.Email}
		c.log.Info("SignUp: user registered, email confirmation pending: user_id=%s", user.ID)
		c.listeners.emit(EventUserUpdated, nil)
		return user, nil, nil
	}

	session := resp.Session
	c.log.Info("SignUp: user registered and signed in: user_id=%s", session.User.ID)
	c.listeners.emit(EventUserUpdated, &session)
	c.listeners.emit(EventSignedIn, &session)
	return &session.User, &session, nil
}

// SignOut завершает сессию с указанным access token
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	err := c.rest.Do(ctx, restclient.Request{
		Method:    http.MethodPost,
		Path:      "/auth/v1/logout",
		Headers:   bearer(accessToken),
		Operation: "sign_out",
	}, nil)
	if err != nil {
		// токен уже недействителен - пользователь и так разлогинен
		if code, ok := restclient.StatusCode(err); !ok || code != http.StatusUnauthorized {
			return c.wrap("SignOut", err)
		}
	}

	c.listeners.emit(EventSignedOut, nil)
	return nil
}

// GetSession возвращает сессию для access token или nil, если токен недействителен
func (c *Client) GetSession(ctx context.Context, accessToken string) (*Session, error) {
	if accessToken == "" {
		return nil, nil
	}

	var user User
	err := c.rest.Do(ctx, restclient.Request{
		Method:    http.MethodGet,
		Path:      "/auth/v1/user",
		Headers:   bearer(accessToken),
		Operation: "get_user",
	}, &user)
	if err != nil {
		code, ok := restclient.StatusCode(err)
		if ok && (code == http.StatusUnauthorized || code == http.StatusForbidden) {
			return nil, nil
		}
		return nil, c.wrap("GetSession", err)
	}

	return &Session{AccessToken: accessToken, TokenType: "bearer", User: user}, nil
}

// RefreshSession обменивает refresh token на новую сессию
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	var session Session
	err := c.rest.Do(ctx, restclient.Request{
		Method:    http.MethodPost,
		Path:      "/auth/v1/token",
		Query:     url.Values{"grant_type": {"refresh_token"}},
		Body:      refreshGrantRequest{RefreshToken: refreshToken},
		Operation: "refresh",
	}, &session)
	if err != nil {
		code, ok := restclient.StatusCode(err)
		if ok && (code == http.StatusBadRequest || code == http.StatusUnauthorized) {
			return nil, ErrInvalidToken
		}
		return nil, c.wrap("RefreshSession", err)
	}

	c.listeners.emit(EventTokenRefreshed, &session)
	return &session, nil
}

// OnAuthStateChange подписывает listener на события входа, выхода, обновления токена и регистрации
func (c *Client) OnAuthStateChange(listener Listener) *Subscription {
	return c.listeners.add(listener)
}

func (c *Client) wrap(op string, err error) error {
	var statusErr *restclient.StatusError
	if errors.As(err, &statusErr) {
		c.log.Warn("%s: auth service responded with status %d", op, statusErr.StatusCode)
		return fmt.Errorf("%w: %s: %v", ErrRequestFailed, op, err)
	}
	c.log.Error("%s: auth service call failed: %v", op, err)
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-TherapySessions/internal/api/handlers"
	"github.com/m04kA/SMC-TherapySessions/internal/service/auth"
	authModels "github.com/m04kA/SMC-TherapySessions/internal/service/auth/models"
	"github.com/m04kA/SMC-TherapySessions/pkg/authctx"
)

const (
	msgMissingToken = "missing bearer token"
	msgInvalidToken = "invalid or expired session"
)

// SessionChecker проверяет access token во внешнем сервисе аутентификации
type SessionChecker interface {
	CurrentSession(ctx context.Context, accessToken string) (*authModels.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth пропускает только запросы с действующим Bearer токеном.
// ID пользователя и токен кладутся в контекст (authctx), чтобы запросы во внешние сервисы шли от его имени.
func Auth(checker SessionChecker, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			session, err := checker.CurrentSession(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrUnauthorized) {
					logger.Warn("%s %s - Session rejected", r.Method, r.URL.Path)
					handlers.RespondUnauthorized(w, msgInvalidToken)
					return
				}
				logger.Error("%s %s - Failed to check session: %v", r.Method, r.URL.Path, err)
				handlers.RespondInternalError(w)
				return
			}

			ctx := authctx.WithUser(r.Context(), session.User.ID, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID возвращает ID пользователя, положенный Auth
func GetUserID(ctx context.Context) (string, bool) {
	return authctx.UserID(ctx)
}

// GetAccessToken возвращает токен пользователя, положенный Auth
func GetAccessToken(ctx context.Context) (string, bool) {
	return authctx.AccessToken(ctx)
}

// BearerToken извлекает токен из заголовка Authorization
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < len("Bearer ") || !strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}

package auth

import (
	"context"

	"github.com/m04kA/SMC-TherapySessions/internal/integrations/authservice"
)

// AuthClient интерфейс клиента сервиса аутентификации
type AuthClient interface {
	SignIn(ctx context.Context, email, password string) (*authservice.Session, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*authservice.User, *authservice.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetSession(ctx context.Context, accessToken string) (*authservice.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*authservice.Session, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

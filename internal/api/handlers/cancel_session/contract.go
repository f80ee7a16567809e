package cancel_session

import "context"

type SessionService interface {
	Cancel(ctx context.Context, id, userID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package abandon_setup

import "context"

type FlowService interface {
	Abandon(ctx context.Context, id, userID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package preview_schedule

import (
	"context"

	previewSchedule "github.com/m04kA/SMC-TherapySessions/internal/usecase/preview_schedule"
)

type PreviewUseCase interface {
	Execute(ctx context.Context, req *previewSchedule.Request) (*previewSchedule.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

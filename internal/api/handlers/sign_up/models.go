package sign_up

import (
	"github.com/m04kA/SMC-TherapySessions/internal/notice"
	"github.com/m04kA/SMC-TherapySessions/internal/service/auth/models"
)

// SignUpResponse HTTP response model
type SignUpResponse struct {
	*models.SignUpResponse
	Notice notice.Notice `json:"notice"`
}

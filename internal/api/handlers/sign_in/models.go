package sign_in

import (
	"github.com/m04kA/SMC-TherapySessions/internal/notice"
	"github.com/m04kA/SMC-TherapySessions/internal/service/auth/models"
)

// SignInResponse HTTP response model
type SignInResponse struct {
	*models.SessionResponse
	Notice notice.Notice `json:"notice"`
}

package sign_out

import "github.com/m04kA/SMC-TherapySessions/internal/notice"

// SignOutResponse HTTP response model
type SignOutResponse struct {
	Success bool          `json:"success"`
	Notice  notice.Notice `json:"notice"`
}

package abandon_setup

import "github.com/m04kA/SMC-TherapySessions/internal/notice"

// AbandonResponse HTTP response model
type AbandonResponse struct {
	Success bool          `json:"success"`
	Notice  notice.Notice `json:"notice"`
}

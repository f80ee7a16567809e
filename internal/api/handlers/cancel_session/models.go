package cancel_session

import "github.com/m04kA/SMC-TherapySessions/internal/notice"

// CancelSessionResponse HTTP response model
type CancelSessionResponse struct {
	SessionID string        `json:"sessionId"`
	Status    string        `json:"status"`
	Notice    notice.Notice `json:"notice"`
}

package advance_setup

import (
	"github.com/m04kA/SMC-TherapySessions/internal/notice"
	"github.com/m04kA/SMC-TherapySessions/internal/service/flows/models"
)

// AdvanceResponse HTTP response model
type AdvanceResponse struct {
	*models.FlowResponse
	Notice notice.Notice `json:"notice"`
}

// InvalidStepResponse ответ 422: ошибки полей и текущее состояние сценария
type InvalidStepResponse struct {
	Success bool                 `json:"success"`
	Error   string               `json:"error"`
	Fields  map[string][]string  `json:"fields"`
	Notice  notice.Notice        `json:"notice"`
	Flow    *models.FlowResponse `json:"flow"`
}

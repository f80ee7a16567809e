package complete_setup

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.FlowID) == "" {
		return fmt.Errorf("%w: flowID is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	if req.ViewerTimezone != "" && !validation.Timezone(req.ViewerTimezone, "timezone").Valid() {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, req.ViewerTimezone)
	}

	return nil
}

// billingInterval переводит частоту сессий в период регулярного списания
func billingInterval(f domain.Frequency) (string, int, error) {
	switch f {
	case domain.FrequencyWeekly:
		return "week", 1, nil
	case domain.FrequencyBiweekly:
		return "week", 2, nil
	case domain.FrequencyMonthly:
		return "month", 1, nil
	default:
		return "", 0, fmt.Errorf("%w: frequency %q has no billing interval", ErrInvalidInput, f)
	}
}

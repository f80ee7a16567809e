package get_sessions

import (
	"fmt"
	"net/url"
	"time"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/service/sessions/models"
)

// parseQuery разбирает фильтры ?from=&to=&subscriptionId=&status=&timezone=
// from и to принимают RFC 3339 или дату YYYY-MM-DD (полночь UTC)
func parseQuery(userID string, q url.Values) (*models.ListSessionsRequest, error) {
	req := &models.ListSessionsRequest{
		UserID:   userID,
		Timezone: q.Get("timezone"),
	}

	if v := q.Get("from"); v != "" {
		from, err := parseBound(v)
		if err != nil {
			return nil, fmt.Errorf("from: %w", err)
		}
		req.From = &from
	}
	if v := q.Get("to"); v != "" {
		to, err := parseBound(v)
		if err != nil {
			return nil, fmt.Errorf("to: %w", err)
		}
		req.To = &to
	}
	if v := q.Get("subscriptionId"); v != "" {
		req.SubscriptionID = &v
	}
	if v := q.Get("status"); v != "" {
		req.Status = &v
	}
	return req, nil
}

func parseBound(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(domain.DateFormat, v)
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/recurrence"
)

const validConfig = `
[server]
http_port = 9090

[auth_service]
url = "http://auth.local"
api_key = "from-file"

[data_service]
url = "http://data.local"

[payment_service]
url = "http://pay.local"
rate_limit = 5.0
burst = 2

[schedule]
skip_policy = "shrink"
holidays = ["2025-12-25"]

[[plans]]
code = "weekly-50"
name = "Weekly"
price = "90.00"
currency = "eur"
frequency = "weekly"

[[plans]]
code = "monthly-80"
name = "Monthly long"
price = "120.50"
frequency = "monthly"
duration_minutes = 80
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("AUTH_SERVICE_API_KEY", "from-env")
	t.Setenv("DATA_SERVICE_API_KEY", "")

	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, "from-env", cfg.AuthService.APIKey)
	assert.Empty(t, cfg.DataService.APIKey)
	assert.Equal(t, 5.0, cfg.PaymentService.RateLimit)
	assert.False(t, cfg.Database.Enabled)

	plans := cfg.DomainPlans()
	require.Len(t, plans, 2)
	assert.Equal(t, "EUR", plans[0].Currency)
	assert.Equal(t, domain.DefaultSessionDurationMinutes, plans[0].DurationMinutes)
	assert.Equal(t, int64(9000), plans[0].MinorUnits())
	assert.Equal(t, domain.DefaultCurrency, plans[1].Currency)
	assert.Equal(t, int64(12050), plans[1].MinorUnits())
	assert.Equal(t, domain.FrequencyMonthly, plans[1].Frequency)

	opts := cfg.Schedule.Options()
	assert.Equal(t, recurrence.PolicyFirstOccurrence, opts.SameDay)
	assert.Equal(t, recurrence.SkipShrink, opts.Skip)
	assert.Equal(t, recurrence.RolloverClamp, opts.Rollover)
	assert.Equal(t, recurrence.GapShiftForward, opts.Gap)
	assert.NotNil(t, opts.Holidays)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "missing services and plans",
			content: "[server]\nhttp_port = 8080\n",
			wantMsg: "auth_service.url is required",
		},
		{
			name:    "bad price",
			content: validConfig + "\n[[plans]]\ncode = \"free\"\nprice = \"0\"\nfrequency = \"weekly\"\n",
			wantMsg: "plans.free: price must be a positive decimal",
		},
		{
			name:    "custom frequency plan",
			content: validConfig + "\n[[plans]]\ncode = \"odd\"\nprice = \"10\"\nfrequency = \"custom\"\n",
			wantMsg: "plans.odd: unsupported frequency",
		},
		{
			name:    "duplicate plan",
			content: validConfig + "\n[[plans]]\ncode = \"weekly-50\"\nprice = \"10\"\nfrequency = \"weekly\"\n",
			wantMsg: "duplicate code \"weekly-50\"",
		},
		{
			name:    "unknown dst gap policy",
			content: strings.Replace(validConfig, "skip_policy = \"shrink\"", "skip_policy = \"shrink\"\ndst_gap = \"backward\"", 1),
			wantMsg: "schedule.dst_gap unknown",
		},
		{
			name:    "setup override keeps other defaults",
			content: validConfig + "\n[setup]\nflow_ttl_minutes = 30\n",
			wantMsg: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	db := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "secret", DBName: "therapy", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=therapy sslmode=disable", db.DSN())
}

func TestScheduleConfig_RejectGap(t *testing.T) {
	t.Parallel()

	opts := ScheduleConfig{DSTGap: "reject"}.Options()
	assert.Equal(t, recurrence.GapReject, opts.Gap)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/internal/recurrence"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("invalid config")

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig   `toml:"server"`
	Logs           LogsConfig     `toml:"logs"`
	Metrics        MetricsConfig  `toml:"metrics"`
	Database       DatabaseConfig `toml:"database"`
	AuthService    ServiceConfig  `toml:"auth_service"`
	DataService    ServiceConfig  `toml:"data_service"`
	PaymentService ServiceConfig  `toml:"payment_service"`
	Setup          SetupConfig    `toml:"setup"`
	Schedule       ScheduleConfig `toml:"schedule"`
	Password       PasswordConfig `toml:"password"`
	Plans          []PlanConfig   `toml:"plans"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// DatabaseConfig прямое подключение к Postgres; при Enabled = false данные идут через DataService
type DatabaseConfig struct {
	Enabled         bool   `toml:"enabled"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	MigrateOnStart  bool   `toml:"migrate_on_start"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// ServiceConfig внешний HTTP сервис
type ServiceConfig struct {
	URL       string  `toml:"url"`
	APIKey    string  `toml:"api_key"`
	Timeout   int     `toml:"timeout"`
	RateLimit float64 `toml:"rate_limit"` // запросов в секунду, 0 - без ограничения
	Burst     int     `toml:"burst"`
}

// TimeoutDuration таймаут запроса
func (s ServiceConfig) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

type SetupConfig struct {
	FlowTTLMinutes       int    `toml:"flow_ttl_minutes"`
	SweepIntervalSeconds int    `toml:"sweep_interval_seconds"`
	AgreementVersion     string `toml:"agreement_version"`
	InitialSessions      int    `toml:"initial_sessions"`
}

func (s SetupConfig) FlowTTL() time.Duration {
	return time.Duration(s.FlowTTLMinutes) * time.Minute
}

func (s SetupConfig) SweepInterval() time.Duration {
	return time.Duration(s.SweepIntervalSeconds) * time.Second
}

type ScheduleConfig struct {
	SkipPolicy              string   `toml:"skip_policy"`      // none, refill, shrink
	MonthlyRollover         string   `toml:"monthly_rollover"` // clamp, overflow
	DSTGap                  string   `toml:"dst_gap"`          // shift, reject
	Holidays                []string `toml:"holidays"`         // YYYY-MM-DD
	CancellationNoticeHours int      `toml:"cancellation_notice_hours"`
	DefaultPreviewCount     int      `toml:"default_preview_count"`
}

// Options опции калькулятора повторений для генерации сессий
func (s ScheduleConfig) Options() recurrence.Options {
	opts := recurrence.Options{
		SameDay:  recurrence.PolicyFirstOccurrence,
		Skip:     skipPolicies[s.SkipPolicy],
		Rollover: rollovers[s.MonthlyRollover],
		Gap:      gapPolicies[s.DSTGap],
	}
	if len(s.Holidays) > 0 {
		opts.Holidays = recurrence.NewStaticHolidays(s.Holidays...)
	}
	return opts
}

func (s ScheduleConfig) CancellationNotice() time.Duration {
	return time.Duration(s.CancellationNoticeHours) * time.Hour
}

// PasswordConfig требования к паролю при регистрации
type PasswordConfig struct {
	MinLength        int  `toml:"min_length"`
	RequireUppercase bool `toml:"require_uppercase"`
	RequireLowercase bool `toml:"require_lowercase"`
	RequireDigit     bool `toml:"require_digit"`
	RequireSpecial   bool `toml:"require_special"`
}

// PlanConfig тариф; цена задаётся строкой, чтобы не терять точность
type PlanConfig struct {
	Code            string `toml:"code"`
	Name            string `toml:"name"`
	Price           string `toml:"price"`
	Currency        string `toml:"currency"`
	Frequency       string `toml:"frequency"`
	DurationMinutes int    `toml:"duration_minutes"`
}

var skipPolicies = map[string]recurrence.SkipPolicy{
	"":       recurrence.SkipNone,
	"none":   recurrence.SkipNone,
	"refill": recurrence.SkipRefill,
	"shrink": recurrence.SkipShrink,
}

var rollovers = map[string]recurrence.MonthlyRollover{
	"":         recurrence.RolloverClamp,
	"clamp":    recurrence.RolloverClamp,
	"overflow": recurrence.RolloverOverflow,
}

var gapPolicies = map[string]recurrence.GapPolicy{
	"":       recurrence.GapShiftForward,
	"shift":  recurrence.GapShiftForward,
	"reject": recurrence.GapReject,
}

// Load читает конфигурацию из TOML файла.
// Секреты берутся из переменных окружения (и .env, если он есть) и перекрывают значения из файла.
func Load(path string) (*Config, error) {
	// .env необязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "therapy_sessions",
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			MigrateOnStart:  true,
		},
		AuthService:    ServiceConfig{Timeout: 10},
		DataService:    ServiceConfig{Timeout: 10},
		PaymentService: ServiceConfig{Timeout: 20},
		Setup: SetupConfig{
			FlowTTLMinutes:       domain.DefaultSetupFlowTTLMinutes,
			SweepIntervalSeconds: 60,
			AgreementVersion:     domain.DefaultAgreementVersion,
			InitialSessions:      domain.DefaultInitialSessionsCount,
		},
		Schedule: ScheduleConfig{
			SkipPolicy:              "refill",
			MonthlyRollover:         "clamp",
			DSTGap:                  "shift",
			CancellationNoticeHours: domain.DefaultCancellationNoticeHours,
			DefaultPreviewCount:     domain.DefaultPreviewCount,
		},
		Password: PasswordConfig{
			MinLength:        8,
			RequireUppercase: true,
			RequireLowercase: true,
			RequireDigit:     true,
			RequireSpecial:   true,
		},
	}
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"AUTH_SERVICE_API_KEY":       &c.AuthService.APIKey,
		"DATA_SERVICE_API_KEY":       &c.DataService.APIKey,
		"PAYMENT_SERVICE_SECRET_KEY": &c.PaymentService.APIKey,
		"DB_PASSWORD":                &c.Database.Password,
	}
	for name, target := range overrides {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*target = v
		}
	}
}

func (c *Config) applyDefaults() {
	for i := range c.Plans {
		c.Plans[i].Currency = strings.ToUpper(strings.TrimSpace(c.Plans[i].Currency))
		if c.Plans[i].Currency == "" {
			c.Plans[i].Currency = domain.DefaultCurrency
		}
		if c.Plans[i].DurationMinutes == 0 {
			c.Plans[i].DurationMinutes = domain.DefaultSessionDurationMinutes
		}
	}
}

func (c *Config) validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port out of range: %d", c.Server.HTTPPort))
	}
	for name, svc := range map[string]ServiceConfig{
		"auth_service":    c.AuthService,
		"data_service":    c.DataService,
		"payment_service": c.PaymentService,
	} {
		if svc.URL == "" {
			problems = append(problems, name+".url is required")
		}
		if svc.Timeout <= 0 {
			problems = append(problems, name+".timeout must be positive")
		}
	}
	if c.Database.Enabled && (c.Database.Host == "" || c.Database.DBName == "") {
		problems = append(problems, "database.host and database.dbname are required when database.enabled")
	}
	if _, ok := skipPolicies[c.Schedule.SkipPolicy]; !ok {
		problems = append(problems, fmt.Sprintf("schedule.skip_policy unknown: %q", c.Schedule.SkipPolicy))
	}
	if _, ok := rollovers[c.Schedule.MonthlyRollover]; !ok {
		problems = append(problems, fmt.Sprintf("schedule.monthly_rollover unknown: %q", c.Schedule.MonthlyRollover))
	}
	if _, ok := gapPolicies[c.Schedule.DSTGap]; !ok {
		problems = append(problems, fmt.Sprintf("schedule.dst_gap unknown: %q", c.Schedule.DSTGap))
	}
	for _, d := range c.Schedule.Holidays {
		if _, err := time.Parse(domain.DateFormat, d); err != nil {
			problems = append(problems, fmt.Sprintf("schedule.holidays: bad date %q", d))
		}
	}
	if c.Setup.FlowTTLMinutes <= 0 {
		problems = append(problems, "setup.flow_ttl_minutes must be positive")
	}
	if c.Setup.SweepIntervalSeconds <= 0 {
		problems = append(problems, "setup.sweep_interval_seconds must be positive")
	}
	if c.Setup.InitialSessions <= 0 {
		problems = append(problems, "setup.initial_sessions must be positive")
	}
	if len(c.Plans) == 0 {
		problems = append(problems, "at least one [[plans]] entry is required")
	}
	seen := map[string]bool{}
	for _, p := range c.Plans {
		if p.Code == "" {
			problems = append(problems, "plans: code is required")
			continue
		}
		if seen[p.Code] {
			problems = append(problems, fmt.Sprintf("plans: duplicate code %q", p.Code))
		}
		seen[p.Code] = true
		if price, err := decimal.NewFromString(p.Price); err != nil || !price.IsPositive() {
			problems = append(problems, fmt.Sprintf("plans.%s: price must be a positive decimal, got %q", p.Code, p.Price))
		}
		if f := domain.Frequency(p.Frequency); !f.IsValid() || f == domain.FrequencyCustom {
			problems = append(problems, fmt.Sprintf("plans.%s: unsupported frequency %q", p.Code, p.Frequency))
		}
		if p.DurationMinutes < domain.MinSessionDurationMinutes || p.DurationMinutes > domain.MaxSessionDurationMinutes {
			problems = append(problems, fmt.Sprintf("plans.%s: duration_minutes out of range: %d", p.Code, p.DurationMinutes))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// DomainPlans тарифы в доменном виде; вызывать после успешной валидации
func (c *Config) DomainPlans() []domain.Plan {
	plans := make([]domain.Plan, 0, len(c.Plans))
	for _, p := range c.Plans {
		plans = append(plans, domain.Plan{
			Code:            p.Code,
			Name:            p.Name,
			Price:           decimal.RequireFromString(p.Price),
			Currency:        p.Currency,
			Frequency:       domain.Frequency(p.Frequency),
			DurationMinutes: p.DurationMinutes,
		})
	}
	return plans
}

// PasswordRequirements требования к паролю для валидатора
func (c *Config) PasswordRequirements() validation.PasswordRequirements {
	return validation.PasswordRequirements{
		MinLength:        c.Password.MinLength,
		RequireUppercase: c.Password.RequireUppercase,
		RequireLowercase: c.Password.RequireLowercase,
		RequireDigit:     c.Password.RequireDigit,
		RequireSpecial:   c.Password.RequireSpecial,
	}
}

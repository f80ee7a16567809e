package domain

// Default configuration values
const (
	DefaultSessionDurationMinutes  = 50
	DefaultInitialSessionsCount    = 4
	DefaultPreviewCount            = 6
	MaxPreviewCount                = 52
	DefaultCancellationNoticeHours = 24
	DefaultSetupFlowTTLMinutes     = 60
	DefaultAgreementVersion        = "2024-01"
	DefaultCurrency                = "EUR"
)

// Business validation constants
const (
	MinSessionDurationMinutes   = 15
	MaxSessionDurationMinutes   = 180
	MaxCancellationReasonLength = 500
	MaxNameLength               = 100
	MaxRelationshipLength       = 50
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// CancellableSubscriptionStatuses statuses from which a subscription may be cancelled
var CancellableSubscriptionStatuses = []SubscriptionStatus{
	SubscriptionPending,
	SubscriptionActive,
	SubscriptionPaused,
}

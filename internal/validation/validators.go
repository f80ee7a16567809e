package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
	"github.com/m04kA/SMC-TherapySessions/pkg/types"
)

// Validator checks one value of the named field. Only Required reports empty values;
// every other validator accepts an empty string so that a missing value yields one message.
type Validator func(value, field string) Result

var (
	// pattern based, close to RFC 5322 for ordinary addresses but not a full implementation
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?)+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-]{7,20}$`)
)

// Required rejects empty and whitespace-only values
func Required(value, field string) Result {
	r := NewResult()
	if strings.TrimSpace(value) == "" {
		r.Add(field, "is required")
	}
	return r
}

// MinLength counts characters, not bytes
func MinLength(n int) Validator {
	return func(value, field string) Result {
		r := NewResult()
		if value != "" && utf8.RuneCountInString(value) < n {
			r.Add(field, fmt.Sprintf("must be at least %d characters", n))
		}
		return r
	}
}

// MaxLength counts characters, not bytes
func MaxLength(n int) Validator {
	return func(value, field string) Result {
		r := NewResult()
		if utf8.RuneCountInString(value) > n {
			r.Add(field, fmt.Sprintf("must be at most %d characters", n))
		}
		return r
	}
}

// Email checks the address shape only
func Email(value, field string) Result {
	r := NewResult()
	if value != "" && !emailPattern.MatchString(value) {
		r.Add(field, "must be a valid email address")
	}
	return r
}

// Phone accepts digits with an optional leading plus, spaces, dashes and parentheses
func Phone(value, field string) Result {
	r := NewResult()
	if value == "" {
		return r
	}
	digits := 0
	for _, c := range value {
		if unicode.IsDigit(c) {
			digits++
		}
	}
	if !phonePattern.MatchString(value) || digits < 7 || digits > 15 {
		r.Add(field, "must be a valid phone number")
	}
	return r
}

// PasswordRequirements toggles each password rule independently
type PasswordRequirements struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireDigit     bool
	RequireSpecial   bool
}

// DefaultPasswordRequirements minimum 8 characters with upper, lower, digit and special
func DefaultPasswordRequirements() PasswordRequirements {
	return PasswordRequirements{
		MinLength:        8,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireDigit:     true,
		RequireSpecial:   true,
	}
}

// Password reports one message per unmet requirement, in the order
// length, uppercase, lowercase, digit, special.
func Password(value, field string, cfg PasswordRequirements) Result {
	r := NewResult()
	if value == "" {
		return r
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, c := range value {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		case unicode.IsPunct(c) || unicode.IsSymbol(c) || unicode.IsSpace(c):
			hasSpecial = true
		}
	}

	if cfg.MinLength > 0 && utf8.RuneCountInString(value) < cfg.MinLength {
		r.Add(field, fmt.Sprintf("must be at least %d characters", cfg.MinLength))
	}
	if cfg.RequireUppercase && !hasUpper {
		r.Add(field, "must contain an uppercase letter")
	}
	if cfg.RequireLowercase && !hasLower {
		r.Add(field, "must contain a lowercase letter")
	}
	if cfg.RequireDigit && !hasDigit {
		r.Add(field, "must contain a digit")
	}
	if cfg.RequireSpecial && !hasSpecial {
		r.Add(field, "must contain a special character")
	}
	return r
}

// PasswordRule adapts Password to the Validator signature
func PasswordRule(cfg PasswordRequirements) Validator {
	return func(value, field string) Result {
		return Password(value, field, cfg)
	}
}

// Matches checks a confirmation field against the original value
func Matches(other, otherField string) Validator {
	return func(value, field string) Result {
		r := NewResult()
		if value != other {
			r.Add(field, fmt.Sprintf("must match %s", otherField))
		}
		return r
	}
}

// OneOf restricts the value to a fixed set
func OneOf(allowed ...string) Validator {
	return func(value, field string) Result {
		r := NewResult()
		if value == "" {
			return r
		}
		for _, a := range allowed {
			if value == a {
				return r
			}
		}
		r.Add(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
		return r
	}
}

// Timezone requires an IANA timezone id known to the host
func Timezone(value, field string) Result {
	r := NewResult()
	if value == "" {
		return r
	}
	// "Local" loads without error but means the server zone
	if value == "Local" {
		r.Add(field, "must be a valid IANA timezone")
		return r
	}
	if _, err := time.LoadLocation(value); err != nil {
		r.Add(field, "must be a valid IANA timezone")
	}
	return r
}

// TimeOfDay requires HH:MM between 00:00 and 23:59
func TimeOfDay(value, field string) Result {
	r := NewResult()
	if value == "" {
		return r
	}
	if _, err := types.NewTimeStringFromString(value); err != nil {
		r.Add(field, "must be a time in HH:MM format")
	}
	return r
}

// Date requires YYYY-MM-DD
func Date(value, field string) Result {
	r := NewResult()
	if value == "" {
		return r
	}
	if _, err := time.Parse(domain.DateFormat, value); err != nil {
		r.Add(field, "must be a date in YYYY-MM-DD format")
	}
	return r
}

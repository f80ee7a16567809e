package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currencyExponent number of minor units per currency (ISO 4217)
var currencyExponent = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"BHD": 3,
	"KWD": 3,
}

// Plan is a pricing option offered in the setup flow
type Plan struct {
	Code            string
	Name            string
	Price           decimal.Decimal // price per session
	Currency        string          // ISO 4217, upper case
	Frequency       Frequency
	DurationMinutes int
}

// MinorUnits converts the price into the smallest currency unit (cents for USD/EUR)
func (p Plan) MinorUnits() int64 {
	return ToMinorUnits(p.Price, p.Currency)
}

// ToMinorUnits converts an amount into the smallest currency unit, rounding half away from zero
func ToMinorUnits(amount decimal.Decimal, currency string) int64 {
	exp, ok := currencyExponent[strings.ToUpper(currency)]
	if !ok {
		exp = 2
	}
	return amount.Shift(exp).Round(0).IntPart()
}

// FromMinorUnits converts minor units back into a decimal amount
func FromMinorUnits(minor int64, currency string) decimal.Decimal {
	exp, ok := currencyExponent[strings.ToUpper(currency)]
	if !ok {
		exp = 2
	}
	return decimal.New(minor, -exp)
}

// FindPlan returns the plan with the given code
func FindPlan(plans []Plan, code string) (Plan, bool) {
	for _, p := range plans {
		if p.Code == code {
			return p, true
		}
	}
	return Plan{}, false
}

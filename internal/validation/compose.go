package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-TherapySessions/internal/domain"
)

// ValidateField runs every validator against the value and concatenates all violations
func ValidateField(value, field string, validators ...Validator) Result {
	r := NewResult()
	for _, v := range validators {
		r.Merge(v(value, field))
	}
	return r
}

// ValidateForm runs the rules of every field. Fields are visited in sorted order and a field
// missing from values is validated as an empty string. Nothing short-circuits.
func ValidateForm(values map[string]string, rules map[string][]Validator) Result {
	fields := make([]string, 0, len(rules))
	for field := range rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	r := NewResult()
	for _, field := range fields {
		r.Merge(ValidateField(values[field], field, rules[field]...))
	}
	return r
}

// ValidateSchedule checks every part of a recurring schedule
func ValidateSchedule(s domain.RecurringSchedule) Result {
	r := NewResult()

	if s.Weekday() < 0 || s.Weekday() > 6 {
		r.Add("weekday", "must be between 0 (Sunday) and 6 (Saturday)")
	}

	r.Merge(ValidateField(s.TimeOfDay().String(), "timeOfDay", Required, TimeOfDay))

	if !s.Frequency().IsValid() {
		r.Add("frequency", fmt.Sprintf("must be one of: %s", strings.Join(frequencyNames(), ", ")))
	}

	r.Merge(ValidateField(s.Timezone(), "timezone", Required, Timezone))

	startsOn, hasStart := s.StartsOn()
	endsOn, hasEnd := s.EndsOn()
	if hasStart && hasEnd && endsOn.Before(startsOn) {
		r.Add("endsOn", "must not be before startsOn")
	}

	for _, d := range s.SkipDates() {
		if !Date(d, "skipDates").Valid() {
			r.Add("skipDates", fmt.Sprintf("%q must be a date in YYYY-MM-DD format", d))
		}
	}

	return r
}

func frequencyNames() []string {
	names := make([]string, 0, len(domain.Frequencies))
	for _, f := range domain.Frequencies {
		names = append(names, string(f))
	}
	return names
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return TimeOfDay(fl.Field().String(), fl.FieldName()).Valid()
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return Phone(fl.Field().String(), fl.FieldName()).Valid()
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		return Date(fl.Field().String(), fl.FieldName()).Valid()
	})

	return v
}

// ValidateStruct checks `validate` struct tags and converts the failures into a Result
// keyed by JSON field name
func ValidateStruct(s interface{}) Result {
	r := NewResult()

	err := structValidator.Struct(s)
	if err == nil {
		return r
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		r.Add("_", err.Error())
		return r
	}

	for _, fe := range validationErrs {
		r.Add(fieldPath(fe), tagMessage(fe))
	}
	return r
}

// fieldPath drops the root struct name from the namespace: "Req.contact.name" -> "contact.name"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_with":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "timezone":
		return "must be a valid IANA timezone"
	case "hhmm":
		return "must be a time in HH:MM format"
	case "date":
		return "must be a date in YYYY-MM-DD format"
	case "phone":
		return "must be a valid phone number"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "eq":
		if fe.Kind() == reflect.Bool {
			if b, err := strconv.ParseBool(fe.Param()); err == nil && b {
				return "must be accepted"
			}
		}
		return fmt.Sprintf("must equal %s", fe.Param())
	default:
		return fmt.Sprintf("failed the %s check", fe.Tag())
	}
}

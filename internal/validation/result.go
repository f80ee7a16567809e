package validation

import (
	"errors"
	"sort"
	"strings"
)

// ErrValidation matches every *FieldsError via errors.Is
var ErrValidation = errors.New("validation failed")

// Result maps a field name to its violation messages. A result is valid iff it holds no messages.
type Result map[string][]string

// NewResult returns an empty result
func NewResult() Result {
	return Result{}
}

// Add appends a message for field
func (r Result) Add(field, message string) {
	r[field] = append(r[field], message)
}

// Merge appends every message of other to r and returns r
func (r Result) Merge(other Result) Result {
	for _, field := range other.Fields() {
		r[field] = append(r[field], other[field]...)
	}
	return r
}

// Valid reports whether no violations were collected
func (r Result) Valid() bool {
	for _, messages := range r {
		if len(messages) > 0 {
			return false
		}
	}
	return true
}

// Fields returns the fields with violations in sorted order
func (r Result) Fields() []string {
	fields := make([]string, 0, len(r))
	for field, messages := range r {
		if len(messages) > 0 {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields
}

// Count returns the total number of messages
func (r Result) Count() int {
	n := 0
	for _, messages := range r {
		n += len(messages)
	}
	return n
}

func (r Result) String() string {
	parts := make([]string, 0, len(r))
	for _, field := range r.Fields() {
		parts = append(parts, field+": "+strings.Join(r[field], ", "))
	}
	return strings.Join(parts, "; ")
}

// Err returns nil for a valid result and a *FieldsError otherwise
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &FieldsError{Fields: r}
}

// FieldsError carries a non-empty Result through error returns
type FieldsError struct {
	Fields Result
}

func (e *FieldsError) Error() string {
	return "validation failed: " + e.Fields.String()
}

func (e *FieldsError) Is(target error) bool {
	return target == ErrValidation
}

// AsResult extracts the Result from an error chain
func AsResult(err error) (Result, bool) {
	var fieldsErr *FieldsError
	if errors.As(err, &fieldsErr) {
		return fieldsErr.Fields, true
	}
	return nil, false
}

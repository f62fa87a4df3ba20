package payload

import "fmt"

// Kind classifies why a payload failed validation.
type Kind string

const (
	KindMalformedJSON    Kind = "malformed_json"
	KindMissingField     Kind = "missing_field"
	KindTypeMismatch     Kind = "type_mismatch"
	KindFormatViolation  Kind = "format_violation"
	KindUnsupportedEvent Kind = "unsupported_event"
)

// ValidationError describes the first problem found in a payload.
// Detail may list further problems.
type ValidationError struct {
	Kind   Kind
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Detail
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Detail)
}

package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"quality-agent/internal/model"
)

const maxReportedProblems = 5

var gitSHAPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// Validator turns raw GitHub payloads into typed events.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails on an empty tag name.
	_ = v.RegisterValidation("gitsha", func(fl validator.FieldLevel) bool {
		return gitSHAPattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Validate decodes raw as eventType and checks it against the GitHub schema.
// Unknown fields are ignored. Any failure is a *ValidationError.
func (v *Validator) Validate(eventType model.EventType, raw []byte) (model.Event, error) {
	switch eventType {
	case model.EventPullRequest:
		var w pullRequestWebhook
		if err := v.decode(raw, &w); err != nil {
			return model.Event{}, err
		}
		return model.Event{Type: eventType, PullRequest: w.toModel()}, nil

	case model.EventPush:
		var w pushWebhook
		if err := v.decode(raw, &w); err != nil {
			return model.Event{}, err
		}
		return model.Event{Type: eventType, Push: w.toModel()}, nil

	default:
		return model.Event{}, &ValidationError{
			Kind:   KindUnsupportedEvent,
			Detail: fmt.Sprintf("event type %q is not supported", eventType),
		}
	}
}

func (v *Validator) decode(raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return decodeError(err)
	}
	if err := v.validate.Struct(dst); err != nil {
		return structError(err)
	}
	return nil
}

func decodeError(err error) *ValidationError {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ValidationError{Kind: KindMalformedJSON, Detail: syntaxErr.Error()}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			return &ValidationError{
				Kind:   KindTypeMismatch,
				Detail: fmt.Sprintf("expected a JSON object, got %s", typeErr.Value),
			}
		}
		return &ValidationError{
			Kind:   KindTypeMismatch,
			Field:  field,
			Detail: fmt.Sprintf("expected %s, got %s", describeType(typeErr.Type), typeErr.Value),
		}
	}

	// time.ParseError and friends surface here.
	return &ValidationError{Kind: KindFormatViolation, Detail: err.Error()}
}

func structError(err error) *ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Kind: KindFormatViolation, Detail: err.Error()}
	}

	first := fieldErrs[0]
	out := &ValidationError{
		Kind:  kindForTag(first.Tag()),
		Field: fieldPath(first),
	}

	problems := make([]string, 0, maxReportedProblems)
	for i, fe := range fieldErrs {
		if i == maxReportedProblems {
			problems = append(problems, fmt.Sprintf("and %d more", len(fieldErrs)-i))
			break
		}
		msg := describeTag(fe)
		if i > 0 {
			msg = fieldPath(fe) + ": " + msg
		}
		problems = append(problems, msg)
	}
	out.Detail = strings.Join(problems, "; ")

	return out
}

// fieldPath drops the root struct name: "pull_request.head.sha".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func kindForTag(tag string) Kind {
	if tag == "required" {
		return KindMissingField
	}
	return KindFormatViolation
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "gitsha":
		return "must be a 40 character lowercase hex SHA"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be >= %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func describeType(t reflect.Type) string {
	if t == nil {
		return "a different type"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return t.Kind().String()
	}
}

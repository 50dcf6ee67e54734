package params

import (
	"errors"
	"fmt"
	"strings"
)

// Validation error codes (E200-E299)
const (
	ErrCodeMissing    = "E201" // required field absent
	ErrCodeKind       = "E202" // wrong value kind
	ErrCodeBelowMin   = "E203" // below inclusive minimum
	ErrCodeAboveMax   = "E204" // above inclusive maximum
	ErrCodeMultipleOf = "E205" // not a multiple of the step
	ErrCodeEnum       = "E206" // not an allowed value
	ErrCodeUnknown    = "E207" // field not declared
)

// Reasons reported in ValidationError.Reason.
const (
	ReasonMissing    = "missing"
	ReasonKind       = "kind"
	ReasonMin        = "min"
	ReasonMax        = "max"
	ReasonMultipleOf = "multiple_of"
	ReasonEnum       = "enum"
	ReasonUnknown    = "unknown"
)

// ErrValidation matches every ValidationError and ValidationErrors value.
var ErrValidation = errors.New("parameter validation failed")

// ValidationError describes one rejected field.
type ValidationError struct {
	Field      string   `json:"field"`
	Reason     string   `json:"reason"`
	Code       string   `json:"code"`
	Value      any      `json:"value,omitempty"`
	Constraint string   `json:"constraint,omitempty"`
	Allowed    []string `json:"allowed,omitempty"`
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", e.Code, e.Field, e.Reason)
	if e.Value != nil {
		fmt.Fprintf(&b, " (got %v)", e.Value)
	}
	if e.Constraint != "" {
		fmt.Fprintf(&b, ": %s", e.Constraint)
	}
	if len(e.Allowed) > 0 {
		fmt.Fprintf(&b, "; allowed: %s", strings.Join(e.Allowed, ", "))
	}
	return b.String()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidationErrors is every field error found in one Validate call, in
// declaration order followed by unknown fields sorted by name.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors: %s", len(e), strings.Join(msgs, "; "))
}

func (e ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// Fields returns the names of rejected fields.
func (e ValidationErrors) Fields() []string {
	out := make([]string, len(e))
	for i, err := range e {
		out[i] = err.Field
	}
	return out
}

// AsValidationErrors extracts ValidationErrors from err.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var errs ValidationErrors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

// DeclarationError reports an inconsistent field declaration.
type DeclarationError struct {
	Field   string
	Message string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("declare %s: %s", e.Field, e.Message)
}

// UndeclaredError is raised (as a panic value) when a Set is read through a
// name it does not declare or with an accessor of the wrong kind.
type UndeclaredError struct {
	Name   string
	Reason string
}

func (e *UndeclaredError) Error() string {
	return fmt.Sprintf("parameter %q: %s", e.Name, e.Reason)
}

package domainerrors

import (
	"errors"
	"strings"
)

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    Code   `json:"code"`
}

// Violations accumulates field-level failures so callers get every problem in
// one response instead of fixing them one at a time. The zero value is ready
// to use.
type Violations struct {
	items []Violation
}

// Add records a validation failure against a field.
func (v *Violations) Add(field, message string) {
	v.items = append(v.items, Violation{Field: field, Message: message, Code: CodeValidation})
}

// AddConflict records a uniqueness failure against a field.
func (v *Violations) AddConflict(field, message string) {
	v.items = append(v.items, Violation{Field: field, Message: message, Code: CodeConflict})
}

// Empty reports whether no violations were recorded.
func (v *Violations) Empty() bool { return len(v.items) == 0 }

// Items returns the recorded violations in insertion order.
func (v *Violations) Items() []Violation { return v.items }

// Err converts the accumulated violations into a single coded error, or nil
// when nothing was recorded. The error code is CodeConflict when every
// violation is a conflict, CodeValidation otherwise.
func (v *Violations) Err() error {
	if v.Empty() {
		return nil
	}
	code := CodeConflict
	msgs := make([]string, 0, len(v.items))
	for _, item := range v.items {
		if item.Code != CodeConflict {
			code = CodeValidation
		}
		msgs = append(msgs, item.Message)
	}
	return &Error{Code: code, Message: strings.Join(msgs, "; "), violations: v.items}
}

// Load returns the violations attached to err, if any.
func Load(err error) []Violation {
	var e *Error
	if !errors.As(err, &e) {
		return nil
	}
	return e.violations
}

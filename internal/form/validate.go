// Package form implements the onboarding field validator and the
// per-step form state machines.
//
// Validation is pure: the same schema and values always yield the same
// error set. Display state (touched fields, current errors) lives in Form.
package form

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind selects the validation rule of a field.
type Kind int

const (
	KindText Kind = iota
	KindSelect
	KindBool
	KindRevenue
	KindEmail
	KindPassword
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	revenuePattern  = regexp.MustCompile(`^[0-9 ]+$`)
	hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// Field describes one input of a form.
type Field struct {
	Name      string
	Label     string
	Kind      Kind
	Required  bool
	MaxLength int

	// RequiredMessage overrides "<Label> is required".
	RequiredMessage string
}

// Schema is the ordered field list of a form.
type Schema []Field

// Field looks a field up by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Values holds raw input. Boolean fields use "true" / "false".
type Values map[string]string

// Errors maps field names to messages. Fields without an error are absent.
type Errors map[string]string

// isEmpty reports whether value counts as absent for f. Passwords are not
// trimmed: a password of spaces is still a password.
func isEmpty(f Field, value string) bool {
	if f.Kind == KindPassword {
		return value == ""
	}
	return strings.TrimSpace(value) == ""
}

func requiredMessage(f Field) string {
	if f.RequiredMessage != "" {
		return f.RequiredMessage
	}
	return f.Label + " is required"
}

// ValidateField returns the error message for value, or "" when it passes.
func ValidateField(f Field, value string) string {
	if f.Kind == KindBool {
		return ""
	}
	if isEmpty(f, value) {
		if f.Required {
			return requiredMessage(f)
		}
		return ""
	}
	if f.MaxLength > 0 && utf8.RuneCountInString(value) > f.MaxLength {
		return fmt.Sprintf("%s must be at most %d characters", f.Label, f.MaxLength)
	}
	switch f.Kind {
	case KindRevenue:
		if !revenuePattern.MatchString(value) {
			return f.Label + " must contain only digits and spaces"
		}
	case KindEmail:
		if !emailPattern.MatchString(strings.TrimSpace(value)) {
			return "Please enter a valid email"
		}
	}
	return ""
}

// Validate runs every field rule of s against v.
func Validate(s Schema, v Values) Errors {
	errs := Errors{}
	for _, f := range s {
		if msg := ValidateField(f, v[f.Name]); msg != "" {
			errs[f.Name] = msg
		}
	}
	return errs
}

// FieldValid reports whether a field deserves a positive mark: it has a
// value (or is boolean) and carries no current error.
func FieldValid(f Field, value string, errs Errors) bool {
	if f.Kind == KindBool {
		return true
	}
	return !isEmpty(f, value) && errs[f.Name] == ""
}

// FormValid is the conjunction of required-field validity. Optional fields
// only block when they fail their own format rule.
func FormValid(s Schema, v Values) bool {
	for _, f := range s {
		value := v[f.Name]
		if ValidateField(f, value) != "" {
			return false
		}
		if f.Required && isEmpty(f, value) {
			return false
		}
	}
	return true
}

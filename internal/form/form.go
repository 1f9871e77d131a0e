package form

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
)

// Form holds the field state of one step: values, touched flags and the
// currently displayed errors.
type Form struct {
	name    string
	schema  Schema
	values  Values
	touched map[string]bool
	errors  Errors
	status  domain.FormStatus
}

// New creates an untouched form. Missing initial values default to ""
// ("false" for boolean fields).
func New(name string, schema Schema, initial Values) *Form {
	values := make(Values, len(schema))
	for _, f := range schema {
		v, ok := initial[f.Name]
		if !ok && f.Kind == KindBool {
			v = "false"
		}
		values[f.Name] = v
	}
	return &Form{
		name:    name,
		schema:  schema,
		values:  values,
		touched: map[string]bool{},
		errors:  Errors{},
		status:  domain.FormUntouched,
	}
}

func (f *Form) field(name string) (Field, error) {
	fd, ok := f.schema.Field(name)
	if !ok {
		return Field{}, &domain.ErrValidation{Field: name, Message: fmt.Sprintf("unknown %s field", f.name)}
	}
	return fd, nil
}

// Change sets a value and clears that field's current error.
func (f *Form) Change(name, value string) error {
	fd, err := f.field(name)
	if err != nil {
		return err
	}
	if fd.Kind == KindBool {
		b, perr := strconv.ParseBool(value)
		if perr != nil {
			return &domain.ErrValidation{Field: name, Message: "must be true or false"}
		}
		value = strconv.FormatBool(b)
	}
	f.values[name] = value
	delete(f.errors, name)
	f.status = domain.FormEditing
	return nil
}

// ChangeAll applies several changes. Unknown fields are rejected before
// anything is changed.
func (f *Form) ChangeAll(values Values) error {
	for name := range values {
		if _, err := f.field(name); err != nil {
			return err
		}
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := f.Change(name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

// Blur marks a field touched and runs its rule.
func (f *Form) Blur(name string) error {
	fd, err := f.field(name)
	if err != nil {
		return err
	}
	f.touched[name] = true
	if msg := ValidateField(fd, f.values[name]); msg != "" {
		f.errors[name] = msg
	} else {
		delete(f.errors, name)
	}
	if f.status == domain.FormUntouched {
		f.status = domain.FormEditing
	}
	return nil
}

// Submit marks every field touched and replaces the error set with a full
// validation. It reports whether the form passed.
func (f *Form) Submit() bool {
	for _, fd := range f.schema {
		f.touched[fd.Name] = true
	}
	f.errors = Validate(f.schema, f.values)
	if len(f.errors) == 0 && FormValid(f.schema, f.values) {
		f.status = domain.FormValid
		return true
	}
	f.status = domain.FormInvalid
	return false
}

// Values returns a copy of the current values.
func (f *Form) Values() Values {
	return maps.Clone(f.values)
}

// Errors returns a copy of the full current error set.
func (f *Form) Errors() Errors {
	return maps.Clone(f.errors)
}

// State renders the form. Errors of untouched fields are withheld.
func (f *Form) State() domain.FormState {
	visible := map[string]string{}
	valid := map[string]bool{}
	for _, fd := range f.schema {
		if !f.touched[fd.Name] {
			continue
		}
		if msg := f.errors[fd.Name]; msg != "" {
			visible[fd.Name] = msg
		}
		valid[fd.Name] = FieldValid(fd, f.values[fd.Name], f.errors)
	}
	return domain.FormState{
		Status:    f.status,
		Values:    maps.Clone(map[string]string(f.values)),
		Touched:   maps.Clone(f.touched),
		Errors:    visible,
		Valid:     valid,
		FormValid: FormValid(f.schema, f.values),
	}
}

// StepForm is a Form that builds a typed data object on successful submit.
type StepForm[T any] struct {
	*Form
	build func(Values) T
}

// Complete runs submit-time validation. On success it returns the step's
// data; otherwise the full error set.
func (s *StepForm[T]) Complete() (T, Errors, bool) {
	if !s.Submit() {
		var zero T
		return zero, s.Errors(), false
	}
	return s.build(s.Values()), nil, true
}

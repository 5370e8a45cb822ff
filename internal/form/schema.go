package form

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Field describes the constraints for a single form field. A Schema is
// plain data consumed by Validate; there is no reflection and no state.
type Field struct {
	// Name is the field identifier keyed in values and error maps.
	Name string

	// Label is the human-readable name used in messages.
	Label string

	// Required rejects empty (after trimming) values.
	Required bool

	// MinLen / MaxLen bound the value's length in runes. Zero means
	// unbounded. Length checks are skipped for empty optional fields.
	MinLen int
	MaxLen int

	// Email requires the value to parse as an address.
	Email bool

	// Enum restricts the value to one of the listed members.
	Enum []string

	// TimeLayout requires the value to parse with the given layout
	// (e.g. "2006-01-02" for dates, "15:04" for times).
	TimeLayout string
}

// Schema is the declared validation for one screen's form.
type Schema struct {
	Fields []Field
}

// Validate checks values against the schema and returns a map from
// field name to the first failing constraint's message. An empty map
// means the form may be submitted. Validation never reaches transport.
func (s Schema) Validate(values map[string]string) map[string]string {
	errs := make(map[string]string)
	for _, f := range s.Fields {
		if msg := f.check(values[f.Name]); msg != "" {
			errs[f.Name] = msg
		}
	}
	return errs
}

// Rule adapts one field's constraints to a func(string) error, the shape
// huh form fields expect for inline validation.
func (s Schema) Rule(name string) func(string) error {
	for _, f := range s.Fields {
		if f.Name == name {
			field := f
			return func(value string) error {
				if msg := field.check(value); msg != "" {
					return fmt.Errorf("%s", msg)
				}
				return nil
			}
		}
	}
	return func(string) error { return nil }
}

// check returns the first failing constraint's message, or "".
func (f Field) check(value string) string {
	trimmed := strings.TrimSpace(value)

	if trimmed == "" {
		if f.Required {
			return fmt.Sprintf("%s is required", f.label())
		}
		return ""
	}

	if f.MinLen > 0 && len([]rune(trimmed)) < f.MinLen {
		return fmt.Sprintf(
			"%s must be at least %d characters", f.label(), f.MinLen,
		)
	}
	if f.MaxLen > 0 && len([]rune(trimmed)) > f.MaxLen {
		return fmt.Sprintf(
			"%s must be at most %d characters", f.label(), f.MaxLen,
		)
	}

	if f.Email {
		if _, err := mail.ParseAddress(trimmed); err != nil {
			return fmt.Sprintf("%s must be a valid email address", f.label())
		}
	}

	if len(f.Enum) > 0 {
		found := false
		for _, member := range f.Enum {
			if trimmed == member {
				found = true
				break
			}
		}
		if !found {
			return fmt.Sprintf("%s must be one of %s",
				f.label(), strings.Join(f.Enum, ", "))
		}
	}

	if f.TimeLayout != "" {
		if _, err := time.Parse(f.TimeLayout, trimmed); err != nil {
			return fmt.Sprintf(
				"%s must match the format %s", f.label(), f.TimeLayout,
			)
		}
	}

	return ""
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

package forms

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldType enumerates the supported input types.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldEmail       FieldType = "email"
	FieldPhone       FieldType = "phone"
	FieldNumber      FieldType = "number"
	FieldDate        FieldType = "date"
	FieldSelect      FieldType = "select"
	FieldMultiSelect FieldType = "multi_select"
	FieldBoolean     FieldType = "boolean"
	FieldURL         FieldType = "url"
	FieldPassword    FieldType = "password"
)

const dateLayout = "2006-01-02"

// ValidationResult is the outcome of validating a single value. Value holds
// the cleaned, coerced value when Valid is true.
type ValidationResult struct {
	Valid bool
	Error string
	Value Value
}

// FieldValidator is a custom per-field rule. When set on a FieldSpec it is
// authoritative: built-in type rules are not applied.
type FieldValidator func(Value) ValidationResult

// FieldSpec describes one named, typed, validated input within a step.
// Options must be set exactly for select and multi_select fields.
type FieldSpec struct {
	Name        string
	Type        FieldType
	Label       string
	Description string
	Required    bool
	Default     *Value
	Validator   FieldValidator
	Options     []string
	Placeholder string
	MinLen      *int
	MaxLen      *int
	Min         *float64
	Max         *float64
}

var (
	fieldChecks = validator.New()

	// Matches the bot's accepted phone shapes: optional +, then digits with
	// common separators.
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]*$`)
)

// Validate checks a value against the field rules and returns the cleaned
// value on success. The required check runs before any type rule; a custom
// Validator, when present, replaces the built-in rules. Pure: neither the
// spec nor the input is mutated.
func (f *FieldSpec) Validate(v Value) ValidationResult {
	if v.IsZero() {
		if f.Required {
			return ValidationResult{Error: fmt.Sprintf("%s is required", f.Label)}
		}
		if f.Default != nil {
			return ValidationResult{Valid: true, Value: f.Default.Clone()}
		}
		return ValidationResult{Valid: true}
	}

	coerced, err := f.coerce(v)
	if err != nil {
		return ValidationResult{Error: err.Error()}
	}

	if f.Validator != nil {
		return f.Validator(coerced)
	}

	if msg := f.checkRules(coerced); msg != "" {
		return ValidationResult{Error: msg}
	}
	return ValidationResult{Valid: true, Value: coerced}
}

// coerce converts raw text input into the field's native kind. Values that
// already carry the right kind pass through unchanged.
func (f *FieldSpec) coerce(v Value) (Value, error) {
	switch f.Type {
	case FieldNumber:
		if v.Kind == KindNumber {
			return v, nil
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			return Value{}, fmt.Errorf("%s must be a valid number", f.Label)
		}
		return NumberValue(n), nil

	case FieldDate:
		if v.Kind == KindDate {
			return v, nil
		}
		text := strings.TrimSpace(v.Text)
		for _, layout := range []string{dateLayout, "02.01.2006"} {
			if t, err := time.Parse(layout, text); err == nil {
				return DateValue(t), nil
			}
		}
		return Value{}, fmt.Errorf("%s must be a date in YYYY-MM-DD format", f.Label)

	case FieldBoolean:
		if v.Kind == KindBool {
			return v, nil
		}
		switch strings.ToLower(strings.TrimSpace(v.Text)) {
		case "yes", "y", "true", "1":
			return BoolValue(true), nil
		case "no", "n", "false", "0":
			return BoolValue(false), nil
		}
		return Value{}, fmt.Errorf("%s must be yes or no", f.Label)

	case FieldMultiSelect:
		if v.Kind == KindList {
			return v.Clone(), nil
		}
		parts := strings.Split(v.Text, ",")
		items := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		return ListValue(items...), nil

	default:
		if v.Kind == KindText {
			return TextValue(strings.TrimSpace(v.Text)), nil
		}
		return TextValue(v.String()), nil
	}
}

// checkRules applies the built-in type rules to an already-coerced value.
// Returns "" when the value passes.
func (f *FieldSpec) checkRules(v Value) string {
	switch f.Type {
	case FieldText, FieldPassword:
		length := len([]rune(v.Text))
		if f.MinLen != nil && length < *f.MinLen {
			return fmt.Sprintf("%s must be at least %d characters", f.Label, *f.MinLen)
		}
		if f.MaxLen != nil && length > *f.MaxLen {
			return fmt.Sprintf("%s must be at most %d characters", f.Label, *f.MaxLen)
		}

	case FieldEmail:
		if err := fieldChecks.Var(v.Text, "required,email"); err != nil {
			return fmt.Sprintf("%s must be a valid email address", f.Label)
		}

	case FieldURL:
		if err := fieldChecks.Var(v.Text, "required,http_url"); err != nil {
			return fmt.Sprintf("%s must be a valid http(s) URL", f.Label)
		}

	case FieldPhone:
		if !phonePattern.MatchString(v.Text) || digitCount(v.Text) < 10 {
			return fmt.Sprintf("%s must be a valid phone number", f.Label)
		}

	case FieldNumber:
		if f.Min != nil && v.Number < *f.Min {
			return fmt.Sprintf("%s must be at least %v", f.Label, *f.Min)
		}
		if f.Max != nil && v.Number > *f.Max {
			return fmt.Sprintf("%s must be at most %v", f.Label, *f.Max)
		}

	case FieldSelect:
		if !contains(f.Options, v.Text) {
			return fmt.Sprintf("%s must be one of the offered options", f.Label)
		}

	case FieldMultiSelect:
		for _, item := range v.List {
			if !contains(f.Options, item) {
				return fmt.Sprintf("%s contains an unknown option: %s", f.Label, item)
			}
		}
	}
	return ""
}

// IsSelect reports whether the field type carries an option list.
func (f *FieldSpec) IsSelect() bool {
	return f.Type == FieldSelect || f.Type == FieldMultiSelect
}

func contains(options []string, item string) bool {
	for _, o := range options {
		if o == item {
			return true
		}
	}
	return false
}

func digitCount(s string) int {
	n := 0
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			n++
		}
	}
	return n
}

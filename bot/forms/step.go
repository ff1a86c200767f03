package forms

import "context"

// StepErrorKey is the error-map key used for step-level validation failures,
// as opposed to per-field failures keyed by field name.
const StepErrorKey = "step"

// StepValidator runs after every field validator of the step has passed.
// It sees the cleaned step data.
type StepValidator func(Data) ValidationResult

// Hook is a side-effect callback fired on step entry and exit. A returned
// error aborts the transition that triggered it.
type Hook func(ctx context.Context, data Data) error

// StepSpec describes one page of related fields within a form.
type StepSpec struct {
	ID          string
	Title       string
	Description string
	Fields      []FieldSpec
	Validator   StepValidator
	OnEnter     Hook
	OnExit      Hook
	CanSkip     bool
	Condition   func(allData Data) bool
}

// Visible reports whether the step applies under the accumulated data.
// A step without a condition is always visible.
func (s *StepSpec) Visible(allData Data) bool {
	if s.Condition == nil {
		return true
	}
	return s.Condition(allData)
}

// Field returns the field spec with the given name, or nil.
func (s *StepSpec) Field(name string) *FieldSpec {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// ValidateData runs every field validator and then the step validator.
// It returns the cleaned per-field values and a field→message error map;
// the map is nil when the step passes. Fields that were not provided and
// have no default are absent from the cleaned data.
func (s *StepSpec) ValidateData(data Data) (Data, map[string]string) {
	cleaned := make(Data, len(s.Fields))
	var errs map[string]string

	for i := range s.Fields {
		f := &s.Fields[i]
		res := f.Validate(data[f.Name])
		if !res.Valid {
			if errs == nil {
				errs = make(map[string]string)
			}
			errs[f.Name] = res.Error
			continue
		}
		if res.Value.Kind != "" {
			cleaned[f.Name] = res.Value
		}
	}
	if errs != nil {
		return cleaned, errs
	}

	if s.Validator != nil {
		if res := s.Validator(cleaned); !res.Valid {
			return cleaned, map[string]string{StepErrorKey: res.Error}
		}
	}
	return cleaned, nil
}

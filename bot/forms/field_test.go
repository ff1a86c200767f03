package forms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestFieldValidateRequired(t *testing.T) {
	f := FieldSpec{Name: "name", Type: FieldText, Label: "Name", Required: true}

	res := f.Validate(Value{})
	require.False(t, res.Valid)
	assert.Equal(t, "Name is required", res.Error)

	res = f.Validate(TextValue("   "))
	assert.False(t, res.Valid)

	res = f.Validate(TextValue("Jane"))
	require.True(t, res.Valid)
	assert.Equal(t, "Jane", res.Value.Text)
}

func TestFieldValidateDefault(t *testing.T) {
	def := TextValue("Engineering")
	f := FieldSpec{Name: "dept", Type: FieldText, Label: "Department", Default: &def}

	res := f.Validate(Value{})
	require.True(t, res.Valid)
	assert.Equal(t, "Engineering", res.Value.Text)

	// Optional field without default stays absent.
	f.Default = nil
	res = f.Validate(Value{})
	require.True(t, res.Valid)
	assert.True(t, res.Value.IsZero())
}

func TestFieldValidateEmail(t *testing.T) {
	f := FieldSpec{Name: "email", Type: FieldEmail, Label: "Email", Required: true}

	res := f.Validate(TextValue("jane@example.com"))
	assert.True(t, res.Valid)

	res = f.Validate(TextValue("not-an-email"))
	require.False(t, res.Valid)
	assert.Contains(t, res.Error, "valid email")
}

func TestFieldValidatePhone(t *testing.T) {
	f := FieldSpec{Name: "phone", Type: FieldPhone, Label: "Phone"}

	assert.True(t, f.Validate(TextValue("+380 50 123 45 67")).Valid)
	assert.False(t, f.Validate(TextValue("12345")).Valid)
	assert.False(t, f.Validate(TextValue("call me maybe")).Valid)
}

func TestFieldValidateNumber(t *testing.T) {
	f := FieldSpec{
		Name:  "age",
		Type:  FieldNumber,
		Label: "Age",
		Min:   floatPtr(18),
		Max:   floatPtr(99),
	}

	res := f.Validate(TextValue("42"))
	require.True(t, res.Valid)
	assert.Equal(t, KindNumber, res.Value.Kind)
	assert.Equal(t, 42.0, res.Value.Number)

	res = f.Validate(TextValue("17"))
	require.False(t, res.Valid)
	assert.Contains(t, res.Error, "at least 18")

	res = f.Validate(TextValue("120"))
	assert.False(t, res.Valid)

	res = f.Validate(TextValue("abc"))
	require.False(t, res.Valid)
	assert.Contains(t, res.Error, "valid number")
}

func TestFieldValidateDate(t *testing.T) {
	f := FieldSpec{Name: "start", Type: FieldDate, Label: "Start date"}

	res := f.Validate(TextValue("2026-09-15"))
	require.True(t, res.Valid)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), res.Value.Date)

	// Alternative day-first layout is accepted too.
	res = f.Validate(TextValue("15.09.2026"))
	require.True(t, res.Valid)
	assert.Equal(t, 15, res.Value.Date.Day())

	res = f.Validate(TextValue("next tuesday"))
	require.False(t, res.Valid)
	assert.Contains(t, res.Error, "YYYY-MM-DD")
}

func TestFieldValidateBoolean(t *testing.T) {
	f := FieldSpec{Name: "remote", Type: FieldBoolean, Label: "Remote", Required: true}

	for _, raw := range []string{"yes", "Y", "true", "1"} {
		res := f.Validate(TextValue(raw))
		require.True(t, res.Valid, raw)
		assert.True(t, res.Value.Bool, raw)
	}
	for _, raw := range []string{"no", "N", "false", "0"} {
		res := f.Validate(TextValue(raw))
		require.True(t, res.Valid, raw)
		assert.False(t, res.Value.Bool, raw)
	}

	assert.False(t, f.Validate(TextValue("maybe")).Valid)
}

func TestFieldValidateSelect(t *testing.T) {
	f := FieldSpec{
		Name:     "dept",
		Type:     FieldSelect,
		Label:    "Department",
		Required: true,
		Options:  []string{"Sales", "Engineering"},
	}

	assert.True(t, f.Validate(TextValue("Sales")).Valid)

	res := f.Validate(TextValue("Magic"))
	require.False(t, res.Valid)
	assert.Contains(t, res.Error, "offered options")
}

func TestFieldValidateMultiSelect(t *testing.T) {
	f := FieldSpec{
		Name:    "gear",
		Type:    FieldMultiSelect,
		Label:   "Equipment",
		Options: []string{"Laptop", "Monitor", "Headset"},
	}

	res := f.Validate(TextValue("Laptop, Monitor"))
	require.True(t, res.Valid)
	assert.Equal(t, []string{"Laptop", "Monitor"}, res.Value.List)

	res = f.Validate(ListValue("Laptop", "Tank"))
	require.False(t, res.Valid)
	assert.Contains(t, res.Error, "Tank")
}

func TestFieldValidateTextLength(t *testing.T) {
	f := FieldSpec{
		Name:   "bio",
		Type:   FieldText,
		Label:  "Bio",
		MinLen: intPtr(3),
		MaxLen: intPtr(5),
	}

	assert.False(t, f.Validate(TextValue("ab")).Valid)
	assert.True(t, f.Validate(TextValue("abcd")).Valid)
	assert.False(t, f.Validate(TextValue("abcdef")).Valid)
}

func TestFieldValidateURL(t *testing.T) {
	f := FieldSpec{Name: "site", Type: FieldURL, Label: "Website"}

	assert.True(t, f.Validate(TextValue("https://example.com")).Valid)
	assert.False(t, f.Validate(TextValue("example")).Valid)
}

func TestFieldCustomValidatorIsAuthoritative(t *testing.T) {
	f := FieldSpec{
		Name:  "code",
		Type:  FieldText,
		Label: "Code",
		// Accepts values the built-in length rule would reject.
		MinLen: intPtr(10),
		Validator: func(v Value) ValidationResult {
			if v.Text == "ok" {
				return ValidationResult{Valid: true, Value: v}
			}
			return ValidationResult{Error: "code rejected"}
		},
	}

	res := f.Validate(TextValue("ok"))
	assert.True(t, res.Valid)

	res = f.Validate(TextValue("this is long enough"))
	require.False(t, res.Valid)
	assert.Equal(t, "code rejected", res.Error)
}

func TestStepValidateData(t *testing.T) {
	step := StepSpec{
		ID: "contact",
		Fields: []FieldSpec{
			{Name: "email", Type: FieldEmail, Label: "Email", Required: true},
			{Name: "age", Type: FieldNumber, Label: "Age"},
		},
		Validator: func(data Data) ValidationResult {
			if data.GetNumber("age") == 13 {
				return ValidationResult{Error: "unlucky age"}
			}
			return ValidationResult{Valid: true}
		},
	}

	cleaned, errs := step.ValidateData(Data{
		"email": TextValue("bad"),
		"age":   TextValue("30"),
	})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "email")
	// Valid fields are still cleaned for redisplay.
	assert.Equal(t, 30.0, cleaned.GetNumber("age"))

	// Step validator only runs once every field passes.
	_, errs = step.ValidateData(Data{
		"email": TextValue("a@b.co"),
		"age":   TextValue("13"),
	})
	require.NotNil(t, errs)
	assert.Equal(t, "unlucky age", errs[StepErrorKey])

	cleaned, errs = step.ValidateData(Data{
		"email": TextValue("a@b.co"),
		"age":   TextValue("30"),
	})
	require.Nil(t, errs)
	assert.Equal(t, "a@b.co", cleaned.GetText("email"))
}

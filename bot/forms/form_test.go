package forms

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// hireConfig is a three step flow: contact details, a job step shown only
// for employed applicants, and an optional review note.
func hireConfig(hooks Hooks) FormConfig {
	return FormConfig{
		ID:    "hire",
		Title: "Hiring",
		Steps: []StepSpec{
			{
				ID: "contact",
				Fields: []FieldSpec{
					{Name: "email", Type: FieldEmail, Label: "Email", Required: true},
					{Name: "employed", Type: FieldBoolean, Label: "Employed", Required: true},
				},
			},
			{
				ID: "job",
				Condition: func(allData Data) bool {
					return allData.GetBool("employed")
				},
				Fields: []FieldSpec{
					{Name: "position", Type: FieldText, Label: "Position", Required: true},
				},
			},
			{
				ID:      "review",
				CanSkip: true,
				Fields: []FieldSpec{
					{Name: "note", Type: FieldText, Label: "Note"},
				},
			},
		},
		AllowBackNavigation: true,
		Hooks:               hooks,
	}
}

func newHireForm(t *testing.T, hooks Hooks) (*Form, *MemoryStorage) {
	t.Helper()
	store := NewMemoryStorage()
	form, err := NewForm(hireConfig(hooks), store, testLogger())
	require.NoError(t, err)
	return form, store
}

func TestNewFormInvariants(t *testing.T) {
	store := NewMemoryStorage()

	cfg := hireConfig(Hooks{})
	cfg.Steps[1].ID = ""
	_, err := NewForm(cfg, store, testLogger())
	assert.ErrorContains(t, err, "empty id")

	cfg = hireConfig(Hooks{})
	cfg.Steps[2].ID = "contact"
	_, err = NewForm(cfg, store, testLogger())
	assert.ErrorContains(t, err, "duplicate step id")

	cfg = hireConfig(Hooks{})
	cfg.Steps[0].Fields[0].Options = []string{"a", "b"}
	_, err = NewForm(cfg, store, testLogger())
	assert.ErrorContains(t, err, "options")

	cfg = hireConfig(Hooks{})
	cfg.Steps[0].Fields = append(cfg.Steps[0].Fields, FieldSpec{
		Name: "dept", Type: FieldSelect, Label: "Department",
	})
	_, err = NewForm(cfg, store, testLogger())
	assert.ErrorContains(t, err, "options")
}

func TestFormStartAlreadyActiveAndResume(t *testing.T) {
	ctx := context.Background()
	form, store := newHireForm(t, Hooks{})

	st, err := form.Start(ctx, 7, 7, false)
	require.NoError(t, err)
	assert.Equal(t, 0, st.CurrentStepIndex)
	assert.True(t, st.Steps[0].Visited())

	stored, err := store.Load(ctx, 7, "hire")
	require.NoError(t, err)
	require.NotNil(t, stored)

	_, err = form.Start(ctx, 7, 7, false)
	assert.ErrorIs(t, err, ErrAlreadyActive)

	// Resume hands back the stored session as-is.
	res, err := form.SubmitStep(ctx, st, "contact", Data{
		"email":    TextValue("a@b.co"),
		"employed": TextValue("yes"),
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	resumed, err := form.Start(ctx, 7, 7, true)
	require.NoError(t, err)
	assert.Equal(t, 1, resumed.CurrentStepIndex)
	assert.Equal(t, "a@b.co", resumed.AllData.GetText("email"))
}

func TestFormSubmitInvalidPersistsInput(t *testing.T) {
	ctx := context.Background()
	form, store := newHireForm(t, Hooks{})

	st, err := form.Start(ctx, 7, 7, false)
	require.NoError(t, err)

	res, err := form.SubmitStep(ctx, st, "contact", Data{
		"email":    TextValue("nope"),
		"employed": TextValue("yes"),
	})
	require.NoError(t, err)
	require.False(t, res.Success)
	assert.Contains(t, res.Errors, "email")
	assert.Equal(t, 0, st.CurrentStepIndex)

	// The rejected submission survives a reload for redisplay.
	stored, err := store.Load(ctx, 7, "hire")
	require.NoError(t, err)
	assert.Equal(t, "nope", stored.Steps[0].Data.GetText("email"))
	assert.True(t, stored.Steps[0].Data.GetBool("employed"))
	assert.False(t, stored.Steps[0].IsValid)
}

func TestFormFullFlow(t *testing.T) {
	ctx := context.Background()

	var transitions [][2]int
	var completed Data
	form, store := newHireForm(t, Hooks{
		OnStepChange: func(_ context.Context, from, to int, _ Data) error {
			transitions = append(transitions, [2]int{from, to})
			return nil
		},
		OnComplete: func(ctx context.Context, data Data) CompletionResult {
			info, ok := SessionInfoFrom(ctx)
			if !ok || info.UserID != 7 {
				return CompletionResult{Errors: map[string]string{StepErrorKey: "missing session info"}}
			}
			completed = data
			return CompletionResult{Success: true, Data: data, Message: "done"}
		},
	})

	st, err := form.Start(ctx, 7, 7, false)
	require.NoError(t, err)

	res, err := form.SubmitStep(ctx, st, "contact", Data{
		"email":    TextValue("a@b.co"),
		"employed": TextValue("yes"),
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 1, st.CurrentStepIndex)

	res, err = form.SubmitStep(ctx, st, "job", Data{"position": TextValue("Smith")})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 2, st.CurrentStepIndex)

	res, err = form.SubmitStep(ctx, st, "review", Data{"note": TextValue("asap")})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.True(t, res.Completed)
	require.NotNil(t, res.Completion)
	assert.Equal(t, "done", res.Completion.Message)
	assert.True(t, st.IsComplete)
	require.NotNil(t, st.CompletedAt)

	assert.Equal(t, [][2]int{{0, 1}, {1, 2}}, transitions)
	assert.Equal(t, "a@b.co", completed.GetText("email"))
	assert.Equal(t, "Smith", completed.GetText("position"))
	assert.Equal(t, "asap", completed.GetText("note"))

	// Completed sessions are removed from storage.
	stored, err := store.Load(ctx, 7, "hire")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestFormConditionalStepHidden(t *testing.T) {
	ctx := context.Background()
	form, _ := newHireForm(t, Hooks{})

	st, err := form.Start(ctx, 7, 7, false)
	require.NoError(t, err)

	res, err := form.SubmitStep(ctx, st, "contact", Data{
		"email":    TextValue("a@b.co"),
		"employed": TextValue("no"),
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	// Job step is hidden for unemployed applicants.
	assert.Equal(t, 2, st.CurrentStepIndex)
	assert.False(t, st.Steps[1].Visited())
}

func TestFormGoBackKeepsData(t *testing.T) {
	ctx := context.Background()
	form, _ := newHireForm(t, Hooks{})

	st, err := form.Start(ctx, 7, 7, false)
	require.NoError(t, err)
	_, err = form.SubmitStep(ctx, st, "contact", Data{
		"email":    TextValue("a@b.co"),
		"employed": TextValue("yes"),
	})
	require.NoError(t, err)

	nav, err := form.GoBack(ctx, st)
	require.NoError(t, err)
	require.True(t, nav.Allowed)
	assert.Equal(t, 0, st.CurrentStepIndex)
	assert.Equal(t, "a@b.co", st.Steps[0].Data.GetText("email"))
	assert.True(t, st.Steps[0].IsComplete)
}

func TestFormJump(t *testing.T) {
	ctx := context.Background()
	form, _ := newHireForm(t, Hooks{})

	st, err := form.Start(ctx, 7, 7, false)
	require.NoError(t, err)
	_, err = form.SubmitStep(ctx, st, "contact", Data{
		"email":    TextValue("a@b.co"),
		"employed": TextValue("yes"),
	})
	require.NoError(t, err)

	// Jumping to the current step changes nothing.
	nav, err := form.JumpTo(ctx, st, "job")
	require.NoError(t, err)
	require.True(t, nav.Allowed)
	assert.Equal(t, 1, st.CurrentStepIndex)

	nav, err = form.JumpTo(ctx, st, "contact")
	require.NoError(t, err)
	require.True(t, nav.Allowed)
	assert.Equal(t, 0, st.CurrentStepIndex)

	// Review is not reachable from contact while job sits unfinished between.
	nav, err = form.JumpTo(ctx, st, "review")
	require.NoError(t, err)
	require.False(t, nav.Allowed)
	assert.Equal(t, "step not reachable", nav.Reason)
}

func TestFormSkip(t *testing.T) {
	ctx := context.Background()
	form, store := newHireForm(t, Hooks{})

	st, err := form.Start(ctx, 7, 7, false)
	require.NoError(t, err)
	_, err = form.SubmitStep(ctx, st, "contact", Data{
		"email":    TextValue("a@b.co"),
		"employed": TextValue("yes"),
	})
	require.NoError(t, err)

	// The job step is not skippable.
	res, err := form.Skip(ctx, st)
	require.NoError(t, err)
	require.False(t, res.Success)
	assert.Equal(t, "step cannot be skipped", res.Errors[StepErrorKey])

	_, err = form.SubmitStep(ctx, st, "job", Data{"position": TextValue("Smith")})
	require.NoError(t, err)

	// Skipping the optional last step completes the form.
	res, err = form.Skip(ctx, st)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.True(t, res.Completed)

	stored, err := store.Load(ctx, 7, "hire")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestFormCompletionFailureKeepsSession(t *testing.T) {
	ctx := context.Background()

	attempts := 0
	form, store := newHireForm(t, Hooks{
		OnComplete: func(_ context.Context, data Data) CompletionResult {
			attempts++
			if attempts == 1 {
				return CompletionResult{
					Errors:  map[string]string{StepErrorKey: "backend unavailable"},
					Message: "try again",
				}
			}
			return CompletionResult{Success: true, Data: data}
		},
	})

	st, err := form.Start(ctx, 7, 7, false)
	require.NoError(t, err)
	_, err = form.SubmitStep(ctx, st, "contact", Data{
		"email":    TextValue("a@b.co"),
		"employed": TextValue("no"),
	})
	require.NoError(t, err)

	res, err := form.SubmitStep(ctx, st, "review", Data{"note": TextValue("x")})
	require.NoError(t, err)
	require.False(t, res.Success)
	require.NotNil(t, res.Completion)
	assert.Equal(t, "try again", res.Completion.Message)
	assert.False(t, st.IsComplete)

	// The session survives for a retry.
	stored, err := store.Load(ctx, 7, "hire")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 2, stored.CurrentStepIndex)

	res, err = form.SubmitStep(ctx, st, "review", Data{"note": TextValue("x")})
	require.NoError(t, err)
	require.True(t, res.Completed)
	assert.Equal(t, 2, attempts)
}

func TestFormHookErrorLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()

	store := NewMemoryStorage()
	cfg := hireConfig(Hooks{})
	cfg.Steps[0].OnExit = func(context.Context, Data) error {
		return errors.New("boom")
	}
	form, err := NewForm(cfg, store, testLogger())
	require.NoError(t, err)

	st, err := form.Start(ctx, 7, 7, false)
	require.NoError(t, err)

	_, err = form.SubmitStep(ctx, st, "contact", Data{
		"email":    TextValue("a@b.co"),
		"employed": TextValue("yes"),
	})
	var hookErr *HookError
	require.ErrorAs(t, err, &hookErr)
	assert.Equal(t, HookOnExit, hookErr.Hook)
	assert.Equal(t, "contact", hookErr.Step)

	// Neither the in-memory session nor the stored one moved.
	assert.Equal(t, 0, st.CurrentStepIndex)
	assert.Empty(t, st.AllData)
	stored, err := store.Load(ctx, 7, "hire")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CurrentStepIndex)
	assert.False(t, stored.Steps[0].IsComplete)
}

func TestFormCancelIdempotent(t *testing.T) {
	ctx := context.Background()

	cancels := 0
	form, store := newHireForm(t, Hooks{
		OnCancel: func(context.Context, Data) error {
			cancels++
			return nil
		},
	})

	st, err := form.Start(ctx, 7, 7, false)
	require.NoError(t, err)

	require.NoError(t, form.Cancel(ctx, st))
	assert.Equal(t, 1, cancels)

	stored, err := store.Load(ctx, 7, "hire")
	require.NoError(t, err)
	assert.Nil(t, stored)

	// A second cancel neither fails nor refires the hook.
	require.NoError(t, form.Cancel(ctx, st))
	assert.Equal(t, 1, cancels)
}

func TestFormStaleSubmit(t *testing.T) {
	ctx := context.Background()
	form, _ := newHireForm(t, Hooks{})

	st, err := form.Start(ctx, 7, 7, false)
	require.NoError(t, err)

	res, err := form.SubmitStep(ctx, st, "review", Data{"note": TextValue("x")})
	require.NoError(t, err)
	require.False(t, res.Success)
	assert.Equal(t, "step is not the current step", res.Errors[StepErrorKey])
	assert.Equal(t, 0, st.CurrentStepIndex)
}

func TestEngineRegisterAndLookup(t *testing.T) {
	engine := NewEngine(NewMemoryStorage(), testLogger())

	_, err := engine.Register(hireConfig(Hooks{}))
	require.NoError(t, err)

	_, err = engine.Register(hireConfig(Hooks{}))
	assert.ErrorContains(t, err, "already registered")

	cfg := hireConfig(Hooks{})
	cfg.ID = "aaa"
	_, err = engine.Register(cfg)
	require.NoError(t, err)

	require.NotNil(t, engine.Form("hire"))
	assert.Nil(t, engine.Form("ghost"))

	forms := engine.Forms()
	require.Len(t, forms, 2)
	assert.Equal(t, "aaa", forms[0].ID())
	assert.Equal(t, "hire", forms[1].ID())
}

package forms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressPercentage(t *testing.T) {
	nav := NewNavigator(navSteps(), true, false)
	tracker := NewProgressTracker(nav)

	st := navState(1, Data{"employed": BoolValue(true)})
	info := tracker.Progress(st)

	assert.Equal(t, 3, info.TotalSteps)
	assert.Equal(t, 1, info.CompletedSteps)
	assert.Equal(t, 33, info.Percentage)
	assert.Equal(t, 2, info.RemainingSteps)
	assert.Equal(t, 2, info.CurrentStep)
}

func TestProgressExcludesHiddenSteps(t *testing.T) {
	nav := NewNavigator(navSteps(), true, false)
	tracker := NewProgressTracker(nav)

	st := navState(0, Data{"employed": BoolValue(false)})
	st.Steps[0].IsComplete = true

	info := tracker.Progress(st)
	assert.Equal(t, 2, info.TotalSteps)
	assert.Equal(t, 1, info.CompletedSteps)
	assert.Equal(t, 50, info.Percentage)
}

func TestProgressAllStepsHidden(t *testing.T) {
	steps := []StepSpec{
		{ID: "only", Condition: func(Data) bool { return false }},
	}
	tracker := NewProgressTracker(NewNavigator(steps, true, false))

	info := tracker.Progress(&State{Steps: make([]StepState, 1), AllData: Data{}})
	assert.Equal(t, 0, info.TotalSteps)
	assert.Equal(t, 100, info.Percentage)
	assert.Equal(t, 0, info.RemainingSteps)
}

func TestProgressFirstAndLastStep(t *testing.T) {
	nav := NewNavigator(navSteps(), true, false)
	tracker := NewProgressTracker(nav)

	employed := Data{"employed": BoolValue(true)}
	assert.True(t, tracker.IsFirstStep(navState(0, employed)))
	assert.False(t, tracker.IsFirstStep(navState(1, employed)))
	assert.False(t, tracker.IsLastStep(navState(1, employed)))
	assert.True(t, tracker.IsLastStep(navState(2, employed)))

	// With the middle step hidden, the first step's successor is the last.
	unemployed := Data{"employed": BoolValue(false)}
	st := navState(0, unemployed)
	st.CurrentStepIndex = 2
	st.Steps[2] = StepState{StepIndex: 2, VisitedAt: time.Now()}
	assert.True(t, tracker.IsLastStep(st))
}

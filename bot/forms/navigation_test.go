package forms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func navSteps() []StepSpec {
	return []StepSpec{
		{ID: "contact"},
		{
			ID: "job",
			Condition: func(allData Data) bool {
				return allData.GetBool("employed")
			},
		},
		{ID: "review"},
	}
}

// navState builds a session sitting on the given step, with every step up
// to (and excluding) it marked complete.
func navState(current int, allData Data) *State {
	st := &State{
		CurrentStepIndex: current,
		Steps:            make([]StepState, 3),
		AllData:          allData,
	}
	now := time.Now()
	for i := 0; i <= current; i++ {
		st.Steps[i] = StepState{StepIndex: i, VisitedAt: now}
		if i < current {
			st.Steps[i].IsValid = true
			st.Steps[i].IsComplete = true
		}
	}
	return st
}

func TestNavigatorNext(t *testing.T) {
	nav := NewNavigator(navSteps(), true, false)

	st := navState(0, Data{"employed": BoolValue(true)})
	res := nav.CanNavigate(st, NavigationRequest{Direction: DirectionNext, TargetStepIndex: -1})
	require.False(t, res.Allowed)
	assert.Equal(t, "current step is not valid", res.Reason)

	st.Steps[0].IsValid = true
	res = nav.CanNavigate(st, NavigationRequest{Direction: DirectionNext, TargetStepIndex: -1})
	require.True(t, res.Allowed)
	assert.Equal(t, 1, res.TargetStepIndex)

	// SkipValidation bypasses the validity gate but not visibility.
	st.Steps[0].IsValid = false
	res = nav.CanNavigate(st, NavigationRequest{
		Direction:       DirectionNext,
		TargetStepIndex: -1,
		SkipValidation:  true,
	})
	require.True(t, res.Allowed)
	assert.Equal(t, 1, res.TargetStepIndex)
}

func TestNavigatorNextSkipsHiddenStep(t *testing.T) {
	nav := NewNavigator(navSteps(), true, false)

	st := navState(0, Data{"employed": BoolValue(false)})
	st.Steps[0].IsValid = true

	res := nav.CanNavigate(st, NavigationRequest{Direction: DirectionNext, TargetStepIndex: -1})
	require.True(t, res.Allowed)
	assert.Equal(t, 2, res.TargetStepIndex)
}

func TestNavigatorNextExhausted(t *testing.T) {
	nav := NewNavigator(navSteps(), true, false)

	st := navState(2, Data{"employed": BoolValue(true)})
	st.Steps[2].IsValid = true

	res := nav.CanNavigate(st, NavigationRequest{Direction: DirectionNext, TargetStepIndex: -1})
	require.False(t, res.Allowed)
	assert.Equal(t, "no more steps available", res.Reason)
}

func TestNavigatorPrevious(t *testing.T) {
	steps := navSteps()

	nav := NewNavigator(steps, false, false)
	st := navState(2, Data{"employed": BoolValue(true)})
	res := nav.CanNavigate(st, NavigationRequest{Direction: DirectionPrevious, TargetStepIndex: -1})
	require.False(t, res.Allowed)
	assert.Equal(t, "back navigation is disabled", res.Reason)

	nav = NewNavigator(steps, true, false)
	res = nav.CanNavigate(st, NavigationRequest{Direction: DirectionPrevious, TargetStepIndex: -1})
	require.True(t, res.Allowed)
	assert.Equal(t, 1, res.TargetStepIndex)

	// Hidden steps are skipped on the way back too.
	st.AllData = Data{"employed": BoolValue(false)}
	res = nav.CanNavigate(st, NavigationRequest{Direction: DirectionPrevious, TargetStepIndex: -1})
	require.True(t, res.Allowed)
	assert.Equal(t, 0, res.TargetStepIndex)

	st = navState(0, Data{})
	res = nav.CanNavigate(st, NavigationRequest{Direction: DirectionPrevious, TargetStepIndex: -1})
	require.False(t, res.Allowed)
	assert.Equal(t, "no previous step available", res.Reason)
}

func TestNavigatorJump(t *testing.T) {
	nav := NewNavigator(navSteps(), true, false)

	st := navState(1, Data{"employed": BoolValue(true)})

	// Back to a visited, complete step.
	res := nav.CanNavigate(st, NavigationRequest{Direction: DirectionJump, TargetStepID: "contact", TargetStepIndex: -1})
	require.True(t, res.Allowed)
	assert.Equal(t, 0, res.TargetStepIndex)

	// The immediately next visible step is reachable even unvisited.
	res = nav.CanNavigate(st, NavigationRequest{Direction: DirectionJump, TargetStepID: "review", TargetStepIndex: -1})
	require.True(t, res.Allowed)
	assert.Equal(t, 2, res.TargetStepIndex)

	// Jumping to the current step is a no-op, not an error.
	res = nav.CanNavigate(st, NavigationRequest{Direction: DirectionJump, TargetStepID: "job", TargetStepIndex: -1})
	require.True(t, res.Allowed)
	assert.Equal(t, 1, res.TargetStepIndex)

	// Unknown step.
	res = nav.CanNavigate(st, NavigationRequest{Direction: DirectionJump, TargetStepID: "ghost", TargetStepIndex: -1})
	require.False(t, res.Allowed)
	assert.Equal(t, "target step not found", res.Reason)
}

func TestNavigatorJumpUnreachable(t *testing.T) {
	nav := NewNavigator(navSteps(), true, false)

	// From the first step, "review" is neither visited nor immediately next
	// while "job" is visible in between.
	st := navState(0, Data{"employed": BoolValue(true)})
	res := nav.CanNavigate(st, NavigationRequest{Direction: DirectionJump, TargetStepID: "review", TargetStepIndex: -1})
	require.False(t, res.Allowed)
	assert.Equal(t, "step not reachable", res.Reason)
}

func TestNavigatorJumpHiddenTarget(t *testing.T) {
	nav := NewNavigator(navSteps(), true, false)

	st := navState(0, Data{"employed": BoolValue(false)})
	res := nav.CanNavigate(st, NavigationRequest{Direction: DirectionJump, TargetStepID: "job", TargetStepIndex: -1})
	require.False(t, res.Allowed)
	assert.Equal(t, "target step is not visible", res.Reason)
}

func TestNavigatorJumpBackDisabled(t *testing.T) {
	nav := NewNavigator(navSteps(), false, false)

	st := navState(1, Data{"employed": BoolValue(true)})
	res := nav.CanNavigate(st, NavigationRequest{Direction: DirectionJump, TargetStepID: "contact", TargetStepIndex: -1})
	require.False(t, res.Allowed)
	assert.Equal(t, "back navigation is disabled", res.Reason)
}

func TestNavigatorVisibleSteps(t *testing.T) {
	nav := NewNavigator(navSteps(), true, false)

	assert.Equal(t, []int{0, 1, 2}, nav.VisibleSteps(Data{"employed": BoolValue(true)}))
	assert.Equal(t, []int{0, 2}, nav.VisibleSteps(Data{"employed": BoolValue(false)}))
	assert.Equal(t, 0, nav.FirstVisible(Data{}))
	assert.Equal(t, -1, nav.NextVisible(2, Data{}))
	assert.Equal(t, 1, nav.StepIndex("job"))
	assert.Equal(t, -1, nav.StepIndex("nope"))
}

package forms

// Direction of a requested transition.
type Direction string

const (
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
	DirectionJump     Direction = "jump"
)

// NavigationResult reports whether a requested transition is legal.
// Reason is set exactly when the transition is rejected.
type NavigationResult struct {
	Allowed         bool   `json:"allowed"`
	TargetStepIndex int    `json:"target_step_index,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

// NavigationRequest describes a transition to check. TargetStepIndex of -1
// means "unset"; SkipValidation bypasses the current-step validity check but
// never visibility or reachability.
type NavigationRequest struct {
	Direction       Direction
	TargetStepID    string
	TargetStepIndex int
	SkipValidation  bool
}

// Navigator computes transition legality over the ordered, condition-filtered
// step list of one form definition. It holds no session state.
type Navigator struct {
	steps     []StepSpec
	allowBack bool
	allowSkip bool
}

func NewNavigator(steps []StepSpec, allowBack, allowSkip bool) *Navigator {
	return &Navigator{
		steps:     steps,
		allowBack: allowBack,
		allowSkip: allowSkip,
	}
}

// TotalSteps returns the static step count, ignoring conditions.
func (n *Navigator) TotalSteps() int {
	return len(n.steps)
}

// Step returns the step spec at index, or nil when out of bounds.
func (n *Navigator) Step(index int) *StepSpec {
	if index < 0 || index >= len(n.steps) {
		return nil
	}
	return &n.steps[index]
}

// StepIndex returns the index of the step with the given id, or -1.
func (n *Navigator) StepIndex(id string) int {
	for i := range n.steps {
		if n.steps[i].ID == id {
			return i
		}
	}
	return -1
}

// VisibleSteps returns the indexes of all steps visible under allData.
func (n *Navigator) VisibleSteps(allData Data) []int {
	visible := make([]int, 0, len(n.steps))
	for i := range n.steps {
		if n.steps[i].Visible(allData) {
			visible = append(visible, i)
		}
	}
	return visible
}

// FirstVisible returns the index of the first visible step, or -1.
func (n *Navigator) FirstVisible(allData Data) int {
	return n.NextVisible(-1, allData)
}

// NextVisible returns the index of the first visible step after from, or -1.
func (n *Navigator) NextVisible(from int, allData Data) int {
	for i := from + 1; i < len(n.steps); i++ {
		if n.steps[i].Visible(allData) {
			return i
		}
	}
	return -1
}

// PrevVisible returns the index of the last visible step before from, or -1.
func (n *Navigator) PrevVisible(from int, allData Data) int {
	for i := from - 1; i >= 0; i-- {
		if n.steps[i].Visible(allData) {
			return i
		}
	}
	return -1
}

// CanNavigate checks a requested transition against the session state.
// It never mutates the state.
func (n *Navigator) CanNavigate(st *State, req NavigationRequest) NavigationResult {
	if n.Step(st.CurrentStepIndex) == nil {
		return rejected("current step not found")
	}

	switch req.Direction {
	case DirectionNext:
		return n.canNext(st, req)
	case DirectionPrevious:
		return n.canPrevious(st)
	case DirectionJump:
		return n.canJump(st, req)
	default:
		return rejected("invalid navigation direction")
	}
}

func (n *Navigator) canNext(st *State, req NavigationRequest) NavigationResult {
	if !req.SkipValidation {
		idx := st.CurrentStepIndex
		if idx >= len(st.Steps) || !st.Steps[idx].IsValid {
			return rejected("current step is not valid")
		}
	}
	next := n.NextVisible(st.CurrentStepIndex, st.AllData)
	if next < 0 {
		return rejected("no more steps available")
	}
	return NavigationResult{Allowed: true, TargetStepIndex: next}
}

func (n *Navigator) canPrevious(st *State) NavigationResult {
	if !n.allowBack {
		return rejected("back navigation is disabled")
	}
	prev := n.PrevVisible(st.CurrentStepIndex, st.AllData)
	if prev < 0 {
		return rejected("no previous step available")
	}
	return NavigationResult{Allowed: true, TargetStepIndex: prev}
}

// canJump allows a jump only to a visible step that is either already
// visited and complete, or the immediately next visible step. Anything
// else is not reachable directly.
func (n *Navigator) canJump(st *State, req NavigationRequest) NavigationResult {
	target := req.TargetStepIndex
	if req.TargetStepID != "" {
		target = n.StepIndex(req.TargetStepID)
		if target < 0 {
			return rejected("target step not found")
		}
	}
	if target < 0 || target >= len(n.steps) {
		return rejected("invalid target step index")
	}

	if !n.steps[target].Visible(st.AllData) {
		return rejected("target step is not visible")
	}
	if target < st.CurrentStepIndex && !n.allowBack {
		return rejected("back navigation is disabled")
	}
	if target == st.CurrentStepIndex {
		return NavigationResult{Allowed: true, TargetStepIndex: target}
	}

	if target < len(st.Steps) {
		ss := &st.Steps[target]
		if ss.Visited() && ss.IsComplete {
			return NavigationResult{Allowed: true, TargetStepIndex: target}
		}
	}
	if target == n.NextVisible(st.CurrentStepIndex, st.AllData) {
		return NavigationResult{Allowed: true, TargetStepIndex: target}
	}
	return rejected("step not reachable")
}

func rejected(reason string) NavigationResult {
	return NavigationResult{Reason: reason}
}

package forms

import "math"

// ProgressInfo is derived from session state on demand; it is never
// persisted.
type ProgressInfo struct {
	CurrentStep    int `json:"current_step"`
	TotalSteps     int `json:"total_steps"`
	CompletedSteps int `json:"completed_steps"`
	Percentage     int `json:"percentage"`
	RemainingSteps int `json:"remaining_steps"`
}

// ProgressTracker derives human-facing progress from a session. Visibility
// is recomputed on every call because step conditions can change as data
// accumulates.
type ProgressTracker struct {
	nav *Navigator
}

func NewProgressTracker(nav *Navigator) *ProgressTracker {
	return &ProgressTracker{nav: nav}
}

// Progress returns the current progress snapshot. A form whose steps are
// all conditioned out is vacuously complete: 100%, nothing remaining.
func (p *ProgressTracker) Progress(st *State) ProgressInfo {
	visible := p.nav.VisibleSteps(st.AllData)
	total := len(visible)

	info := ProgressInfo{
		CurrentStep: st.CurrentStepIndex + 1,
		TotalSteps:  total,
	}
	if total == 0 {
		info.Percentage = 100
		return info
	}

	for _, i := range visible {
		if i < len(st.Steps) && st.Steps[i].IsComplete {
			info.CompletedSteps++
		}
	}
	info.Percentage = int(math.Round(float64(info.CompletedSteps) / float64(total) * 100))
	info.RemainingSteps = total - info.CompletedSteps
	return info
}

// IsFirstStep reports whether the session sits on the first visible step.
func (p *ProgressTracker) IsFirstStep(st *State) bool {
	first := p.nav.FirstVisible(st.AllData)
	return first < 0 || st.CurrentStepIndex == first
}

// IsLastStep reports whether the session sits on the last visible step.
func (p *ProgressTracker) IsLastStep(st *State) bool {
	return p.nav.NextVisible(st.CurrentStepIndex, st.AllData) < 0
}

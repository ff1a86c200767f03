package forms

import "time"

// StepState is the per-session record of one visited step. The zero value
// (empty StepID, zero VisitedAt) marks a step that was never entered.
type StepState struct {
	StepID      string            `json:"step_id" bson:"step_id"`
	StepIndex   int               `json:"step_index" bson:"step_index"`
	Data        Data              `json:"data" bson:"data"`
	IsValid     bool              `json:"is_valid" bson:"is_valid"`
	IsComplete  bool              `json:"is_complete" bson:"is_complete"`
	Errors      map[string]string `json:"errors,omitempty" bson:"errors,omitempty"`
	VisitedAt   time.Time         `json:"visited_at" bson:"visited_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// Visited reports whether the step was ever entered.
func (s *StepState) Visited() bool {
	return !s.VisitedAt.IsZero()
}

// Clone returns a deep copy of the step record.
func (s *StepState) Clone() StepState {
	out := *s
	out.Data = s.Data.Clone()
	if s.Errors != nil {
		out.Errors = make(map[string]string, len(s.Errors))
		for k, v := range s.Errors {
			out.Errors[k] = v
		}
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

// State is one user's in-progress (or completed) instance of a form,
// identified by the (UserID, FormID) pair. The orchestrator is its sole
// mutator; storage backends only serialize and deserialize it.
type State struct {
	FormID           string      `json:"form_id" bson:"form_id"`
	UserID           int64       `json:"user_id" bson:"user_id"`
	ChatID           int64       `json:"chat_id" bson:"chat_id"`
	CurrentStepIndex int         `json:"current_step_index" bson:"current_step_index"`
	Steps            []StepState `json:"steps" bson:"steps"`
	AllData          Data        `json:"all_data" bson:"all_data"`
	IsComplete       bool        `json:"is_complete" bson:"is_complete"`
	StartedAt        time.Time   `json:"started_at" bson:"started_at"`
	LastUpdatedAt    time.Time   `json:"last_updated_at" bson:"last_updated_at"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// Clone returns a copy sharing no mutable state with the receiver.
func (s *State) Clone() *State {
	out := *s
	out.Steps = make([]StepState, len(s.Steps))
	for i := range s.Steps {
		out.Steps[i] = s.Steps[i].Clone()
	}
	out.AllData = s.AllData.Clone()
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}

// recomputeAllData rebuilds AllData as the union of all step data in step
// order, so later steps win on duplicate field names. Called after every
// successful transition; AllData never diverges from the step records.
func (s *State) recomputeAllData() {
	all := make(Data)
	for i := range s.Steps {
		all.Merge(s.Steps[i].Data)
	}
	s.AllData = all
}

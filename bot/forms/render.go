package forms

// FieldView is the render-ready description of one field: the static spec
// plus the session's current value and validation error. It carries no
// markup; Telegram and HTTP frontends format it their own way.
type FieldView struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Required    bool     `json:"required"`
	Options     []string `json:"options,omitempty"`
	Value       *Value   `json:"value,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// StepView is everything a frontend needs to display the session's current
// step.
type StepView struct {
	FormID      string       `json:"form_id"`
	FormTitle   string       `json:"form_title"`
	StepID      string       `json:"step_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	StepError   string       `json:"step_error,omitempty"`
	Fields      []FieldView  `json:"fields"`
	Progress    ProgressInfo `json:"progress"`
	CanBack     bool         `json:"can_back"`
	CanSkip     bool         `json:"can_skip"`
	IsLast      bool         `json:"is_last"`
}

// View builds the render payload for the session's current step, or nil for
// a completed session.
func (f *Form) View(st *State) *StepView {
	step := f.CurrentStep(st)
	if step == nil {
		return nil
	}

	var ss *StepState
	if st.CurrentStepIndex < len(st.Steps) {
		ss = &st.Steps[st.CurrentStepIndex]
	}

	view := &StepView{
		FormID:      f.cfg.ID,
		FormTitle:   f.cfg.Title,
		StepID:      step.ID,
		Title:       step.Title,
		Description: step.Description,
		Fields:      make([]FieldView, 0, len(step.Fields)),
		Progress:    f.progress.Progress(st),
		CanBack:     f.cfg.AllowBackNavigation && !f.progress.IsFirstStep(st),
		CanSkip:     step.CanSkip || f.cfg.AllowSkipSteps,
		IsLast:      f.progress.IsLastStep(st),
	}
	if ss != nil && ss.Errors != nil {
		view.StepError = ss.Errors[StepErrorKey]
	}

	for i := range step.Fields {
		spec := &step.Fields[i]
		fv := FieldView{
			Name:        spec.Name,
			Type:        string(spec.Type),
			Label:       spec.Label,
			Description: spec.Description,
			Placeholder: spec.Placeholder,
			Required:    spec.Required,
			Options:     spec.Options,
		}
		if ss != nil {
			if v, ok := ss.Data[spec.Name]; ok {
				val := v.Clone()
				fv.Value = &val
			}
			if ss.Errors != nil {
				fv.Error = ss.Errors[spec.Name]
			}
		}
		view.Fields = append(view.Fields, fv)
	}
	return view
}

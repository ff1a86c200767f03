package forms

import (
	"context"
	"log/slog"
	"time"
)

// Hooks are a form definition's only way to push results into the
// surrounding application. OnStepChange fires after a transition is ruled
// legal and before the new step is entered; OnComplete fires once, with the
// full accumulated data, when the last visible step is passed; OnCancel
// fires once per cancelled session. A failing OnStepChange aborts the
// transition as a *HookError.
type Hooks struct {
	OnComplete   func(ctx context.Context, data Data) CompletionResult
	OnCancel     func(ctx context.Context, data Data) error
	OnStepChange func(ctx context.Context, fromIndex, toIndex int, data Data) error
}

// CompletionResult is returned by the OnComplete hook. A non-success result
// keeps the session alive on its last step for the caller to retry or
// cancel.
type CompletionResult struct {
	Success bool
	Data    Data
	Errors  map[string]string
	Message string
}

// StepResult is the outcome of SubmitStep or Skip.
type StepResult struct {
	Success    bool
	Errors     map[string]string
	Completed  bool
	Completion *CompletionResult
}

// FormConfig declares a multi-step form.
type FormConfig struct {
	ID                  string
	Title               string
	Description         string
	Steps               []StepSpec
	AllowBackNavigation bool
	AllowSkipSteps      bool
	Hooks               Hooks
}

// Form drives the lifecycle of sessions for one form definition: it owns
// validation, transition legality, lifecycle hooks and persistence. It is
// the sole mutator of session state. Methods always persist complete,
// internally consistent snapshots; a failing hook or storage call leaves
// the caller's state untouched.
type Form struct {
	cfg      FormConfig
	nav      *Navigator
	progress *ProgressTracker
	storage  Storage
	log      *slog.Logger
}

// NewForm validates the form definition and builds its orchestrator.
// Duplicate or empty step ids and option lists on non-select fields are
// definition-time invariant violations.
func NewForm(cfg FormConfig, storage Storage, log *slog.Logger) (*Form, error) {
	seen := make(map[string]struct{}, len(cfg.Steps))
	for i := range cfg.Steps {
		step := &cfg.Steps[i]
		if step.ID == "" {
			return nil, invariant("form %s: step %d has an empty id", cfg.ID, i)
		}
		if _, dup := seen[step.ID]; dup {
			return nil, invariant("form %s: duplicate step id %s", cfg.ID, step.ID)
		}
		seen[step.ID] = struct{}{}

		for j := range step.Fields {
			field := &step.Fields[j]
			if field.IsSelect() != (len(field.Options) > 0) {
				return nil, invariant("form %s: field %s.%s: options are required for select types and forbidden otherwise",
					cfg.ID, step.ID, field.Name)
			}
		}
	}

	nav := NewNavigator(cfg.Steps, cfg.AllowBackNavigation, cfg.AllowSkipSteps)
	return &Form{
		cfg:      cfg,
		nav:      nav,
		progress: NewProgressTracker(nav),
		storage:  storage,
		log:      log.With(slog.String("form_id", cfg.ID)),
	}, nil
}

func (f *Form) ID() string {
	return f.cfg.ID
}

func (f *Form) Title() string {
	return f.cfg.Title
}

// TotalSteps returns the static step count, ignoring conditions.
func (f *Form) TotalSteps() int {
	return f.nav.TotalSteps()
}

// CurrentStep returns the step spec the session sits on, or nil for a
// completed session.
func (f *Form) CurrentStep(st *State) *StepSpec {
	if st.IsComplete {
		return nil
	}
	return f.nav.Step(st.CurrentStepIndex)
}

// Progress derives the session's progress snapshot.
func (f *Form) Progress(st *State) ProgressInfo {
	return f.progress.Progress(st)
}

// Start creates and persists a fresh session for the user, entering the
// first visible step. When a non-complete session already exists it fails
// with ErrAlreadyActive unless resume is set, in which case the stored
// session is returned after an index sanity check (no hooks re-run).
func (f *Form) Start(ctx context.Context, userID, chatID int64, resume bool) (*State, error) {
	existing, err := f.storage.Load(ctx, userID, f.cfg.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil && !existing.IsComplete {
		if !resume {
			return nil, ErrAlreadyActive
		}
		if existing.CurrentStepIndex < 0 || existing.CurrentStepIndex >= f.nav.TotalSteps() {
			return nil, invariant("form %s: stored step index %d out of bounds for user %d",
				f.cfg.ID, existing.CurrentStepIndex, userID)
		}
		return existing, nil
	}

	now := time.Now()
	st := &State{
		FormID:        f.cfg.ID,
		UserID:        userID,
		ChatID:        chatID,
		Steps:         make([]StepState, f.nav.TotalSteps()),
		AllData:       make(Data),
		StartedAt:     now,
		LastUpdatedAt: now,
	}

	ctx = f.hookCtx(ctx, userID, chatID)
	first := f.nav.FirstVisible(st.AllData)
	if first >= 0 {
		st.CurrentStepIndex = first
		if err := f.enterStep(ctx, st, first); err != nil {
			return nil, err
		}
	}
	if err := f.storage.Save(ctx, st); err != nil {
		return nil, err
	}

	f.log.Info("session started",
		slog.Int64("user_id", userID),
		slog.Int("first_step", first),
	)
	return st, nil
}

// SubmitStep validates the submitted values against the named step and
// applies the NEXT transition on success. State is persisted on every call
// so partial or invalid input survives for redisplay, but the stored step
// index only advances when the transition succeeds.
func (f *Form) SubmitStep(ctx context.Context, st *State, stepID string, values Data) (*StepResult, error) {
	if st.IsComplete {
		return nil, invariant("form %s: submit on a completed session", f.cfg.ID)
	}
	step := f.nav.Step(st.CurrentStepIndex)
	if step == nil {
		return nil, invariant("form %s: step index %d out of bounds", f.cfg.ID, st.CurrentStepIndex)
	}
	if step.ID != stepID {
		// Stale submit, e.g. duplicate message delivery after a transition.
		return &StepResult{
			Success: false,
			Errors:  map[string]string{StepErrorKey: "step is not the current step"},
		}, nil
	}

	ctx = f.hookCtx(ctx, st.UserID, st.ChatID)
	work := st.Clone()
	now := time.Now()
	idx := work.CurrentStepIndex
	ss := &work.Steps[idx]
	if !ss.Visited() {
		*ss = StepState{StepID: step.ID, StepIndex: idx, Data: make(Data), VisitedAt: now}
	}

	cleaned, errs := step.ValidateData(values)
	if errs != nil {
		// Keep raw input for invalid fields and cleaned values for the rest
		// so the renderer can redisplay the step as submitted.
		ss.Data.Merge(values)
		ss.Data.Merge(cleaned)
		ss.IsValid = false
		ss.IsComplete = false
		ss.Errors = errs
		work.LastUpdatedAt = now

		if err := f.storage.Save(ctx, work); err != nil {
			return nil, err
		}
		*st = *work
		return &StepResult{Success: false, Errors: errs}, nil
	}

	// Step passed: its record carries exactly the cleaned values.
	for i := range step.Fields {
		name := step.Fields[i].Name
		if v, ok := cleaned[name]; ok {
			ss.Data[name] = v
		} else {
			delete(ss.Data, name)
		}
	}
	ss.IsValid = true
	ss.IsComplete = true
	ss.Errors = nil
	ss.CompletedAt = &now
	work.recomputeAllData()
	work.LastUpdatedAt = now

	if step.OnExit != nil {
		if err := step.OnExit(ctx, work.AllData); err != nil {
			return nil, &HookError{Hook: HookOnExit, Step: step.ID, Err: err}
		}
	}

	next := f.nav.NextVisible(idx, work.AllData)
	if next < 0 {
		return f.finalize(ctx, st, work, now)
	}

	if err := f.fireStepChange(ctx, work, idx, next); err != nil {
		return nil, err
	}
	work.CurrentStepIndex = next
	if err := f.enterStep(ctx, work, next); err != nil {
		return nil, err
	}
	if err := f.storage.Save(ctx, work); err != nil {
		return nil, err
	}
	*st = *work

	f.log.Debug("step completed",
		slog.Int64("user_id", st.UserID),
		slog.String("step_id", step.ID),
		slog.Int("next_step", next),
	)
	return &StepResult{Success: true}, nil
}

// Skip marks the current step visited without completing it and advances to
// the next visible step, bypassing validators. The step must be individually
// skippable or the form must allow skipping; the OnExit hook still runs.
func (f *Form) Skip(ctx context.Context, st *State) (*StepResult, error) {
	if st.IsComplete {
		return nil, invariant("form %s: skip on a completed session", f.cfg.ID)
	}
	step := f.nav.Step(st.CurrentStepIndex)
	if step == nil {
		return nil, invariant("form %s: step index %d out of bounds", f.cfg.ID, st.CurrentStepIndex)
	}
	if !step.CanSkip && !f.cfg.AllowSkipSteps {
		return &StepResult{
			Success: false,
			Errors:  map[string]string{StepErrorKey: "step cannot be skipped"},
		}, nil
	}

	ctx = f.hookCtx(ctx, st.UserID, st.ChatID)
	work := st.Clone()
	now := time.Now()
	idx := work.CurrentStepIndex
	ss := &work.Steps[idx]
	if !ss.Visited() {
		*ss = StepState{StepID: step.ID, StepIndex: idx, Data: make(Data), VisitedAt: now}
	}
	ss.IsComplete = false
	ss.Errors = nil
	work.LastUpdatedAt = now

	if step.OnExit != nil {
		if err := step.OnExit(ctx, work.AllData); err != nil {
			return nil, &HookError{Hook: HookOnExit, Step: step.ID, Err: err}
		}
	}

	next := f.nav.NextVisible(idx, work.AllData)
	if next < 0 {
		return f.finalize(ctx, st, work, now)
	}

	if err := f.fireStepChange(ctx, work, idx, next); err != nil {
		return nil, err
	}
	work.CurrentStepIndex = next
	if err := f.enterStep(ctx, work, next); err != nil {
		return nil, err
	}
	if err := f.storage.Save(ctx, work); err != nil {
		return nil, err
	}
	*st = *work
	return &StepResult{Success: true}, nil
}

// GoBack moves one visible step backwards without discarding data. The
// arrived-at step keeps its last-known validity; it is not revalidated.
func (f *Form) GoBack(ctx context.Context, st *State) (NavigationResult, error) {
	res := f.nav.CanNavigate(st, NavigationRequest{Direction: DirectionPrevious, TargetStepIndex: -1})
	if !res.Allowed {
		return res, nil
	}
	if err := f.moveTo(ctx, st, res.TargetStepIndex); err != nil {
		return NavigationResult{}, err
	}
	return res, nil
}

// JumpTo moves directly to a reachable step: one that is visible and either
// already visited and complete, or the immediately next visible step.
func (f *Form) JumpTo(ctx context.Context, st *State, stepID string) (NavigationResult, error) {
	res := f.nav.CanNavigate(st, NavigationRequest{
		Direction:       DirectionJump,
		TargetStepID:    stepID,
		TargetStepIndex: -1,
	})
	if !res.Allowed {
		return res, nil
	}
	if res.TargetStepIndex == st.CurrentStepIndex {
		return res, nil
	}
	if err := f.moveTo(ctx, st, res.TargetStepIndex); err != nil {
		return NavigationResult{}, err
	}
	return res, nil
}

// Cancel invokes the cancel hook with the accumulated data and deletes the
// stored session. Cancelling a session that is already gone is a no-op and
// does not fire the hook again.
func (f *Form) Cancel(ctx context.Context, st *State) error {
	existing, err := f.storage.Load(ctx, st.UserID, f.cfg.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	ctx = f.hookCtx(ctx, existing.UserID, existing.ChatID)
	if f.cfg.Hooks.OnCancel != nil {
		if err := f.cfg.Hooks.OnCancel(ctx, existing.AllData); err != nil {
			return &HookError{Hook: HookOnCancel, Err: err}
		}
	}
	if err := f.storage.Delete(ctx, st.UserID, f.cfg.ID); err != nil {
		return err
	}
	f.log.Info("session cancelled", slog.Int64("user_id", st.UserID))
	return nil
}

// moveTo applies an already-approved backward/jump transition.
func (f *Form) moveTo(ctx context.Context, st *State, target int) error {
	ctx = f.hookCtx(ctx, st.UserID, st.ChatID)
	work := st.Clone()
	if err := f.fireStepChange(ctx, work, work.CurrentStepIndex, target); err != nil {
		return err
	}
	work.CurrentStepIndex = target
	if err := f.enterStep(ctx, work, target); err != nil {
		return err
	}
	work.LastUpdatedAt = time.Now()
	if err := f.storage.Save(ctx, work); err != nil {
		return err
	}
	*st = *work
	return nil
}

// enterStep marks the step visited and fires its OnEnter hook.
func (f *Form) enterStep(ctx context.Context, st *State, index int) error {
	step := f.nav.Step(index)
	ss := &st.Steps[index]
	if !ss.Visited() {
		*ss = StepState{
			StepID:    step.ID,
			StepIndex: index,
			Data:      make(Data),
			VisitedAt: time.Now(),
		}
	}
	if step.OnEnter != nil {
		if err := step.OnEnter(ctx, st.AllData); err != nil {
			return &HookError{Hook: HookOnEnter, Step: step.ID, Err: err}
		}
	}
	return nil
}

func (f *Form) hookCtx(ctx context.Context, userID, chatID int64) context.Context {
	return WithSessionInfo(ctx, SessionInfo{
		UserID: userID,
		ChatID: chatID,
		FormID: f.cfg.ID,
	})
}

func (f *Form) fireStepChange(ctx context.Context, st *State, from, to int) error {
	if f.cfg.Hooks.OnStepChange == nil {
		return nil
	}
	if err := f.cfg.Hooks.OnStepChange(ctx, from, to, st.AllData); err != nil {
		return &HookError{Hook: HookOnStepChange, Err: err}
	}
	return nil
}

// canComplete reports whether every visible step is either complete or was
// deliberately skipped (visited and skippable).
func (f *Form) canComplete(st *State) bool {
	for _, i := range f.nav.VisibleSteps(st.AllData) {
		ss := &st.Steps[i]
		if ss.IsComplete {
			continue
		}
		step := f.nav.Step(i)
		if ss.Visited() && (step.CanSkip || f.cfg.AllowSkipSteps) {
			continue
		}
		return false
	}
	return true
}

// finalize handles the terminal transition: no further visible step exists.
// A non-success completion callback keeps the session alive on its last
// step; success destroys the stored session after the callback has run.
func (f *Form) finalize(ctx context.Context, st, work *State, now time.Time) (*StepResult, error) {
	if !f.canComplete(work) {
		if err := f.storage.Save(ctx, work); err != nil {
			return nil, err
		}
		*st = *work
		return &StepResult{
			Success: false,
			Errors:  map[string]string{StepErrorKey: "earlier steps are not complete"},
		}, nil
	}

	comp := CompletionResult{Success: true, Data: work.AllData}
	if f.cfg.Hooks.OnComplete != nil {
		comp = f.cfg.Hooks.OnComplete(ctx, work.AllData)
	}
	if !comp.Success {
		if err := f.storage.Save(ctx, work); err != nil {
			return nil, err
		}
		*st = *work
		return &StepResult{Success: false, Errors: comp.Errors, Completion: &comp}, nil
	}

	work.IsComplete = true
	work.CompletedAt = &now
	work.LastUpdatedAt = now
	if err := f.storage.Delete(ctx, work.UserID, f.cfg.ID); err != nil {
		return nil, err
	}
	*st = *work

	f.log.Info("form completed",
		slog.Int64("user_id", st.UserID),
		slog.Int("fields", len(st.AllData)),
	)
	return &StepResult{Success: true, Completed: true, Completion: &comp}, nil
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"StaffDesk/bot/forms"
	"StaffDesk/bot/forms/ui"
	"StaffDesk/internal/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"
)

// FormBot drives registered forms over Telegram, asking one field per
// message. Collected answers for the current step are buffered in memory
// and submitted to the form engine once every field of the step has a
// value; session state itself lives in the engine's storage, so an
// interrupted conversation resumes where it stopped.
type FormBot struct {
	log      *slog.Logger
	tg       *TgBot
	engine   *forms.Engine
	commands map[string]string

	events   ProgressEvents

	mu      sync.Mutex
	pending map[int64]*stepInput
}

// stepInput buffers the user's answers for the step being filled.
type stepInput struct {
	formID  string
	stepID  string
	answers forms.Data
	multi   []string
}

// ProgressEvents receives a progress update after every step advance.
type ProgressEvents interface {
	BroadcastFormProgress(userID int64, formID string, progress forms.ProgressInfo)
}

func NewFormBot(tg *TgBot, engine *forms.Engine, logger *slog.Logger) *FormBot {
	return &FormBot{
		log:      logger.With(sl.Module("formbot")),
		tg:       tg,
		engine:   engine,
		commands: make(map[string]string),
		pending:  make(map[int64]*stepInput),
	}
}

// SetEvents attaches the live progress feed. Optional.
func (b *FormBot) SetEvents(events ProgressEvents) {
	b.events = events
}

// RegisterCommand binds a bot command to a registered form id.
func (b *FormBot) RegisterCommand(command, formID string) {
	b.commands[command] = formID
	b.tg.Dispatcher().AddHandler(handlers.NewCommand(command, func(bot *tgbotapi.Bot, ctx *ext.Context) error {
		return b.handleStart(bot, ctx, formID)
	}))
}

// RegisterHandlers attaches the shared form handlers. Call after every
// RegisterCommand, before polling starts.
func (b *FormBot) RegisterHandlers() {
	dispatcher := b.tg.Dispatcher()
	dispatcher.AddHandler(handlers.NewCommand("cancel", b.handleCancelCommand))
	dispatcher.AddHandler(handlers.NewCommand("back", b.handleBackCommand))
	dispatcher.AddHandler(handlers.NewCommand("skip", b.handleSkipCommand))
	dispatcher.AddHandler(handlers.NewCommand("progress", b.handleProgressCommand))
	dispatcher.AddHandler(handlers.NewCallback(b.formCallbackFilter, b.handleCallback))
	dispatcher.AddHandler(handlers.NewMessage(message.Text, b.handleMessage))
}

func (b *FormBot) formCallbackFilter(cq *tgbotapi.CallbackQuery) bool {
	return forms.IsFormCallback(cq.Data)
}

// session returns the buffered input for the user, rebuilding it from the
// stored form state after a restart.
func (b *FormBot) session(ctx context.Context, userID int64) *stepInput {
	b.mu.Lock()
	if s, ok := b.pending[userID]; ok {
		b.mu.Unlock()
		return s
	}
	b.mu.Unlock()

	states, err := b.engine.ActiveSessions(ctx, userID)
	if err != nil {
		b.log.Error("loading active sessions", slog.Int64("user_id", userID), sl.Err(err))
		return nil
	}
	for _, st := range states {
		f := b.engine.Form(st.FormID)
		if f == nil {
			continue
		}
		step := f.CurrentStep(st)
		if step == nil {
			continue
		}
		s := &stepInput{
			formID:  st.FormID,
			stepID:  step.ID,
			answers: make(forms.Data),
		}
		b.mu.Lock()
		b.pending[userID] = s
		b.mu.Unlock()
		return s
	}
	return nil
}

func (b *FormBot) clearSession(userID int64) {
	b.mu.Lock()
	delete(b.pending, userID)
	b.mu.Unlock()
}

// formState loads the form and its stored session for the buffered input.
func (b *FormBot) formState(ctx context.Context, userID int64, s *stepInput) (*forms.Form, *forms.State, error) {
	f := b.engine.Form(s.formID)
	if f == nil {
		return nil, nil, fmt.Errorf("unknown form: %s", s.formID)
	}
	st, err := b.engine.Storage().Load(ctx, userID, s.formID)
	if err != nil {
		return nil, nil, err
	}
	if st == nil {
		return f, nil, nil
	}
	return f, st, nil
}

func (b *FormBot) handleStart(bot *tgbotapi.Bot, ectx *ext.Context, formID string) error {
	ctx := context.Background()
	userID := ectx.EffectiveUser.Id
	chatID := ectx.EffectiveChat.Id

	f := b.engine.Form(formID)
	if f == nil {
		b.log.Error("command bound to unknown form", slog.String("form_id", formID))
		return nil
	}

	resumed := false
	st, err := f.Start(ctx, userID, chatID, false)
	if errors.Is(err, forms.ErrAlreadyActive) {
		st, err = f.Start(ctx, userID, chatID, true)
		resumed = true
	}
	if err != nil {
		b.log.Error("starting form",
			slog.Int64("user_id", userID),
			slog.String("form_id", formID),
			sl.Err(err),
		)
		b.reply(bot, chatID, "Something went wrong, please try again later.")
		return err
	}

	step := f.CurrentStep(st)
	if step == nil {
		b.reply(bot, chatID, "Nothing to fill in right now.")
		return nil
	}

	s := &stepInput{
		formID:  formID,
		stepID:  step.ID,
		answers: make(forms.Data),
	}
	b.mu.Lock()
	b.pending[userID] = s
	b.mu.Unlock()

	if resumed {
		b.reply(bot, chatID, fmt.Sprintf("Resuming %s where you left off.", f.Title()))
	} else {
		b.reply(bot, chatID, fmt.Sprintf("Starting %s. Use /cancel to abort at any time.", f.Title()))
	}

	b.promptStep(bot, chatID, f, st, s)
	return nil
}

func (b *FormBot) handleMessage(bot *tgbotapi.Bot, ectx *ext.Context) error {
	ctx := context.Background()
	userID := ectx.EffectiveUser.Id
	chatID := ectx.EffectiveChat.Id
	text := strings.TrimSpace(ectx.EffectiveMessage.Text)

	s := b.session(ctx, userID)
	if s == nil {
		return nil
	}

	f, st, err := b.formState(ctx, userID, s)
	if err != nil {
		b.log.Error("loading form state", slog.Int64("user_id", userID), sl.Err(err))
		return err
	}
	if st == nil {
		b.clearSession(userID)
		return nil
	}

	field := b.nextField(f, st, s)
	if field == nil {
		return b.submitStep(bot, ctx, chatID, userID, f, st, s)
	}

	s.answers[field.Name] = forms.TextValue(text)
	s.multi = nil

	if b.nextField(f, st, s) == nil {
		return b.submitStep(bot, ctx, chatID, userID, f, st, s)
	}
	b.promptStep(bot, chatID, f, st, s)
	return nil
}

func (b *FormBot) handleCallback(bot *tgbotapi.Bot, ectx *ext.Context) error {
	ctx := context.Background()
	userID := ectx.EffectiveUser.Id
	chatID := ectx.EffectiveChat.Id

	cb := forms.ParseCallback(ectx.CallbackQuery.Data)
	_, _ = ectx.CallbackQuery.Answer(bot, nil)
	if cb == nil {
		return nil
	}

	s := b.session(ctx, userID)
	if s == nil {
		return nil
	}

	f, st, err := b.formState(ctx, userID, s)
	if err != nil {
		b.log.Error("loading form state", slog.Int64("user_id", userID), sl.Err(err))
		return err
	}
	if st == nil {
		b.clearSession(userID)
		return nil
	}

	switch {
	case cb.IsCancel():
		return b.cancel(bot, ctx, chatID, userID, f, st)

	case cb.IsBack():
		return b.goBack(bot, ctx, chatID, f, st, s)

	case cb.IsSkip():
		res, err := f.Skip(ctx, st)
		if err != nil {
			b.log.Error("skipping step", slog.Int64("user_id", userID), sl.Err(err))
			b.reply(bot, chatID, "Something went wrong, please try again.")
			return err
		}
		return b.applyResult(bot, ctx, chatID, userID, f, st, s, res)

	case cb.IsYes(), cb.IsNo():
		field := b.nextField(f, st, s)
		if field == nil {
			return nil
		}
		s.answers[field.Name] = forms.BoolValue(cb.IsYes())
		if b.nextField(f, st, s) == nil {
			return b.submitStep(bot, ctx, chatID, userID, f, st, s)
		}
		b.promptStep(bot, chatID, f, st, s)
		return nil

	case cb.IsSelect():
		field := b.nextField(f, st, s)
		if field == nil {
			return nil
		}
		s.answers[field.Name] = forms.TextValue(cb.SelectedOption())
		if b.nextField(f, st, s) == nil {
			return b.submitStep(bot, ctx, chatID, userID, f, st, s)
		}
		b.promptStep(bot, chatID, f, st, s)
		return nil

	case cb.IsMulti():
		field := b.nextField(f, st, s)
		if field == nil {
			return nil
		}
		s.multi = toggleOption(s.multi, cb.SelectedOption())
		kb := ui.WithNavigation(
			ui.MultiSelectKeyboard(field.Options, s.multi),
			false, false,
		)
		_, _, err := ectx.EffectiveMessage.EditReplyMarkup(bot, &tgbotapi.EditMessageReplyMarkupOpts{
			ReplyMarkup: kb,
		})
		if err != nil {
			b.log.Warn("updating multi-select keyboard", sl.Err(err))
		}
		return nil

	case cb.IsDone():
		field := b.nextField(f, st, s)
		if field == nil {
			return nil
		}
		s.answers[field.Name] = forms.ListValue(s.multi...)
		s.multi = nil
		if b.nextField(f, st, s) == nil {
			return b.submitStep(bot, ctx, chatID, userID, f, st, s)
		}
		b.promptStep(bot, chatID, f, st, s)
		return nil
	}

	return nil
}

func (b *FormBot) handleCancelCommand(bot *tgbotapi.Bot, ectx *ext.Context) error {
	ctx := context.Background()
	userID := ectx.EffectiveUser.Id
	chatID := ectx.EffectiveChat.Id

	s := b.session(ctx, userID)
	if s == nil {
		b.reply(bot, chatID, "No form in progress.")
		return nil
	}

	f, st, err := b.formState(ctx, userID, s)
	if err != nil {
		return err
	}
	if st == nil {
		b.clearSession(userID)
		return nil
	}
	return b.cancel(bot, ctx, chatID, userID, f, st)
}

func (b *FormBot) handleBackCommand(bot *tgbotapi.Bot, ectx *ext.Context) error {
	ctx := context.Background()
	userID := ectx.EffectiveUser.Id
	chatID := ectx.EffectiveChat.Id

	s := b.session(ctx, userID)
	if s == nil {
		b.reply(bot, chatID, "No form in progress.")
		return nil
	}

	f, st, err := b.formState(ctx, userID, s)
	if err != nil {
		return err
	}
	if st == nil {
		b.clearSession(userID)
		return nil
	}
	return b.goBack(bot, ctx, chatID, f, st, s)
}

func (b *FormBot) handleSkipCommand(bot *tgbotapi.Bot, ectx *ext.Context) error {
	ctx := context.Background()
	userID := ectx.EffectiveUser.Id
	chatID := ectx.EffectiveChat.Id

	s := b.session(ctx, userID)
	if s == nil {
		b.reply(bot, chatID, "No form in progress.")
		return nil
	}

	f, st, err := b.formState(ctx, userID, s)
	if err != nil {
		return err
	}
	if st == nil {
		b.clearSession(userID)
		return nil
	}

	res, err := f.Skip(ctx, st)
	if err != nil {
		b.log.Error("skipping step", slog.Int64("user_id", userID), sl.Err(err))
		b.reply(bot, chatID, "Something went wrong, please try again.")
		return err
	}
	return b.applyResult(bot, ctx, chatID, userID, f, st, s, res)
}

func (b *FormBot) handleProgressCommand(bot *tgbotapi.Bot, ectx *ext.Context) error {
	ctx := context.Background()
	userID := ectx.EffectiveUser.Id
	chatID := ectx.EffectiveChat.Id

	s := b.session(ctx, userID)
	if s == nil {
		b.reply(bot, chatID, "No form in progress.")
		return nil
	}

	f, st, err := b.formState(ctx, userID, s)
	if err != nil {
		return err
	}
	if st == nil {
		b.clearSession(userID)
		b.reply(bot, chatID, "No form in progress.")
		return nil
	}

	p := f.Progress(st)
	b.reply(bot, chatID, fmt.Sprintf("%s: %d of %d steps done (%d%%), %d remaining.",
		f.Title(), p.CompletedSteps, p.TotalSteps, p.Percentage, p.RemainingSteps))
	return nil
}

func (b *FormBot) cancel(bot *tgbotapi.Bot, ctx context.Context, chatID, userID int64, f *forms.Form, st *forms.State) error {
	if err := f.Cancel(ctx, st); err != nil {
		b.log.Error("cancelling form", slog.Int64("user_id", userID), sl.Err(err))
		b.reply(bot, chatID, "Something went wrong, please try again.")
		return err
	}
	b.clearSession(userID)
	b.reply(bot, chatID, "Form cancelled. Your answers were discarded.")
	return nil
}

func (b *FormBot) goBack(bot *tgbotapi.Bot, ctx context.Context, chatID int64, f *forms.Form, st *forms.State, s *stepInput) error {
	res, err := f.GoBack(ctx, st)
	if err != nil {
		b.log.Error("going back", sl.Err(err))
		b.reply(bot, chatID, "Something went wrong, please try again.")
		return err
	}
	if !res.Allowed {
		b.reply(bot, chatID, cannotMessage(res.Reason))
		return nil
	}

	step := f.CurrentStep(st)
	s.stepID = step.ID
	s.answers = make(forms.Data)
	s.multi = nil
	b.promptStep(bot, chatID, f, st, s)
	return nil
}

func (b *FormBot) submitStep(bot *tgbotapi.Bot, ctx context.Context, chatID, userID int64, f *forms.Form, st *forms.State, s *stepInput) error {
	res, err := f.SubmitStep(ctx, st, s.stepID, s.answers)
	if err != nil {
		b.log.Error("submitting step",
			slog.Int64("user_id", userID),
			slog.String("step_id", s.stepID),
			sl.Err(err),
		)
		b.reply(bot, chatID, "Something went wrong, please try again.")
		return err
	}
	return b.applyResult(bot, ctx, chatID, userID, f, st, s, res)
}

// applyResult reacts to a submit or skip outcome: completion, advance, or
// validation errors to fix.
func (b *FormBot) applyResult(bot *tgbotapi.Bot, ctx context.Context, chatID, userID int64, f *forms.Form, st *forms.State, s *stepInput, res *forms.StepResult) error {
	if res.Completed {
		b.clearSession(userID)
		msg := "All done, thank you!"
		if res.Completion != nil && res.Completion.Message != "" {
			msg = res.Completion.Message
		}
		b.reply(bot, chatID, msg)
		return nil
	}

	if res.Success {
		if b.events != nil {
			b.events.BroadcastFormProgress(userID, f.ID(), f.Progress(st))
		}
		step := f.CurrentStep(st)
		if step == nil {
			b.clearSession(userID)
			return nil
		}
		s.stepID = step.ID
		s.answers = make(forms.Data)
		s.multi = nil
		b.promptStep(bot, chatID, f, st, s)
		return nil
	}

	// Validation failed: drop the rejected answers so the user is asked
	// again, and show what went wrong.
	var lines []string
	for key, msg := range res.Errors {
		if key == forms.StepErrorKey {
			lines = append(lines, msg)
			s.answers = make(forms.Data)
			continue
		}
		delete(s.answers, key)
		lines = append(lines, msg)
	}
	if res.Completion != nil && res.Completion.Message != "" {
		lines = append(lines, res.Completion.Message)
	}
	if len(lines) > 0 {
		b.reply(bot, chatID, "⚠️ "+strings.Join(lines, "\n"))
	}
	b.promptStep(bot, chatID, f, st, s)
	return nil
}

// nextField returns the first field of the current step that has no
// buffered answer yet, or nil when the step is fully answered.
func (b *FormBot) nextField(f *forms.Form, st *forms.State, s *stepInput) *forms.FieldView {
	view := f.View(st)
	if view == nil {
		return nil
	}
	for i := range view.Fields {
		if _, ok := s.answers[view.Fields[i].Name]; !ok {
			return &view.Fields[i]
		}
	}
	return nil
}

// promptStep sends the prompt for the next unanswered field with the
// keyboard matching its type.
func (b *FormBot) promptStep(bot *tgbotapi.Bot, chatID int64, f *forms.Form, st *forms.State, s *stepInput) {
	view := f.View(st)
	if view == nil {
		return
	}
	field := b.nextField(f, st, s)
	if field == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s — %s (%d%%)\n", view.FormTitle, view.Title, view.Progress.Percentage))
	if view.Description != "" && len(s.answers) == 0 {
		sb.WriteString(view.Description + "\n")
	}
	sb.WriteString("\n" + field.Label)
	if !field.Required {
		sb.WriteString(" (optional)")
	}
	if field.Description != "" {
		sb.WriteString("\n" + field.Description)
	}
	if field.Placeholder != "" {
		sb.WriteString("\nExample: " + field.Placeholder)
	}
	if field.Error != "" {
		sb.WriteString("\n⚠️ " + field.Error)
	}

	var kb tgbotapi.InlineKeyboardMarkup
	switch field.Type {
	case string(forms.FieldBoolean):
		kb = ui.WithNavigation(ui.YesNoKeyboard(), view.CanBack, view.CanSkip)
	case string(forms.FieldSelect):
		kb = ui.WithNavigation(ui.SelectKeyboard(field.Options), view.CanBack, view.CanSkip)
	case string(forms.FieldMultiSelect):
		kb = ui.WithNavigation(ui.MultiSelectKeyboard(field.Options, s.multi), view.CanBack, view.CanSkip)
	default:
		kb = ui.NavigationKeyboard(view.CanBack, view.CanSkip)
	}

	_, err := bot.SendMessage(chatID, sb.String(), &tgbotapi.SendMessageOpts{
		ReplyMarkup: kb,
	})
	if err != nil {
		b.log.Error("sending step prompt", slog.Int64("chat_id", chatID), sl.Err(err))
	}
}

func (b *FormBot) reply(bot *tgbotapi.Bot, chatID int64, text string) {
	_, err := bot.SendMessage(chatID, text, nil)
	if err != nil {
		b.log.Error("sending message", slog.Int64("chat_id", chatID), sl.Err(err))
	}
}

func toggleOption(selected []string, option string) []string {
	for i, s := range selected {
		if s == option {
			return append(selected[:i], selected[i+1:]...)
		}
	}
	return append(selected, option)
}

func cannotMessage(reason string) string {
	if reason == "" {
		return "That is not possible right now."
	}
	return "Cannot do that: " + reason
}

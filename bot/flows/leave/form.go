package leave

import (
	"context"
	"fmt"
	"log/slog"

	"StaffDesk/bot/forms"
	"StaffDesk/entity"
	"StaffDesk/internal/lib/sl"
)

// FormID identifies the leave request form.
const FormID = "leave_request"

// Command is the bot command that starts the form.
const Command = "leave"

type Repository interface {
	SaveLeaveRequest(ctx context.Context, request *entity.LeaveRequest) error
	GetEmployeeByTelegramId(ctx context.Context, telegramId int64) (*entity.Employee, error)
}

type Events interface {
	BroadcastLeaveRequest(request *entity.LeaveRequest)
}

// Notifier pushes a short text to the admin chat.
type Notifier interface {
	SendMessage(msg string)
}

// Register builds the leave request form and adds it to the engine.
func Register(engine *forms.Engine, repo Repository, events Events, notifier Notifier, logger *slog.Logger) (*forms.Form, error) {
	log := logger.With(sl.Module("flows.leave"))
	minReason := 5

	cfg := forms.FormConfig{
		ID:                  FormID,
		Title:               "Leave Request",
		Description:         "Request vacation, sick or unpaid leave.",
		AllowBackNavigation: true,
		Steps: []forms.StepSpec{
			{
				ID:    "kind",
				Title: "Leave type",
				Fields: []forms.FieldSpec{
					{
						Name:     "kind",
						Type:     forms.FieldSelect,
						Label:    "What kind of leave?",
						Required: true,
						Options:  entity.LeaveKinds(),
					},
				},
			},
			{
				ID:    "dates",
				Title: "Dates",
				Fields: []forms.FieldSpec{
					{
						Name:        "start_date",
						Type:        forms.FieldDate,
						Label:       "First day of leave",
						Required:    true,
						Placeholder: "2026-09-15",
					},
					{
						Name:        "end_date",
						Type:        forms.FieldDate,
						Label:       "Last day of leave",
						Required:    true,
						Placeholder: "2026-09-19",
					},
				},
				Validator: func(data forms.Data) forms.ValidationResult {
					start := data.GetDate("start_date")
					end := data.GetDate("end_date")
					if end.Before(start) {
						return forms.ValidationResult{Error: "Last day cannot be before the first day"}
					}
					return forms.ValidationResult{Valid: true}
				},
			},
			{
				ID:    "details",
				Title: "Details",
				// Sick leave needs no justification.
				Condition: func(allData forms.Data) bool {
					return allData.GetText("kind") != entity.LeaveSick
				},
				Fields: []forms.FieldSpec{
					{
						Name:     "reason",
						Type:     forms.FieldText,
						Label:    "Reason",
						Required: true,
						MinLen:   &minReason,
					},
					{
						Name:  "substitute",
						Type:  forms.FieldText,
						Label: "Who covers for you?",
					},
				},
			},
		},
		Hooks: forms.Hooks{
			OnComplete: func(ctx context.Context, data forms.Data) forms.CompletionResult {
				info, _ := forms.SessionInfoFrom(ctx)

				request := entity.NewLeaveRequest(info.UserID)
				request.Kind = data.GetText("kind")
				request.StartDate = data.GetDate("start_date")
				request.EndDate = data.GetDate("end_date")
				request.Reason = data.GetText("reason")
				request.Substitute = data.GetText("substitute")

				if repo != nil {
					if employee, err := repo.GetEmployeeByTelegramId(ctx, info.UserID); err == nil && employee != nil {
						request.EmployeeName = employee.FullName
					}
					if err := repo.SaveLeaveRequest(ctx, request); err != nil {
						log.Error("saving leave request", sl.Err(err))
						return forms.CompletionResult{
							Errors: map[string]string{
								forms.StepErrorKey: "could not file your request, please try again",
							},
						}
					}
				}

				if events != nil {
					events.BroadcastLeaveRequest(request)
				}
				if notifier != nil {
					name := request.EmployeeName
					if name == "" {
						name = fmt.Sprintf("user %d", info.UserID)
					}
					notifier.SendMessage(fmt.Sprintf("New %s leave request from %s: %s to %s (%d days)",
						request.Kind, name,
						request.StartDate.Format("2006-01-02"),
						request.EndDate.Format("2006-01-02"),
						request.Days()))
				}

				log.Info("leave request filed",
					slog.Int64("user_id", info.UserID),
					slog.String("kind", request.Kind),
					slog.Int("days", request.Days()),
				)

				return forms.CompletionResult{
					Success: true,
					Data:    data,
					Message: fmt.Sprintf("Your %s leave request for %d day(s) is filed and pending approval.",
						request.Kind, request.Days()),
				}
			},
		},
	}

	return engine.Register(cfg)
}

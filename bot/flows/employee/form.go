package employee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"StaffDesk/bot/forms"
	"StaffDesk/entity"
	"StaffDesk/internal/lib/sl"
)

// FormID identifies the employee intake form.
const FormID = "employee_intake"

// Command is the bot command that starts the form.
const Command = "newemployee"

type Repository interface {
	SaveEmployee(ctx context.Context, employee *entity.Employee) error
}

type Exporter interface {
	ExportSubmission(ctx context.Context, formID string, userID int64, data forms.Data) error
}

type Events interface {
	BroadcastFormStarted(userID int64, formID string)
	BroadcastFormCompleted(userID int64, formID string, data forms.Data)
	BroadcastFormCancelled(userID int64, formID string)
}

// Register builds the employee intake form and adds it to the engine.
// Repository, exporter and events may each be nil when the backing
// integration is disabled.
func Register(engine *forms.Engine, repo Repository, exporter Exporter, events Events, logger *slog.Logger) (*forms.Form, error) {
	log := logger.With(sl.Module("flows.employee"))
	minName := 2

	cfg := forms.FormConfig{
		ID:                  FormID,
		Title:               "Employee Intake",
		Description:         "Collects everything HR needs before your first day.",
		AllowBackNavigation: true,
		Steps: []forms.StepSpec{
			{
				ID:          "personal",
				Title:       "Personal details",
				Description: "Let's start with who you are.",
				Fields: []forms.FieldSpec{
					{
						Name:        "full_name",
						Type:        forms.FieldText,
						Label:       "Full name",
						Required:    true,
						MinLen:      &minName,
						Placeholder: "Jane Doe",
					},
					{
						Name:        "email",
						Type:        forms.FieldEmail,
						Label:       "Work email",
						Required:    true,
						Placeholder: "jane.doe@example.com",
					},
					{
						Name:        "phone",
						Type:        forms.FieldPhone,
						Label:       "Phone number",
						Placeholder: "+380501234567",
					},
				},
				OnEnter: func(ctx context.Context, data forms.Data) error {
					if info, ok := forms.SessionInfoFrom(ctx); ok && events != nil {
						events.BroadcastFormStarted(info.UserID, info.FormID)
					}
					return nil
				},
			},
			{
				ID:          "role",
				Title:       "Role",
				Description: "What will you be doing?",
				Fields: []forms.FieldSpec{
					{
						Name:     "position",
						Type:     forms.FieldText,
						Label:    "Position",
						Required: true,
					},
					{
						Name:     "department",
						Type:     forms.FieldSelect,
						Label:    "Department",
						Required: true,
						Options:  entity.Departments(),
					},
					{
						Name:        "start_date",
						Type:        forms.FieldDate,
						Label:       "First working day",
						Required:    true,
						Placeholder: "2026-10-01",
					},
				},
			},
			{
				ID:    "location",
				Title: "Work location",
				Fields: []forms.FieldSpec{
					{
						Name:        "remote",
						Type:        forms.FieldBoolean,
						Label:       "Will you work remotely?",
						Description: "Office workers get a desk and equipment assigned.",
						Required:    true,
					},
				},
			},
			{
				ID:      "equipment",
				Title:   "Office setup",
				CanSkip: true,
				// Remote employees bring their own setup.
				Condition: func(allData forms.Data) bool {
					return !allData.GetBool("remote")
				},
				Fields: []forms.FieldSpec{
					{
						Name:    "equipment",
						Type:    forms.FieldMultiSelect,
						Label:   "Equipment you need",
						Options: []string{"Laptop", "Monitor", "Keyboard", "Headset", "Docking station"},
					},
				},
			},
			{
				ID:      "emergency",
				Title:   "Emergency contact",
				CanSkip: true,
				Fields: []forms.FieldSpec{
					{
						Name:        "emergency_contact",
						Type:        forms.FieldPhone,
						Label:       "Emergency contact phone",
						Placeholder: "+380501234567",
					},
				},
			},
		},
		Hooks: forms.Hooks{
			OnComplete: func(ctx context.Context, data forms.Data) forms.CompletionResult {
				info, _ := forms.SessionInfoFrom(ctx)

				record := entity.NewEmployee(info.UserID)
				record.FullName = data.GetText("full_name")
				record.Email = data.GetText("email")
				record.Phone = data.GetText("phone")
				record.Position = data.GetText("position")
				record.Department = data.GetText("department")
				record.StartDate = data.GetDate("start_date")
				record.Remote = data.GetBool("remote")
				record.Equipment = data.GetList("equipment")
				record.EmergencyContact = data.GetText("emergency_contact")

				if repo != nil {
					if err := repo.SaveEmployee(ctx, record); err != nil {
						log.Error("saving employee", sl.Err(err))
						return forms.CompletionResult{
							Errors: map[string]string{
								forms.StepErrorKey: "could not save your record, please try again",
							},
						}
					}
				}

				if exporter != nil {
					if err := exporter.ExportSubmission(ctx, info.FormID, info.UserID, data); err != nil {
						// Export is best effort; the record is already saved.
						log.Warn("exporting submission", sl.Err(err))
					}
				}

				if events != nil {
					events.BroadcastFormCompleted(info.UserID, info.FormID, data)
				}

				log.Info("employee intake completed",
					slog.Int64("user_id", info.UserID),
					slog.String("department", record.Department),
				)

				welcome := fmt.Sprintf("Welcome aboard, %s! Your record is on file; HR will be in touch before %s.",
					record.FullName, record.StartDate.Format("2006-01-02"))
				return forms.CompletionResult{Success: true, Data: data, Message: welcome}
			},
			OnCancel: func(ctx context.Context, data forms.Data) error {
				if info, ok := forms.SessionInfoFrom(ctx); ok && events != nil {
					events.BroadcastFormCancelled(info.UserID, info.FormID)
				}
				return nil
			},
		},
	}

	// Reject obviously past start dates before the step is accepted.
	cfg.Steps[1].Validator = func(data forms.Data) forms.ValidationResult {
		start := data.GetDate("start_date")
		if start.Before(time.Now().Truncate(24 * time.Hour)) {
			return forms.ValidationResult{Error: "First working day cannot be in the past"}
		}
		return forms.ValidationResult{Valid: true}
	}

	return engine.Register(cfg)
}

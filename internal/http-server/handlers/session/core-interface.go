package session

import (
	"StaffDesk/bot/forms"
	"context"
)

type Core interface {
	ActiveSessions(ctx context.Context, userID int64) ([]*forms.State, error)
	SessionView(ctx context.Context, userID int64, formID string) (*forms.StepView, error)
	CancelSession(ctx context.Context, userID int64, formID string) error
	ClearSessions(ctx context.Context, userID int64) error
}

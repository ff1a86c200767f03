package core

import (
	"StaffDesk/bot/forms"
	"StaffDesk/entity"
	"StaffDesk/internal/http-server/handlers/form"
	"StaffDesk/internal/lib/sl"
	"StaffDesk/internal/ws"
	"context"
	"fmt"
	"log/slog"
)

type Repository interface {
	CheckApiKey(key string) (string, error)
	GenerateApiKey(username string) (string, error)

	ListEmployees(ctx context.Context, department string) ([]*entity.Employee, error)

	SetLeaveStatus(ctx context.Context, uuid, status string) error
	ListLeaveRequests(ctx context.Context, status string) ([]*entity.LeaveRequest, error)
}

// Core backs the admin API and the dashboard websocket: it reads sessions
// through the form engine and records through the repository.
type Core struct {
	repo    Repository
	engine  *forms.Engine
	hub     *ws.Hub
	authKey string
	keys    map[string]string
	log     *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		log:  log.With(sl.Module("core")),
		keys: make(map[string]string),
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetEngine(engine *forms.Engine) {
	c.engine = engine
}

func (c *Core) SetHub(hub *ws.Hub) {
	c.hub = hub
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}

// AuthenticateByToken resolves an API token to a username. The configured
// master key maps to "admin"; everything else goes through the key store.
func (c *Core) AuthenticateByToken(token string) (string, error) {
	if c.authKey != "" && token == c.authKey {
		return "admin", nil
	}
	if username, ok := c.keys[token]; ok {
		return username, nil
	}
	if c.repo == nil {
		return "", fmt.Errorf("repository is not set")
	}

	username, err := c.repo.CheckApiKey(token)
	if err != nil {
		return "", err
	}
	c.keys[token] = username
	return username, nil
}

// ValidateToken implements the websocket authenticator.
func (c *Core) ValidateToken(token string) (string, error) {
	return c.AuthenticateByToken(token)
}

func (c *Core) GenerateApiKey(username string) (string, error) {
	if c.repo == nil {
		return "", fmt.Errorf("repository is not set")
	}

	apiKey, err := c.repo.GenerateApiKey(username)
	if err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}

	c.keys[apiKey] = username
	return apiKey, nil
}

func (c *Core) ListForms() []form.Summary {
	if c.engine == nil {
		return nil
	}

	registered := c.engine.Forms()
	summaries := make([]form.Summary, 0, len(registered))
	for _, f := range registered {
		summaries = append(summaries, form.Summary{
			ID:    f.ID(),
			Title: f.Title(),
			Steps: f.TotalSteps(),
		})
	}
	return summaries
}

func (c *Core) ActiveSessions(ctx context.Context, userID int64) ([]*forms.State, error) {
	if c.engine == nil {
		return nil, fmt.Errorf("form engine is not set")
	}
	return c.engine.ActiveSessions(ctx, userID)
}

func (c *Core) SessionView(ctx context.Context, userID int64, formID string) (*forms.StepView, error) {
	if c.engine == nil {
		return nil, fmt.Errorf("form engine is not set")
	}

	f := c.engine.Form(formID)
	if f == nil {
		return nil, fmt.Errorf("unknown form: %s", formID)
	}

	state, err := c.engine.Storage().Load(ctx, userID, formID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, nil
	}

	return f.View(state), nil
}

func (c *Core) CancelSession(ctx context.Context, userID int64, formID string) error {
	if c.engine == nil {
		return fmt.Errorf("form engine is not set")
	}

	f := c.engine.Form(formID)
	if f == nil {
		return fmt.Errorf("unknown form: %s", formID)
	}

	state, err := c.engine.Storage().Load(ctx, userID, formID)
	if err != nil {
		return err
	}
	if state == nil {
		return nil
	}

	if err := f.Cancel(ctx, state); err != nil {
		return err
	}
	if c.hub != nil {
		c.hub.BroadcastFormCancelled(userID, formID)
	}
	return nil
}

func (c *Core) ClearSessions(ctx context.Context, userID int64) error {
	if c.engine == nil {
		return fmt.Errorf("form engine is not set")
	}
	return c.engine.ClearUser(ctx, userID)
}

func (c *Core) ListEmployees(ctx context.Context, department string) ([]*entity.Employee, error) {
	if c.repo == nil {
		return nil, fmt.Errorf("repository is not set")
	}
	return c.repo.ListEmployees(ctx, department)
}

func (c *Core) ListLeaveRequests(ctx context.Context, status string) ([]*entity.LeaveRequest, error) {
	if c.repo == nil {
		return nil, fmt.Errorf("repository is not set")
	}
	return c.repo.ListLeaveRequests(ctx, status)
}

func (c *Core) DecideLeave(ctx context.Context, uuid, status string) error {
	if c.repo == nil {
		return fmt.Errorf("repository is not set")
	}
	return c.repo.SetLeaveStatus(ctx, uuid, status)
}

// HandleLeaveDecision implements the websocket client message handler.
func (c *Core) HandleLeaveDecision(username, requestUUID, status string) error {
	c.log.With(
		slog.String("username", username),
		slog.String("uuid", requestUUID),
		slog.String("status", status),
	).Info("leave decision")

	return c.DecideLeave(context.Background(), requestUUID, status)
}

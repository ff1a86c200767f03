package forms

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// Engine is the registry of form definitions sharing one storage backend.
// Registration happens at startup; lookups afterwards are concurrent.
type Engine struct {
	mu      sync.RWMutex
	forms   map[string]*Form
	storage Storage
	log     *slog.Logger
}

func NewEngine(storage Storage, log *slog.Logger) *Engine {
	return &Engine{
		forms:   make(map[string]*Form),
		storage: storage,
		log:     log,
	}
}

// Register builds the form for cfg and adds it to the registry. A duplicate
// form id is a definition-time invariant violation.
func (e *Engine) Register(cfg FormConfig) (*Form, error) {
	form, err := NewForm(cfg, e.storage, e.log)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, dup := e.forms[cfg.ID]; dup {
		return nil, invariant("form %s is already registered", cfg.ID)
	}
	e.forms[cfg.ID] = form

	e.log.Info("form registered",
		slog.String("form_id", cfg.ID),
		slog.Int("steps", len(cfg.Steps)),
	)
	return form, nil
}

// Form returns the registered form, or nil.
func (e *Engine) Form(id string) *Form {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.forms[id]
}

// Forms returns all registered forms ordered by id.
func (e *Engine) Forms() []*Form {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Form, 0, len(e.forms))
	for _, f := range e.forms {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Storage exposes the shared backend for frontends that inspect sessions
// directly.
func (e *Engine) Storage() Storage {
	return e.storage
}

// ActiveSessions returns the user's non-complete sessions across all forms.
func (e *Engine) ActiveSessions(ctx context.Context, userID int64) ([]*State, error) {
	return e.storage.AllActive(ctx, userID)
}

// ClearUser drops every stored session of the user without firing cancel
// hooks. Meant for admin cleanup, not for user-initiated cancel.
func (e *Engine) ClearUser(ctx context.Context, userID int64) error {
	return e.storage.Clear(ctx, userID)
}

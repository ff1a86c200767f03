package forms

import "context"

type sessionInfoKey struct{}

// SessionInfo identifies the session a hook is running for. The
// orchestrator places it on the context before firing any hook, so form
// definitions can reach the user without threading ids through every
// callback.
type SessionInfo struct {
	UserID int64
	ChatID int64
	FormID string
}

// WithSessionInfo attaches the session identity to the context.
func WithSessionInfo(ctx context.Context, info SessionInfo) context.Context {
	return context.WithValue(ctx, sessionInfoKey{}, info)
}

// SessionInfoFrom returns the session identity placed by the orchestrator.
func SessionInfoFrom(ctx context.Context) (SessionInfo, bool) {
	info, ok := ctx.Value(sessionInfoKey{}).(SessionInfo)
	return info, ok
}

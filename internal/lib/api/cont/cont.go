package cont

import "context"

type contextKey string

const userKey contextKey = "api-user"

// PutUser stores the authenticated API username in the request context.
func PutUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, userKey, username)
}

// GetUser returns the authenticated API username, or "" when absent.
func GetUser(ctx context.Context) string {
	if v, ok := ctx.Value(userKey).(string); ok {
		return v
	}
	return ""
}

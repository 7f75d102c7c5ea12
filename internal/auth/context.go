package auth

import "context"

type ctxKey string

const ctxUsernameKey ctxKey = "username"

func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ctxUsernameKey, username)
}

func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(ctxUsernameKey).(string)
	return username, ok && username != ""
}

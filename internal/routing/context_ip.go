package routing

import (
	"context"
)

// clientIPKey carries the resolved client IP from the HTTP layer down to the
// audit recorder.
type clientIPKey struct{}

func WithClientIP(ctx context.Context, ip string) context.Context {
	if ip == "" {
		return ctx
	}
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func ClientIPFromContext(ctx context.Context) string {
	v := ctx.Value(clientIPKey{})
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

package instrument

import "context"

type correlationIDKey struct{}

// CorrelationIDHeader is the HTTP header carrying the request correlation id.
const CorrelationIDHeader = "X-Correlation-ID"

// SetCorrelationID returns a copy of ctx carrying id.
func SetCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// GetCorrelationID returns the id stored by SetCorrelationID, or "".
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

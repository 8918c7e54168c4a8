package logger

import "context"

// RequestIDKey is the context key for request ID
const RequestIDKey = "X-Request-ID"

// GetRequestID extracts the request ID from the context, if present
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

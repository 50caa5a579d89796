package sessionctx

import "context"

// Context key type
type contextKey string

const investigationNameKey contextKey = "investigation_name"

// SetInvestigationName adds the active investigation name to request context
func SetInvestigationName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, investigationNameKey, name)
}

// GetInvestigationName retrieves the active investigation name from request context
func GetInvestigationName(ctx context.Context) string {
	if name, ok := ctx.Value(investigationNameKey).(string); ok {
		return name
	}
	return ""
}

package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Handlers and services enrich the context once; every slog.*Context call below them
// picks the fields up without repeating them.
type LogFields struct {
	HTTPRequestID  *string // X-Request-Id of the inbound call
	EventRequestID *int64  // event_requests.id
	PinID          *int64  // pins.id
	UID            *string // acting or affected user
	Component      string  // Component name (OTel semantic convention style, e.g., "pinboard.service.ledger")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
// Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.HTTPRequestID != nil {
		result.HTTPRequestID = new.HTTPRequestID
	}
	if new.EventRequestID != nil {
		result.EventRequestID = new.EventRequestID
	}
	if new.PinID != nil {
		result.PinID = new.PinID
	}
	if new.UID != nil {
		result.UID = new.UID
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{PinID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

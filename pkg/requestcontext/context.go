// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services read them. Keeping the package free
// of net/http lets domain code depend on it without pulling transport code in.
//
// Usage in services (read values):
//
//	adminID := requestcontext.AdminID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithAdminID(ctx, adminID)
package requestcontext

import (
	"context"
	"time"

	id "nachlass/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	adminIDKey     struct{}
	universeIDKey  struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyAdminID     = adminIDKey{}
	ContextKeyUniverseID  = universeIDKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// AdminID retrieves the authenticated admin's member ID from the context.
// Returns the zero value if not set.
func AdminID(ctx context.Context) id.MemberID {
	if adminID, ok := ctx.Value(ContextKeyAdminID).(id.MemberID); ok {
		return adminID
	}
	return id.MemberID{}
}

// WithAdminID injects the authenticated admin's member ID into the context.
func WithAdminID(ctx context.Context, adminID id.MemberID) context.Context {
	return context.WithValue(ctx, ContextKeyAdminID, adminID)
}

// UniverseID retrieves the tenant universe ID from the context.
// Returns the zero value if not set.
func UniverseID(ctx context.Context) id.UniverseID {
	if universeID, ok := ctx.Value(ContextKeyUniverseID).(id.UniverseID); ok {
		return universeID
	}
	return id.UniverseID{}
}

// WithUniverseID injects the tenant universe ID into the context.
func WithUniverseID(ctx context.Context, universeID id.UniverseID) context.Context {
	return context.WithValue(ctx, ContextKeyUniverseID, universeID)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() for non-HTTP contexts (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the full HTTP middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

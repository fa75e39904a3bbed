package testutil

import (
	"context"
	"net/http"

	id "nachlass/pkg/domain"
	"nachlass/pkg/requestcontext"
)

// WithUniverseID scopes the request to a universe.
// This simulates what the auth middleware would do for authenticated requests.
func WithUniverseID(req *http.Request, universeID id.UniverseID) *http.Request {
	ctx := requestcontext.WithUniverseID(req.Context(), universeID)
	return req.WithContext(ctx)
}

// WithAdminID records the acting admin member on the request context.
func WithAdminID(req *http.Request, adminID id.MemberID) *http.Request {
	ctx := requestcontext.WithAdminID(req.Context(), adminID)
	return req.WithContext(ctx)
}

// WithAuth adds both universe and admin scope to the request context.
// This is the typical state for an authenticated request.
func WithAuth(req *http.Request, universeID id.UniverseID, adminID id.MemberID) *http.Request {
	ctx := requestcontext.WithUniverseID(req.Context(), universeID)
	ctx = requestcontext.WithAdminID(ctx, adminID)
	return req.WithContext(ctx)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}

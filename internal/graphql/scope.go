// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

// Package graphql exposes the forum API as a GraphQL schema over HTTP.
//
// The schema is constructed programmatically; resolvers reach the current
// request's session through an explicit Scope carried in the context, never
// through globals.
package graphql

import (
	"context"

	"github.com/oklog/ulid/v2"

	"github.com/nerdam/nerdam/internal/session"
)

// Scope is the per-request state resolvers operate on. The HTTP handler
// builds one per request, closing Issue and Clear over the response writer
// so the cookie transport never leaks into resolver code.
type Scope struct {
	// Session is the resolved session, nil for anonymous requests.
	Session *session.Session

	// SessionErr is a session store failure during resolution. Resolvers
	// that need the session surface it instead of treating the request as
	// anonymous.
	SessionErr error

	// Issue creates a session for the user and sets the cookie.
	Issue func(ctx context.Context, userID ulid.ULID) error

	// Clear deletes the current session and expires the cookie.
	Clear func(ctx context.Context) error
}

type scopeKey struct{}

// NewContext returns a context carrying the request scope.
func NewContext(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// FromContext extracts the request scope. Returns nil if the context was
// not built by the HTTP handler.
func FromContext(ctx context.Context) *Scope {
	scope, _ := ctx.Value(scopeKey{}).(*Scope)
	return scope
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

package graphql

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/oklog/ulid/v2"

	"github.com/nerdam/nerdam/internal/session"
)

// Metrics counts API activity. Implementations must be safe for concurrent
// use; a nil Metrics disables counting.
type Metrics interface {
	// RecordRequest counts one executed GraphQL request.
	RecordRequest(failed bool)

	// RecordAuthAttempt counts one register or login attempt.
	RecordAuthAttempt(operation, outcome string)
}

// Handler serves the GraphQL endpoint. It resolves the request's session
// into a Scope before execution so resolvers stay transport-agnostic.
type Handler struct {
	schema   graphql.Schema
	sessions *session.Manager
	logger   *slog.Logger
	metrics  Metrics
}

// NewHandler creates a Handler.
func NewHandler(schema graphql.Schema, sessions *session.Manager, logger *slog.Logger, metrics Metrics) *Handler {
	return &Handler{
		schema:   schema,
		sessions: sessions,
		logger:   logger,
		metrics:  metrics,
	}
}

// request is the standard GraphQL HTTP payload.
type request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// ServeHTTP executes a single GraphQL request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrors(w, http.StatusBadRequest, "malformed request body")
		return
	}

	sess, sessErr := h.sessions.Resolve(r.Context(), r)
	if sessErr != nil {
		h.logger.ErrorContext(r.Context(), "session resolution failed",
			slog.Any("error", sessErr),
		)
	}

	scope := &Scope{
		Session:    sess,
		SessionErr: sessErr,
		Issue: func(ctx context.Context, userID ulid.ULID) error {
			return h.sessions.Issue(ctx, w, userID)
		},
		Clear: func(ctx context.Context) error {
			return h.sessions.Clear(ctx, w, sess)
		},
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        NewContext(r.Context(), scope),
	})

	if h.metrics != nil {
		h.metrics.RecordRequest(result.HasErrors())
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.ErrorContext(r.Context(), "response encoding failed",
			slog.Any("error", err),
		)
	}
}

// writeErrors emits a GraphQL-shaped error response without executing.
func (h *Handler) writeErrors(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	result := graphql.Result{
		Errors: []gqlerrors.FormattedError{{Message: message}},
	}
	_ = json.NewEncoder(w).Encode(result)
}

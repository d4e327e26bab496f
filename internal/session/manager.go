// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

package session

import (
	"context"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Options configures the session cookie transport.
type Options struct {
	// Name is the cookie name.
	Name string

	// MaxAge bounds both the cookie and the store record's TTL.
	MaxAge time.Duration

	// Secure restricts the cookie to encrypted transport. Required in
	// production.
	Secure bool

	// Secret keys the HMAC applied to tokens before storage.
	Secret string
}

// Session is a resolved, authenticated session for the current request.
type Session struct {
	UserID    ulid.ULID
	tokenHash string
}

// Manager issues, resolves, and clears sessions over the cookie transport.
type Manager struct {
	store Store
	opts  Options
}

// NewManager creates a Manager.
func NewManager(store Store, opts Options) *Manager {
	return &Manager{store: store, opts: opts}
}

// Issue creates a session for the user and sets the cookie on the response.
// Called only after successful register or login, so anonymous requests
// never create store entries.
func (m *Manager) Issue(ctx context.Context, w http.ResponseWriter, userID ulid.ULID) error {
	token, tokenHash, err := GenerateToken(m.opts.Secret)
	if err != nil {
		return err
	}

	rec := Record{UserID: userID, CreatedAt: time.Now()}
	if err := m.store.Save(ctx, tokenHash, rec, m.opts.MaxAge); err != nil {
		return oops.Code("SESSION_ISSUE_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.opts.MaxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.opts.Secure,
	})
	return nil
}

// Resolve reads the request's session cookie and looks it up in the store.
// Returns (nil, nil) for anonymous requests and for stale cookies whose
// record has expired or been deleted. A store failure is returned as an
// error so callers surface it instead of treating it as "logged out".
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.opts.Name)
	if err != nil {
		// http.ErrNoCookie: anonymous request.
		return nil, nil //nolint:nilerr // absence of a cookie is not an error
	}

	tokenHash := HashToken(m.opts.Secret, cookie.Value)
	rec, ok, err := m.store.Get(ctx, tokenHash)
	if err != nil {
		return nil, oops.Code("SESSION_RESOLVE_FAILED").Wrap(err)
	}
	if !ok {
		return nil, nil
	}

	return &Session{UserID: rec.UserID, tokenHash: tokenHash}, nil
}

// Clear deletes the session's store record and expires the cookie.
// Clearing an anonymous request is a no-op.
func (m *Manager) Clear(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess != nil {
		if err := m.store.Delete(ctx, sess.tokenHash); err != nil {
			return oops.Code("SESSION_CLEAR_FAILED").Wrap(err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.opts.Secure,
	})
	return nil
}

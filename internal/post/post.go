// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

// Package post provides forum posts authored by registered users.
package post

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Post is a forum post.
type Post struct {
	ID        ulid.ULID
	Title     string
	AuthorID  ulid.ULID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPost creates a validated Post with a fresh ULID.
func NewPost(title string, authorID ulid.ULID) (*Post, error) {
	if title == "" {
		return nil, oops.Code("POST_INVALID_TITLE").Errorf("title cannot be empty")
	}
	if authorID == (ulid.ULID{}) {
		return nil, oops.Code("POST_INVALID_AUTHOR").Errorf("author id cannot be zero")
	}

	now := time.Now()
	return &Post{
		ID:        ulid.Make(),
		Title:     title,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Repository manages post persistence.
type Repository interface {
	// Create stores a new post.
	Create(ctx context.Context, post *Post) error

	// GetByID retrieves a post by ID. Returns an error wrapping ErrNotFound
	// if no such post exists.
	GetByID(ctx context.Context, id ulid.ULID) (*Post, error)

	// List retrieves up to limit posts, newest first. A non-positive limit
	// means no limit.
	List(ctx context.Context, limit int) ([]*Post, error)
}

// ErrNotFound is returned when a post doesn't exist.
var ErrNotFound = oops.Code("POST_NOT_FOUND").Errorf("post not found")

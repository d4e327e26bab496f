// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

package post

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service provides post creation and retrieval.
// Creation requires an authenticated author; callers resolve the session
// before invoking it.
type Service struct {
	posts Repository
}

// NewService creates a new Service.
func NewService(posts Repository) *Service {
	return &Service{posts: posts}
}

// Create persists a new post for the author.
func (s *Service) Create(ctx context.Context, title string, authorID ulid.ULID) (*Post, error) {
	post, err := NewPost(title, authorID)
	if err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, oops.Code("POST_CREATE_FAILED").
			With("author_id", authorID.String()).
			Wrap(err)
	}
	return post, nil
}

// Get retrieves a single post. A missing post resolves to nil, not an error.
func (s *Service) Get(ctx context.Context, id ulid.ULID) (*Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, oops.Code("POST_GET_FAILED").
			With("post_id", id.String()).
			Wrap(err)
	}
	return post, nil
}

// List retrieves up to limit posts, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]*Post, error) {
	posts, err := s.posts.List(ctx, limit)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").Wrap(err)
	}
	return posts, nil
}

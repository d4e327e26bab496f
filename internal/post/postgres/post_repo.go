// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

// Package postgres implements post repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/nerdam/nerdam/internal/post"
)

// pool abstracts *pgxpool.Pool for testing with pgxmock.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostRepository implements post.Repository using PostgreSQL.
type PostRepository struct {
	pool pool
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(pool pool) *PostRepository {
	return &PostRepository{pool: pool}
}

// Create stores a new post.
func (r *PostRepository) Create(ctx context.Context, p *post.Post) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO posts (id, title, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		p.ID.String(),
		p.Title,
		p.AuthorID.String(),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return oops.Code("POST_CREATE_FAILED").
			With("operation", "insert post").
			With("post_id", p.ID.String()).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a post by ID.
func (r *PostRepository) GetByID(ctx context.Context, id ulid.ULID) (*post.Post, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, author_id, created_at, updated_at
		FROM posts
		WHERE id = $1
	`, id.String())

	p, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("POST_NOT_FOUND").
			With("post_id", id.String()).
			Wrap(post.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("POST_GET_FAILED").
			With("operation", "get post by id").
			With("post_id", id.String()).
			Wrap(err)
	}
	return p, nil
}

// List retrieves up to limit posts, newest first. ULIDs sort
// lexicographically by creation time, so ordering by id is ordering by age.
func (r *PostRepository) List(ctx context.Context, limit int) ([]*post.Post, error) {
	query := `
		SELECT id, title, author_id, created_at, updated_at
		FROM posts
		ORDER BY id DESC
	`
	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.pool.Query(ctx, query+` LIMIT $1`, limit)
	} else {
		rows, err = r.pool.Query(ctx, query)
	}
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "list posts").
			Wrap(err)
	}
	defer rows.Close()

	var posts []*post.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, oops.Code("POST_LIST_FAILED").
				With("operation", "scan post").
				Wrap(err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "iterate posts").
			Wrap(err)
	}
	return posts, nil
}

// scanPost scans a single row into a Post.
// Callers are responsible for handling pgx.ErrNoRows.
func scanPost(row pgx.Row) (*post.Post, error) {
	var (
		idStr       string
		title       string
		authorIDStr string
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&idStr, &title, &authorIDStr, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("POST_SCAN_FAILED").
			With("operation", "scan post").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("POST_INVALID_ID").
			With("id", idStr).
			Wrap(err)
	}
	authorID, err := ulid.Parse(authorIDStr)
	if err != nil {
		return nil, oops.Code("POST_INVALID_AUTHOR_ID").
			With("author_id", authorIDStr).
			Wrap(err)
	}

	return &post.Post{
		ID:        id,
		Title:     title,
		AuthorID:  authorID,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// Compile-time interface check.
var _ post.Repository = (*PostRepository)(nil)

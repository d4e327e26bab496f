// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

package graphql

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/oklog/ulid/v2"

	"github.com/nerdam/nerdam/internal/auth"
	"github.com/nerdam/nerdam/internal/post"
)

// postsPageSize caps the posts listing.
const postsPageSize = 50

// Client-facing resolver errors. Infrastructure failures are logged with
// full context and collapsed to errInternal so responses never carry
// internal detail.
var (
	errInternal        = errors.New("internal server error")
	errNotLoggedIn     = errors.New("not authenticated")
	errEmptyTitle      = errors.New("title cannot be empty")
	errMissingScope    = errors.New("request scope missing")
	errInvalidPostID   = errors.New("invalid post id")
	errMissingOptions  = errors.New("options argument is required")
	errMissingUsername = errors.New("username is required")
	errMissingPassword = errors.New("password is required")
)

// View types returned by resolvers. Field resolution follows the json tags.
type userView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

type fieldErrorView struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type userResponseView struct {
	Errors []fieldErrorView `json:"errors"`
	User   *userView        `json:"user"`
}

type postView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func viewUser(u *auth.User) *userView {
	if u == nil {
		return nil
	}
	return &userView{
		ID:        u.ID.String(),
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

func viewFieldErrors(errs []auth.FieldError) []fieldErrorView {
	if len(errs) == 0 {
		return nil
	}
	out := make([]fieldErrorView, len(errs))
	for i, e := range errs {
		out[i] = fieldErrorView{Field: e.Field, Message: e.Message}
	}
	return out
}

func viewPost(p *post.Post) *postView {
	if p == nil {
		return nil
	}
	return &postView{
		ID:        p.ID.String(),
		Title:     p.Title,
		AuthorID:  p.AuthorID.String(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// schemaBuilder wires the services into resolvers.
type schemaBuilder struct {
	auth    *auth.Service
	posts   *post.Service
	logger  *slog.Logger
	metrics Metrics
}

// NewSchema constructs the executable schema over the given services.
// A nil metrics disables counting.
func NewSchema(authSvc *auth.Service, postSvc *post.Service, logger *slog.Logger, metrics Metrics) (graphql.Schema, error) {
	b := &schemaBuilder{auth: authSvc, posts: postSvc, logger: logger, metrics: metrics}
	return b.build()
}

// recordAuthAttempt reports a register or login outcome when metrics are
// enabled.
func (b *schemaBuilder) recordAuthAttempt(operation string, failed bool) {
	if b.metrics == nil {
		return
	}
	outcome := "success"
	if failed {
		outcome = "failure"
	}
	b.metrics.RecordAuthAttempt(operation, outcome)
}

// internalError logs the underlying failure and returns the generic error
// exposed to clients.
func (b *schemaBuilder) internalError(ctx context.Context, operation string, err error) error {
	b.logger.ErrorContext(ctx, "resolver failed",
		slog.String("operation", operation),
		slog.Any("error", err),
	)
	return errInternal
}

// scope extracts the request scope, surfacing a deferred session store
// failure for resolvers that depend on the session.
func (b *schemaBuilder) scope(ctx context.Context, operation string) (*Scope, error) {
	scope := FromContext(ctx)
	if scope == nil {
		return nil, b.internalError(ctx, operation, errMissingScope)
	}
	if scope.SessionErr != nil {
		return nil, b.internalError(ctx, operation, scope.SessionErr)
	}
	return scope, nil
}

func credentialsArg(p graphql.ResolveParams) (username, password string, err error) {
	options, ok := p.Args["options"].(map[string]any)
	if !ok {
		return "", "", errMissingOptions
	}
	username, ok = options["username"].(string)
	if !ok {
		return "", "", errMissingUsername
	}
	password, ok = options["password"].(string)
	if !ok {
		return "", "", errMissingPassword
	}
	return username, password, nil
}

//nolint:funlen // Schema construction is one declarative block.
func (b *schemaBuilder) build() (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"username":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	fieldErrorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FieldError",
		Fields: graphql.Fields{
			"field":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"message": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	userResponseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "UserResponse",
		Fields: graphql.Fields{
			"errors": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(fieldErrorType))},
			"user":   &graphql.Field{Type: userType},
		},
	})

	postType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"authorId":  &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	credentialsInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UsernamePasswordInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"username": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(graphql.ResolveParams) (any, error) {
					return "hello", nil
				},
			},
			"me": &graphql.Field{
				Type:    userType,
				Resolve: b.resolveMe,
			},
			"posts": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(postType))),
				Resolve: b.resolvePosts,
			},
			"post": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: b.resolvePost,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: graphql.NewNonNull(userResponseType),
				Args: graphql.FieldConfigArgument{
					"options": &graphql.ArgumentConfig{Type: graphql.NewNonNull(credentialsInput)},
				},
				Resolve: b.resolveRegister,
			},
			"login": &graphql.Field{
				Type: graphql.NewNonNull(userResponseType),
				Args: graphql.FieldConfigArgument{
					"options": &graphql.ArgumentConfig{Type: graphql.NewNonNull(credentialsInput)},
				},
				Resolve: b.resolveLogin,
			},
			"logout": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Resolve: b.resolveLogout,
			},
			"createPost": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"title": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: b.resolveCreatePost,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{ //nolint:wrapcheck // Schema errors surface at startup
		Query:    queryType,
		Mutation: mutationType,
	})
}

func (b *schemaBuilder) resolveMe(p graphql.ResolveParams) (any, error) {
	scope, err := b.scope(p.Context, "me")
	if err != nil {
		return nil, err
	}
	if scope.Session == nil {
		return nil, nil
	}

	user, err := b.auth.Me(p.Context, scope.Session.UserID)
	if err != nil {
		return nil, b.internalError(p.Context, "me", err)
	}
	if user == nil {
		return nil, nil
	}
	return viewUser(user), nil
}

func (b *schemaBuilder) resolveRegister(p graphql.ResolveParams) (any, error) {
	scope, err := b.scope(p.Context, "register")
	if err != nil {
		return nil, err
	}
	username, password, err := credentialsArg(p)
	if err != nil {
		return nil, err
	}

	res, err := b.auth.Register(p.Context, username, password)
	if err != nil {
		return nil, b.internalError(p.Context, "register", err)
	}
	b.recordAuthAttempt("register", res.Failed())
	if res.Failed() {
		return &userResponseView{Errors: viewFieldErrors(res.Errors)}, nil
	}

	if err := scope.Issue(p.Context, res.User.ID); err != nil {
		return nil, b.internalError(p.Context, "register", err)
	}
	return &userResponseView{User: viewUser(res.User)}, nil
}

func (b *schemaBuilder) resolveLogin(p graphql.ResolveParams) (any, error) {
	scope, err := b.scope(p.Context, "login")
	if err != nil {
		return nil, err
	}
	username, password, err := credentialsArg(p)
	if err != nil {
		return nil, err
	}

	res, err := b.auth.Login(p.Context, username, password)
	if err != nil {
		return nil, b.internalError(p.Context, "login", err)
	}
	b.recordAuthAttempt("login", res.Failed())
	if res.Failed() {
		return &userResponseView{Errors: viewFieldErrors(res.Errors)}, nil
	}

	if err := scope.Issue(p.Context, res.User.ID); err != nil {
		return nil, b.internalError(p.Context, "login", err)
	}
	return &userResponseView{User: viewUser(res.User)}, nil
}

// resolveLogout clears the session. Logging out without a session is
// idempotent and still succeeds.
func (b *schemaBuilder) resolveLogout(p graphql.ResolveParams) (any, error) {
	scope, err := b.scope(p.Context, "logout")
	if err != nil {
		return nil, err
	}

	if err := scope.Clear(p.Context); err != nil {
		return nil, b.internalError(p.Context, "logout", err)
	}
	return true, nil
}

func (b *schemaBuilder) resolvePosts(p graphql.ResolveParams) (any, error) {
	posts, err := b.posts.List(p.Context, postsPageSize)
	if err != nil {
		return nil, b.internalError(p.Context, "posts", err)
	}

	out := make([]*postView, len(posts))
	for i, pp := range posts {
		out[i] = viewPost(pp)
	}
	return out, nil
}

func (b *schemaBuilder) resolvePost(p graphql.ResolveParams) (any, error) {
	idStr, _ := p.Args["id"].(string)
	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, errInvalidPostID
	}

	found, err := b.posts.Get(p.Context, id)
	if err != nil {
		return nil, b.internalError(p.Context, "post", err)
	}
	if found == nil {
		return nil, nil
	}
	return viewPost(found), nil
}

func (b *schemaBuilder) resolveCreatePost(p graphql.ResolveParams) (any, error) {
	scope, err := b.scope(p.Context, "createPost")
	if err != nil {
		return nil, err
	}
	if scope.Session == nil {
		return nil, errNotLoggedIn
	}

	title, _ := p.Args["title"].(string)
	if title == "" {
		return nil, errEmptyTitle
	}

	created, err := b.posts.Create(p.Context, title, scope.Session.UserID)
	if err != nil {
		return nil, b.internalError(p.Context, "createPost", err)
	}
	return viewPost(created), nil
}

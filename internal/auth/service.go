// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

package auth

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Result is the outcome of a register or login attempt.
// Exactly one of Errors or User is populated: field errors mean the attempt
// was rejected and nothing was persisted; a user means the attempt succeeded.
type Result struct {
	Errors []FieldError
	User   *User
}

// Failed reports whether the attempt was rejected.
func (r *Result) Failed() bool {
	return len(r.Errors) > 0
}

// Service provides registration and login.
// Session issuance is not handled here; callers issue a session after a
// successful Result so the cookie transport stays at the HTTP boundary.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
}

// NewService creates a new Service.
func NewService(users UserRepository, hasher PasswordHasher) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
	}
}

// dummyPasswordHash is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register validates the credentials, hashes the password, and persists a
// new user. A duplicate username surfaces as a field error, produced by the
// storage unique index rather than a racy pre-insert existence check.
func (s *Service) Register(ctx context.Context, username, password string) (*Result, error) {
	if fieldErrs := ValidateCredentials(username, password); fieldErrs != nil {
		return &Result{Errors: fieldErrs}, nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(username, hash)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return &Result{Errors: []FieldError{{Field: "username", Message: msgUsernameTaken}}}, nil
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "persist user").
			With("username", username).
			Wrap(err)
	}

	return &Result{User: user}, nil
}

// Login authenticates a username/password pair.
// The lookup is case-insensitive, matching registration's uniqueness rule.
// Uses constant-time operations to prevent timing-based username enumeration.
//
// The distinct "username does not exist" and "password is wrong" messages
// deliberately reproduce the product's behavior; the account-existence leak
// is a documented design choice, not an accident.
func (s *Service) Login(ctx context.Context, username, password string) (*Result, error) {
	user, lookupErr := s.users.GetByUsername(ctx, username)

	// Determine which hash to verify against (real or dummy for timing attack prevention)
	targetHash := dummyPasswordHash
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by username").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	// Always verify (constant-time operation for timing attack prevention)
	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return &Result{Errors: []FieldError{{Field: "username", Message: msgUsernameUnknown}}}, nil
		}
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists {
		return &Result{Errors: []FieldError{{Field: "username", Message: msgUsernameUnknown}}}, nil
	}
	if !valid {
		return &Result{Errors: []FieldError{{Field: "password", Message: msgPasswordWrong}}}, nil
	}

	return &Result{User: user}, nil
}

// Me resolves the current user from a session's user ID.
// A stale session referencing a deleted user resolves to nil, not an error.
func (s *Service) Me(ctx context.Context, userID ulid.ULID) (*User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, oops.Code("AUTH_ME_FAILED").
			With("operation", "get user by id").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return user, nil
}

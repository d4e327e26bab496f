// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned by UserRepository.Create when the username
// unique index rejects the insert. This is how duplicate registration is
// detected; there is no pre-insert existence check, so two concurrent
// registrations can never both succeed.
var ErrUsernameTaken = errors.New("username taken")

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

// Package auth provides user accounts and credential handling for nerdam.
//
// # Domain Types
//
// User should be created via NewUser, which validates inputs and assigns
// a ULID. Direct struct initialization bypasses validation and may create
// invalid state.
//
// # Validation vs. authentication
//
// Credential validation failures and authentication failures are not Go
// errors: they are FieldError values inside a Result, returned to the
// client inline. Go errors from this package are infrastructure failures
// (database, hasher) and carry oops codes.
package auth

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

package auth

import "unicode/utf8"

// Credential length rules, counted in characters, not bytes. Both are
// strict "greater than" checks: a 5-character username and a 16-character
// password are rejected.
const (
	usernameMinLength = 5
	passwordMinLength = 16
)

// Client-facing validation messages.
const (
	msgUsernameTaken    = "Username already exists."
	msgUsernameTooShort = "Username is too short."
	msgPasswordTooShort = "Password must be at least 16 characters."
	msgUsernameUnknown  = "Username does not exist"
	msgPasswordWrong    = "Password is wrong"
)

// FieldError is a validation or authentication failure scoped to a single
// input field. It is returned inline in responses, never as a Go error.
type FieldError struct {
	Field   string
	Message string
}

// ValidateCredentials applies the local registration rules to a
// username/password pair, short-circuiting at the first failure per field.
// An empty result means the credentials are acceptable. Username uniqueness
// is not checked here; it is enforced by the storage layer's unique index.
func ValidateCredentials(username, password string) []FieldError {
	if utf8.RuneCountInString(username) <= usernameMinLength {
		return []FieldError{{Field: "username", Message: msgUsernameTooShort}}
	}
	if utf8.RuneCountInString(password) <= passwordMinLength {
		return []FieldError{{Field: "password", Message: msgPasswordTooShort}}
	}
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nerdam/nerdam/internal/auth"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		want     []auth.FieldError
	}{
		{
			name:     "acceptable credentials",
			username: "validuser",
			password: "a very long password",
			want:     nil,
		},
		{
			name:     "five character username rejected",
			username: "abcde",
			password: "a very long password",
			want:     []auth.FieldError{{Field: "username", Message: "Username is too short."}},
		},
		{
			name:     "six character username accepted",
			username: "abcdef",
			password: "a very long password",
			want:     nil,
		},
		{
			name:     "five character multi-byte username rejected",
			username: "héllo",
			password: "a very long password",
			want:     []auth.FieldError{{Field: "username", Message: "Username is too short."}},
		},
		{
			name:     "six character multi-byte username accepted",
			username: "héllos",
			password: "a very long password",
			want:     nil,
		},
		{
			name:     "sixteen character multi-byte password rejected",
			username: "validuser",
			password: "mötley crüe rock",
			want:     []auth.FieldError{{Field: "password", Message: "Password must be at least 16 characters."}},
		},
		{
			name:     "sixteen character password rejected",
			username: "validuser",
			password: "exactly16chars!!",
			want:     []auth.FieldError{{Field: "password", Message: "Password must be at least 16 characters."}},
		},
		{
			name:     "seventeen character password accepted",
			username: "validuser",
			password: "exactly17chars!!!",
			want:     nil,
		},
		{
			name:     "short username reported before short password",
			username: "abc",
			password: "short",
			want:     []auth.FieldError{{Field: "username", Message: "Username is too short."}},
		},
		{
			name:     "empty credentials",
			username: "",
			password: "",
			want:     []auth.FieldError{{Field: "username", Message: "Username is too short."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := auth.ValidateCredentials(tt.username, tt.password)
			assert.Equal(t, tt.want, got)
		})
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

// Package session provides cookie-transported sessions backed by Redis.
//
// The client holds an opaque random token in a cookie; the server stores
// only an HMAC of the token keyed by the session secret, mapped to the
// logged-in user's ID. Nothing is written to the store for anonymous
// requests, and reads never refresh the record's TTL.
package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/samber/oops"
)

// tokenBytes is the size of the random session token (64 hex chars on the wire).
const tokenBytes = 32

// GenerateToken creates a secure random token and its keyed hash.
// Returns (plaintext_token, hmac_hash, error).
// The plaintext token is sent to the client; only the hash is stored, so a
// leaked store dump cannot be replayed as cookies without the secret.
func GenerateToken(secret string) (token, hash string, err error) {
	raw := make([]byte, tokenBytes)
	if _, err = rand.Read(raw); err != nil {
		return "", "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			Wrap(err)
	}

	token = hex.EncodeToString(raw)
	return token, HashToken(secret, token), nil
}

// HashToken computes the HMAC-SHA256 of a session token under the secret.
func HashToken(secret, token string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// keyPrefix namespaces session records in the backing store.
const keyPrefix = "sess:"

// Record is the server-side session state keyed by token hash.
type Record struct {
	UserID    ulid.ULID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists session records in a key-value backing store.
//
// A store failure is an error, never a miss: callers must not confuse an
// unreachable store with "logged out", or an infrastructure outage would
// silently log everyone out.
type Store interface {
	// Save writes a record under the token hash with the given TTL.
	Save(ctx context.Context, tokenHash string, rec Record, ttl time.Duration) error

	// Get retrieves the record for a token hash.
	// Returns ok=false (with nil error) when no record exists.
	Get(ctx context.Context, tokenHash string) (rec Record, ok bool, err error)

	// Delete removes the record for a token hash. Deleting a missing
	// record is not an error.
	Delete(ctx context.Context, tokenHash string) error
}

// RedisStore implements Store using Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore over an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Save writes a record under the token hash with the given TTL.
func (s *RedisStore) Save(ctx context.Context, tokenHash string, rec Record, ttl time.Duration) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return oops.Code("SESSION_SAVE_FAILED").
			With("operation", "marshal record").
			Wrap(err)
	}

	if err := s.client.Set(ctx, keyPrefix+tokenHash, payload, ttl).Err(); err != nil {
		return oops.Code("SESSION_SAVE_FAILED").
			With("operation", "redis set").
			Wrap(err)
	}
	return nil
}

// Get retrieves the record for a token hash. The read does not refresh the
// record's TTL.
func (s *RedisStore) Get(ctx context.Context, tokenHash string) (Record, bool, error) {
	payload, err := s.client.Get(ctx, keyPrefix+tokenHash).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, oops.Code("SESSION_GET_FAILED").
			With("operation", "redis get").
			Wrap(err)
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return Record{}, false, oops.Code("SESSION_GET_FAILED").
			With("operation", "unmarshal record").
			Wrap(err)
	}
	return rec, true, nil
}

// Delete removes the record for a token hash.
func (s *RedisStore) Delete(ctx context.Context, tokenHash string) error {
	if err := s.client.Del(ctx, keyPrefix+tokenHash).Err(); err != nil {
		return oops.Code("SESSION_DELETE_FAILED").
			With("operation", "redis del").
			Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ Store = (*RedisStore)(nil)

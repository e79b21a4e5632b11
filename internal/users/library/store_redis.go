// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

// Redis implementation of the library [Store].
//
// Each user owns one hash at library:state:<userID> with JSON-encoded
// fields (favorites, wishlist, reviews, settings). Membership toggles are
// read-modify-write on the affected field only; cross-user contention does
// not exist because keys are per-user.

package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tranhoangviet/noveria/pkg/slice"
)

// Hash field names inside the per-user state key.
const (
	fieldFavorites = "favorites"
	fieldWishlist  = "wishlist"
	fieldReviews   = "reviews"
	fieldSettings  = "settings"
)

// RedisStore implements [Store] using a per-user Redis hash.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates the Redis implementation of the library [Store].
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func stateKey(userID string) string {
	return fmt.Sprintf("library:state:%s", userID)
}

/*
Load assembles the user's full state from the hash fields.

Description: A missing key or missing fields yield the default-initialized
state; partial state (e.g. only settings stored) merges over the defaults.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *UserState: Hydrated or default-initialized state
  - error: Retrieval or decode failures
*/
func (store *RedisStore) Load(context context.Context, userID string) (*UserState, error) {
	fields, err := store.client.HGetAll(context, stateKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis_library_load_failed: %w", err)
	}

	state := NewUserState()

	if raw, found := fields[fieldFavorites]; found {
		if err := json.Unmarshal([]byte(raw), &state.Favorites); err != nil {
			return nil, fmt.Errorf("redis_library_decode_favorites_failed: %w", err)
		}
	}
	if raw, found := fields[fieldWishlist]; found {
		if err := json.Unmarshal([]byte(raw), &state.Wishlist); err != nil {
			return nil, fmt.Errorf("redis_library_decode_wishlist_failed: %w", err)
		}
	}
	if raw, found := fields[fieldReviews]; found {
		if err := json.Unmarshal([]byte(raw), &state.Reviews); err != nil {
			return nil, fmt.Errorf("redis_library_decode_reviews_failed: %w", err)
		}
	}
	if raw, found := fields[fieldSettings]; found {
		if err := json.Unmarshal([]byte(raw), &state.Settings); err != nil {
			return nil, fmt.Errorf("redis_library_decode_settings_failed: %w", err)
		}
	}

	return state, nil
}

/*
SetFavorite rewrites the favorites field with the novel added or removed.

Parameters:
  - context: context.Context
  - userID: string
  - novelID: string
  - favorited: bool

Returns:
  - error: Persistence failures
*/
func (store *RedisStore) SetFavorite(context context.Context, userID, novelID string, favorited bool) error {
	return store.setMembership(context, userID, fieldFavorites, novelID, favorited)
}

/*
SetWishlisted rewrites the wishlist field with the novel added or removed.

Parameters:
  - context: context.Context
  - userID: string
  - novelID: string
  - wishlisted: bool

Returns:
  - error: Persistence failures
*/
func (store *RedisStore) SetWishlisted(context context.Context, userID, novelID string, wishlisted bool) error {
	return store.setMembership(context, userID, fieldWishlist, novelID, wishlisted)
}

// setMembership performs the read-modify-write on one ID list field.
func (store *RedisStore) setMembership(context context.Context, userID, field, novelID string, member bool) error {
	key := stateKey(userID)

	ids := []string{}
	raw, err := store.client.HGet(context, key, field).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis_library_get_%s_failed: %w", field, err)
	}
	if err == nil {
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return fmt.Errorf("redis_library_decode_%s_failed: %w", field, err)
		}
	}

	if member {
		if !slice.Contains(ids, novelID) {
			ids = append(ids, novelID)
		}
	} else {
		ids = removeID(ids, novelID)
	}

	return store.writeField(context, key, field, ids)
}

/*
UpsertReview rewrites the reviews field with the review set.

Parameters:
  - context: context.Context
  - userID: string
  - novelID: string
  - review: Review

Returns:
  - error: Persistence failures
*/
func (store *RedisStore) UpsertReview(context context.Context, userID, novelID string, review Review) error {
	return store.updateReviews(context, userID, func(reviews map[string]Review) {
		reviews[novelID] = review
	})
}

/*
DeleteReview rewrites the reviews field with the review removed.

Parameters:
  - context: context.Context
  - userID: string
  - novelID: string

Returns:
  - error: Persistence failures
*/
func (store *RedisStore) DeleteReview(context context.Context, userID, novelID string) error {
	return store.updateReviews(context, userID, func(reviews map[string]Review) {
		delete(reviews, novelID)
	})
}

// updateReviews performs the read-modify-write on the reviews field.
func (store *RedisStore) updateReviews(context context.Context, userID string, mutate func(map[string]Review)) error {
	key := stateKey(userID)

	reviews := make(map[string]Review)
	raw, err := store.client.HGet(context, key, fieldReviews).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis_library_get_reviews_failed: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal([]byte(raw), &reviews); err != nil {
			return fmt.Errorf("redis_library_decode_reviews_failed: %w", err)
		}
	}

	mutate(reviews)
	return store.writeField(context, key, fieldReviews, reviews)
}

/*
SaveSettings replaces the settings field.

Parameters:
  - context: context.Context
  - userID: string
  - settings: Settings

Returns:
  - error: Persistence failures
*/
func (store *RedisStore) SaveSettings(context context.Context, userID string, settings Settings) error {
	return store.writeField(context, stateKey(userID), fieldSettings, settings)
}

// writeField JSON-encodes one value into a hash field.
func (store *RedisStore) writeField(context context.Context, key, field string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis_library_encode_%s_failed: %w", field, err)
	}

	if err := store.client.HSet(context, key, field, encoded).Err(); err != nil {
		return fmt.Errorf("redis_library_write_%s_failed: %w", field, err)
	}
	return nil
}

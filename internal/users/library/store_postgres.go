// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

// PostgreSQL implementation of the library [Store].
//
// State is normalized: one row per favorite, wishlist entry, and review,
// plus a single settings row per user. Loads assemble the aggregate from
// all four tables.

package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the PostgreSQL implementation of the library [Store].
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
Load assembles a user's full reading state from the normalized tables.

Description: Missing rows are not errors; a brand-new user yields the
default-initialized state.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *UserState: Hydrated or default-initialized state
  - error: Retrieval failures
*/
func (store *PostgresStore) Load(context context.Context, userID string) (*UserState, error) {
	state := NewUserState()

	favorites, err := store.loadIDs(context, `SELECT novelid FROM users.favorite WHERE userid = $1 ORDER BY createdat`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_library_load_favorites_failed: %w", err)
	}
	state.Favorites = favorites

	wishlist, err := store.loadIDs(context, `SELECT novelid FROM users.wishlist WHERE userid = $1 ORDER BY createdat`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_library_load_wishlist_failed: %w", err)
	}
	state.Wishlist = wishlist

	rows, err := store.pool.Query(context,
		`SELECT novelid, rating, reviewtext FROM users.review WHERE userid = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_library_load_reviews_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var novelID string
		var review Review
		if err := rows.Scan(&novelID, &review.Rating, &review.Text); err != nil {
			return nil, fmt.Errorf("postgres_library_scan_review_failed: %w", err)
		}
		state.Reviews[novelID] = review
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_library_iterate_reviews_failed: %w", err)
	}

	err = store.pool.QueryRow(context,
		`SELECT showfavoritebutton, showwishlistbutton, shownsfw FROM users.settings WHERE userid = $1`, userID).
		Scan(&state.Settings.ShowFavoriteButton, &state.Settings.ShowWishlistButton, &state.Settings.ShowNsfw)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("postgres_library_load_settings_failed: %w", err)
	}

	return state, nil
}

// loadIDs collects a single-column novel ID list.
func (store *PostgresStore) loadIDs(context context.Context, query, userID string) ([]string, error) {
	rows, err := store.pool.Query(context, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

/*
SetFavorite adds or removes one favorites row.

Description: Adds are idempotent via ON CONFLICT DO NOTHING, removals via
plain DELETE; re-toggling never errors.

Parameters:
  - context: context.Context
  - userID: string
  - novelID: string
  - favorited: bool

Returns:
  - error: Persistence failures
*/
func (store *PostgresStore) SetFavorite(context context.Context, userID, novelID string, favorited bool) error {
	return store.setMembership(context, "users.favorite", userID, novelID, favorited, "postgres_library_set_favorite_failed")
}

/*
SetWishlisted adds or removes one wishlist row.

Parameters:
  - context: context.Context
  - userID: string
  - novelID: string
  - wishlisted: bool

Returns:
  - error: Persistence failures
*/
func (store *PostgresStore) SetWishlisted(context context.Context, userID, novelID string, wishlisted bool) error {
	return store.setMembership(context, "users.wishlist", userID, novelID, wishlisted, "postgres_library_set_wishlist_failed")
}

// setMembership inserts or deletes one (userid, novelid) row.
func (store *PostgresStore) setMembership(context context.Context, table, userID, novelID string, member bool, wrapCode string) error {
	var query string
	if member {
		query = fmt.Sprintf(`
			INSERT INTO %s (userid, novelid, createdat)
			VALUES ($1, $2, NOW())
			ON CONFLICT (userid, novelid) DO NOTHING`, table)
	} else {
		query = fmt.Sprintf(`DELETE FROM %s WHERE userid = $1 AND novelid = $2`, table)
	}

	if _, err := store.pool.Exec(context, query, userID, novelID); err != nil {
		return fmt.Errorf("%s: %w", wrapCode, err)
	}
	return nil
}

/*
UpsertReview creates or replaces the user's review row for one novel.

Parameters:
  - context: context.Context
  - userID: string
  - novelID: string
  - review: Review

Returns:
  - error: Persistence failures
*/
func (store *PostgresStore) UpsertReview(context context.Context, userID, novelID string, review Review) error {
	const query = `
		INSERT INTO users.review (userid, novelid, rating, reviewtext, createdat, updatedat)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (userid, novelid)
		DO UPDATE SET rating = EXCLUDED.rating, reviewtext = EXCLUDED.reviewtext, updatedat = NOW()`

	if _, err := store.pool.Exec(context, query, userID, novelID, review.Rating, review.Text); err != nil {
		return fmt.Errorf("postgres_library_upsert_review_failed: %w", err)
	}
	return nil
}

/*
DeleteReview removes the user's review row for one novel.

Parameters:
  - context: context.Context
  - userID: string
  - novelID: string

Returns:
  - error: Persistence failures
*/
func (store *PostgresStore) DeleteReview(context context.Context, userID, novelID string) error {
	const query = `DELETE FROM users.review WHERE userid = $1 AND novelid = $2`

	if _, err := store.pool.Exec(context, query, userID, novelID); err != nil {
		return fmt.Errorf("postgres_library_delete_review_failed: %w", err)
	}
	return nil
}

/*
SaveSettings replaces the user's settings row.

Parameters:
  - context: context.Context
  - userID: string
  - settings: Settings

Returns:
  - error: Persistence failures
*/
func (store *PostgresStore) SaveSettings(context context.Context, userID string, settings Settings) error {
	const query = `
		INSERT INTO users.settings (userid, showfavoritebutton, showwishlistbutton, shownsfw, updatedat)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (userid)
		DO UPDATE SET
			showfavoritebutton = EXCLUDED.showfavoritebutton,
			showwishlistbutton = EXCLUDED.showwishlistbutton,
			shownsfw = EXCLUDED.shownsfw,
			updatedat = NOW()`

	if _, err := store.pool.Exec(context, query, userID,
		settings.ShowFavoriteButton, settings.ShowWishlistButton, settings.ShowNsfw); err != nil {
		return fmt.Errorf("postgres_library_save_settings_failed: %w", err)
	}
	return nil
}

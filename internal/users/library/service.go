// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package library

import (
	"context"
	"fmt"
	"sync"

	"github.com/tranhoangviet/noveria/internal/platform/apperr"
	"github.com/tranhoangviet/noveria/internal/platform/validate"
)

// # Contracts & Types

// Service implements the per-user reading state use cases.
//
// It keeps one in-memory view per active user, loaded lazily from the
// store. Mutations apply to the view first (reads see the change
// immediately), then persist; a failed persist rolls the view back so the
// view never diverges from storage.
type Service struct {
	store Store

	mu    sync.Mutex
	views map[string]*UserState // keyed by user ID
}

// NewService constructs a library [Service] over the configured store backing.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		views: make(map[string]*UserState),
	}
}

// view returns the live in-memory state for a user, loading it on first
// access. Caller holds the service lock.
func (service *Service) view(context context.Context, userID string) (*UserState, error) {
	if state, found := service.views[userID]; found {
		return state, nil
	}

	state, err := service.store.Load(context, userID)
	if err != nil {
		return nil, fmt.Errorf("library_service_load_failed: %w", err)
	}

	service.views[userID] = state
	return state, nil
}

// Evict drops the user's in-memory view. Called on logout; the next access
// reloads from storage.
func (service *Service) Evict(userID string) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.views, userID)
}

// # Read Path

/*
State returns a snapshot of the user's full reading state.

Description: The returned value is a deep copy; callers can serialize it
without racing later mutations.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *UserState: Snapshot of favorites, wishlist, reviews, settings
  - error: Storage failures on first load
*/
func (service *Service) State(context context.Context, userID string) (*UserState, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	state, err := service.view(context, userID)
	if err != nil {
		return nil, err
	}
	return state.Clone(), nil
}

/*
ShowRestricted reports whether the user opted in to restricted content.

Description: This is the catalog's visibility hook. Anonymous callers never
reach it; a user with no stored settings gets the default (hidden).

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - bool: The user's ShowNsfw preference
  - error: Storage failures on first load
*/
func (service *Service) ShowRestricted(context context.Context, userID string) (bool, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	state, err := service.view(context, userID)
	if err != nil {
		return false, err
	}
	return state.Settings.ShowNsfw, nil
}

// # Mutations

/*
ToggleFavorite flips a novel's membership in the user's favorites.

Description: Optimistic: the in-memory view flips first, then the change
persists. A persist failure rolls the view back and surfaces the error.

Parameters:
  - context: context.Context
  - userID: string
  - novelID: string

Returns:
  - bool: The resulting membership (true when now favorited)
  - error: Storage failures
*/
func (service *Service) ToggleFavorite(context context.Context, userID, novelID string) (bool, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	state, err := service.view(context, userID)
	if err != nil {
		return false, err
	}

	favorited := !state.HasFavorite(novelID)
	previous := state.Favorites
	if favorited {
		state.Favorites = append(append([]string{}, state.Favorites...), novelID)
	} else {
		state.Favorites = removeID(state.Favorites, novelID)
	}

	if err := service.store.SetFavorite(context, userID, novelID, favorited); err != nil {
		state.Favorites = previous
		return !favorited, fmt.Errorf("library_service_favorite_failed: %w", err)
	}

	return favorited, nil
}

/*
ToggleWishlist flips a novel's membership in the user's wishlist.

Parameters:
  - context: context.Context
  - userID: string
  - novelID: string

Returns:
  - bool: The resulting membership (true when now wishlisted)
  - error: Storage failures
*/
func (service *Service) ToggleWishlist(context context.Context, userID, novelID string) (bool, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	state, err := service.view(context, userID)
	if err != nil {
		return false, err
	}

	wishlisted := !state.HasWishlisted(novelID)
	previous := state.Wishlist
	if wishlisted {
		state.Wishlist = append(append([]string{}, state.Wishlist...), novelID)
	} else {
		state.Wishlist = removeID(state.Wishlist, novelID)
	}

	if err := service.store.SetWishlisted(context, userID, novelID, wishlisted); err != nil {
		state.Wishlist = previous
		return !wishlisted, fmt.Errorf("library_service_wishlist_failed: %w", err)
	}

	return wishlisted, nil
}

/*
SetReview creates or replaces the user's review of a novel.

Description: Ratings are bounded [1,10]; the text is optional and capped.
An existing review is replaced wholesale.

Parameters:
  - context: context.Context
  - userID: string
  - novelID: string
  - review: Review

Returns:
  - error: Validation or storage failures
*/
func (service *Service) SetReview(context context.Context, userID, novelID string, review Review) error {
	validator := &validate.Validator{}
	validator.Range("rating", review.Rating, ReviewRatingMin, ReviewRatingMax).
		MaxLen("text", review.Text, ReviewTextMaxLen)
	if err := validator.Err(); err != nil {
		return err
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	state, err := service.view(context, userID)
	if err != nil {
		return err
	}

	previous, existed := state.Reviews[novelID]
	state.Reviews[novelID] = review

	if err := service.store.UpsertReview(context, userID, novelID, review); err != nil {
		if existed {
			state.Reviews[novelID] = previous
		} else {
			delete(state.Reviews, novelID)
		}
		return fmt.Errorf("library_service_set_review_failed: %w", err)
	}

	return nil
}

/*
RemoveReview deletes the user's review of a novel.

Parameters:
  - context: context.Context
  - userID: string
  - novelID: string

Returns:
  - error: NotFound when no review exists, or storage failures
*/
func (service *Service) RemoveReview(context context.Context, userID, novelID string) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	state, err := service.view(context, userID)
	if err != nil {
		return err
	}

	previous, existed := state.Reviews[novelID]
	if !existed {
		return apperr.NotFound("Review")
	}
	delete(state.Reviews, novelID)

	if err := service.store.DeleteReview(context, userID, novelID); err != nil {
		state.Reviews[novelID] = previous
		return fmt.Errorf("library_service_remove_review_failed: %w", err)
	}

	return nil
}

/*
UpdateSettings replaces the user's display preferences.

Parameters:
  - context: context.Context
  - userID: string
  - settings: Settings

Returns:
  - error: Storage failures
*/
func (service *Service) UpdateSettings(context context.Context, userID string, settings Settings) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	state, err := service.view(context, userID)
	if err != nil {
		return err
	}

	previous := state.Settings
	state.Settings = settings

	if err := service.store.SaveSettings(context, userID, settings); err != nil {
		state.Settings = previous
		return fmt.Errorf("library_service_save_settings_failed: %w", err)
	}

	return nil
}

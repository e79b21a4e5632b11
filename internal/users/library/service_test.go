// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package library_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranhoangviet/noveria/internal/users/library"
)

// fakeStore records writes and can be switched to fail, to drive the
// rollback path.
type fakeStore struct {
	states map[string]*library.UserState
	fail   bool
	loads  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{states: make(map[string]*library.UserState)}
}

func (store *fakeStore) state(userID string) *library.UserState {
	if state, found := store.states[userID]; found {
		return state
	}
	state := library.NewUserState()
	store.states[userID] = state
	return state
}

func (store *fakeStore) Load(ctx context.Context, userID string) (*library.UserState, error) {
	store.loads++
	if store.fail {
		return nil, errors.New("store down")
	}
	return store.state(userID).Clone(), nil
}

func (store *fakeStore) SetFavorite(ctx context.Context, userID, novelID string, favorited bool) error {
	if store.fail {
		return errors.New("store down")
	}
	state := store.state(userID)
	state.Favorites = setMembership(state.Favorites, novelID, favorited)
	return nil
}

func (store *fakeStore) SetWishlisted(ctx context.Context, userID, novelID string, wishlisted bool) error {
	if store.fail {
		return errors.New("store down")
	}
	state := store.state(userID)
	state.Wishlist = setMembership(state.Wishlist, novelID, wishlisted)
	return nil
}

func (store *fakeStore) UpsertReview(ctx context.Context, userID, novelID string, review library.Review) error {
	if store.fail {
		return errors.New("store down")
	}
	store.state(userID).Reviews[novelID] = review
	return nil
}

func (store *fakeStore) DeleteReview(ctx context.Context, userID, novelID string) error {
	if store.fail {
		return errors.New("store down")
	}
	delete(store.state(userID).Reviews, novelID)
	return nil
}

func (store *fakeStore) SaveSettings(ctx context.Context, userID string, settings library.Settings) error {
	if store.fail {
		return errors.New("store down")
	}
	store.state(userID).Settings = settings
	return nil
}

func setMembership(ids []string, novelID string, member bool) []string {
	filtered := []string{}
	for _, id := range ids {
		if id != novelID {
			filtered = append(filtered, id)
		}
	}
	if member {
		filtered = append(filtered, novelID)
	}
	return filtered
}

const userID = "user-1"

/*
TestService_DefaultsForNewUser verifies an unknown user behaves exactly
like one with explicitly stored defaults.
*/
func TestService_DefaultsForNewUser(t *testing.T) {
	service := library.NewService(newFakeStore())

	state, err := service.State(context.Background(), userID)
	require.NoError(t, err)

	assert.Empty(t, state.Favorites)
	assert.Empty(t, state.Wishlist)
	assert.Empty(t, state.Reviews)
	assert.Equal(t, library.DefaultSettings(), state.Settings)

	show, err := service.ShowRestricted(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, show, "restricted content stays hidden by default")
}

/*
TestService_ToggleFavorite verifies toggle semantics and persistence.
*/
func TestService_ToggleFavorite(t *testing.T) {
	store := newFakeStore()
	service := library.NewService(store)

	favorited, err := service.ToggleFavorite(context.Background(), userID, "novel-1")
	require.NoError(t, err)
	assert.True(t, favorited)
	assert.Equal(t, []string{"novel-1"}, store.states[userID].Favorites)

	favorited, err = service.ToggleFavorite(context.Background(), userID, "novel-1")
	require.NoError(t, err)
	assert.False(t, favorited)
	assert.Empty(t, store.states[userID].Favorites)
}

/*
TestService_RollbackOnPersistFailure verifies a failed write restores the
in-memory view, for every mutation kind.
*/
func TestService_RollbackOnPersistFailure(t *testing.T) {
	store := newFakeStore()
	service := library.NewService(store)

	// Seed some committed state first.
	_, err := service.ToggleFavorite(context.Background(), userID, "novel-1")
	require.NoError(t, err)
	require.NoError(t, service.SetReview(context.Background(), userID, "novel-1", library.Review{Rating: 8}))

	store.fail = true

	_, err = service.ToggleFavorite(context.Background(), userID, "novel-2")
	require.Error(t, err)

	_, err = service.ToggleWishlist(context.Background(), userID, "novel-2")
	require.Error(t, err)

	err = service.SetReview(context.Background(), userID, "novel-2", library.Review{Rating: 5})
	require.Error(t, err)

	err = service.RemoveReview(context.Background(), userID, "novel-1")
	require.Error(t, err)

	err = service.UpdateSettings(context.Background(), userID, library.Settings{ShowNsfw: true})
	require.Error(t, err)

	store.fail = false
	state, err := service.State(context.Background(), userID)
	require.NoError(t, err)

	// The view matches the last successful writes exactly.
	assert.Equal(t, []string{"novel-1"}, state.Favorites)
	assert.Empty(t, state.Wishlist)
	assert.Equal(t, map[string]library.Review{"novel-1": {Rating: 8}}, state.Reviews)
	assert.Equal(t, library.DefaultSettings(), state.Settings)
}

/*
TestService_ReviewValidation verifies the rating bounds.
*/
func TestService_ReviewValidation(t *testing.T) {
	service := library.NewService(newFakeStore())

	tests := []struct {
		name   string
		rating int
		valid  bool
	}{
		{"below_min", 0, false},
		{"at_min", 1, true},
		{"at_max", 10, true},
		{"above_max", 11, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.SetReview(context.Background(), userID, "novel-1", library.Review{Rating: tt.rating})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

/*
TestService_RemoveReview_NotFound verifies removing an absent review errors
without touching storage.
*/
func TestService_RemoveReview_NotFound(t *testing.T) {
	service := library.NewService(newFakeStore())

	err := service.RemoveReview(context.Background(), userID, "never-reviewed")
	assert.Error(t, err)
}

/*
TestService_Evict verifies eviction drops the cached view and the next
access reloads from storage.
*/
func TestService_Evict(t *testing.T) {
	store := newFakeStore()
	service := library.NewService(store)

	_, err := service.State(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.loads)

	// A second read hits the cached view.
	_, err = service.State(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.loads)

	service.Evict(userID)

	_, err = service.State(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, store.loads)
}

/*
TestService_SettingsDriveVisibility verifies the ShowRestricted hook
follows settings updates immediately.
*/
func TestService_SettingsDriveVisibility(t *testing.T) {
	service := library.NewService(newFakeStore())

	settings := library.DefaultSettings()
	settings.ShowNsfw = true
	require.NoError(t, service.UpdateSettings(context.Background(), userID, settings))

	show, err := service.ShowRestricted(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, show)
}

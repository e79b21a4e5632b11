// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

/*
Package library implements the per-user reading state layer.

It owns everything a member attaches to catalog entries: favorites, the
wishlist, reviews, and display settings. Novels themselves live in the
catalog; this package only ever references them by their derived IDs.

Architecture:

  - Service: Per-user in-memory views with write-through persistence.
  - Store: One storage contract, two interchangeable backings (Postgres, Redis).
  - A user with no stored state behaves exactly like one with explicit defaults.
*/
package library

import "github.com/tranhoangviet/noveria/pkg/slice"

// # Domain Entities

// Review bounds
const (
	ReviewRatingMin  = 1
	ReviewRatingMax  = 10
	ReviewTextMaxLen = 2000
)

// Review is a member's rating and optional text for one novel.
type Review struct {
	Rating int    `json:"rating"` // Bounded [1,10]
	Text   string `json:"text,omitempty"`
}

// Settings are a member's display preferences.
type Settings struct {
	ShowFavoriteButton bool `json:"show_favorite_button"`
	ShowWishlistButton bool `json:"show_wishlist_button"`
	ShowNsfw           bool `json:"show_nsfw"`
}

// DefaultSettings returns the preferences of a member who never opened the
// settings page. Restricted content stays hidden until explicitly enabled.
func DefaultSettings() Settings {
	return Settings{
		ShowFavoriteButton: false,
		ShowWishlistButton: true,
		ShowNsfw:           false,
	}
}

// UserState is the complete reading state of one member.
type UserState struct {
	Favorites []string          `json:"favorites"`
	Wishlist  []string          `json:"wishlist"`
	Reviews   map[string]Review `json:"reviews"` // keyed by novel ID
	Settings  Settings          `json:"settings"`
}

// NewUserState returns the state of a member with nothing stored yet.
func NewUserState() *UserState {
	return &UserState{
		Favorites: []string{},
		Wishlist:  []string{},
		Reviews:   make(map[string]Review),
		Settings:  DefaultSettings(),
	}
}

// HasFavorite reports membership in the favorites list.
func (state *UserState) HasFavorite(novelID string) bool {
	return slice.Contains(state.Favorites, novelID)
}

// HasWishlisted reports membership in the wishlist.
func (state *UserState) HasWishlisted(novelID string) bool {
	return slice.Contains(state.Wishlist, novelID)
}

// Clone returns a deep copy, so callers can hand state across goroutines
// without sharing the service's live view.
func (state *UserState) Clone() *UserState {
	clone := &UserState{
		Favorites: append([]string{}, state.Favorites...),
		Wishlist:  append([]string{}, state.Wishlist...),
		Reviews:   make(map[string]Review, len(state.Reviews)),
		Settings:  state.Settings,
	}
	for novelID, review := range state.Reviews {
		clone.Reviews[novelID] = review
	}
	return clone
}

func removeID(ids []string, target string) []string {
	return slice.Filter(ids, func(id string) bool { return id != target })
}

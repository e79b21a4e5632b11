// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package library

import "context"

// # Reading State Data Access

// Store defines the persistence contract for per-user reading state.
//
// Two backings implement it: PostgreSQL (normalized rows) and Redis (JSON
// fields in a per-user hash). The service is oblivious to which one is
// active; the deployment picks via configuration.
type Store interface {

	/*
		Load returns the full stored state for a user.

		Description: A user with nothing stored yields a default-initialized
		state, not an error — absence of state is a valid state.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - *UserState: Hydrated or default-initialized state
		  - error: Retrieval failures
	*/
	Load(context context.Context, userID string) (*UserState, error)

	/*
		SetFavorite adds or removes one novel in the favorites list.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - novelID: string
		  - favorited: bool (true adds, false removes)

		Returns:
		  - error: Persistence failures
	*/
	SetFavorite(context context.Context, userID, novelID string, favorited bool) error

	/*
		SetWishlisted adds or removes one novel in the wishlist.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - novelID: string
		  - wishlisted: bool (true adds, false removes)

		Returns:
		  - error: Persistence failures
	*/
	SetWishlisted(context context.Context, userID, novelID string, wishlisted bool) error

	/*
		UpsertReview creates or replaces the user's review of one novel.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - novelID: string
		  - review: Review

		Returns:
		  - error: Persistence failures
	*/
	UpsertReview(context context.Context, userID, novelID string, review Review) error

	/*
		DeleteReview removes the user's review of one novel, if any.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - novelID: string

		Returns:
		  - error: Persistence failures
	*/
	DeleteReview(context context.Context, userID, novelID string) error

	/*
		SaveSettings replaces the user's display preferences.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - settings: Settings

		Returns:
		  - error: Persistence failures
	*/
	SaveSettings(context context.Context, userID string, settings Settings) error
}

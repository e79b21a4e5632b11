// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

// HTTP delivery layer for the per-user reading state.
//
// Every endpoint requires authentication; the acting user is always the
// token's subject, never a path parameter.

package library

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tranhoangviet/noveria/internal/platform/middleware"
	"github.com/tranhoangviet/noveria/internal/platform/request"
	"github.com/tranhoangviet/noveria/internal/platform/respond"
	"github.com/tranhoangviet/noveria/internal/platform/validate"
	"github.com/tranhoangviet/noveria/pkg/pointer"
)

// # Definitions & Constructors

// Handler implements the reading-state HTTP endpoints.
type Handler struct {
	libraryService *Service
}

// NewHandler constructs a library [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{libraryService: service}
}

// Routes returns a [chi.Router] configured with the library endpoints.
//
// # Endpoints
//   - GET    /                      : Full reading state snapshot.
//   - POST   /favorites/{novelID}   : Toggle favorite membership.
//   - POST   /wishlist/{novelID}    : Toggle wishlist membership.
//   - PUT    /reviews/{novelID}     : Create or replace a review.
//   - DELETE /reviews/{novelID}     : Remove a review.
//   - PUT    /settings              : Replace display preferences.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.getState)
	router.Post("/favorites/{novelID}", handler.toggleFavorite)
	router.Post("/wishlist/{novelID}", handler.toggleWishlist)
	router.Put("/reviews/{novelID}", handler.upsertReview)
	router.Delete("/reviews/{novelID}", handler.deleteReview)
	router.Put("/settings", handler.updateSettings)

	return router
}

// # Request Payloads

type reviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

// Pointer fields distinguish "absent" from "false" so a partial update
// leaves unnamed flags untouched.
type settingsRequest struct {
	ShowFavoriteButton *bool `json:"show_favorite_button"`
	ShowWishlistButton *bool `json:"show_wishlist_button"`
	ShowNsfw           *bool `json:"show_nsfw"`
}

/*
GetState returns the caller's full reading state.

GET /api/v1/library

Response:
  - 200: UserState: Favorites, wishlist, reviews, settings
  - 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) getState(writer http.ResponseWriter, httpRequest *http.Request) {
	userID, err := request.RequiredUserID(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	state, err := handler.libraryService.State(httpRequest.Context(), userID)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	respond.OK(writer, state)
}

/*
ToggleFavorite flips a novel in or out of the caller's favorites.

POST /api/v1/library/favorites/{novelID}

Response:
  - 200: {favorited: bool}: Resulting membership
  - 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) toggleFavorite(writer http.ResponseWriter, httpRequest *http.Request) {
	userID, err := request.RequiredUserID(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	novelID := request.Param(httpRequest, "novelID")
	favorited, err := handler.libraryService.ToggleFavorite(httpRequest.Context(), userID, novelID)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	respond.OK(writer, map[string]bool{"favorited": favorited})
}

/*
ToggleWishlist flips a novel in or out of the caller's wishlist.

POST /api/v1/library/wishlist/{novelID}

Response:
  - 200: {wishlisted: bool}: Resulting membership
  - 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) toggleWishlist(writer http.ResponseWriter, httpRequest *http.Request) {
	userID, err := request.RequiredUserID(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	novelID := request.Param(httpRequest, "novelID")
	wishlisted, err := handler.libraryService.ToggleWishlist(httpRequest.Context(), userID, novelID)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	respond.OK(writer, map[string]bool{"wishlisted": wishlisted})
}

/*
UpsertReview creates or replaces the caller's review of a novel.

PUT /api/v1/library/reviews/{novelID}

Request:
  - Body: reviewRequest (Rating 1-10, optional Text)

Response:
  - 200: Review: The stored review
  - 400: ErrInvalidJSON/Validation: Rating out of bounds
  - 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) upsertReview(writer http.ResponseWriter, httpRequest *http.Request) {
	userID, err := request.RequiredUserID(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	var input reviewRequest
	if err := request.DecodeJSON(httpRequest, &input); err != nil {
		respond.Error(writer, httpRequest, validate.ErrInvalidJSON)
		return
	}

	review := Review{Rating: input.Rating, Text: input.Text}
	novelID := request.Param(httpRequest, "novelID")

	if err := handler.libraryService.SetReview(httpRequest.Context(), userID, novelID, review); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	respond.OK(writer, review)
}

/*
DeleteReview removes the caller's review of a novel.

DELETE /api/v1/library/reviews/{novelID}

Response:
  - 204: No Content: Review removed
  - 404: ErrNotFound: No review for this novel
*/
func (handler *Handler) deleteReview(writer http.ResponseWriter, httpRequest *http.Request) {
	userID, err := request.RequiredUserID(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	novelID := request.Param(httpRequest, "novelID")
	if err := handler.libraryService.RemoveReview(httpRequest.Context(), userID, novelID); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	respond.NoContent(writer)
}

/*
UpdateSettings updates the caller's display preferences.

PUT /api/v1/library/settings

Request:
  - Body: settingsRequest (Omitted flags keep their current value)

Response:
  - 200: Settings: The stored preferences
  - 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) updateSettings(writer http.ResponseWriter, httpRequest *http.Request) {
	userID, err := request.RequiredUserID(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	var input settingsRequest
	if err := request.DecodeJSON(httpRequest, &input); err != nil {
		respond.Error(writer, httpRequest, validate.ErrInvalidJSON)
		return
	}

	current, err := handler.libraryService.State(httpRequest.Context(), userID)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	settings := Settings{
		ShowFavoriteButton: pointer.Fallback(input.ShowFavoriteButton, current.Settings.ShowFavoriteButton),
		ShowWishlistButton: pointer.Fallback(input.ShowWishlistButton, current.Settings.ShowWishlistButton),
		ShowNsfw:           pointer.Fallback(input.ShowNsfw, current.Settings.ShowNsfw),
	}

	if err := handler.libraryService.UpdateSettings(httpRequest.Context(), userID, settings); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	respond.OK(writer, settings)
}

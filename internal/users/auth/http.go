// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

// HTTP delivery layer for user identity management.
//
// The handler acts as a thin mediation layer between the web and domain services:
//   - Protocol: Standard RESTful JSON interface.
//   - Security: Handles JWT orchestration and refresh token cookie injection.
//   - Verification: Enforces strict input validation before passing to [Service].
//
// This layer is strictly responsible for transport concerns (status codes, headers, JSON).

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tranhoangviet/noveria/internal/platform/apperr"
	"github.com/tranhoangviet/noveria/internal/platform/constants"
	"github.com/tranhoangviet/noveria/internal/platform/middleware"
	"github.com/tranhoangviet/noveria/internal/platform/request"
	"github.com/tranhoangviet/noveria/internal/platform/respond"
	"github.com/tranhoangviet/noveria/internal/platform/validate"
)

// # Definitions & Constructors

// StateEvictor drops per-user cached state when a session ends. Implemented
// by the library service so a logout releases its in-memory view.
type StateEvictor interface {
	Evict(userID string)
}

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Registration, Login, Session rotation).
type Handler struct {
	authService *Service
	evictor     StateEvictor
}

// NewHandler constructs a new [Handler] with its service dependencies.
// evictor may be nil when no per-user cache exists.
func NewHandler(service *Service, evictor StateEvictor) *Handler {
	return &Handler{authService: service, evictor: evictor}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and returns a JWT.
//   - POST /refresh  : Rotates the refresh-token session.
//   - POST /logout   : Revokes the current session.
//   - GET  /me       : Returns the authenticated profile.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, and persists
a new user profile to the database.

Request:
  - Body: registerRequest (Username, Email, Password)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, httpRequest *http.Request) {
	var input registerRequest

	if err := request.DecodeJSON(httpRequest, &input); err != nil {
		respond.Error(writer, httpRequest, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, UsernameMinLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	user, err := handler.authService.Register(httpRequest.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials, generates JWT access tokens, and injects
a secure refresh token cookie into the response.

Request:
  - Body: loginRequest (Login, Password)

Response:
  - 200: Session: Access token and User profile
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, httpRequest *http.Request) {
	var input loginRequest

	if err := request.DecodeJSON(httpRequest, &input); err != nil {
		respond.Error(writer, httpRequest, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	session, err := handler.authService.Login(httpRequest.Context(), LoginInput{
		Login:     input.Login,
		Password:  input.Password,
		UserAgent: httpRequest.UserAgent(),
		IPAddress: getClientIP(httpRequest),
	})
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	setRefreshCookie(writer, session)

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldUser:        session.User,
	})
}

/*
Logout terminates the current user session.

POST /api/v1/auth/logout

Description: Invalidates the refresh token (if present), clears the security
cookie from the client, and evicts the user's cached library view.

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, httpRequest *http.Request) {
	cookie, err := httpRequest.Cookie(constants.RefreshTokenCookieName)

	if err == nil && cookie != nil && cookie.Value != "" {
		_ = handler.authService.Logout(httpRequest.Context(), cookie.Value)
	}

	// Release the per-user in-memory state alongside the session.
	if handler.evictor != nil {
		if claims := request.Claims(httpRequest); claims != nil {
			handler.evictor.Evict(claims.UserID)
		}
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.NoContent(writer)
}

/*
Refresh issues a new access token using a valid refresh token.

POST /api/v1/auth/refresh

Description: Rotates the session by validating the refresh token cookie
and issuing a fresh access token and an updated refresh token.

Response:
  - 200: RefreshResponse: New access token credentials
  - 401: ErrUnauthorized: Missing or invalid refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, httpRequest *http.Request) {
	cookie, err := httpRequest.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, httpRequest, apperr.Unauthorized("Missing refresh token in cookies"))
		return
	}

	session, err := handler.authService.RefreshSession(
		httpRequest.Context(),
		cookie.Value,
		httpRequest.UserAgent(),
		getClientIP(httpRequest),
	)

	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	setRefreshCookie(writer, session)

	respond.OK(writer, map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   AccessTokenTTL / time.Second,
	})
}

/*
Me returns the authenticated user's own profile.

GET /api/v1/auth/me

Response:
  - 200: User: Profile of the caller
  - 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) me(writer http.ResponseWriter, httpRequest *http.Request) {
	userID, err := request.RequiredUserID(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	user, err := handler.authService.CurrentUser(httpRequest.Context(), userID)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	respond.OK(writer, user)
}

// setRefreshCookie injects the HttpOnly refresh token cookie.
func setRefreshCookie(writer http.ResponseWriter, session *LoginSession) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  session.RefreshTokenExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// getClientIP tries to extract the real IP address of a user over proxy environments.
func getClientIP(request *http.Request) string {

	ip := request.Header.Get("X-Real-IP")
	if ip == "" {
		ip = request.Header.Get("X-Forwarded-For")
	}

	if ip == "" {
		ip = request.RemoteAddr
	}
	return ip
}

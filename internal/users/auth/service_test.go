// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranhoangviet/noveria/internal/platform/apperr"
	"github.com/tranhoangviet/noveria/internal/platform/sec"
	"github.com/tranhoangviet/noveria/internal/users/auth"
)

// # In-Memory Fakes

type fakeUserRepo struct {
	users map[string]*auth.User // keyed by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*auth.User)}
}

func (repo *fakeUserRepo) FindByID(ctx context.Context, id string) (*auth.User, error) {
	if user, found := repo.users[id]; found {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) Create(ctx context.Context, user *auth.User) error {
	repo.users[user.ID] = user
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*auth.Session // keyed by ID
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*auth.Session)}
}

func (repo *fakeSessionRepo) Create(ctx context.Context, session *auth.Session) error {
	repo.sessions[session.ID] = session
	return nil
}

func (repo *fakeSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*auth.Session, error) {
	for _, session := range repo.sessions {
		if session.TokenHash == tokenHash && !session.IsRevoked && session.ExpiresAt.After(time.Now()) {
			return session, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (repo *fakeSessionRepo) Revoke(ctx context.Context, sessionID string) error {
	if session, found := repo.sessions[sessionID]; found {
		session.IsRevoked = true
	}
	return nil
}

func (repo *fakeSessionRepo) RevokeAll(ctx context.Context, userID string) error {
	for _, session := range repo.sessions {
		if session.UserID == userID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (repo *fakeSessionRepo) DeleteExpired(ctx context.Context) error { return nil }

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, username string, ttl time.Duration) (string, error) {
	return "jwt-for-" + userID, nil
}

func newService(t *testing.T) (*auth.Service, *fakeUserRepo, *fakeSessionRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	sessionRepo := newFakeSessionRepo()
	return auth.NewService(userRepo, sessionRepo, fakeTokenProvider{}), userRepo, sessionRepo
}

func register(t *testing.T, service *auth.Service) *auth.User {
	t.Helper()
	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "reader",
		Email:    "reader@noveria.app",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

// # Registration

/*
TestService_Register verifies the happy path hashes the password and assigns
an identifier.
*/
func TestService_Register(t *testing.T) {
	service, userRepo, _ := newService(t)

	user := register(t, service)

	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "correct-horse", user.PasswordHash, "password must never be stored in plain text")
	assert.True(t, sec.CheckPasswordHash("correct-horse", user.PasswordHash))
	assert.Len(t, userRepo.users, 1)
}

/*
TestService_Register_Conflicts verifies the duplicate identity messages.
*/
func TestService_Register_Conflicts(t *testing.T) {
	service, _, _ := newService(t)
	register(t, service)

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "someone-else",
		Email:    "reader@noveria.app",
		Password: "irrelevant-pass",
	})
	require.Error(t, err)
	assert.Equal(t, "An account with this email already exists", apperr.As(err).Message)

	_, err = service.Register(context.Background(), auth.RegisterInput{
		Username: "reader",
		Email:    "other@noveria.app",
		Password: "irrelevant-pass",
	})
	require.Error(t, err)
	assert.Equal(t, "This username is already taken", apperr.As(err).Message)
}

// # Login

/*
TestService_Login verifies authentication by email and by username.
*/
func TestService_Login(t *testing.T) {
	service, _, sessionRepo := newService(t)
	user := register(t, service)

	tests := []struct {
		name  string
		login string
	}{
		{"by_email", "reader@noveria.app"},
		{"by_username", "reader"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := service.Login(context.Background(), auth.LoginInput{
				Login:    tt.login,
				Password: "correct-horse",
			})
			require.NoError(t, err)

			assert.Equal(t, "jwt-for-"+user.ID, session.AccessToken)
			assert.NotEmpty(t, session.RefreshToken)
			assert.Equal(t, user.ID, session.User.ID)
		})
	}

	assert.Len(t, sessionRepo.sessions, 2)
}

/*
TestService_Login_GenericFailure verifies unknown identity and wrong
password produce the same client-safe message.
*/
func TestService_Login_GenericFailure(t *testing.T) {
	service, _, _ := newService(t)
	register(t, service)

	tests := []struct {
		name     string
		login    string
		password string
	}{
		{"unknown_login", "ghost", "correct-horse"},
		{"wrong_password", "reader", "wrong-horse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(context.Background(), auth.LoginInput{
				Login:    tt.login,
				Password: tt.password,
			})
			require.Error(t, err)
			assert.Equal(t, "Invalid login credentials", apperr.As(err).Message)
		})
	}
}

// # Session Lifecycle

/*
TestService_RefreshSession verifies rotation: the old token dies, the new
one works.
*/
func TestService_RefreshSession(t *testing.T) {
	service, _, _ := newService(t)
	register(t, service)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "reader",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	rotated, err := service.RefreshSession(context.Background(), session.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	// Replaying the rotated-out token must fail.
	_, err = service.RefreshSession(context.Background(), session.RefreshToken, "", "")
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired refresh token", apperr.As(err).Message)
}

/*
TestService_Logout verifies revocation and its idempotency.
*/
func TestService_Logout(t *testing.T) {
	service, _, _ := newService(t)
	register(t, service)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "reader",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))

	// The revoked token cannot refresh.
	_, err = service.RefreshSession(context.Background(), session.RefreshToken, "", "")
	require.Error(t, err)

	// A second logout with the same (now dead) token still succeeds.
	assert.NoError(t, service.Logout(context.Background(), session.RefreshToken))

	// And a logout with garbage succeeds too.
	assert.NoError(t, service.Logout(context.Background(), "never-issued"))
}

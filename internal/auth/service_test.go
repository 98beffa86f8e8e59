// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shadowrealm/shadowrealm/internal/auth"
	"github.com/shadowrealm/shadowrealm/pkg/errutil"
)

type mockPlayerRepository struct {
	mock.Mock
}

func (m *mockPlayerRepository) Create(ctx context.Context, player *auth.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *mockPlayerRepository) GetByID(ctx context.Context, id ulid.ULID) (*auth.Player, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*auth.Player); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPlayerRepository) GetByUsername(ctx context.Context, username string) (*auth.Player, error) {
	args := m.Called(ctx, username)
	if p, ok := args.Get(0).(*auth.Player); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPlayerRepository) UpdatePosition(ctx context.Context, id ulid.ULID, x, y, z float64) error {
	args := m.Called(ctx, id, x, y, z)
	return args.Error(0)
}

type mockPasswordHasher struct {
	mock.Mock
}

func (m *mockPasswordHasher) Hash(username, password string) (string, error) {
	args := m.Called(username, password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Verify(username, password, hash string) (bool, error) {
	args := m.Called(username, password, hash)
	return args.Bool(0), args.Error(1)
}

func newTestIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	issuer, err := auth.NewTokenIssuer(testTokenConfig())
	require.NoError(t, err)
	return issuer
}

func TestNewService_NilDependencies(t *testing.T) {
	issuer := newTestIssuer(t)

	tests := []struct {
		name        string
		players     auth.PlayerRepository
		hasher      auth.PasswordHasher
		tokens      *auth.TokenIssuer
		expectError string
	}{
		{
			name:        "nil players repository",
			players:     nil,
			hasher:      &mockPasswordHasher{},
			tokens:      issuer,
			expectError: "players repository is required",
		},
		{
			name:        "nil password hasher",
			players:     &mockPlayerRepository{},
			hasher:      nil,
			tokens:      issuer,
			expectError: "password hasher is required",
		},
		{
			name:        "nil token issuer",
			players:     &mockPlayerRepository{},
			hasher:      &mockPasswordHasher{},
			tokens:      nil,
			expectError: "token issuer is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := auth.NewService(tt.players, tt.hasher, tt.tokens)
			require.Error(t, err)
			assert.Nil(t, svc)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("successful registration", func(t *testing.T) {
		players := &mockPlayerRepository{}
		hasher := &mockPasswordHasher{}
		svc, err := auth.NewService(players, hasher, newTestIssuer(t))
		require.NoError(t, err)

		players.On("GetByUsername", ctx, "alice").Return(nil, auth.ErrNotFound)
		hasher.On("Hash", "alice", "password123").Return("$argon2id$hash", nil)
		players.On("Create", ctx, mock.AnythingOfType("*auth.Player")).Return(nil)

		err = svc.Register(ctx, "alice", "password123")
		require.NoError(t, err)

		players.AssertExpectations(t)
		created := players.Calls[1].Arguments.Get(1).(*auth.Player)
		assert.Equal(t, "alice", created.Username)
		assert.Equal(t, "$argon2id$hash", created.PasswordHash)
		assert.Equal(t, auth.StartingLevel, created.Level)
		assert.Equal(t, auth.StartingExperience, created.Experience)
	})

	t.Run("empty username rejected", func(t *testing.T) {
		svc, err := auth.NewService(&mockPlayerRepository{}, &mockPasswordHasher{}, newTestIssuer(t))
		require.NoError(t, err)

		err = svc.Register(ctx, "", "password123")
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_USERNAME")
	})

	t.Run("empty password rejected", func(t *testing.T) {
		svc, err := auth.NewService(&mockPlayerRepository{}, &mockPasswordHasher{}, newTestIssuer(t))
		require.NoError(t, err)

		err = svc.Register(ctx, "alice", "")
		errutil.AssertErrorCode(t, err, "AUTH_EMPTY_PASSWORD")
	})

	t.Run("duplicate username detected before insert", func(t *testing.T) {
		players := &mockPlayerRepository{}
		svc, err := auth.NewService(players, &mockPasswordHasher{}, newTestIssuer(t))
		require.NoError(t, err)

		existing := &auth.Player{ID: ulid.Make(), Username: "alice"}
		players.On("GetByUsername", ctx, "alice").Return(existing, nil)

		err = svc.Register(ctx, "alice", "password123")
		errutil.AssertErrorCode(t, err, "AUTH_USERNAME_TAKEN")
		players.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate username detected by unique constraint", func(t *testing.T) {
		// The early lookup can miss a concurrent registration; the
		// insert then fails on the unique constraint and must map to
		// the same error as the lookup path.
		players := &mockPlayerRepository{}
		hasher := &mockPasswordHasher{}
		svc, err := auth.NewService(players, hasher, newTestIssuer(t))
		require.NoError(t, err)

		players.On("GetByUsername", ctx, "alice").Return(nil, auth.ErrNotFound)
		hasher.On("Hash", "alice", "password123").Return("$argon2id$hash", nil)
		players.On("Create", ctx, mock.AnythingOfType("*auth.Player")).Return(auth.ErrUsernameTaken)

		err = svc.Register(ctx, "alice", "password123")
		errutil.AssertErrorCode(t, err, "AUTH_USERNAME_TAKEN")
	})

	t.Run("lookup failure surfaces as register failure", func(t *testing.T) {
		players := &mockPlayerRepository{}
		svc, err := auth.NewService(players, &mockPasswordHasher{}, newTestIssuer(t))
		require.NoError(t, err)

		players.On("GetByUsername", ctx, "alice").Return(nil, errors.New("connection refused"))

		err = svc.Register(ctx, "alice", "password123")
		errutil.AssertErrorCode(t, err, "AUTH_REGISTER_FAILED")
	})

	t.Run("hash failure surfaces as register failure", func(t *testing.T) {
		players := &mockPlayerRepository{}
		hasher := &mockPasswordHasher{}
		svc, err := auth.NewService(players, hasher, newTestIssuer(t))
		require.NoError(t, err)

		players.On("GetByUsername", ctx, "alice").Return(nil, auth.ErrNotFound)
		hasher.On("Hash", "alice", "password123").Return("", errors.New("out of memory"))

		err = svc.Register(ctx, "alice", "password123")
		errutil.AssertErrorCode(t, err, "AUTH_REGISTER_FAILED")
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login returns token", func(t *testing.T) {
		players := &mockPlayerRepository{}
		hasher := &mockPasswordHasher{}
		issuer := newTestIssuer(t)
		svc, err := auth.NewService(players, hasher, issuer)
		require.NoError(t, err)

		playerID := ulid.Make()
		player := &auth.Player{
			ID:           playerID,
			Username:     "alice",
			PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$salt$hash",
		}

		players.On("GetByUsername", ctx, "alice").Return(player, nil)
		hasher.On("Verify", "alice", "password123", player.PasswordHash).Return(true, nil)

		token, err := svc.Login(ctx, "alice", "password123")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, playerID, claims.PlayerID)
		assert.Equal(t, "alice", claims.Username)
	})

	t.Run("unknown username fails with generic error", func(t *testing.T) {
		players := &mockPlayerRepository{}
		hasher := &mockPasswordHasher{}
		svc, err := auth.NewService(players, hasher, newTestIssuer(t))
		require.NoError(t, err)

		players.On("GetByUsername", ctx, "unknown").Return(nil, auth.ErrNotFound)
		// Verify still runs against a dummy hash to keep timing constant.
		hasher.On("Verify", "unknown", "password123", mock.AnythingOfType("string")).Return(false, nil)

		token, err := svc.Login(ctx, "unknown", "password123")
		assert.Empty(t, token)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_CREDENTIALS")
		hasher.AssertExpectations(t)
	})

	t.Run("wrong password fails with generic error", func(t *testing.T) {
		players := &mockPlayerRepository{}
		hasher := &mockPasswordHasher{}
		svc, err := auth.NewService(players, hasher, newTestIssuer(t))
		require.NoError(t, err)

		player := &auth.Player{
			ID:           ulid.Make(),
			Username:     "alice",
			PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$salt$hash",
		}

		players.On("GetByUsername", ctx, "alice").Return(player, nil)
		hasher.On("Verify", "alice", "wrongpassword", player.PasswordHash).Return(false, nil)

		token, err := svc.Login(ctx, "alice", "wrongpassword")
		assert.Empty(t, token)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_CREDENTIALS")
	})

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		players := &mockPlayerRepository{}
		hasher := &mockPasswordHasher{}
		svc, err := auth.NewService(players, hasher, newTestIssuer(t))
		require.NoError(t, err)

		player := &auth.Player{
			ID:           ulid.Make(),
			Username:     "alice",
			PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$salt$hash",
		}
		players.On("GetByUsername", ctx, "alice").Return(player, nil)
		players.On("GetByUsername", ctx, "nobody").Return(nil, auth.ErrNotFound)
		hasher.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

		_, errWrongPassword := svc.Login(ctx, "alice", "bad")
		_, errUnknownUser := svc.Login(ctx, "nobody", "bad")
		assert.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
	})

	t.Run("repository failure surfaces as login failure", func(t *testing.T) {
		players := &mockPlayerRepository{}
		svc, err := auth.NewService(players, &mockPasswordHasher{}, newTestIssuer(t))
		require.NoError(t, err)

		players.On("GetByUsername", ctx, "alice").Return(nil, errors.New("connection refused"))

		_, err = svc.Login(ctx, "alice", "password123")
		errutil.AssertErrorCode(t, err, "AUTH_LOGIN_FAILED")
	})

	t.Run("verify failure for existing player surfaces as login failure", func(t *testing.T) {
		players := &mockPlayerRepository{}
		hasher := &mockPasswordHasher{}
		svc, err := auth.NewService(players, hasher, newTestIssuer(t))
		require.NoError(t, err)

		player := &auth.Player{ID: ulid.Make(), Username: "alice", PasswordHash: "corrupted"}
		players.On("GetByUsername", ctx, "alice").Return(player, nil)
		hasher.On("Verify", "alice", "password123", "corrupted").Return(false, errors.New("invalid hash format"))

		_, err = svc.Login(ctx, "alice", "password123")
		errutil.AssertErrorCode(t, err, "AUTH_LOGIN_FAILED")
	})
}

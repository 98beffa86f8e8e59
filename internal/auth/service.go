// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// Service provides registration and login.
type Service struct {
	players PlayerRepository
	hasher  PasswordHasher
	tokens  *TokenIssuer
	logger  *slog.Logger
}

// NewService creates a new Service.
func NewService(players PlayerRepository, hasher PasswordHasher, tokens *TokenIssuer) (*Service, error) {
	return NewServiceWithLogger(players, hasher, tokens, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(players PlayerRepository, hasher PasswordHasher, tokens *TokenIssuer, logger *slog.Logger) (*Service, error) {
	if players == nil {
		return nil, oops.Code("AUTH_CONFIG_INVALID").Errorf("players repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_CONFIG_INVALID").Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_CONFIG_INVALID").Errorf("token issuer is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_CONFIG_INVALID").Errorf("logger is required")
	}
	return &Service{
		players: players,
		hasher:  hasher,
		tokens:  tokens,
		logger:  logger,
	}, nil
}

// dummyPasswordHash is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register creates a new player account with default progression.
// The username must be unused; the race between concurrent registrations
// is resolved by the store's unique constraint, which the repository
// reports as ErrUsernameTaken.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if username == "" {
		return oops.Code("AUTH_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if password == "" {
		return ErrEmptyPassword
	}

	// Early duplicate check for a cheap failure; the unique constraint
	// on the insert below remains the authority under concurrency.
	_, err := s.players.GetByUsername(ctx, username)
	if err == nil {
		return oops.Code("AUTH_USERNAME_TAKEN").
			With("username", username).
			Wrap(ErrUsernameTaken)
	}
	if !errors.Is(err, ErrNotFound) {
		return oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "get player by username").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(username, password)
	if err != nil {
		return oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	player, err := NewPlayer(username, hash)
	if err != nil {
		return oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create player").
			Wrap(err)
	}

	if err := s.players.Create(ctx, player); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return oops.Code("AUTH_USERNAME_TAKEN").
				With("username", username).
				Wrap(err)
		}
		return oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "insert player").
			Wrap(err)
	}

	s.logger.Info("new player registered",
		"username", username,
		"player_id", player.ID.String(),
	)
	return nil
}

// Login authenticates a player and returns a signed identity token.
// Unknown usernames and wrong passwords produce the same error so the
// caller cannot enumerate accounts. Uses constant-time operations to
// prevent timing-based username enumeration.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	player, lookupErr := s.players.GetByUsername(ctx, username)

	// Determine which hash to verify against (real or dummy for timing attack prevention)
	var targetHash string
	var playerExists bool

	if lookupErr != nil {
		if errors.Is(lookupErr, ErrNotFound) {
			// Use dummy hash - still perform verification to maintain constant time
			targetHash = dummyPasswordHash
			playerExists = false
		} else {
			return "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get player by username").
				Wrap(lookupErr)
		}
	} else {
		targetHash = player.PasswordHash
		playerExists = true
	}

	// Always verify password (constant-time operation for timing attack prevention)
	valid, verifyErr := s.hasher.Verify(username, password, targetHash)
	if verifyErr != nil {
		// For dummy hash verification errors, just treat as invalid
		if !playerExists {
			return "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid username or password")
		}
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	// If player doesn't exist OR password invalid, return same error
	if !playerExists || !valid {
		s.logger.Warn("failed login attempt", "username", username)
		return "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid username or password")
	}

	token, err := s.tokens.Issue(player.ID, player.Username)
	if err != nil {
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}

	s.logger.Info("player logged in",
		"username", username,
		"player_id", player.ID.String(),
	)
	return token, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Default progression values for newly registered players.
const (
	StartingLevel      = 1
	StartingExperience = 0
)

// Player represents a player account with its progression state.
type Player struct {
	ID           ulid.ULID
	Username     string
	PasswordHash string
	PosX         float64
	PosY         float64
	PosZ         float64
	Level        int
	Experience   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewPlayer creates a player with a fresh ID and default progression:
// position at the origin, level 1, zero experience.
func NewPlayer(username, passwordHash string) (*Player, error) {
	if username == "" {
		return nil, oops.Code("AUTH_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if passwordHash == "" {
		return nil, oops.Code("AUTH_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	now := time.Now().UTC()
	return &Player{
		ID:           ulid.Make(),
		Username:     username,
		PasswordHash: passwordHash,
		Level:        StartingLevel,
		Experience:   StartingExperience,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// PlayerRepository manages player persistence.
type PlayerRepository interface {
	// Create stores a new player. Returns ErrUsernameTaken if the
	// username is already registered.
	Create(ctx context.Context, player *Player) error

	// GetByID retrieves a player by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id ulid.ULID) (*Player, error)

	// GetByUsername retrieves a player by exact username.
	// Returns ErrNotFound if absent.
	GetByUsername(ctx context.Context, username string) (*Player, error)

	// UpdatePosition overwrites the player's position coordinates.
	// Returns ErrNotFound if the player does not exist.
	UpdatePosition(ctx context.Context, id ulid.ULID, x, y, z float64) error
}

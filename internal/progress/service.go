// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

// Package progress reads and writes a single player's progression
// state: identity summary, position, level, and experience.
//
// Absence of the player record is never an error here. Reads return
// nil and SavePosition returns false; callers decide how to surface
// "not found".
package progress

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/shadowrealm/shadowrealm/internal/auth"
)

// PlayerInfo is the identity summary of a player.
type PlayerInfo struct {
	ID         ulid.ULID
	Username   string
	Level      int
	Experience int
}

// PlayerState is the saved world state of a player.
type PlayerState struct {
	PosX       float64
	PosY       float64
	PosZ       float64
	Level      int
	Experience int
}

// Service provides progression reads and position saves.
type Service struct {
	players auth.PlayerRepository
	logger  *slog.Logger
}

// NewService creates a new Service.
func NewService(players auth.PlayerRepository) (*Service, error) {
	return NewServiceWithLogger(players, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(players auth.PlayerRepository, logger *slog.Logger) (*Service, error) {
	if players == nil {
		return nil, oops.Code("PROGRESS_CONFIG_INVALID").Errorf("players repository is required")
	}
	if logger == nil {
		return nil, oops.Code("PROGRESS_CONFIG_INVALID").Errorf("logger is required")
	}
	return &Service{players: players, logger: logger}, nil
}

// GetInfo returns the player's identity summary, or nil if the player
// does not exist.
func (s *Service) GetInfo(ctx context.Context, playerID ulid.ULID) (*PlayerInfo, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return nil, nil
		}
		return nil, oops.Code("PROGRESS_GET_INFO_FAILED").
			With("player_id", playerID.String()).
			Wrap(err)
	}
	return &PlayerInfo{
		ID:         player.ID,
		Username:   player.Username,
		Level:      player.Level,
		Experience: player.Experience,
	}, nil
}

// GetState returns the player's saved world state, or nil if the player
// does not exist.
func (s *Service) GetState(ctx context.Context, playerID ulid.ULID) (*PlayerState, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return nil, nil
		}
		return nil, oops.Code("PROGRESS_GET_STATE_FAILED").
			With("player_id", playerID.String()).
			Wrap(err)
	}
	return &PlayerState{
		PosX:       player.PosX,
		PosY:       player.PosY,
		PosZ:       player.PosZ,
		Level:      player.Level,
		Experience: player.Experience,
	}, nil
}

// SavePosition overwrites the player's coordinates unconditionally.
// Returns false when the player does not exist.
func (s *Service) SavePosition(ctx context.Context, playerID ulid.ULID, x, y, z float64) (bool, error) {
	err := s.players.UpdatePosition(ctx, playerID, x, y, z)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return false, nil
		}
		return false, oops.Code("PROGRESS_SAVE_POSITION_FAILED").
			With("player_id", playerID.String()).
			Wrap(err)
	}

	s.logger.Debug("position saved",
		"player_id", playerID.String(),
		"x", x, "y", y, "z", z,
	)
	return true, nil
}

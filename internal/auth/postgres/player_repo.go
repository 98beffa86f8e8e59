// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

// Package postgres implements auth repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/shadowrealm/shadowrealm/internal/auth"
)

// poolIface abstracts query execution so repositories work against both
// *pgxpool.Pool and pgxmock pools in tests.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PlayerRepository implements auth.PlayerRepository using PostgreSQL.
type PlayerRepository struct {
	pool poolIface
}

// NewPlayerRepository creates a new PlayerRepository.
func NewPlayerRepository(pool poolIface) *PlayerRepository {
	return &PlayerRepository{pool: pool}
}

// Create stores a new player. A unique violation on the username index
// is reported as auth.ErrUsernameTaken so concurrent registrations for
// the same name resolve deterministically.
func (r *PlayerRepository) Create(ctx context.Context, player *auth.Player) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO players (
			id, username, password_hash, pos_x, pos_y, pos_z,
			level, experience, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		player.ID.String(),
		player.Username,
		player.PasswordHash,
		player.PosX,
		player.PosY,
		player.PosZ,
		player.Level,
		player.Experience,
		player.CreatedAt,
		player.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("AUTH_USERNAME_TAKEN").
				With("username", player.Username).
				Wrap(auth.ErrUsernameTaken)
		}
		return oops.Code("PLAYER_CREATE_FAILED").
			With("operation", "insert player").
			With("username", player.Username).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a player by ID.
func (r *PlayerRepository) GetByID(ctx context.Context, id ulid.ULID) (*auth.Player, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, pos_x, pos_y, pos_z,
		       level, experience, created_at, updated_at
		FROM players
		WHERE id = $1
	`, id.String())

	player, err := scanPlayer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PLAYER_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PLAYER_GET_BY_ID_FAILED").
			With("operation", "get player by id").
			With("id", id.String()).
			Wrap(err)
	}
	return player, nil
}

// GetByUsername retrieves a player by exact username. Usernames are
// case-sensitive, so no folding happens here.
func (r *PlayerRepository) GetByUsername(ctx context.Context, username string) (*auth.Player, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, pos_x, pos_y, pos_z,
		       level, experience, created_at, updated_at
		FROM players
		WHERE username = $1
	`, username)

	player, err := scanPlayer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PLAYER_NOT_FOUND").
			With("username", username).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PLAYER_GET_BY_USERNAME_FAILED").
			With("operation", "get player by username").
			With("username", username).
			Wrap(err)
	}
	return player, nil
}

// UpdatePosition overwrites the player's position coordinates.
func (r *PlayerRepository) UpdatePosition(ctx context.Context, id ulid.ULID, x, y, z float64) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE players SET pos_x = $2, pos_y = $3, pos_z = $4, updated_at = $5
		WHERE id = $1
	`, id.String(), x, y, z, time.Now().UTC())
	if err != nil {
		return oops.Code("PLAYER_UPDATE_POSITION_FAILED").
			With("operation", "update position").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PLAYER_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// scanPlayer scans a single row into a Player.
// Callers are responsible for handling pgx.ErrNoRows.
func scanPlayer(row pgx.Row) (*auth.Player, error) {
	var (
		idStr        string
		username     string
		passwordHash string
		posX         float64
		posY         float64
		posZ         float64
		level        int
		experience   int
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(
		&idStr,
		&username,
		&passwordHash,
		&posX,
		&posY,
		&posZ,
		&level,
		&experience,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("PLAYER_SCAN_FAILED").
			With("operation", "scan player").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("PLAYER_INVALID_ID").
			With("operation", "parse player id").
			With("id", idStr).
			Wrap(err)
	}

	return &auth.Player{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		PosX:         posX,
		PosY:         posY,
		PosZ:         posZ,
		Level:        level,
		Experience:   experience,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

// Compile-time interface check.
var _ auth.PlayerRepository = (*PlayerRepository)(nil)

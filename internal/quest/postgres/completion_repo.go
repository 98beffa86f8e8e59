// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

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

	"github.com/shadowrealm/shadowrealm/internal/quest"
)

// CompletionRepository implements quest.CompletionRepository using PostgreSQL.
type CompletionRepository struct {
	pool querier
}

// NewCompletionRepository creates a new CompletionRepository.
func NewCompletionRepository(pool querier) *CompletionRepository {
	return &CompletionRepository{pool: pool}
}

// Create inserts a completion record. The composite primary key on
// (player_id, quest_id) makes duplicate inserts fail with a unique
// violation, reported as quest.ErrAlreadyCompleted.
func (r *CompletionRepository) Create(ctx context.Context, c *quest.Completion) error {
	_, err := db(ctx, r.pool).Exec(ctx, `
		INSERT INTO quest_completions (player_id, quest_id, completed_at)
		VALUES ($1, $2, $3)
	`, c.PlayerID.String(), c.QuestID.String(), c.CompletedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("QUEST_ALREADY_COMPLETED").
				With("player_id", c.PlayerID.String()).
				With("quest_id", c.QuestID.String()).
				Wrap(quest.ErrAlreadyCompleted)
		}
		return oops.Code("COMPLETION_CREATE_FAILED").
			With("operation", "insert completion").
			With("player_id", c.PlayerID.String()).
			With("quest_id", c.QuestID.String()).
			Wrap(err)
	}
	return nil
}

// PlayerProgressStore implements quest.PlayerProgress over the players table.
type PlayerProgressStore struct {
	pool querier
}

// NewPlayerProgressStore creates a new PlayerProgressStore.
func NewPlayerProgressStore(pool querier) *PlayerProgressStore {
	return &PlayerProgressStore{pool: pool}
}

// Exists reports whether a player record exists.
func (s *PlayerProgressStore) Exists(ctx context.Context, playerID ulid.ULID) (bool, error) {
	var exists bool
	err := db(ctx, s.pool).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM players WHERE id = $1)
	`, playerID.String()).Scan(&exists)
	if err != nil {
		return false, oops.Code("PLAYER_EXISTS_FAILED").
			With("operation", "check player exists").
			With("player_id", playerID.String()).
			Wrap(err)
	}
	return exists, nil
}

// AddExperience atomically increments a player's experience and returns
// the new total. The increment happens in the store, so two concurrent
// credits never read a stale counter.
func (s *PlayerProgressStore) AddExperience(ctx context.Context, playerID ulid.ULID, delta int) (int, error) {
	var total int
	err := db(ctx, s.pool).QueryRow(ctx, `
		UPDATE players SET experience = experience + $2, updated_at = $3
		WHERE id = $1
		RETURNING experience
	`, playerID.String(), delta, time.Now().UTC()).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, oops.Code("PLAYER_NOT_FOUND").
			With("player_id", playerID.String()).
			Wrap(quest.ErrNotFound)
	}
	if err != nil {
		return 0, oops.Code("PLAYER_ADD_EXPERIENCE_FAILED").
			With("operation", "add experience").
			With("player_id", playerID.String()).
			Wrap(err)
	}
	return total, nil
}

// Compile-time interface checks.
var (
	_ quest.CompletionRepository = (*CompletionRepository)(nil)
	_ quest.PlayerProgress       = (*PlayerProgressStore)(nil)
)

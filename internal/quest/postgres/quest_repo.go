// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

// Package postgres implements quest repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/shadowrealm/shadowrealm/internal/quest"
)

// QuestRepository implements quest.QuestRepository using PostgreSQL.
type QuestRepository struct {
	pool querier
}

// NewQuestRepository creates a new QuestRepository.
func NewQuestRepository(pool querier) *QuestRepository {
	return &QuestRepository{pool: pool}
}

// Create stores a new catalog entry.
func (r *QuestRepository) Create(ctx context.Context, q *quest.Quest) error {
	_, err := db(ctx, r.pool).Exec(ctx, `
		INSERT INTO quests (id, title, description, reward_xp)
		VALUES ($1, $2, $3, $4)
	`, q.ID.String(), q.Title, q.Description, q.RewardXP)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("QUEST_DUPLICATE").
				With("id", q.ID.String()).
				Wrap(err)
		}
		return oops.Code("QUEST_CREATE_FAILED").
			With("operation", "insert quest").
			With("title", q.Title).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a quest by ID.
func (r *QuestRepository) GetByID(ctx context.Context, id ulid.ULID) (*quest.Quest, error) {
	row := db(ctx, r.pool).QueryRow(ctx, `
		SELECT id, title, description, reward_xp
		FROM quests
		WHERE id = $1
	`, id.String())

	q, err := scanQuest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("QUEST_NOT_FOUND").
			With("id", id.String()).
			Wrap(quest.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("QUEST_GET_BY_ID_FAILED").
			With("operation", "get quest by id").
			With("id", id.String()).
			Wrap(err)
	}
	return q, nil
}

// ListAvailable returns catalog quests the player has not completed.
// The set difference runs in the store so the snapshot is consistent.
func (r *QuestRepository) ListAvailable(ctx context.Context, playerID ulid.ULID) ([]quest.Quest, error) {
	rows, err := db(ctx, r.pool).Query(ctx, `
		SELECT q.id, q.title, q.description, q.reward_xp
		FROM quests q
		WHERE NOT EXISTS (
			SELECT 1 FROM quest_completions c
			WHERE c.quest_id = q.id AND c.player_id = $1
		)
		ORDER BY q.id
	`, playerID.String())
	if err != nil {
		return nil, oops.Code("QUEST_LIST_FAILED").
			With("operation", "list available quests").
			With("player_id", playerID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var quests []quest.Quest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, oops.Code("QUEST_LIST_FAILED").
				With("operation", "scan quest row").
				Wrap(err)
		}
		quests = append(quests, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("QUEST_LIST_FAILED").
			With("operation", "iterate quests").
			Wrap(err)
	}
	return quests, nil
}

// scanQuest scans a single row into a Quest.
// Callers are responsible for handling pgx.ErrNoRows.
func scanQuest(row pgx.Row) (*quest.Quest, error) {
	var (
		idStr       string
		title       string
		description string
		rewardXP    int
	)

	if err := row.Scan(&idStr, &title, &description, &rewardXP); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("QUEST_SCAN_FAILED").
			With("operation", "scan quest").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("QUEST_INVALID_ID").
			With("operation", "parse quest id").
			With("id", idStr).
			Wrap(err)
	}

	return &quest.Quest{
		ID:          id,
		Title:       title,
		Description: description,
		RewardXP:    rewardXP,
	}, nil
}

// Compile-time interface check.
var _ quest.QuestRepository = (*QuestRepository)(nil)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

package quest

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Quest is a static catalog entry. Quests are created by seed data and
// immutable during normal operation.
type Quest struct {
	ID          ulid.ULID
	Title       string
	Description string
	RewardXP    int
}

// NewQuest creates a catalog entry with a fresh ID.
func NewQuest(title, description string, rewardXP int) (*Quest, error) {
	if title == "" {
		return nil, oops.Code("QUEST_INVALID").Errorf("title cannot be empty")
	}
	if rewardXP <= 0 {
		return nil, oops.Code("QUEST_INVALID").
			With("reward_xp", rewardXP).
			Errorf("reward XP must be positive")
	}
	return &Quest{
		ID:          ulid.Make(),
		Title:       title,
		Description: description,
		RewardXP:    rewardXP,
	}, nil
}

// Completion records that a player has completed a quest. At most one
// record may ever exist per (player, quest) pair.
type Completion struct {
	PlayerID    ulid.ULID
	QuestID     ulid.ULID
	CompletedAt time.Time
}

// NewCompletion creates a completion record for the given pair.
func NewCompletion(playerID, questID ulid.ULID) (*Completion, error) {
	var zero ulid.ULID
	if playerID == zero {
		return nil, oops.Code("QUEST_INVALID").Errorf("player ID cannot be zero")
	}
	if questID == zero {
		return nil, oops.Code("QUEST_INVALID").Errorf("quest ID cannot be zero")
	}
	return &Completion{
		PlayerID:    playerID,
		QuestID:     questID,
		CompletedAt: time.Now().UTC(),
	}, nil
}

// CompletionResult reports a successful completion.
type CompletionResult struct {
	QuestID          ulid.ULID
	ExperienceGained int
	TotalExperience  int
}

// QuestRepository manages the quest catalog.
type QuestRepository interface {
	// Create stores a new catalog entry. Used by seeding only.
	Create(ctx context.Context, quest *Quest) error

	// GetByID retrieves a quest by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id ulid.ULID) (*Quest, error)

	// ListAvailable returns catalog quests the player has not completed,
	// in catalog order.
	ListAvailable(ctx context.Context, playerID ulid.ULID) ([]Quest, error)
}

// CompletionRepository manages completion records.
type CompletionRepository interface {
	// Create inserts a completion record. Returns ErrAlreadyCompleted
	// if the (player, quest) pair already has one.
	Create(ctx context.Context, completion *Completion) error
}

// PlayerProgress exposes the slice of player state the completion
// engine needs: existence and the experience counter.
type PlayerProgress interface {
	// Exists reports whether a player record exists.
	Exists(ctx context.Context, playerID ulid.ULID) (bool, error)

	// AddExperience atomically increments a player's experience and
	// returns the new total. Returns ErrNotFound if the player is absent.
	AddExperience(ctx context.Context, playerID ulid.ULID, delta int) (int, error)
}

// Transactor runs a function inside a storage transaction. Repository
// methods called with the context it provides participate in the same
// transaction.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

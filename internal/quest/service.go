// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

package quest

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service is the quest completion engine.
type Service struct {
	quests      QuestRepository
	completions CompletionRepository
	players     PlayerProgress
	tx          Transactor
	logger      *slog.Logger
}

// NewService creates a new Service.
func NewService(quests QuestRepository, completions CompletionRepository, players PlayerProgress, tx Transactor) (*Service, error) {
	return NewServiceWithLogger(quests, completions, players, tx, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(quests QuestRepository, completions CompletionRepository, players PlayerProgress, tx Transactor, logger *slog.Logger) (*Service, error) {
	if quests == nil {
		return nil, oops.Code("QUEST_CONFIG_INVALID").Errorf("quest repository is required")
	}
	if completions == nil {
		return nil, oops.Code("QUEST_CONFIG_INVALID").Errorf("completion repository is required")
	}
	if players == nil {
		return nil, oops.Code("QUEST_CONFIG_INVALID").Errorf("player progress store is required")
	}
	if tx == nil {
		return nil, oops.Code("QUEST_CONFIG_INVALID").Errorf("transactor is required")
	}
	if logger == nil {
		return nil, oops.Code("QUEST_CONFIG_INVALID").Errorf("logger is required")
	}
	return &Service{
		quests:      quests,
		completions: completions,
		players:     players,
		tx:          tx,
		logger:      logger,
	}, nil
}

// GetAvailable returns the catalog quests the player has not yet
// completed. The result is a snapshot valid at call time only.
func (s *Service) GetAvailable(ctx context.Context, playerID ulid.ULID) ([]Quest, error) {
	quests, err := s.quests.ListAvailable(ctx, playerID)
	if err != nil {
		return nil, oops.Code("QUEST_LIST_FAILED").
			With("operation", "list available quests").
			With("player_id", playerID.String()).
			Wrap(err)
	}

	s.logger.Debug("listed available quests",
		"player_id", playerID.String(),
		"count", len(quests),
	)
	return quests, nil
}

// Complete marks a quest as completed and credits its reward exactly
// once. The completion insert and the experience increment run in a
// single transaction; the composite key on completions turns the
// concurrent-duplicate race into ErrAlreadyCompleted for the loser.
func (s *Service) Complete(ctx context.Context, playerID, questID ulid.ULID) (*CompletionResult, error) {
	exists, err := s.players.Exists(ctx, playerID)
	if err != nil {
		return nil, oops.Code("QUEST_COMPLETE_FAILED").
			With("operation", "check player").
			With("player_id", playerID.String()).
			Wrap(err)
	}
	if !exists {
		return nil, oops.Code("PLAYER_NOT_FOUND").
			With("player_id", playerID.String()).
			Wrap(ErrNotFound)
	}

	q, err := s.quests.GetByID(ctx, questID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("QUEST_NOT_FOUND").
				With("quest_id", questID.String()).
				Wrap(err)
		}
		return nil, oops.Code("QUEST_COMPLETE_FAILED").
			With("operation", "get quest").
			With("quest_id", questID.String()).
			Wrap(err)
	}

	completion, err := NewCompletion(playerID, questID)
	if err != nil {
		return nil, oops.Code("QUEST_COMPLETE_FAILED").
			With("operation", "create completion").
			Wrap(err)
	}

	var total int
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.completions.Create(ctx, completion); err != nil {
			return err
		}
		newTotal, err := s.players.AddExperience(ctx, playerID, q.RewardXP)
		if err != nil {
			return err
		}
		total = newTotal
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyCompleted) {
			return nil, oops.Code("QUEST_ALREADY_COMPLETED").
				With("player_id", playerID.String()).
				With("quest_id", questID.String()).
				Wrap(err)
		}
		if errors.Is(err, ErrNotFound) {
			// Player row vanished between the existence check and the
			// increment. Report it as the same precondition failure.
			return nil, oops.Code("PLAYER_NOT_FOUND").
				With("player_id", playerID.String()).
				Wrap(err)
		}
		return nil, oops.Code("QUEST_COMPLETE_FAILED").
			With("operation", "apply completion").
			With("player_id", playerID.String()).
			With("quest_id", questID.String()).
			Wrap(err)
	}

	s.logger.Info("quest completed",
		"player_id", playerID.String(),
		"quest_id", questID.String(),
		"quest_title", q.Title,
		"experience_gained", q.RewardXP,
		"total_experience", total,
	)

	return &CompletionResult{
		QuestID:          questID,
		ExperienceGained: q.RewardXP,
		TotalExperience:  total,
	}, nil
}

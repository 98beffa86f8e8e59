// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

// Package quest provides the quest catalog and the completion engine.
//
// Completion state per (player, quest) pair is binary and terminal:
// once a Completion record exists it is never updated or deleted, and
// the player's experience has been credited exactly once. The composite
// primary key on completions is the authority under concurrency; a
// duplicate insert loses with a unique violation that surfaces as
// ErrAlreadyCompleted rather than as a second reward.
package quest

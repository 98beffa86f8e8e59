// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

package quest

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyCompleted is returned when a (player, quest) completion
// record already exists. Repository implementations map the store's
// unique violation to this error so a lost race reads the same as a
// repeat call.
var ErrAlreadyCompleted = errors.New("quest already completed")

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned when a username is already registered.
// Repository implementations map store-level unique violations to this
// error so concurrent registrations resolve to it rather than to a
// generic persistence failure.
var ErrUsernameTaken = errors.New("username taken")

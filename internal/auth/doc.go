// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

// Package auth provides player identity primitives for ShadowRealm.
//
// # Domain Types
//
// Player is the identity and progression aggregate. Create it with
// NewPlayer, which assigns the ID and default progression fields.
// Direct struct initialization bypasses validation and may create
// invalid state.
//
// # Services
//
// Service orchestrates registration and login over a PlayerRepository,
// a PasswordHasher, and a TokenIssuer. It never stores cleartext
// passwords and never reveals whether a failed login was caused by the
// username or the password.
package auth

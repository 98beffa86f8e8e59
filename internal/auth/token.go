// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = 60 * time.Minute

// TokenConfig defines how identity tokens are signed and scoped.
type TokenConfig struct {
	Key      []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

// IdentityClaims are the validated claims carried by an identity token.
type IdentityClaims struct {
	PlayerID  ulid.ULID
	Username  string
	ExpiresAt time.Time
}

// identityClaims is the internal claims type used for JWT signing and parsing.
type identityClaims struct {
	jwt.RegisteredClaims
	Username string `json:"name"`
}

// TokenIssuer produces and verifies signed, time-limited identity tokens.
// Verification must use the identical issuer, audience, and key as
// issuance; both live here so they cannot drift apart.
type TokenIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

// NewTokenIssuer creates a TokenIssuer from the given configuration.
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if len(cfg.Key) == 0 {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("signing key is required")
	}
	if cfg.Issuer == "" {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("issuer is required")
	}
	if cfg.Audience == "" {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("audience is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	return &TokenIssuer{cfg: cfg, now: time.Now}, nil
}

// Issue produces a signed HS256 token binding the player ID and username,
// valid for the configured TTL from now.
func (i *TokenIssuer) Issue(playerID ulid.ULID, username string) (string, error) {
	now := i.now()
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID.String(),
			Issuer:    i.cfg.Issuer,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.TTL)),
		},
		Username: username,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.Key)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").
			With("player_id", playerID.String()).
			Wrap(err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its identity claims.
func (i *TokenIssuer) Verify(token string) (*IdentityClaims, error) {
	if token == "" {
		return nil, oops.Code("TOKEN_INVALID").Errorf("token cannot be empty")
	}

	var parsed identityClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return i.cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithAudience(i.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, oops.Code("TOKEN_INVALID").Wrap(err)
	}

	playerID, err := ulid.Parse(parsed.Subject)
	if err != nil {
		return nil, oops.Code("TOKEN_INVALID").
			With("operation", "parse subject").
			Wrap(err)
	}

	return &IdentityClaims{
		PlayerID:  playerID,
		Username:  parsed.Username,
		ExpiresAt: parsed.ExpiresAt.Time,
	}, nil
}

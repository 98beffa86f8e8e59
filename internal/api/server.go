// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

// Package api exposes the game services over HTTP. Handlers contain no
// game logic; they decode requests, call a service, and map the result
// to a status code.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/samber/oops"

	"github.com/shadowrealm/shadowrealm/internal/auth"
	"github.com/shadowrealm/shadowrealm/internal/observability"
	"github.com/shadowrealm/shadowrealm/internal/progress"
	"github.com/shadowrealm/shadowrealm/internal/quest"
)

// Server routes HTTP requests to the game services.
type Server struct {
	auth     *auth.Service
	progress *progress.Service
	quests   *quest.Service
	tokens   *auth.TokenIssuer
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewServer creates a new Server. The metrics argument may be nil when
// no observability endpoint is configured.
func NewServer(authSvc *auth.Service, progressSvc *progress.Service, questSvc *quest.Service, tokens *auth.TokenIssuer, metrics *observability.Metrics, logger *slog.Logger) (*Server, error) {
	if authSvc == nil {
		return nil, oops.Code("API_CONFIG_INVALID").Errorf("auth service is required")
	}
	if progressSvc == nil {
		return nil, oops.Code("API_CONFIG_INVALID").Errorf("progress service is required")
	}
	if questSvc == nil {
		return nil, oops.Code("API_CONFIG_INVALID").Errorf("quest service is required")
	}
	if tokens == nil {
		return nil, oops.Code("API_CONFIG_INVALID").Errorf("token issuer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		auth:     authSvc,
		progress: progressSvc,
		quests:   questSvc,
		tokens:   tokens,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.countRequests)

	r.HandleFunc("/api/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(s.requireAuth)
	authed.HandleFunc("/api/player/me", s.handlePlayerInfo).Methods(http.MethodGet)
	authed.HandleFunc("/api/player/state", s.handlePlayerState).Methods(http.MethodGet)
	authed.HandleFunc("/api/player/save", s.handlePlayerSave).Methods(http.MethodPost)
	authed.HandleFunc("/api/quest", s.handleQuestList).Methods(http.MethodGet)
	authed.HandleFunc("/api/quest/complete/{id}", s.handleQuestComplete).Methods(http.MethodPost)

	return r
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/oklog/ulid/v2"

	"github.com/shadowrealm/shadowrealm/internal/auth"
)

// identityKey is the context key for the authenticated player identity.
type identityKey struct{}

// requireAuth validates the Bearer token and stores the identity claims
// in the request context. The player id always comes from the token,
// never from the request body or path.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			s.writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusRecorder captures the response status for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// countRequests records one observation per request, labelled by route
// template and response status.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

// playerID extracts the authenticated player id from the request context.
func playerID(r *http.Request) (ulid.ULID, bool) {
	claims, ok := r.Context().Value(identityKey{}).(*auth.IdentityClaims)
	if !ok {
		return ulid.ULID{}, false
	}
	return claims.PlayerID, true
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

package api

import (
	"encoding/json"
	"net/http"

	"github.com/samber/oops"

	"github.com/shadowrealm/shadowrealm/pkg/errutil"
)

// errorResponse is the JSON body for all failure responses.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps a service error to an HTTP status by its oops code.
// Unknown codes are treated as internal failures and the detail is
// logged rather than leaked to the client.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	if oopsErr, ok := oops.AsOops(err); ok {
		switch oopsErr.Code() {
		case "AUTH_USERNAME_TAKEN":
			status, message = http.StatusConflict, "username already taken"
		case "AUTH_INVALID_CREDENTIALS":
			status, message = http.StatusUnauthorized, "invalid username or password"
		case "AUTH_INVALID_USERNAME", "AUTH_EMPTY_PASSWORD", "QUEST_INVALID":
			status, message = http.StatusBadRequest, oopsErr.Error()
		case "PLAYER_NOT_FOUND":
			status, message = http.StatusNotFound, "player not found"
		case "QUEST_NOT_FOUND":
			status, message = http.StatusNotFound, "quest not found"
		case "QUEST_ALREADY_COMPLETED":
			status, message = http.StatusConflict, "quest already completed"
		case "TOKEN_INVALID":
			status, message = http.StatusUnauthorized, "invalid token"
		}
	}

	if status == http.StatusInternalServerError {
		errutil.LogError(s.logger, "request failed", err)
	}
	s.writeJSON(w, status, errorResponse{Error: message})
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

package api

import (
	"encoding/json"
	"math"
	"net/http"
)

type playerInfoResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`
}

type playerStateResponse struct {
	PosX       float64 `json:"posX"`
	PosY       float64 `json:"posY"`
	PosZ       float64 `json:"posZ"`
	Level      int     `json:"level"`
	Experience int     `json:"experience"`
}

type savePositionRequest struct {
	PosX float64 `json:"posX"`
	PosY float64 `json:"posY"`
	PosZ float64 `json:"posZ"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handlePlayerInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(r)
	if !ok {
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	info, err := s.progress.GetInfo(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if info == nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "player not found"})
		return
	}

	s.writeJSON(w, http.StatusOK, playerInfoResponse{
		ID:         info.ID.String(),
		Username:   info.Username,
		Level:      info.Level,
		Experience: info.Experience,
	})
}

func (s *Server) handlePlayerState(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(r)
	if !ok {
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	state, err := s.progress.GetState(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if state == nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "player not found"})
		return
	}

	s.writeJSON(w, http.StatusOK, playerStateResponse{
		PosX:       state.PosX,
		PosY:       state.PosY,
		PosZ:       state.PosZ,
		Level:      state.Level,
		Experience: state.Experience,
	})
}

func (s *Server) handlePlayerSave(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(r)
	if !ok {
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	var req savePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if !isFinite(req.PosX) || !isFinite(req.PosY) || !isFinite(req.PosZ) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "coordinates must be finite"})
		return
	}

	saved, err := s.progress.SavePosition(r.Context(), id, req.PosX, req.PosY, req.PosZ)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !saved {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "player not found"})
		return
	}

	s.writeJSON(w, http.StatusOK, messageResponse{Message: "player position saved"})
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

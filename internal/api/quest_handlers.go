// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/oklog/ulid/v2"
)

type questResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	RewardXP    int    `json:"rewardXp"`
}

type questCompletionResponse struct {
	Message          string `json:"message"`
	ExperienceGained int    `json:"experienceGained"`
	TotalExperience  int    `json:"totalExperience"`
}

func (s *Server) handleQuestList(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(r)
	if !ok {
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	quests, err := s.quests.GetAvailable(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := make([]questResponse, 0, len(quests))
	for _, q := range quests {
		resp = append(resp, questResponse{
			ID:          q.ID.String(),
			Title:       q.Title,
			Description: q.Description,
			RewardXP:    q.RewardXP,
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQuestComplete(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(r)
	if !ok {
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	questID, err := ulid.Parse(mux.Vars(r)["id"])
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid quest id"})
		return
	}

	result, err := s.quests.Complete(r.Context(), id, questID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.QuestCompletionsTotal.WithLabelValues("failure").Inc()
		}
		s.writeError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.QuestCompletionsTotal.WithLabelValues("success").Inc()
	}
	s.writeJSON(w, http.StatusOK, questCompletionResponse{
		Message:          "quest completed",
		ExperienceGained: result.ExperienceGained,
		TotalExperience:  result.TotalExperience,
	})
}

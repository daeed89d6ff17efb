package api

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/nurse-matcher/internal/logger"
	"github.com/spigell/nurse-matcher/internal/matching"
	"github.com/spigell/nurse-matcher/internal/store"
)

type matchesResponse struct {
	CandidateID string                 `json:"candidate_id"`
	Matches     []matching.MatchResult `json:"matches"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := CandidateID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing candidate identity")
		return
	}

	results, err := s.matcher.MatchCandidate(r.Context(), candidateID)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrProfileNotFound):
		respondError(w, http.StatusNotFound, "candidate profile not found")
		return
	case errors.Is(err, context.Canceled):
		// Client went away, nobody reads the response.
		return
	default:
		s.logger.Error("matching failed", zap.String(logger.FieldCandidate, candidateID), zap.Error(err))
		respondError(w, http.StatusBadGateway, "matching is temporarily unavailable")
		return
	}

	if results == nil {
		results = []matching.MatchResult{}
	}
	respondJSON(w, http.StatusOK, matchesResponse{CandidateID: candidateID, Matches: results})
}

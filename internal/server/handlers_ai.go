package server

import (
	"net/http"

	"github.com/jonathan/jobconnect/internal/types"
)

// ---------------------------------------------------------------------
// AI Handlers
// ---------------------------------------------------------------------

func (s *Server) handleAIStatus(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.ai.Status())
}

func (s *Server) handleAIExtractSkills(w http.ResponseWriter, r *http.Request) {
	var req types.ExtractSkillsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	skills, source := s.ai.ExtractSkills(r.Context(), req.Text)
	s.jsonResponse(w, http.StatusOK, map[string]any{"skills": skills, "source": source})
}

func (s *Server) handleAIGenerateTags(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateTagsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tags, source := s.ai.GenerateTags(r.Context(), req.Content, req.Category)
	s.jsonResponse(w, http.StatusOK, map[string]any{"tags": tags, "source": source})
}

func (s *Server) handleAIAnalyzeSentiment(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeSentimentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sentiment, source := s.ai.AnalyzeSentiment(r.Context(), req.Content)
	s.jsonResponse(w, http.StatusOK, map[string]any{"sentiment": sentiment, "source": source})
}

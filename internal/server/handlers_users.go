package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobconnect/internal/matching"
	"github.com/jonathan/jobconnect/internal/types"
)

// ---------------------------------------------------------------------
// User Handlers
// ---------------------------------------------------------------------

func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := types.UserFilters{
		Query: strings.TrimSpace(q.Get("q")),
		Skill: strings.TrimSpace(q.Get("skill")),
	}

	switch at := types.AccountType(q.Get("accountType")); at {
	case "", types.AccountJobSeeker, types.AccountEmployer, types.AccountBoth:
		filters.AccountType = at
	default:
		s.writeError(w, r, &ErrValidation{Field: "accountType", Message: "oneof"})
		return
	}

	var err error
	if filters.Limit, err = queryInt(r, "limit", 0); err != nil {
		s.writeError(w, r, err)
		return
	}
	if filters.Offset, err = queryInt(r, "offset", 0); err != nil {
		s.writeError(w, r, err)
		return
	}

	users, err := s.store.SearchUsers(r.Context(), filters)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if user == nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Apply(user)

	updated, err := s.store.UpdateUser(r.Context(), user)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.DeleteUser(r.Context(), userID); err != nil {
		s.writeError(w, r, err)
		return
	}

	http.SetCookie(w, s.authHandler.cookie("", -1))
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}

// handleExtractProfileSkills extracts skills from free text and, when asked,
// merges them into the caller's profile.
func (s *Server) handleExtractProfileSkills(w http.ResponseWriter, r *http.Request) {
	user, err := s.caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.ExtractSkillsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	skills, source := s.ai.ExtractSkills(r.Context(), req.Text)
	response := map[string]any{
		"skills": skills,
		"source": source,
	}

	if req.Save {
		user.Skills = types.MergeSkills(user.Skills, skills)
		updated, err := s.store.UpdateUser(r.Context(), user)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		response["user"] = updated
	}

	s.jsonResponse(w, http.StatusOK, response)
}

// handleConnectionSuggestions ranks users the caller has no edge with.
func (s *Server) handleConnectionSuggestions(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", matching.DefaultLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		current    *types.User
		candidates []*types.User
		connected  map[uuid.UUID]bool
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		current, err = s.userService.CurrentUser(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		candidates, err = s.store.ListSuggestionCandidates(ctx, userID, matching.MaxCandidates)
		return err
	})
	g.Go(func() error {
		var err error
		connected, err = s.store.ConnectedUserIDs(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"suggestions": matching.SuggestConnections(current, candidates, connected, limit),
	})
}

// caller loads the authenticated user's profile.
func (s *Server) caller(r *http.Request) (*types.User, error) {
	userID, err := callerID(r)
	if err != nil {
		return nil, err
	}
	return s.userService.CurrentUser(r.Context(), userID)
}

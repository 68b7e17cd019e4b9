package server

import (
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobconnect/internal/matching"
	"github.com/jonathan/jobconnect/internal/types"
)

// ---------------------------------------------------------------------
// Job Handlers
// ---------------------------------------------------------------------

func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := types.JobFilters{
		Query:        strings.TrimSpace(q.Get("q")),
		JobType:      strings.TrimSpace(q.Get("jobType")),
		WorkLocation: strings.TrimSpace(q.Get("workLocation")),
		Skill:        strings.TrimSpace(q.Get("skill")),
		City:         strings.TrimSpace(q.Get("city")),
	}

	switch status := types.JobStatus(q.Get("status")); status {
	case "", types.JobOpen, types.JobClosed:
		filters.Status = status
	default:
		s.writeError(w, r, &ErrValidation{Field: "status", Message: "oneof"})
		return
	}

	var err error
	if filters.EmployerID, err = queryUUID(r, "employerId"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if filters.Limit, err = queryInt(r, "limit", 0); err != nil {
		s.writeError(w, r, err)
		return
	}
	if filters.Offset, err = queryInt(r, "offset", 0); err != nil {
		s.writeError(w, r, err)
		return
	}

	jobs, err := s.store.SearchJobs(r.Context(), filters)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, jobs)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	job, err := s.store.GetJob(r.Context(), jobID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	user, err := s.caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !user.AccountType.CanPostJobs() {
		s.writeError(w, r, &ErrForbidden{Action: "only employers can post jobs"})
		return
	}

	var req types.CreateJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	job, err := s.store.CreateJob(r.Context(), req.ToJob(user.ID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, job)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.ownedJob(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.UpdateJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Apply(job)

	updated, err := s.store.UpdateJob(r.Context(), job)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.ownedJob(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.DeleteJob(r.Context(), job.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Job deleted"})
}

func (s *Server) handleListMyJobs(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	jobs, err := s.store.ListJobsByEmployer(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, jobs)
}

// handleJobRecommendations ranks open jobs the caller neither posted nor applied to.
func (s *Server) handleJobRecommendations(w http.ResponseWriter, r *http.Request) {
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
		user *types.User
		jobs []*types.Job
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		user, err = s.userService.CurrentUser(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		jobs, err = s.store.ListRecommendationCandidates(ctx, userID, matching.MaxCandidates)
		return err
	})
	if err := g.Wait(); err != nil {
		s.writeError(w, r, err)
		return
	}

	ranked, source := s.ai.RecommendJobs(r.Context(), user, jobs, limit)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"recommendations": ranked,
		"source":          source,
	})
}

// handleImportJob fetches a posting page and returns an editable job draft.
func (s *Server) handleImportJob(w http.ResponseWriter, r *http.Request) {
	if s.fetcher == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Job import is not available")
		return
	}

	user, err := s.caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !user.AccountType.CanPostJobs() {
		s.writeError(w, r, &ErrForbidden{Action: "only employers can import jobs"})
		return
	}

	var req types.ImportJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	page, err := s.fetcher.Fetch(r.Context(), req.URL, req.UseBrowser)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	draft, source := s.ai.DraftJob(r.Context(), page.Title, page.Text, page.URL)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"draft":    draft,
		"source":   source,
		"platform": page.Platform,
		"rendered": page.Rendered,
	})
}

// ownedJob loads the job in the path and checks the caller posted it.
func (s *Server) ownedJob(r *http.Request) (*types.Job, error) {
	userID, err := callerID(r)
	if err != nil {
		return nil, err
	}
	jobID, err := pathUUID(r, "id")
	if err != nil {
		return nil, err
	}

	job, err := s.store.GetJob(r.Context(), jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &ErrNotFound{Entity: "job", ID: jobID.String()}
	}
	if job.EmployerID != userID {
		return nil, &ErrForbidden{Action: "only the employer who posted the job can change it"}
	}
	return job, nil
}

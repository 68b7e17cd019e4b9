package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/jobconnect/internal/db"
	"github.com/jonathan/jobconnect/internal/types"
)

// ---------------------------------------------------------------------
// Application Handlers
// ---------------------------------------------------------------------

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
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
	switch {
	case job == nil:
		s.writeError(w, r, &ErrNotFound{Entity: "job", ID: jobID.String()})
		return
	case job.EmployerID == userID:
		s.writeError(w, r, &ErrValidation{Field: "id", Message: "cannot apply to your own job"})
		return
	case job.Status != types.JobOpen:
		s.writeError(w, r, &ErrValidation{Field: "id", Message: "job is closed"})
		return
	}

	var req types.ApplyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	app, err := s.store.CreateApplication(r.Context(), &types.Application{
		JobID:       jobID,
		ApplicantID: userID,
		CoverLetter: req.CoverLetter,
		ResumeURL:   req.ResumeURL,
	})
	if err != nil {
		var conflict *db.ConflictError
		if errors.As(err, &conflict) {
			err = &ErrConflict{Message: "already applied to this job"}
		}
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, app)
}

func (s *Server) handleListJobApplications(w http.ResponseWriter, r *http.Request) {
	job, err := s.ownedJob(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	apps, err := s.store.ListApplicationsByJob(r.Context(), job.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, apps)
}

func (s *Server) handleListMyApplications(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	apps, err := s.store.ListApplicationsByApplicant(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, apps)
}

// handleUpdateApplicationStatus lets the employer who owns the job review an application.
func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	app, err := s.application(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	job, err := s.store.GetJob(r.Context(), app.JobID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if job == nil || job.EmployerID != userID {
		s.writeError(w, r, &ErrForbidden{Action: "only the job's employer can review applications"})
		return
	}

	var req types.UpdateApplicationStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.store.UpdateApplicationStatus(r.Context(), app.ID, req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleWithdrawApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	app, err := s.application(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if app.ApplicantID != userID {
		s.writeError(w, r, &ErrForbidden{Action: "only the applicant can withdraw an application"})
		return
	}

	if err := s.store.DeleteApplication(r.Context(), app.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Application withdrawn"})
}

func (s *Server) application(r *http.Request) (*types.Application, error) {
	appID, err := pathUUID(r, "id")
	if err != nil {
		return nil, err
	}
	app, err := s.store.GetApplication(r.Context(), appID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, &ErrNotFound{Entity: "application", ID: appID.String()}
	}
	return app, nil
}

package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/jobconnect/internal/db"
	"github.com/jonathan/jobconnect/internal/types"
)

// ---------------------------------------------------------------------
// Connection Handlers
// ---------------------------------------------------------------------

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	targetID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if targetID == userID {
		s.writeError(w, r, &ErrValidation{Field: "id", Message: "cannot connect to yourself"})
		return
	}

	target, err := s.store.GetUser(r.Context(), targetID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if target == nil {
		s.writeError(w, r, &ErrNotFound{Entity: "user", ID: targetID.String()})
		return
	}

	existing, err := s.store.GetConnectionBetween(r.Context(), userID, targetID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if existing != nil {
		s.writeError(w, r, &ErrConflict{Message: "connection already exists"})
		return
	}

	conn, err := s.store.CreateConnection(r.Context(), userID, targetID)
	if err != nil {
		var conflict *db.ConflictError
		if errors.As(err, &conflict) {
			err = &ErrConflict{Message: "connection already exists"}
		}
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, conn)
}

// handleRespondConnection accepts or rejects a pending request addressed to the caller.
func (s *Server) handleRespondConnection(accept bool) http.HandlerFunc {
	status := types.ConnectionRejected
	if accept {
		status = types.ConnectionAccepted
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		connID, err := pathUUID(r, "id")
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		conn, err := s.store.GetConnection(r.Context(), connID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if conn == nil {
			s.writeError(w, r, &ErrNotFound{Entity: "connection", ID: connID.String()})
			return
		}
		if conn.RecipientID != userID {
			s.writeError(w, r, &ErrForbidden{Action: "only the recipient can respond to a connection request"})
			return
		}
		if conn.Status != types.ConnectionPending {
			s.writeError(w, r, &ErrConflict{Message: "connection request is not pending"})
			return
		}

		updated, err := s.store.UpdateConnectionStatus(r.Context(), connID, status)
		if err != nil {
			var conflict *db.ConflictError
			if errors.As(err, &conflict) {
				err = &ErrConflict{Message: "connection request is not pending"}
			}
			s.writeError(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, updated)
	}
}

func (s *Server) handleRemoveConnection(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	otherID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.DeleteConnectionBetween(r.Context(), userID, otherID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Connection removed"})
}

func (s *Server) handleListConnections(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	users, err := s.store.ListConnections(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, users)
}

func (s *Server) handleListPendingConnections(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pending, err := s.store.ListPendingConnections(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, pending)
}

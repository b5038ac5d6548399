package server

import (
	"encoding/json"
	"net/http"

	"todo-service/store"
	"todo-service/structs"
)

type todoRequest struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"createdAt"`
	Completed *bool  `json:"completed"`
}

// CreateTodo indexes a new record owned by the resolved identity. No
// ownership check: the record does not exist yet.
func (s *Server) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, statusBody{Status: http.StatusBadRequest, Message: "invalid request body"})
		return
	}

	profile, err := s.Identity.Resolve(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		s.Log.Error().Err(err).Msg("identity resolution failed")
		s.respond(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	todo := structs.Todo{
		ID:        req.ID,
		Title:     req.Title,
		Completed: false,
		CreatedAt: req.CreatedAt,
		CreatedBy: profile.Email,
		Name:      profile.DisplayName,
		Avatar:    profile.AvatarURL,
	}
	if err := s.Store.Index(r.Context(), req.ID, todo); err != nil {
		s.Log.Error().Err(err).Str("id", req.ID).Msg("index failed")
		s.respond(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respond(w, http.StatusOK, "success")
}

// UpdateTodo patches a record after confirming the requester created
// it. Only fields present in the request touch the stored document.
func (s *Server) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, statusBody{Status: http.StatusBadRequest, Message: "invalid request body"})
		return
	}

	profile, err := s.Identity.Resolve(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		s.Log.Error().Err(err).Msg("identity resolution failed")
		s.respond(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.verifyCreatedBy(r.Context(), profile, req.ID); err != nil {
		s.logOwnership(err, req.ID)
		s.respond(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	patch := store.Patch{Completed: req.Completed}
	if req.Title != "" {
		patch.Title = &req.Title
	}
	if err := s.Store.Update(r.Context(), req.ID, patch); err != nil {
		s.Log.Error().Err(err).Str("id", req.ID).Msg("update failed")
		s.respond(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respond(w, http.StatusOK, "success")
}

// DeleteTodo removes a record after the same ownership check as
// UpdateTodo.
func (s *Server) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, statusBody{Status: http.StatusBadRequest, Message: "invalid request body"})
		return
	}

	profile, err := s.Identity.Resolve(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		s.Log.Error().Err(err).Msg("identity resolution failed")
		s.respond(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.verifyCreatedBy(r.Context(), profile, req.ID); err != nil {
		s.logOwnership(err, req.ID)
		s.respond(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.Store.Delete(r.Context(), req.ID); err != nil {
		s.Log.Error().Err(err).Str("id", req.ID).Msg("delete failed")
		s.respond(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respond(w, http.StatusOK, "success")
}

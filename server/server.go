// Package server holds the mutation handlers and the ownership check
// that guards updates and deletes.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"todo-service/store"
	"todo-service/structs"
)

// Identity resolves the requester's profile from the forwarded bearer
// credential.
type Identity interface {
	Resolve(ctx context.Context, authorization string) (structs.UserProfile, error)
}

// Server carries the handler dependencies.
type Server struct {
	Store    store.Store
	Identity Identity
	Log      zerolog.Logger
}

func New(st store.Store, identity Identity, log zerolog.Logger) *Server {
	return &Server{Store: st, Identity: identity, Log: log}
}

type statusBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// respond writes a handler outcome. The status code rides in the body
// on a 200 transport line; the consuming frontend reads the body's
// status field, not the status line.
func (s *Server) respond(w http.ResponseWriter, status int, message string) {
	writeJSON(w, http.StatusOK, statusBody{Status: status, Message: message})
}

func Start(addr string, handler http.Handler, log zerolog.Logger) error {
	log.Info().Str("addr", addr).Msg("listening")
	srv := http.Server{
		Handler: handler,
		Addr:    addr,
	}
	return srv.ListenAndServe()
}

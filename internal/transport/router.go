package transport

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter builds the HTTP router exposing the WebSocket upgrade route
// and a liveness check.
func NewRouter(s *Server) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws", s.ServeWS)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

// Package httpserver exposes a Router over a single JSON-RPC HTTP
// endpoint, in the teacher's ServeHTTP style (pkg/rpc/server.go).
package httpserver

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/router"
)

// Server adapts a Router to net/http. Every request, regardless of the
// JSON-RPC outcome, gets HTTP 200 with a JSON-RPC envelope body — errors
// live inside the envelope, never in the HTTP status line (spec §4.1).
type Server struct {
	Router *router.Router
	Log    *zap.SugaredLogger
}

func New(r *router.Router, log *zap.SugaredLogger) *Server {
	return &Server{Router: r, Log: log}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.Log.Warnw("failed to read request body", "err", err)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"jsonrpc":"2.0","id":null,"error":{"code":-32700,"message":"failed to read request body"}}`))
		return
	}

	resp := s.Router.Handle(r.Context(), body)
	w.WriteHeader(http.StatusOK)
	w.Write(resp)
}

// ListenAndServe starts the HTTP listener, in the teacher's pattern of a
// single blocking call from main.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

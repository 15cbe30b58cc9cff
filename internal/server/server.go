// Package server exposes a portfolio.Store over HTTP: a JSON API under
// /api/v1 and a websocket feed of change events.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rustyeddy/smartfolio/portfolio"
)

// maxBody bounds request bodies, snapshots included.
const maxBody = 4 << 20

type Server struct {
	Store *portfolio.Store
	Log   *slog.Logger

	upgrader websocket.Upgrader
}

func New(store *portfolio.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		Store: store,
		Log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// single-user local dashboard
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Router returns the complete handler: the API, /ws and /healthz.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ws", s.handleWS)
	s.Mount(r)
	return r
}

func (s *Server) Mount(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/portfolio", s.handlePortfolio)
		r.Get("/health", s.handleHealth)
		r.Get("/accounts", s.handleAccounts)

		r.Post("/orders", s.handleAddOrder)
		r.Post("/orders/{id}/fill", s.handleFillOrder)
		r.Delete("/orders/{id}", s.handleKillOrder)

		r.Post("/journal", s.handleAddJournal)
		r.Delete("/journal/{id}", s.handleRemoveJournal)

		r.Post("/assets/{symbol}/sync", s.handleSync)
		r.Post("/assets/{symbol}/recycle", s.handleRecycle)

		r.Post("/account", s.handleSwitchAccount)
		r.Put("/target", s.handleSetTarget)
		r.Post("/reset", s.handleReset)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})
}

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, apiError{Error: message})
}

func decodeJSONBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shuttleday/shuttleday/internal/api/handler"
	apimiddleware "github.com/shuttleday/shuttleday/internal/api/middleware"
	"github.com/shuttleday/shuttleday/internal/api/sse"
	"github.com/shuttleday/shuttleday/internal/middleware"
	"github.com/shuttleday/shuttleday/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	SessionController *session.Controller
	HubManager        *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.SessionController, cfg.HubManager)
	rosterHandler := handler.NewRosterHandler(cfg.SessionController)
	matchHandler := handler.NewMatchHandler(cfg.SessionController)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Session routes
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	sessions := api.PathPrefix("/sessions/{id}").Subrouter()
	sessions.HandleFunc("", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/reset", sessionHandler.Reset).Methods(http.MethodPost)
	sessions.HandleFunc("/phase", sessionHandler.ForcePhase).Methods(http.MethodPut)
	sessions.HandleFunc("/events", sessionHandler.Events).Methods(http.MethodGet)

	// Participant routes
	sessions.HandleFunc("/participants", rosterHandler.Register).Methods(http.MethodPost)
	sessions.HandleFunc("/participants", rosterHandler.List).Methods(http.MethodGet)
	sessions.HandleFunc("/participants/{participant_id}/check-in", rosterHandler.CheckIn).Methods(http.MethodPost)
	sessions.HandleFunc("/participants/{participant_id}/wait", rosterHandler.EstimatedWait).Methods(http.MethodGet)

	// Match routes
	sessions.HandleFunc("/matches", matchHandler.List).Methods(http.MethodGet)
	sessions.HandleFunc("/matches/{match_id}", matchHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/matches/{match_id}/points", matchHandler.RecordPoint).Methods(http.MethodPost)
	sessions.HandleFunc("/matches/{match_id}/points", matchHandler.RevokePoint).Methods(http.MethodDelete)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

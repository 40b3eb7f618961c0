package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sloghttp "github.com/samber/slog-http"
	channelService "github.com/sourcepaw/sourcebot/internal/modules/channel/service"
	"github.com/sourcepaw/sourcebot/internal/modules/pipeline"
	"github.com/sourcepaw/sourcebot/internal/shared/config"
)

// SessionState reports the lookup session for the status endpoint.
type SessionState interface {
	State() string
}

// Server exposes health and status over HTTP
type Server struct {
	cfg            *config.Config
	channelService *channelService.Service
	pipeline       *pipeline.Service
	session        SessionState
	logger         *slog.Logger
	startedAt      time.Time
}

// New creates a new HTTP server
func New(cfg *config.Config, channelService *channelService.Service, pipe *pipeline.Service, session SessionState) *Server {
	return &Server{
		cfg:            cfg,
		channelService: channelService,
		pipeline:       pipe,
		session:        session,
		logger:         slog.Default(),
		startedAt:      time.Now(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)

	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("Status server starting", "addr", addr)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

type statusResponse struct {
	Channels       int    `json:"channels"`
	ActiveChannels int    `json:"active_channels"`
	Paused         bool   `json:"paused"`
	Session        string `json:"session"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	total, active := s.channelService.Count()
	resp := statusResponse{
		Channels:       total,
		ActiveChannels: active,
		Paused:         s.pipeline.Paused(),
		Session:        s.session.State(),
		UptimeSeconds:  int64(time.Since(s.startedAt).Seconds()),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Error encoding status", "error", err)
	}
}

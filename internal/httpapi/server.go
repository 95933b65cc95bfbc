package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"juliejulie/internal/command"
	"juliejulie/internal/config"
	"juliejulie/internal/observability"
	"juliejulie/internal/speech"
)

const appVersion = "1.0.0"

type Server struct {
	cfg        config.Config
	router     *command.Router
	speaker    *speech.Manager
	hub        *Hub
	metrics    *observability.Metrics
	upgrader   websocket.Upgrader
	processing atomic.Bool

	afterCommand func(ctx context.Context)
}

// SetAfterCommand installs a hook that runs once a command has been fully
// handled and spoken, e.g. to resume Voice Control listening.
func (s *Server) SetAfterCommand(fn func(ctx context.Context)) {
	s.afterCommand = fn
}

func New(cfg config.Config, router *command.Router, speaker *speech.Manager, hub *Hub, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:     cfg,
		router:  router,
		speaker: speaker,
		hub:     hub,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only same-origin browser clients may watch the event
				// stream unless explicitly opened up.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.handleRoot)
	r.Get("/status", s.handleStatus)
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})
	r.Get("/events", s.handleEvents)

	r.Post("/command", s.handleCommand)
	r.Post("/activate_listening", s.handleCommand)

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "online",
		"app":     "Julie Julie",
		"version": appVersion,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	speaking := s.speaker.IsSpeaking()
	processing := s.processing.Load()
	respondJSON(w, http.StatusOK, map[string]any{
		"is_speaking":       speaking,
		"is_processing":     processing,
		"ready_for_command": !speaking && !processing,
	})
}

// handleCommand accepts the command text either as JSON {"text_command": ...}
// or as a form field, the shapes menu-bar clients actually send.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	defer func() {
		if p := recover(); p != nil {
			log.Printf("command handler panic: %v", p)
			s.countRequest(r.URL.Path, "error")
			respondJSON(w, http.StatusInternalServerError, map[string]any{
				"status":  "error",
				"message": "internal error while processing command",
			})
		}
	}()

	text, ok := extractCommandText(r)
	if !ok {
		s.countRequest(r.URL.Path, "bad_request")
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"status":  "error",
			"message": "text_command is required",
		})
		return
	}

	s.processing.Store(true)
	defer s.processing.Store(false)
	result := s.router.Route(r.Context(), text)

	if s.afterCommand != nil {
		go s.afterCommand(context.Background())
	}

	s.countRequest(r.URL.Path, "ok")
	log.Printf("command handled in %s: %q", time.Since(started).Round(time.Millisecond), text)

	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"details": result,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ch := s.hub.add(conn)
	defer s.hub.remove(conn)

	// Reader goroutine notices client disconnects; payloads are ignored.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

func extractCommandText(r *http.Request) (string, bool) {
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var body struct {
			TextCommand string `json:"text_command"`
		}
		if r.Body != nil {
			defer r.Body.Close()
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				if text := strings.TrimSpace(body.TextCommand); text != "" {
					return text, true
				}
			}
		}
		return "", false
	}

	if err := r.ParseForm(); err != nil {
		return "", false
	}
	if text := strings.TrimSpace(r.PostFormValue("text_command")); text != "" {
		return text, true
	}
	return "", false
}

func (s *Server) countRequest(path, outcome string) {
	if s.metrics != nil {
		s.metrics.HTTPRequests.WithLabelValues(path, outcome).Inc()
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

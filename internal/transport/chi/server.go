// Package chi exposes the answer engine over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/domain"
	"github.com/kailas-cloud/faqbot/internal/logger"
	"github.com/kailas-cloud/faqbot/internal/repository/history"
	healthuc "github.com/kailas-cloud/faqbot/internal/usecase/health"
	"github.com/kailas-cloud/faqbot/internal/version"
)

// maxMessageLen caps chat message size; anything longer is rejected before
// it reaches the engine.
const maxMessageLen = 4096

// maxHistoryLimit caps the page size of history reads.
const maxHistoryLimit = 100

// Error codes returned in the JSON error envelope.
const (
	codeBadRequest      = "bad_request"
	codeUnauthorized    = "unauthorized"
	codeRateLimited     = "rate_limited"
	codeHistoryDisabled = "history_disabled"
	codeInternalError   = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Responder produces a reply for a chat query.
type Responder interface {
	Respond(ctx context.Context, query string) domain.Reply
}

// HistoryStore persists and lists chat interactions.
type HistoryStore interface {
	Save(ctx context.Context, e history.Entry) error
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

// Server handles the chat API routes.
type Server struct {
	responder Responder
	history   HistoryStore
	health    *healthuc.Service
	logger    *zap.Logger
}

// NewServer creates an HTTP API server. hist may be nil when the deployment
// runs without history persistence.
func NewServer(responder Responder, hist HistoryStore, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{
		responder: responder,
		history:   hist,
		health:    health,
		logger:    logger,
	}
}

// Routes mounts all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Root)
	r.Post("/chat", s.Chat)
	r.Get("/chat/history", s.ChatHistory)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string  `json:"response"`
	Source   string  `json:"source"`
	Score    float64 `json:"score"`
}

// Chat handles POST /chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "message is required")
		return
	}
	if len(msg) > maxMessageLen {
		writeError(w, http.StatusBadRequest, codeBadRequest,
			"message exceeds "+strconv.Itoa(maxMessageLen)+" bytes")
		return
	}

	reply := s.responder.Respond(r.Context(), msg)

	if s.history != nil {
		entry := history.Entry{
			Query:    msg,
			Response: reply.Text,
			Source:   reply.Source,
			Score:    reply.Score,
		}
		if err := s.history.Save(r.Context(), entry); err != nil {
			// A failed history write never fails the chat itself.
			logger.FromContext(r.Context()).Warn("history save failed", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response: reply.Text,
		Source:   string(reply.Source),
		Score:    reply.Score,
	})
}

type historyResponse struct {
	Items []historyItem `json:"items"`
}

type historyItem struct {
	Query     string  `json:"query"`
	Response  string  `json:"response"`
	Source    string  `json:"source"`
	Score     float64 `json:"score"`
	CreatedAt string  `json:"created_at"`
}

// ChatHistory handles GET /chat/history.
func (s *Server) ChatHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, codeHistoryDisabled, "history persistence is not configured")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("history read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}

	items := make([]historyItem, len(entries))
	for i, e := range entries {
		items[i] = historyItem{
			Query:     e.Query,
			Response:  e.Response,
			Source:    string(e.Source),
			Score:     e.Score,
			CreatedAt: e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	writeJSON(w, http.StatusOK, historyResponse{Items: items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "faqbot",
		"version": version.Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

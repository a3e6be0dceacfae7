// Package mockapi serves an in-memory imitation of the fleet API for local development and
// tests. Brief and insight texts are produced by a deterministic generator and cached per
// range, so the cached flag and refresh hint behave like the real service.
package mockapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/miradorstack/fleetview/internal/models"
	"github.com/miradorstack/fleetview/pkg/cache"
)

// Options configures the mock.
type Options struct {
	Fixtures   Fixtures
	BriefTTL   time.Duration
	InsightTTL time.Duration
	Now        func() time.Time
	Logger     *slog.Logger
	// FailPaths makes the listed paths answer with the mapped status code.
	FailPaths map[string]int
}

// Server is the mock fleet API.
type Server struct {
	opts     Options
	now      func() time.Time
	logger   *slog.Logger
	briefs   *cache.TTLCache[string]
	insights *cache.TTLCache[string]

	mu          sync.Mutex
	settings    models.Settings
	requests    []models.UserRequest
	generations int
}

// NewServer builds a mock with opts.
func NewServer(opts Options) *Server {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	settings := models.Settings{}
	for k, v := range opts.Fixtures.Settings {
		settings[k] = v
	}
	return &Server{
		opts:     opts,
		now:      now,
		logger:   logger,
		briefs:   cache.NewWithClock[string](now),
		insights: cache.NewWithClock[string](now),
		settings: settings,
	}
}

// Handler returns the routed HTTP handler. Routes are mounted at the root; mount the handler
// under a prefix (e.g. "/api") to mirror a deployment.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.injectFailures)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/robots", s.handleRobots)
	r.Get("/tasks", s.handleTasks)
	r.Get("/events", s.handleEvents)
	r.Get("/summary", s.handleSummary)
	r.Get("/interactions", s.handleInteractions)
	r.Get("/interactions/insight", s.handleInsight)
	r.Get("/user/brief", s.handleBrief)
	r.Post("/user/request", s.handleUserRequest)
	r.Get("/app/settings", s.handleGetSettings)
	r.Post("/app/settings", s.handleSaveSettings)
	return r
}

// UserRequests returns a copy of the requests received so far.
func (s *Server) UserRequests() []models.UserRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.UserRequest(nil), s.requests...)
}

// Generations returns how many artifacts have been generated (cache misses and refreshes).
func (s *Server) Generations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"robots": head(s.opts.Fixtures.Robots, limit)})
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	status := r.URL.Query().Get("status")
	tasks := make([]models.Task, 0, len(s.opts.Fixtures.Tasks))
	for _, t := range s.opts.Fixtures.Tasks {
		if status == "" || t.Status() == status {
			tasks = append(tasks, t)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": head(tasks, limit)})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": head(s.opts.Fixtures.Events, limit)})
}

func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	matched := filterInteractions(s.opts.Fixtures.Interactions, q.Get("type"), q.Get("input_mode"), q.Get("result"), q.Get("q"))
	writeJSON(w, http.StatusOK, map[string]any{
		"interactions": head(matched, limit),
		"stats":        interactionStats(matched),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	robotsByStatus := map[string]int{}
	for _, rb := range s.opts.Fixtures.Robots {
		robotsByStatus[rb.Status()]++
	}
	tasksByStatus := map[string]int{}
	for _, t := range s.opts.Fixtures.Tasks {
		tasksByStatus[t.Status()]++
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"robots": map[string]any{"total": len(s.opts.Fixtures.Robots), "by_status": robotsByStatus},
		"tasks":  map[string]any{"total": len(s.opts.Fixtures.Tasks), "by_status": tasksByStatus},
		"meta": map[string]any{
			"source":       models.SummarySourceServer,
			"generated_at": s.now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleUserRequest(w http.ResponseWriter, r *http.Request) {
	var req models.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Type) == "" {
		writeError(w, http.StatusBadRequest, "type is required")
		return
	}
	if req.Meta == nil {
		writeError(w, http.StatusBadRequest, "meta must be an object")
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": uuid.NewString()})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	snapshot := make(models.Settings, len(s.settings))
	for k, v := range s.settings {
		snapshot[k] = v
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Settings models.Settings `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Settings == nil {
		writeError(w, http.StatusBadRequest, "body must be {\"settings\": {...}}")
		return
	}

	s.mu.Lock()
	for k, v := range body.Settings {
		s.settings[k] = v
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("mock request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("query", r.URL.RawQuery),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)))
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if code, ok := s.opts.FailPaths[r.URL.Path]; ok {
			writeError(w, code, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	return limit, true
}

func head[T any](items []T, limit int) []T {
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return append(make([]T, 0, len(items)), items...)
}

func filterInteractions(all []models.Interaction, typ, mode, result, text string) []models.Interaction {
	text = strings.ToLower(text)
	out := make([]models.Interaction, 0, len(all))
	for _, it := range all {
		if typ != "" && it.Type() != typ {
			continue
		}
		if mode != "" && it.InputMode() != mode {
			continue
		}
		if result != "" && it.Result() != result {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(models.Document(it).String("text")), text) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func interactionStats(items []models.Interaction) map[string]any {
	byType := map[string]int{}
	byResult := map[string]int{}
	for _, it := range items {
		byType[it.Type()]++
		byResult[it.Result()]++
	}
	return map[string]any{"total": len(items), "by_type": byType, "by_result": byResult}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Warn("mock encode failed", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

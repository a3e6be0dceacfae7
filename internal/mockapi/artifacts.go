package mockapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/miradorstack/fleetview/internal/models"
	"github.com/miradorstack/fleetview/pkg/cache"
)

const defaultArtifactTTL = 10 * time.Minute

func (s *Server) handleBrief(w http.ResponseWriter, r *http.Request) {
	rng, refresh, ok := artifactParams(w, r, models.RangeDay)
	if !ok {
		return
	}

	text, generatedAt, cached := s.artifact(s.briefs, string(rng), refresh, s.ttl(s.opts.BriefTTL), func(n int) string {
		return s.briefText(rng, n)
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"range":        rng,
		"cached":       cached,
		"brief":        text,
		"generated_at": generatedAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	rng, refresh, ok := artifactParams(w, r, models.RangeWeek)
	if !ok {
		return
	}

	window := s.window(rng)
	var inRange []models.Interaction
	for _, it := range s.opts.Fixtures.Interactions {
		if ts, ok := it.Timestamp(); !ok || !ts.Before(window) {
			inRange = append(inRange, it)
		}
	}
	stats := interactionStats(inRange)

	text, _, cached := s.artifact(s.insights, string(rng), refresh, s.ttl(s.opts.InsightTTL), func(n int) string {
		return s.insightText(rng, inRange, n)
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"range":   rng,
		"stats":   stats,
		"insight": text,
		"cached":  cached,
	})
}

// artifact returns the cached text for key unless refresh is set or the entry expired, in
// which case it generates and stores a new one.
func (s *Server) artifact(store *cache.TTLCache[string], key string, refresh bool, ttl time.Duration, generate func(n int) string) (string, time.Time, bool) {
	if !refresh {
		if text, storedAt, ok := store.GetWithStoredAt(key); ok {
			return text, storedAt, true
		}
	}

	s.mu.Lock()
	s.generations++
	n := s.generations
	s.mu.Unlock()

	text := generate(n)
	store.Set(key, text, ttl)
	return text, s.now(), false
}

func (s *Server) briefText(rng models.Range, generation int) string {
	byStatus := map[string]int{}
	for _, t := range s.opts.Fixtures.Tasks {
		byStatus[t.Status()]++
	}
	var low []string
	for _, rb := range s.opts.Fixtures.Robots {
		if b, ok := rb.Battery(); ok && b < 20 {
			low = append(low, rb.RobotID())
		}
	}
	text := fmt.Sprintf("[%s brief #%d] %d robots online; tasks done=%d running=%d queued=%d failed=%d.",
		rng, generation, len(s.opts.Fixtures.Robots),
		byStatus["done"], byStatus["running"], byStatus["queued"], byStatus["failed"])
	if len(low) > 0 {
		text += " Low battery: " + strings.Join(low, ", ") + "."
	}
	return text
}

func (s *Server) insightText(rng models.Range, items []models.Interaction, generation int) string {
	rejected := 0
	for _, it := range items {
		if it.Result() == "rejected" {
			rejected++
		}
	}
	return fmt.Sprintf("[%s insight #%d] %d interactions, %d rejected.", rng, generation, len(items), rejected)
}

func (s *Server) window(rng models.Range) time.Time {
	if rng == models.RangeWeek {
		return s.now().Add(-7 * 24 * time.Hour)
	}
	return s.now().Add(-24 * time.Hour)
}

func (s *Server) ttl(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultArtifactTTL
	}
	return d
}

func artifactParams(w http.ResponseWriter, r *http.Request, def models.Range) (models.Range, bool, bool) {
	q := r.URL.Query()
	rng, err := models.ParseRange(q.Get("range"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false, false
	}
	if rng == "" {
		rng = def
	}
	refresh := q.Get("refresh")
	return rng, refresh == "1" || strings.EqualFold(refresh, "true"), true
}

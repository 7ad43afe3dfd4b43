package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/codewithboateng/jreview/internal/analysis"
	"github.com/codewithboateng/jreview/internal/ir"
	"github.com/codewithboateng/jreview/internal/rules"
	"github.com/codewithboateng/jreview/internal/storage"
)

// Store is the minimal contract the API needs.
type Store interface {
	SaveReview(r *ir.Review) error
	LoadReview(id int64) (ir.Review, error)
	ListReviews(limit, offset int) ([]storage.ReviewRow, error)
	Summary() (storage.Summary, error)

	SaveRuleStates(states map[string]bool) error

	ListWaivers(activeOnly bool) ([]storage.Waiver, error)
	CreateWaiver(rule, filename, pattern, reason, createdBy string, expires time.Time) (int64, error)
	RevokeWaiver(id int64) error
}

// UserStore is the auth/audit contract the API uses.
type UserStore interface {
	GetUserByUsername(string) (storage.User, string, error)
	CreateSession(int64, string, time.Time) error
	GetSession(string) (storage.User, error)
	DeleteSession(string) error
	LogAudit(username, action, resource string, meta map[string]any) error
}

type Server struct {
	DB              Store
	UserStore       UserStore
	Engine          *analysis.Engine
	Registry        *rules.Registry
	Logger          *slog.Logger
	AllowedOrigins  []string
	SessionDuration time.Duration
	MaxSourceBytes  int64         // 0 = unlimited
	AnalyzeLimiter  *rate.Limiter // nil = unlimited
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	withCORS := s.withCORS
	limited := func(h http.HandlerFunc) http.HandlerFunc { return withRateLimit(s, h) }

	// Health
	mux.HandleFunc("GET /api/v1/health", withCORS(s.handleHealth))

	// Auth
	mux.HandleFunc("POST /api/v1/auth/login", withCORS(s.handleLogin))
	mux.HandleFunc("POST /api/v1/auth/logout", withCORS(withAuth(s, s.handleLogout, "auth:logout")))
	mux.HandleFunc("GET /api/v1/auth/me", withCORS(withAuth(s, s.handleMe, "me")))

	// Analysis
	mux.HandleFunc("POST /api/v1/analyze", withCORS(limited(s.handleAnalyze)))
	mux.HandleFunc("POST /api/v1/analyze/upload", withCORS(limited(s.handleAnalyzeUpload)))

	// Reviews
	mux.HandleFunc("GET /api/v1/reviews", withCORS(s.handleListReviews))
	mux.HandleFunc("GET /api/v1/reviews/{id}", withCORS(s.handleGetReview))
	mux.HandleFunc("GET /api/v1/reviews/{id}/export", withCORS(s.handleExportReview))
	mux.HandleFunc("GET /api/v1/dashboard/summary", withCORS(s.handleSummary))

	// Rule configuration
	mux.HandleFunc("GET /api/v1/rules", withCORS(s.handleGetRules))
	mux.HandleFunc("PUT /api/v1/rules", withCORS(withAdmin(s, s.handlePutRules, "rules:update")))
	mux.HandleFunc("GET /api/v1/rules/meta", withCORS(s.handleRulesMeta))

	// Waivers
	mux.HandleFunc("GET /api/v1/waivers", withCORS(withAuth(s, s.handleListWaivers, "waivers:list")))
	mux.HandleFunc("POST /api/v1/waivers", withCORS(withAdmin(s, s.handleCreateWaiver, "waivers:create")))
	mux.HandleFunc("POST /api/v1/waivers/{id}/revoke", withCORS(withAdmin(s, s.handleRevokeWaiver, "waivers:revoke")))

	// Fallback 404 (also answers CORS preflight)
	mux.HandleFunc("/", withCORS(func(w http.ResponseWriter, r *http.Request) {
		s.err(w, http.StatusNotFound, "not found")
	}))

	var h http.Handler = mux
	h = loggingMiddleware(s.logger())(h)
	h = recoveryMiddleware(s.logger())(h)
	h = requestIDMiddleware()(h)
	return h
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Server) withCORS(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if origin := s.pickCORSOrigin(r); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS, POST, PUT")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h(w, r)
	}
}

func (s *Server) pickCORSOrigin(r *http.Request) string {
	if len(s.AllowedOrigins) == 0 {
		return ""
	}
	origin := r.Header.Get("Origin")
	for _, ao := range s.AllowedOrigins {
		if ao == "*" {
			return "*"
		}
		if origin != "" && strings.EqualFold(origin, ao) {
			return origin
		}
	}
	// Not allowed: no CORS header
	return ""
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"rules":     s.Registry.Len(),
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := clamp(parseInt(q.Get("limit"), 50), 1, 500)
	offset := max(parseInt(q.Get("offset"), 0), 0)

	rows, err := s.DB.ListReviews(limit, offset)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	if rows == nil {
		rows = []storage.ReviewRow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": rows, "limit": limit, "offset": offset,
	})
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	rev, ok := s.loadReview(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rev)
}

// loadReview resolves the {id} path value and writes the error response
// itself when it fails.
func (s *Server) loadReview(w http.ResponseWriter, r *http.Request) (ir.Review, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.err(w, http.StatusBadRequest, "invalid id")
		return ir.Review{}, false
	}
	rev, err := s.DB.LoadReview(id)
	if errors.Is(err, storage.ErrNotFound) {
		s.err(w, http.StatusNotFound, "review not found")
		return ir.Review{}, false
	}
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return ir.Review{}, false
	}
	return rev, true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.DB.Summary()
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) err(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

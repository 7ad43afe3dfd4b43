package api

import (
	"encoding/json"
	"net/http"
)

// GET /api/v1/rules: name -> enabled in registration order
func (s *Server) handleGetRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Registry.RuleStates())
}

// PUT /api/v1/rules: unknown names are ignored; known ones are applied and
// persisted so they survive a restart.
func (s *Server) handlePutRules(w http.ResponseWriter, r *http.Request) {
	var updates map[string]bool
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		s.err(w, http.StatusBadRequest, "invalid json (want {\"rule\": true|false})")
		return
	}
	applied := s.Registry.SetRuleStates(updates)
	if len(applied) > 0 {
		persist := make(map[string]bool, len(applied))
		for _, name := range applied {
			persist[name] = updates[name]
		}
		if err := s.DB.SaveRuleStates(persist); err != nil {
			s.logger().Warn("persist rule states", "err", err)
		}
	}
	if u, ok := userFromCtx(r.Context()); ok {
		_ = s.UserStore.LogAudit(u.Username, "rules:update", "", map[string]any{"applied": applied})
	}
	writeJSON(w, http.StatusOK, s.Registry.RuleStates())
}

// GET /api/v1/rules/meta (names, summaries and state; no auth needed)
func (s *Server) handleRulesMeta(w http.ResponseWriter, r *http.Request) {
	type R struct {
		Name    string `json:"name"`
		Summary string `json:"summary"`
		Enabled bool   `json:"enabled"`
	}
	list := s.Registry.List()
	out := make([]R, 0, len(list))
	for _, rr := range list {
		out = append(out, R{Name: rr.Name(), Summary: rr.Summary(), Enabled: rr.Enabled()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}

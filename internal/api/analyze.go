package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/codewithboateng/jreview/internal/analysis"
	"github.com/codewithboateng/jreview/internal/ir"
	"github.com/codewithboateng/jreview/internal/reporting"
)

type analyzeReq struct {
	Code     string `json:"code"`
	Filename string `json:"filename,omitempty"`
}

type analyzeResp struct {
	ReviewID int64        `json:"review_id"`
	Filename string       `json:"filename"`
	Counts   ir.Counts    `json:"counts"`
	Issues   []ir.Finding `json:"issues"`
	Waived   int          `json:"waived,omitempty"`
}

// multipart framing allowance on top of MaxSourceBytes
const uploadOverhead = 64 << 10

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.MaxSourceBytes > 0 {
		// JSON escaping can double the size of the code
		r.Body = http.MaxBytesReader(w, r.Body, 2*s.MaxSourceBytes+uploadOverhead)
	}
	var in analyzeReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.err(w, http.StatusRequestEntityTooLarge, "request too large")
			return
		}
		s.err(w, http.StatusBadRequest, "invalid json")
		return
	}
	s.analyzeAndRespond(w, r, in.Code, in.Filename)
}

func (s *Server) handleAnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	limit := s.MaxSourceBytes
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+uploadOverhead)
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.err(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		s.err(w, http.StatusBadRequest, "multipart field 'file' required")
		return
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, f); err != nil {
		s.err(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}
	s.analyzeAndRespond(w, r, buf.String(), hdr.Filename)
}

// analyzeAndRespond runs the engine, drops waived findings, saves the review
// and writes the analysis response.
func (s *Server) analyzeAndRespond(w http.ResponseWriter, r *http.Request, code, filename string) {
	if s.MaxSourceBytes > 0 && int64(len(code)) > s.MaxSourceBytes {
		s.err(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("source exceeds %d bytes", s.MaxSourceBytes))
		return
	}
	rev, err := s.Engine.Analyze(r.Context(), code, strings.TrimSpace(filename))
	if err != nil {
		s.logger().Error("analysis failed", "err", err, "request_id", GetRequestID(r.Context()))
		s.err(w, http.StatusInternalServerError, "analysis failed: "+err.Error())
		return
	}

	waived := 0
	if ws, err := s.DB.ListWaivers(true); err != nil {
		s.logger().Warn("list waivers", "err", err)
	} else {
		waived = analysis.ApplyWaivers(rev, ws)
	}

	if err := s.DB.SaveReview(rev); err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analyzeResp{
		ReviewID: rev.ID,
		Filename: rev.Filename,
		Counts:   rev.Counts,
		Issues:   rev.Findings,
		Waived:   waived,
	})
}

// GET /api/v1/reviews/{id}/export?format=html|txt
func (s *Server) handleExportReview(w http.ResponseWriter, r *http.Request) {
	rev, ok := s.loadReview(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	ext, ctype := "html", "text/html; charset=utf-8"
	render := reporting.RenderHTML
	if strings.EqualFold(r.URL.Query().Get("format"), "txt") {
		ext, ctype = "txt", "text/plain; charset=utf-8"
		render = reporting.RenderText
	}
	if err := render(&buf, &rev); err != nil {
		s.err(w, http.StatusInternalServerError, "render: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="review-%d.%s"`, rev.ID, ext))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

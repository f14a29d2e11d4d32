package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"mlopsaudit/internal/acquire"
	"mlopsaudit/internal/audit"
	"mlopsaudit/internal/output"
	"mlopsaudit/internal/scan"
)

type scanRequest struct {
	RepoURL string `json:"repo_url"`
	Branch  string `json:"branch"`
}

type auditRequest struct {
	RepoURL  string `json:"repo_url"`
	Branch   string `json:"branch"`
	Strategy string `json:"strategy"`
}

type scanResponse struct {
	ReportPath string        `json:"report_path"`
	Summary    *scan.Summary `json:"structure_summary"`
}

type auditResponse struct {
	Status string        `json:"status"`
	Audit  *audit.Record `json:"audit"`
	Report string        `json:"report"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// requestError is a client mistake reported with 400.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.checkTarget(req.RepoURL); err != nil {
		s.writeError(w, r, err)
		return
	}

	sc, err := s.eng.Scan(r.Context(), req.RepoURL, req.Branch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scanResponse{ReportPath: sc.Ref, Summary: sc.Record.Structure})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.checkTarget(req.RepoURL); err != nil {
		s.writeError(w, r, err)
		return
	}

	eng := s.eng
	if req.Strategy != "" {
		strategy, err := audit.NewStrategy(req.Strategy)
		if err != nil {
			s.writeError(w, r, badRequest("%v", err))
			return
		}
		eng = eng.WithStrategy(strategy)
	}

	res, err := eng.Audit(r.Context(), req.RepoURL, req.Branch, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var report bytes.Buffer
	if err := output.RenderMarkdown(&report, res.Audit, res.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, auditResponse{Status: "success", Audit: res.Audit, Report: report.String()})
}

func (s *Server) checkTarget(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return badRequest("repo_url is required")
	}
	src, err := acquire.ParseSource(raw)
	if err != nil {
		return err
	}
	if src.Kind == acquire.KindLocal && !s.allowLocal {
		return badRequest("local paths are not accepted; pass a repository url")
	}
	return nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

// writeError maps client and acquisition failures to 400. Everything else is
// logged and reported as a bare 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *requestError
	var acqErr *acquire.AcquireError
	switch {
	case errors.As(err, &reqErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: reqErr.Error()})
	case errors.Is(err, acquire.ErrInvalidSource), errors.As(err, &acqErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/parttree/pkg/errors"
	pkgio "github.com/matzehuels/parttree/pkg/io"
	"github.com/matzehuels/parttree/pkg/panel"
	"github.com/matzehuels/parttree/pkg/pipeline"
	"github.com/matzehuels/parttree/pkg/render/mermaid"
	"github.com/matzehuels/parttree/pkg/tree"
)

// fallbackHeader marks an SVG response that carries diagram text instead.
const fallbackHeader = "X-Render-Fallback"

// maxBodyBytes bounds POST /api/diagram payloads.
const maxBodyBytes = 8 << 20

func (s *Server) options(r *http.Request, formats ...string) pipeline.Options {
	q := r.URL.Query()
	opts := pipeline.Options{
		PartID:      chi.URLParam(r, "id"),
		MaxDepth:    s.cfg.MaxDepth,
		Substitutes: s.cfg.Substitutes,
		Refresh:     tree.Truthy(q.Get("refresh")),
		Direction:   s.cfg.Direction,
		Formats:     formats,
		Logger:      s.logger,
	}
	if q.Has("max_depth") {
		opts.MaxDepth = tree.ParseDepth(q.Get("max_depth"))
	}
	if q.Has("substitutes") {
		opts.Substitutes = tree.Truthy(q.Get("substitutes"))
	}
	if d := q.Get("direction"); d != "" {
		opts.Direction = d
	}
	return opts
}

func (s *Server) execute(r *http.Request, formats ...string) (*pipeline.Result, error) {
	return s.runner.Execute(r.Context(), s.options(r, formats...))
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	res, err := s.execute(r, pipeline.FormatJSON)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(res.Artifacts[pipeline.FormatJSON])
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	res, err := s.execute(r, pipeline.FormatMermaid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeText(w, res.Diagram)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	res, err := s.execute(r, pipeline.FormatSVG)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if res.RenderError != nil {
		w.Header().Set(fallbackHeader, "1")
		writeText(w, res.Diagram)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(res.Artifacts[pipeline.FormatSVG])
}

type metricsResponse struct {
	Part    tree.ID      `json:"part"`
	Name    string       `json:"name"`
	Hash    string       `json:"hash"`
	Metrics tree.Metrics `json:"metrics"`
	Issues  []tree.Issue `json:"issues"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	res, err := s.execute(r, pipeline.FormatMermaid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	issues := res.Issues
	if issues == nil {
		issues = []tree.Issue{}
	}
	writeJSON(w, http.StatusOK, metricsResponse{
		Part:    res.Tree.ID,
		Name:    res.Tree.DisplayName(),
		Hash:    res.TreeHash,
		Metrics: res.Metrics,
		Issues:  issues,
	})
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var view panel.View
	status := http.StatusOK
	res, err := s.execute(r, pipeline.FormatMermaid)
	if err != nil {
		status = statusFor(err)
		s.logFailure(r, status, err)
		view = panel.ErrorView(id, err)
	} else {
		view = panel.NewView(res.Tree, res.Diagram, s.pageURL(id))
	}

	var buf bytes.Buffer
	if err := view.Render(&buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (s *Server) pageURL(id string) string {
	if s.pages == nil {
		return ""
	}
	pk, err := strconv.Atoi(id)
	if err != nil {
		return ""
	}
	return s.pages.PageURL(pk)
}

func (s *Server) handleDiagramBody(w http.ResponseWriter, r *http.Request) {
	root, err := pkgio.ReadJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	direction := r.URL.Query().Get("direction")
	if direction == "" {
		direction = s.cfg.Direction
	}
	if direction != "" && !mermaid.ValidDirection(direction) {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid direction: %q", direction))
		return
	}
	writeText(w, s.runner.Build(r.Context(), root, direction))
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.logFailure(r, status, err)

	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError && code == errors.ErrCodeInternal {
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func (s *Server) logFailure(r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		return
	}
	s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
}

// statusFor maps an error to an HTTP status through its code.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case stderrors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPartID,
		errors.ErrCodeInvalidDepth, errors.ErrCodeInvalidURL:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodePartNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/patchlayout/pkg/buildinfo"
	"github.com/matzehuels/patchlayout/pkg/errors"
	"github.com/matzehuels/patchlayout/pkg/graph"
	"github.com/matzehuels/patchlayout/pkg/pipeline"
)

// =============================================================================
// Handlers
// =============================================================================

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Format = r.URL.Query().Get("format")
	if opts.Format == "" {
		opts.Format = pipeline.DefaultFormat
	}

	snap, err := graph.ReadSnapshot(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), snap, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[opts.Format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact)
}

func (s *Server) handleArrange(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Mode = r.URL.Query().Get("mode")
	if opts.Mode == "" {
		opts.Mode = graph.ModeFollowSignal
	}
	if err := pipeline.ValidateMode(opts.Mode); err != nil {
		s.writeError(w, r, err)
		return
	}

	snap, err := graph.ReadSnapshot(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := graph.ToPatch(snap, s.logger)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Arrange(r.Context(), g, snap.Boxes, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := graph.ReadResolveRequest(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Resolve(r.Context(), req, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// options builds the pipeline options shared by every endpoint.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := pipeline.Options{
		HardwareOnSides: s.hardwareOnSides,
		Metrics:         s.metrics,
		Logger:          s.logger,
	}
	q := r.URL.Query()
	if v := q.Get("hardware_on_sides"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "hardware_on_sides: %q is not a boolean", v)
		}
		opts.HardwareOnSides = b
	}
	if v := q.Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "refresh: %q is not a boolean", v)
		}
		opts.Refresh = b
	}
	return opts, nil
}

// =============================================================================
// Responses
// =============================================================================

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failure.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func errorBody(code, msg string, r *http.Request) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: msg, RequestID: RequestID(r.Context())}}
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeLayoutFailed):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	code := string(errors.GetCode(err))
	msg := errors.UserMessage(err)
	if status == http.StatusRequestEntityTooLarge {
		code = string(errors.ErrCodeInvalidInput)
		msg = "request body too large"
	}
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
		msg = "internal error"
	} else {
		s.logger.Debug("rejected request", "id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody(code, msg, r))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

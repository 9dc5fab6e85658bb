package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/vango-dev/vango-cn/internal/middleware"
	"github.com/vango-dev/vango-cn/pkg/cn"
)

// ClassesRequest is the body of /v1/merge and /v1/join.
type ClassesRequest struct {
	Classes []any `json:"classes"`
}

// StylesRequest is the body of /v1/styles.
type StylesRequest struct {
	Inputs []any `json:"inputs"`
}

// Response is the body of a successful request.
type Response struct {
	Result any `json:"result"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Merge handles POST /v1/merge.
func (s *Server) Merge(w http.ResponseWriter, r *http.Request) {
	var req ClassesRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	_, span := otel.Tracer(middleware.TracerName).Start(r.Context(), "cn.merge")
	result := s.merger.Merge(req.Classes...)
	span.SetAttributes(
		attribute.Int("cn.inputs", len(req.Classes)),
		attribute.Int("cn.result_bytes", len(result)),
	)
	span.End()

	s.metrics.Merges.WithLabelValues("merge", "http").Inc()
	writeJSON(w, http.StatusOK, Response{Result: result})
}

// Join handles POST /v1/join.
func (s *Server) Join(w http.ResponseWriter, r *http.Request) {
	var req ClassesRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.metrics.Merges.WithLabelValues("join", "http").Inc()
	writeJSON(w, http.StatusOK, Response{Result: cn.Join(req.Classes...)})
}

// Styles handles POST /v1/styles. Inputs are either all style objects or
// all class values.
func (s *Server) Styles(w http.ResponseWriter, r *http.Request) {
	var req StylesRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	_, span := otel.Tracer(middleware.TracerName).Start(r.Context(), "cn.styles")
	defer span.End()
	span.SetAttributes(attribute.Int("cn.inputs", len(req.Inputs)))

	result, err := s.combiner.Merge(req.Inputs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		status := http.StatusInternalServerError
		if errors.Is(err, cn.ErrMixedInput) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	s.metrics.Merges.WithLabelValues("styles", "http").Inc()
	writeJSON(w, http.StatusOK, Response{Result: result})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

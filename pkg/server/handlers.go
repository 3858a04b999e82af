package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"mercator-hq/roundtable/pkg/gate"
	"mercator-hq/roundtable/pkg/session"
	"mercator-hq/roundtable/pkg/telemetry/logging"
)

// TextRequest is the body of the text-carrying endpoints.
type TextRequest struct {
	Text string `json:"text"`
}

// TextResponse returns rewritten text.
type TextResponse struct {
	Text string `json:"text"`
}

// ToolRequest asks whether a tool may run.
type ToolRequest struct {
	Tool string `json:"tool"`
}

// SystemResponse carries the system instruction, if one is due.
type SystemResponse struct {
	Instruction string `json:"instruction,omitempty"`
	Injected    bool   `json:"injected"`
}

// DenialResponse is returned with 403 for a blocked tool call.
type DenialResponse struct {
	Allowed  bool     `json:"allowed"`
	Tool     string   `json:"tool"`
	Provider string   `json:"provider"`
	Reason   string   `json:"reason"`
	Error    string   `json:"error"`
	Missing  []string `json:"missing,omitempty"`
}

// ErrorResponse is the body of every other non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAugment(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, TextResponse{Text: s.opts.Engine.AugmentPrompt(r.Context(), req.Text)})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !decode(w, r, &req) {
		return
	}
	ctx := logging.WithSessionID(r.Context(), r.PathValue("id"))

	res, err := s.opts.Engine.Ingest(ctx, r.PathValue("id"), req.Text)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSystem(w http.ResponseWriter, r *http.Request) {
	ctx := logging.WithSessionID(r.Context(), r.PathValue("id"))

	instruction, ok, err := s.opts.Engine.SystemInstruction(ctx, r.PathValue("id"))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SystemResponse{Instruction: instruction, Injected: ok})
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	var req ToolRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Tool == "" {
		writeError(w, http.StatusBadRequest, "tool is required")
		return
	}
	ctx := logging.WithSessionID(r.Context(), r.PathValue("id"))

	decision, err := s.opts.Engine.AuthorizeTool(ctx, r.PathValue("id"), req.Tool)
	if denial, ok := gate.IsDenial(err); ok {
		writeJSON(w, http.StatusForbidden, DenialResponse{
			Allowed:  false,
			Tool:     req.Tool,
			Provider: string(denial.Provider),
			Reason:   string(denial.Reason),
			Error:    denial.Error(),
			Missing:  gate.Strings(denial.Missing),
		})
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

func (s *Server) handleCompletion(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !decode(w, r, &req) {
		return
	}
	ctx := logging.WithSessionID(r.Context(), r.PathValue("id"))

	text, err := s.opts.Engine.Finalize(ctx, r.PathValue("id"), req.Text)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TextResponse{Text: text})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	policy, err := s.opts.Engine.Policy(r.Context(), r.PathValue("id"))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if policy == nil {
		writeError(w, http.StatusNotFound, session.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, policy)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.opts.Engine.Reset(r.Context(), r.PathValue("id")); err != nil {
		s.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads a JSON body into v. It writes the error response and returns
// false on failure. An empty body decodes as the zero value.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return false
	}
	writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
	return false
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context(), s.logger).Error("request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

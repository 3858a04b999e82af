package server

import (
	"net/http"

	"mercator-hq/roundtable/pkg/telemetry/health"
	"mercator-hq/roundtable/pkg/telemetry/tracing"
)

// Handler builds the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.route(mux, "POST /v1/prompts/augment", s.handleAugment)
	s.route(mux, "POST /v1/sessions/{id}/messages", s.handleMessage)
	s.route(mux, "POST /v1/sessions/{id}/system", s.handleSystem)
	s.route(mux, "POST /v1/sessions/{id}/tools", s.handleTool)
	s.route(mux, "POST /v1/sessions/{id}/completions", s.handleCompletion)
	s.route(mux, "GET /v1/sessions/{id}", s.handleGetSession)
	s.route(mux, "DELETE /v1/sessions/{id}", s.handleDeleteSession)

	health.Mount(mux, s.opts.Health, s.opts.Version, s.opts.Commit, s.opts.BuildTime)
	if s.opts.Metrics != nil {
		mux.Handle("GET "+s.opts.MetricsPath, s.opts.Metrics.Handler())
	}

	var handler http.Handler = mux
	handler = maxBodyMiddleware(s.config.MaxBodyBytes)(handler)
	handler = loggingMiddleware(s.logger)(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(s.logger)(handler)
	return handler
}

// route registers fn under pattern inside a tracing span. Wrapping per route
// lets the span take the matched pattern as its name. Operational endpoints
// are mounted separately and never require a key.
func (s *Server) route(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	var h http.Handler = fn
	if s.config.Auth.Enabled {
		h = authMiddleware(s.config.Auth, s.logger)(h)
	}
	mux.Handle(pattern, tracing.HTTPMiddleware(s.opts.Tracer, h))
}

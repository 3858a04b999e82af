// Package server exposes the engine lifecycle over HTTP.
//
// A host that cannot link the engine directly calls these JSON endpoints at
// each lifecycle point of a conversation turn:
//
//   - POST   /v1/prompts/augment               {text} -> {text}
//   - POST   /v1/sessions/{id}/messages        {text} -> {text, active, policy}
//   - POST   /v1/sessions/{id}/system          -> {instruction, injected}
//   - POST   /v1/sessions/{id}/tools           {tool} -> 200 decision or 403 denial
//   - POST   /v1/sessions/{id}/completions     {text} -> {text}
//   - GET    /v1/sessions/{id}                 -> policy snapshot or 404
//   - DELETE /v1/sessions/{id}                 -> 204
//
// Health, readiness and version endpoints are mounted from the health
// package, and /metrics when a metrics collector is configured.
//
// # Authentication
//
// With server.auth enabled, every /v1 route requires one of the configured
// keys in the auth header ("Authorization: Bearer <key>" by default) and
// answers 401 otherwise. Operational endpoints stay open.
//
// # Denials
//
// A blocked tool call is an expected outcome, not a failure. It is reported
// with status 403 and a body carrying the reason and the denial message the
// host should hand to the generator:
//
//	{"allowed": false, "reason": "coverage_required",
//	 "error": "MCP provider 'sentry' is temporarily blocked ...",
//	 "missing": ["github"]}
//
// # Middleware Chain
//
// Requests pass through, outermost first: recovery, request ID, logging and
// a body size limit. Each route is additionally wrapped in a tracing span
// named after its pattern.
//
// # Graceful Shutdown
//
// Start blocks until its context is cancelled, then drains in-flight
// requests for up to the configured shutdown timeout.
package server

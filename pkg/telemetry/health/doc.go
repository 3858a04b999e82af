// Package health provides liveness, readiness and version probes.
//
// Components register readiness checks by name; the HTTP adapter registers
// the session store and, when enabled, the audit storage:
//
//	checker := health.New(2 * time.Second)
//	checker.Register("audit_storage", storage.Ping)
//	health.Mount(mux, checker, version, commit, buildTime)
package health

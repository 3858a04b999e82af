package engine

import (
	"context"
	"errors"
	"time"

	"mercator-hq/roundtable/pkg/audit"
	"mercator-hq/roundtable/pkg/gate"
	"mercator-hq/roundtable/pkg/session"
	"mercator-hq/roundtable/pkg/telemetry/tracing"
)

// Decision is the outcome of AuthorizeTool.
type Decision struct {
	Tool string `json:"tool"`

	// Provider is empty when the tool belongs to no known provider.
	Provider gate.Provider `json:"provider,omitempty"`

	Allowed bool        `json:"allowed"`
	Reason  gate.Reason `json:"reason,omitempty"`

	// Gated is false when the call bypassed the gate: unknown tool or no
	// live policy.
	Gated bool `json:"gated"`

	CallCount int             `json:"call_count"`
	CallCap   int             `json:"call_cap,omitempty"`
	Missing   []gate.Provider `json:"missing,omitempty"`
}

// AuthorizeTool decides whether tool may run for the conversation. Tools of
// no known provider, and conversations without a policy, are allowed without
// touching any counter. A blocked call returns the decision together with a
// *gate.DenialError.
func (e *Engine) AuthorizeTool(ctx context.Context, sessionID, tool string) (*Decision, error) {
	start := time.Now()
	defer e.observe(PhaseTool, start)

	ctx, span := e.tracer.Start(ctx, "roundtable."+PhaseTool)
	defer span.End()
	tracing.SetSessionAttribute(span, sessionID)

	decision := &Decision{Tool: tool, Allowed: true}

	provider, ok := gate.FromToolName(tool)
	if !ok {
		return decision, nil
	}
	decision.Provider = provider

	var (
		admitErr error
		snapshot *session.Policy
	)
	err := e.store.Update(ctx, sessionID, func(p *session.Policy) error {
		p.Phase = session.PhaseGating
		decision.CallCap = e.gate.Cap(p.AllowDeep)
		admitErr = e.gate.Admit(gate.Request{
			Provider:  provider,
			Mentioned: p.Providers,
			Deep:      p.AllowDeep,
		}, &p.Ledger)
		decision.CallCount = p.Ledger.CallCount
		decision.Missing = p.Missing()
		snapshot = p.Clone()
		return admitErr
	})

	switch {
	case errors.Is(err, session.ErrNotFound):
		return decision, nil
	case err != nil && admitErr == nil:
		tracing.SetStatus(span, err)
		return nil, err
	}
	decision.Gated = true

	tracing.SetGateAttributes(span, tool, string(provider), decision.CallCount, decision.CallCap)
	log := e.log(ctx, sessionID)

	rec := policyRecord(sessionID, audit.KindToolCall, snapshot)
	rec.Tool = tool
	rec.Provider = string(provider)

	if denial, ok := gate.IsDenial(admitErr); ok {
		decision.Allowed = false
		decision.Reason = denial.Reason
		tracing.SetDenied(span, string(denial.Reason))
		e.metrics.RecordGateDecision(string(provider), string(denial.Reason))

		rec.Allowed = false
		rec.Reason = string(denial.Reason)
		e.record(ctx, rec)

		log.Debug("tool call denied",
			"tool", tool,
			"provider", provider,
			"reason", denial.Reason,
			"call_count", decision.CallCount,
		)
		return decision, denial
	}

	e.metrics.RecordGateDecision(string(provider), "")
	e.record(ctx, rec)
	log.Debug("tool call admitted",
		"tool", tool,
		"provider", provider,
		"call_count", decision.CallCount,
		"call_cap", decision.CallCap,
	)
	return decision, nil
}

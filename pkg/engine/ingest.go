package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"mercator-hq/roundtable/pkg/audit"
	"mercator-hq/roundtable/pkg/contract"
	"mercator-hq/roundtable/pkg/gate"
	"mercator-hq/roundtable/pkg/persona"
	"mercator-hq/roundtable/pkg/session"
	"mercator-hq/roundtable/pkg/telemetry/tracing"
)

// IngestResult is the outcome of Ingest.
type IngestResult struct {
	// Text is the message to forward to the generator.
	Text string `json:"text"`

	// Active is false when no persona was addressed and the policy was
	// cleared.
	Active bool `json:"active"`

	// Policy is a snapshot of the stored policy when Active.
	Policy *session.Policy `json:"policy,omitempty"`
}

// AugmentPrompt appends a marker naming the @-mentioned personas so later
// phases recover the exact set. Text without mentions is returned as is.
func (e *Engine) AugmentPrompt(ctx context.Context, text string) string {
	start := time.Now()
	defer e.observe(PhaseAugment, start)

	_, span := e.tracer.Start(ctx, "roundtable."+PhaseAugment)
	defer span.End()

	set := persona.Mentions(text)
	if set.Empty() {
		return text
	}
	span.SetAttributes(attribute.StringSlice(tracing.AttrPersonas, set.Strings()))
	return text + "\n\n" + persona.Marker(set)
}

// Ingest applies a new user message to the conversation. When personas are
// addressed it stores a fresh policy, replacing any earlier one, and returns
// the message with the format contract appended. Otherwise it clears the
// conversation's policy and returns the text unchanged.
func (e *Engine) Ingest(ctx context.Context, sessionID, text string) (*IngestResult, error) {
	start := time.Now()
	defer e.observe(PhaseIngest, start)

	ctx, span := e.tracer.Start(ctx, "roundtable."+PhaseIngest)
	defer span.End()
	tracing.SetSessionAttribute(span, sessionID)
	log := e.log(ctx, sessionID)

	if sessionID == "" {
		tracing.SetStatus(span, session.ErrEmptySessionID)
		return nil, session.ErrEmptySessionID
	}

	set := persona.Resolve(text)
	if set.Empty() {
		if err := e.store.Clear(ctx, sessionID); err != nil {
			tracing.SetStatus(span, err)
			return nil, err
		}
		e.metrics.RecordIngest(false)
		e.metrics.SetLiveSessions(e.store.Len())
		e.record(ctx, audit.NewRecord(sessionID, audit.KindClear))
		log.Debug("no personas addressed, policy cleared")
		return &IngestResult{Text: text}, nil
	}

	clean := persona.StripMarker(text)
	in := e.classifier.Classify(clean)
	providers := gate.Detect(clean)
	alloc := e.allocator.Allocate(set, in)
	now := e.now()

	policy := &session.Policy{
		Personas:       set,
		Allocation:     alloc,
		Intent:         in,
		Providers:      providers,
		Hints:          gate.Hints(providers),
		StaleSensitive: gate.StaleSensitive(clean),
		AllowDeep:      gate.DeepInvestigation(clean),
		Ledger:         gate.Ledger{},
		Phase:          session.PhaseAllocated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := e.store.Put(ctx, sessionID, policy); err != nil {
		tracing.SetStatus(span, err)
		return nil, err
	}

	tracing.SetPanelAttributes(span, set.Strings(), string(in), alloc.Plan())
	span.SetAttributes(attribute.StringSlice(tracing.AttrProviders, gate.Strings(providers)))
	e.metrics.RecordIngest(true)
	e.metrics.RecordAllocation(string(in), set.Len(), alloc.Total())
	e.metrics.SetLiveSessions(e.store.Len())

	rec := policyRecord(sessionID, audit.KindIngest, policy)
	if len(providers) > 0 {
		rec.Detail = "providers=" + strings.Join(gate.Strings(providers), ",")
	}
	e.record(ctx, rec)

	log.Debug("policy allocated",
		"personas", set.String(),
		"intent", in,
		"plan", alloc.Plan(),
		"providers", gate.Strings(providers),
		"stale_sensitive", policy.StaleSensitive,
		"allow_deep", policy.AllowDeep,
	)

	return &IngestResult{
		Text:   contract.EnforceUserContract(clean, e.contractInput(policy)),
		Active: true,
		Policy: policy.Clone(),
	}, nil
}

// SystemInstruction returns the system-level instruction for the live
// policy. It is emitted once per stored policy: later calls, and calls for
// a conversation without a policy, return ok=false.
func (e *Engine) SystemInstruction(ctx context.Context, sessionID string) (string, bool, error) {
	start := time.Now()
	defer e.observe(PhaseInstruct, start)

	ctx, span := e.tracer.Start(ctx, "roundtable."+PhaseInstruct)
	defer span.End()
	tracing.SetSessionAttribute(span, sessionID)

	var instruction string
	err := e.store.Update(ctx, sessionID, func(p *session.Policy) error {
		if p.SystemInjected {
			return nil
		}
		instruction = contract.SystemInstruction(e.contractInput(p))
		p.SystemInjected = true
		return nil
	})
	switch {
	case errors.Is(err, session.ErrNotFound):
		return "", false, nil
	case err != nil:
		tracing.SetStatus(span, err)
		return "", false, err
	}

	if instruction == "" {
		return "", false, nil
	}
	e.log(ctx, sessionID).Debug("system instruction emitted")
	return instruction, true, nil
}

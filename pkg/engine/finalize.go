package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"mercator-hq/roundtable/pkg/audit"
	"mercator-hq/roundtable/pkg/gate"
	"mercator-hq/roundtable/pkg/session"
	"mercator-hq/roundtable/pkg/telemetry/tracing"
	"mercator-hq/roundtable/pkg/transcript"
)

// Notice kinds reported to metrics and the audit trail.
const (
	NoticeMissingProviders = "missing_providers"
	NoticeLiveData         = "live_data"
)

// Finalize rewrites the generated reply for the conversation. Multi-persona
// replies are normalized to the allocation. A notice naming unchecked
// providers is appended when several were named and coverage is incomplete,
// and a /mcp suggestion when the message was stale-sensitive but named no
// provider. Without a live policy text is returned unchanged.
func (e *Engine) Finalize(ctx context.Context, sessionID, text string) (string, error) {
	start := time.Now()
	defer e.observe(PhaseFinalize, start)

	ctx, span := e.tracer.Start(ctx, "roundtable."+PhaseFinalize)
	defer span.End()
	tracing.SetSessionAttribute(span, sessionID)

	p, err := e.store.Get(ctx, sessionID)
	if err != nil {
		tracing.SetStatus(span, err)
		return "", err
	}
	if p == nil {
		return text, nil
	}

	out, report := transcript.NormalizeWithReport(text, p.Personas, p.Allocation)
	e.metrics.RecordNormalize(string(report.Outcome), report.Dropped)
	span.SetAttributes(
		attribute.String(tracing.AttrNormalized, string(report.Outcome)),
		attribute.Int(tracing.AttrDroppedLine, report.Dropped),
	)

	numbered := p.MultiPersona()
	var notices []string

	if len(p.Providers) > 1 {
		if missing := p.Missing(); len(missing) > 0 {
			next := transcript.AppendMissingProviders(out, p.Lead(), numbered, gate.Strings(missing))
			if next != out {
				notices = append(notices, NoticeMissingProviders)
				out = next
			}
		}
	}

	if p.StaleSensitive && len(p.Providers) == 0 {
		next := transcript.AppendLiveDataSuggestion(out, p.Lead(), numbered)
		if next != out {
			notices = append(notices, NoticeLiveData)
			out = next
		}
	}

	for _, kind := range notices {
		e.metrics.RecordNotice(kind)
	}

	err = e.store.Update(ctx, sessionID, func(live *session.Policy) error {
		live.Phase = session.PhaseFinalized
		return nil
	})
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		e.log(ctx, sessionID).Warn("failed to mark policy finalized", "error", err)
	}

	rec := policyRecord(sessionID, audit.KindFinalize, p)
	rec.Detail = "outcome=" + string(report.Outcome)
	if len(notices) > 0 {
		rec.Detail += " notices=" + strings.Join(notices, ",")
	}
	e.record(ctx, rec)

	e.log(ctx, sessionID).Debug("reply finalized",
		"outcome", report.Outcome,
		"parsed", report.Parsed,
		"kept", report.Kept,
		"dropped", report.Dropped,
		"notices", notices,
	)
	return out, nil
}

package engine

import (
	"context"
	"log/slog"
	"time"

	"mercator-hq/roundtable/pkg/audit"
	"mercator-hq/roundtable/pkg/contract"
	"mercator-hq/roundtable/pkg/gate"
	"mercator-hq/roundtable/pkg/intent"
	"mercator-hq/roundtable/pkg/session"
	"mercator-hq/roundtable/pkg/telemetry/logging"
	"mercator-hq/roundtable/pkg/telemetry/metrics"
	"mercator-hq/roundtable/pkg/telemetry/tracing"
	"mercator-hq/roundtable/pkg/turns"
)

// Phase names used for spans and the phase duration histogram.
const (
	PhaseAugment  = "augment"
	PhaseIngest   = "ingest"
	PhaseInstruct = "instruct"
	PhaseTool     = "tool"
	PhaseFinalize = "finalize"
)

// Options wires an Engine. Nil fields get defaults: a memory store, the
// built-in keyword classifier and weights, the default call caps, no audit,
// no metrics, a no-op tracer and slog.Default().
type Options struct {
	Store      session.Store
	Classifier intent.Classifier
	Allocator  *turns.Allocator
	Gate       *gate.Gate
	Recorder   *audit.Recorder
	Metrics    *metrics.Collector
	Tracer     *tracing.Tracer
	Logger     *slog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Engine applies the turn policy lifecycle.
type Engine struct {
	store      session.Store
	classifier intent.Classifier
	allocator  *turns.Allocator
	gate       *gate.Gate
	recorder   *audit.Recorder
	metrics    *metrics.Collector
	tracer     *tracing.Tracer
	logger     *slog.Logger
	now        func() time.Time
}

// New creates an engine from opts.
func New(opts Options) *Engine {
	if opts.Store == nil {
		opts.Store = session.NewMemoryStore()
	}
	if opts.Classifier == nil {
		opts.Classifier = intent.NewDefaultClassifier()
	}
	if opts.Allocator == nil {
		opts.Allocator = turns.NewAllocator(turns.DefaultWeights())
	}
	if opts.Gate == nil {
		opts.Gate = gate.New(gate.DefaultCallCap, gate.DefaultDeepCallCap)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Engine{
		store:      opts.Store,
		classifier: opts.Classifier,
		allocator:  opts.Allocator,
		gate:       opts.Gate,
		recorder:   opts.Recorder,
		metrics:    opts.Metrics,
		tracer:     opts.Tracer,
		logger:     opts.Logger.With("component", "engine"),
		now:        opts.Now,
	}
}

// Policy returns a snapshot of the live policy for sessionID, or nil.
func (e *Engine) Policy(ctx context.Context, sessionID string) (*session.Policy, error) {
	return e.store.Get(ctx, sessionID)
}

// Reset clears the policy for sessionID, as a message without personas would.
func (e *Engine) Reset(ctx context.Context, sessionID string) error {
	if err := e.store.Clear(ctx, sessionID); err != nil {
		return err
	}
	e.metrics.SetLiveSessions(e.store.Len())
	return nil
}

// contractInput builds the contract parameters for p. The quoted cap is the
// configured default cap.
func (e *Engine) contractInput(p *session.Policy) contract.Input {
	return contract.Input{
		Personas:       p.Personas,
		Allocation:     p.Allocation,
		Providers:      p.Providers,
		Hints:          p.Hints,
		StaleSensitive: p.StaleSensitive,
		CallCap:        e.gate.Cap(false),
	}
}

func (e *Engine) log(ctx context.Context, sessionID string) *slog.Logger {
	return logging.FromContext(logging.WithSessionID(ctx, sessionID), e.logger)
}

func (e *Engine) observe(phase string, start time.Time) {
	e.metrics.ObservePhase(phase, time.Since(start))
}

// record hands r to the audit recorder. Audit failures never fail a phase.
func (e *Engine) record(ctx context.Context, r *audit.Record) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Record(ctx, r); err != nil {
		e.log(ctx, r.SessionID).Warn("audit record rejected", "kind", r.Kind, "error", err)
	}
}

func policyRecord(sessionID string, kind audit.Kind, p *session.Policy) *audit.Record {
	r := audit.NewRecord(sessionID, kind)
	if p != nil {
		r.Intent = string(p.Intent)
		r.Personas = p.Personas.Strings()
		r.Plan = p.Allocation.Plan()
		r.CallCount = p.Ledger.CallCount
	}
	return r
}

package session

import (
	"time"

	"mercator-hq/roundtable/pkg/gate"
	"mercator-hq/roundtable/pkg/intent"
	"mercator-hq/roundtable/pkg/persona"
	"mercator-hq/roundtable/pkg/turns"
)

// Phase is the lifecycle position of a policy within one turn.
type Phase string

const (
	// PhaseAllocated follows ingest of a user message.
	PhaseAllocated Phase = "allocated"
	// PhaseGating is entered on the first tool decision.
	PhaseGating Phase = "gating"
	// PhaseFinalized follows normalization of the reply.
	PhaseFinalized Phase = "finalized"
)

// Policy is the rule set of one conversation turn. Intent, personas and
// allocation are fixed at ingest; only the ledger, the instruction latch and
// the phase change afterwards.
type Policy struct {
	Personas   persona.Set       `json:"personas"`
	Allocation *turns.Allocation `json:"allocation"`
	Intent     intent.Intent     `json:"intent"`

	// Providers are the tool providers the message named, in mention order.
	Providers []gate.Provider `json:"providers"`
	Hints     []string        `json:"hints,omitempty"`

	StaleSensitive bool `json:"stale_sensitive"`
	AllowDeep      bool `json:"allow_deep"`

	Ledger gate.Ledger `json:"ledger"`

	// SystemInjected latches once the system instruction was emitted.
	SystemInjected bool `json:"system_injected"`

	Phase     Phase     `json:"phase"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Lead returns the lead persona.
func (p *Policy) Lead() persona.Persona {
	return p.Personas.Lead()
}

// MultiPersona reports whether the turn is a multi-persona thread.
func (p *Policy) MultiPersona() bool {
	return p.Personas.Len() > 1
}

// Missing lists the named providers not yet called.
func (p *Policy) Missing() []gate.Provider {
	return p.Ledger.Missing(p.Providers)
}

// GateState returns the provider coverage state.
func (p *Policy) GateState() gate.State {
	return gate.StateOf(p.Providers, &p.Ledger)
}

// Clone returns a deep copy.
func (p *Policy) Clone() *Policy {
	if p == nil {
		return nil
	}
	out := *p
	out.Personas = p.Personas.Clone()
	out.Allocation = p.Allocation.Clone()
	if p.Providers != nil {
		out.Providers = append([]gate.Provider(nil), p.Providers...)
	}
	if p.Hints != nil {
		out.Hints = append([]string(nil), p.Hints...)
	}
	out.Ledger = p.Ledger.Clone()
	return &out
}

package gate

import (
	"fmt"
	"slices"
)

const (
	// DefaultCallCap is the per-turn call cap.
	DefaultCallCap = 2

	// DefaultDeepCallCap applies when the message asks for a deeper
	// investigation.
	DefaultDeepCallCap = 6
)

// State is the coverage state of a conversation turn.
type State string

const (
	StateNoProviders     State = "no-providers-mentioned"
	StateSingleProvider  State = "single-provider-mentioned"
	StatePendingCoverage State = "multi-provider-pending-coverage"
	StateCovered         State = "multi-provider-covered"
)

// Ledger counts the admitted calls of one conversation turn.
type Ledger struct {
	CallCount int              `json:"call_count"`
	Touched   map[Provider]int `json:"touched,omitempty"`
}

// Touches returns how often p was admitted.
func (l *Ledger) Touches(p Provider) int {
	if l == nil {
		return 0
	}
	return l.Touched[p]
}

// Missing returns the providers of mentioned that have not been called yet,
// in mention order.
func (l *Ledger) Missing(mentioned []Provider) []Provider {
	var out []Provider
	for _, p := range mentioned {
		if l.Touches(p) == 0 {
			out = append(out, p)
		}
	}
	return out
}

func (l *Ledger) record(p Provider) {
	if l.Touched == nil {
		l.Touched = make(map[Provider]int)
	}
	l.CallCount++
	l.Touched[p]++
}

// Clone returns a deep copy.
func (l Ledger) Clone() Ledger {
	out := Ledger{CallCount: l.CallCount}
	if l.Touched != nil {
		out.Touched = make(map[Provider]int, len(l.Touched))
		for p, n := range l.Touched {
			out.Touched[p] = n
		}
	}
	return out
}

// StateOf derives the coverage state from the named providers and ledger.
func StateOf(mentioned []Provider, ledger *Ledger) State {
	switch {
	case len(mentioned) == 0:
		return StateNoProviders
	case len(mentioned) == 1:
		return StateSingleProvider
	case len(ledger.Missing(mentioned)) > 0:
		return StatePendingCoverage
	default:
		return StateCovered
	}
}

// Request is one proposed tool call.
type Request struct {
	// Provider owns the tool.
	Provider Provider
	// Mentioned are the providers named by the triggering message.
	Mentioned []Provider
	// Deep is set when the message asked for a deeper investigation.
	Deep bool
}

// Gate applies the admission rules. The zero value uses the default caps.
type Gate struct {
	DefaultCap int
	DeepCap    int
}

// New returns a gate with the given caps. Non-positive caps fall back to
// the defaults.
func New(defaultCap, deepCap int) *Gate {
	return &Gate{DefaultCap: defaultCap, DeepCap: deepCap}
}

// Cap returns the call cap for a turn.
func (g *Gate) Cap(deep bool) int {
	if deep {
		if g != nil && g.DeepCap > 0 {
			return g.DeepCap
		}
		return DefaultDeepCallCap
	}
	if g != nil && g.DefaultCap > 0 {
		return g.DefaultCap
	}
	return DefaultCallCap
}

// Validate checks that the deep cap is not below the default cap.
func (g *Gate) Validate() error {
	if g.Cap(true) < g.Cap(false) {
		return fmt.Errorf("deep call cap %d is lower than default call cap %d", g.Cap(true), g.Cap(false))
	}
	return nil
}

// Admit decides req against ledger. On admission the ledger's call count
// and the provider's touch count are incremented before Admit returns; on
// denial the ledger is left unchanged and a *DenialError is returned.
func (g *Gate) Admit(req Request, ledger *Ledger) error {
	if len(req.Mentioned) == 0 {
		return &DenialError{Reason: ReasonNotPermitted, Provider: req.Provider}
	}
	if !slices.Contains(req.Mentioned, req.Provider) {
		return &DenialError{Reason: ReasonNotMentioned, Provider: req.Provider}
	}
	if len(req.Mentioned) > 1 {
		missing := ledger.Missing(req.Mentioned)
		if len(missing) > 0 && !slices.Contains(missing, req.Provider) {
			return &DenialError{Reason: ReasonCoverageRequired, Provider: req.Provider, Missing: missing}
		}
	}
	if limit := g.Cap(req.Deep); ledger.CallCount >= limit {
		return &DenialError{Reason: ReasonCallCapExceeded, Provider: req.Provider, Cap: limit}
	}

	ledger.record(req.Provider)
	return nil
}

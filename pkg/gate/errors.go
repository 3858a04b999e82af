package gate

import (
	"errors"
	"fmt"
	"strings"
)

// Reason identifies why a call was denied.
type Reason string

const (
	ReasonNotPermitted     Reason = "not_permitted"
	ReasonNotMentioned     Reason = "not_mentioned"
	ReasonCoverageRequired Reason = "coverage_required"
	ReasonCallCapExceeded  Reason = "call_cap_exceeded"
)

var (
	// ErrProviderNotPermitted is matched by denials when no provider was named.
	ErrProviderNotPermitted = errors.New("provider not permitted")

	// ErrProviderNotMentioned is matched by denials for an unnamed provider.
	ErrProviderNotMentioned = errors.New("provider not mentioned")

	// ErrCoverageRequired is matched by denials that wait on other providers.
	ErrCoverageRequired = errors.New("provider coverage required")

	// ErrCallCapExceeded is matched by denials once the call cap is spent.
	ErrCallCapExceeded = errors.New("call cap exceeded")
)

// DenialError is a rejected tool call. It is an expected outcome to be
// reported back to the generation step, not a fault.
type DenialError struct {
	Reason   Reason
	Provider Provider
	Missing  []Provider // coverage_required only
	Cap      int        // call_cap_exceeded only
}

// Error implements the error interface.
func (e *DenialError) Error() string {
	switch e.Reason {
	case ReasonNotPermitted:
		return "MCP calls are disabled unless a provider is explicitly mentioned in the prompt."
	case ReasonNotMentioned:
		return fmt.Sprintf("MCP provider '%s' is blocked for this turn; only explicitly mentioned providers are allowed.", e.Provider)
	case ReasonCoverageRequired:
		return fmt.Sprintf("MCP provider '%s' is temporarily blocked until each named provider is checked at least once. Missing: %s.",
			e.Provider, strings.Join(Strings(e.Missing), ", "))
	case ReasonCallCapExceeded:
		return fmt.Sprintf("MCP call limit reached for this turn (%d). Ask for deeper investigation to increase the limit.", e.Cap)
	default:
		return fmt.Sprintf("MCP provider '%s' denied: %s", e.Provider, e.Reason)
	}
}

// Unwrap returns the sentinel for the denial reason.
func (e *DenialError) Unwrap() error {
	switch e.Reason {
	case ReasonNotPermitted:
		return ErrProviderNotPermitted
	case ReasonNotMentioned:
		return ErrProviderNotMentioned
	case ReasonCoverageRequired:
		return ErrCoverageRequired
	case ReasonCallCapExceeded:
		return ErrCallCapExceeded
	}
	return nil
}

// IsDenial reports whether err is a gate denial and returns it.
func IsDenial(err error) (*DenialError, bool) {
	var denial *DenialError
	if errors.As(err, &denial) {
		return denial, true
	}
	return nil, false
}

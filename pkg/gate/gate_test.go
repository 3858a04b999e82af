package gate

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAdmit_NoProvidersMentioned(t *testing.T) {
	g := &Gate{}
	ledger := &Ledger{}

	err := g.Admit(Request{Provider: Sentry}, ledger)
	if !errors.Is(err, ErrProviderNotPermitted) {
		t.Fatalf("Expected ErrProviderNotPermitted, got %v", err)
	}
	if ledger.CallCount != 0 {
		t.Errorf("Denial must not touch the ledger")
	}
}

func TestAdmit_SingleProvider(t *testing.T) {
	g := &Gate{}
	ledger := &Ledger{}
	mentioned := Detect("Check Sentry for new errors")

	if err := g.Admit(Request{Provider: Sentry, Mentioned: mentioned}, ledger); err != nil {
		t.Fatalf("Expected sentry admitted, got %v", err)
	}

	err := g.Admit(Request{Provider: GitHub, Mentioned: mentioned}, ledger)
	if !errors.Is(err, ErrProviderNotMentioned) {
		t.Fatalf("Expected ErrProviderNotMentioned, got %v", err)
	}
	if !strings.Contains(err.Error(), "'github'") {
		t.Errorf("Expected provider in message, got %q", err.Error())
	}

	if err := g.Admit(Request{Provider: Sentry, Mentioned: mentioned}, ledger); err != nil {
		t.Fatalf("Expected second sentry call admitted, got %v", err)
	}

	err = g.Admit(Request{Provider: Sentry, Mentioned: mentioned}, ledger)
	denial, ok := IsDenial(err)
	if !ok || denial.Reason != ReasonCallCapExceeded || denial.Cap != 2 {
		t.Fatalf("Expected call cap denial at 2, got %v", err)
	}
	if ledger.CallCount != 2 || ledger.Touches(Sentry) != 2 {
		t.Errorf("Expected ledger 2/2, got %d/%d", ledger.CallCount, ledger.Touches(Sentry))
	}
}

func TestAdmit_CoverageBeforeRepeats(t *testing.T) {
	g := &Gate{}
	ledger := &Ledger{}
	mentioned := Detect("Compare Sentry errors with recent GitHub commits, deep dive please")
	deep := DeepInvestigation("deep dive please")

	if StateOf(mentioned, ledger) != StatePendingCoverage {
		t.Fatalf("Expected pending coverage, got %s", StateOf(mentioned, ledger))
	}

	if err := g.Admit(Request{Provider: Sentry, Mentioned: mentioned, Deep: deep}, ledger); err != nil {
		t.Fatalf("First sentry call should be admitted: %v", err)
	}

	err := g.Admit(Request{Provider: Sentry, Mentioned: mentioned, Deep: deep}, ledger)
	if !errors.Is(err, ErrCoverageRequired) {
		t.Fatalf("Expected ErrCoverageRequired, got %v", err)
	}
	denial, _ := IsDenial(err)
	if diff := cmp.Diff([]Provider{GitHub}, denial.Missing); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(err.Error(), "Missing: github.") {
		t.Errorf("Unexpected message: %q", err.Error())
	}

	if err := g.Admit(Request{Provider: GitHub, Mentioned: mentioned, Deep: deep}, ledger); err != nil {
		t.Fatalf("GitHub call should be admitted: %v", err)
	}
	if StateOf(mentioned, ledger) != StateCovered {
		t.Errorf("Expected covered, got %s", StateOf(mentioned, ledger))
	}

	for i := 0; i < 4; i++ {
		if err := g.Admit(Request{Provider: Sentry, Mentioned: mentioned, Deep: deep}, ledger); err != nil {
			t.Fatalf("Sentry call %d after coverage should be admitted: %v", i, err)
		}
	}
	err = g.Admit(Request{Provider: Sentry, Mentioned: mentioned, Deep: deep}, ledger)
	if !errors.Is(err, ErrCallCapExceeded) {
		t.Fatalf("Expected cap at 6, got %v", err)
	}
	if ledger.CallCount != 6 {
		t.Errorf("Expected 6 calls, got %d", ledger.CallCount)
	}
}

func TestAdmit_CapAppliesBeforeCoverageCompletes(t *testing.T) {
	g := New(1, 6)
	ledger := &Ledger{}
	mentioned := []Provider{Sentry, GitHub, Shortcut}

	if err := g.Admit(Request{Provider: Shortcut, Mentioned: mentioned}, ledger); err != nil {
		t.Fatalf("Expected admitted, got %v", err)
	}
	// GitHub is still missing, so coverage does not block it, but the cap does.
	err := g.Admit(Request{Provider: GitHub, Mentioned: mentioned}, ledger)
	if !errors.Is(err, ErrCallCapExceeded) {
		t.Fatalf("Expected cap denial, got %v", err)
	}
}

func TestStateOf(t *testing.T) {
	if got := StateOf(nil, nil); got != StateNoProviders {
		t.Errorf("Expected %s, got %s", StateNoProviders, got)
	}
	if got := StateOf([]Provider{Nuxt}, nil); got != StateSingleProvider {
		t.Errorf("Expected %s, got %s", StateSingleProvider, got)
	}
}

func TestGate_Caps(t *testing.T) {
	var zero Gate
	if zero.Cap(false) != DefaultCallCap || zero.Cap(true) != DefaultDeepCallCap {
		t.Errorf("Zero gate should use defaults, got %d/%d", zero.Cap(false), zero.Cap(true))
	}
	if err := New(5, 3).Validate(); err == nil {
		t.Error("Expected error when deep cap is below default cap")
	}
	if err := New(3, 9).Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLedger_Clone(t *testing.T) {
	l := Ledger{}
	l.record(Sentry)
	cp := l.Clone()
	cp.record(Sentry)
	if l.Touches(Sentry) != 1 || l.CallCount != 1 {
		t.Errorf("Clone shares state with original")
	}
}

func TestDenialError_Unwrap(t *testing.T) {
	tests := []struct {
		reason Reason
		target error
	}{
		{ReasonNotPermitted, ErrProviderNotPermitted},
		{ReasonNotMentioned, ErrProviderNotMentioned},
		{ReasonCoverageRequired, ErrCoverageRequired},
		{ReasonCallCapExceeded, ErrCallCapExceeded},
	}
	for _, tt := range tests {
		err := error(&DenialError{Reason: tt.reason, Provider: Sentry})
		if !errors.Is(err, tt.target) {
			t.Errorf("Expected %s to match %v", tt.reason, tt.target)
		}
	}
	if _, ok := IsDenial(errors.New("other")); ok {
		t.Error("Plain error is not a denial")
	}
}

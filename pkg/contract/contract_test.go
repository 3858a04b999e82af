package contract

import (
	"strings"
	"testing"

	"mercator-hq/roundtable/pkg/gate"
	"mercator-hq/roundtable/pkg/intent"
	"mercator-hq/roundtable/pkg/persona"
	"mercator-hq/roundtable/pkg/turns"
)

func input(set persona.Set, in intent.Intent, providers ...gate.Provider) Input {
	return Input{
		Personas:   set,
		Allocation: turns.NewAllocator(nil).Allocate(set, in),
		Providers:  providers,
		Hints:      gate.Hints(providers),
	}
}

func TestUserContract_MultiPersona(t *testing.T) {
	in := input(persona.Set{persona.CTO, persona.Marketing, persona.DEV}, intent.Backend, gate.Sentry, gate.GitHub)
	in.CallCap = 3
	got := UserContract(in)

	wantLines := []string{
		Heading,
		"- Start the response immediately with CTO:",
		"- Every line must start with one of: CTO:, MARKETING:, DEV:",
		"- Follow weighted speaking plan: CTO 6, DEV 4.",
		"- The first role (CTO) leads: it opens and closes with the final recommendation.",
		"- Omit these tagged roles unless absolutely necessary: MARKETING.",
		"- Soft MCP mode: MCP is allowed only for these explicitly mentioned providers: Sentry MCP (issues, traces, releases), GitHub MCP (PRs, commits, code context).",
		"- Multiple providers were explicitly named (sentry, github); gather at least one MCP evidence point per named provider unless unavailable.",
		"- Keep MCP usage minimal: max 3 MCP calls total unless explicitly asked for deeper investigation.",
		"- Use plain lines only: [n] ROLE: message",
	}
	for _, line := range wantLines {
		if !strings.Contains(got, line) {
			t.Errorf("Contract missing line %q\n%s", line, got)
		}
	}
	if !strings.HasPrefix(got, Heading) {
		t.Errorf("Contract should start with heading")
	}
}

func TestUserContract_ToolPosture(t *testing.T) {
	set := persona.Set{persona.PM, persona.PO}

	none := UserContract(input(set, intent.Roadmap))
	if !strings.Contains(none, "do not call MCP tools unless a provider is explicitly mentioned") {
		t.Errorf("Expected no-provider posture:\n%s", none)
	}
	if !strings.Contains(none, "Do not suggest `/mcp`") {
		t.Errorf("Expected no /mcp suggestion when not stale-sensitive:\n%s", none)
	}
	if !strings.Contains(none, "may be omitted, or add one brief defer line") {
		t.Errorf("Expected soft omission line when no persona is omitted:\n%s", none)
	}

	stale := input(set, intent.Roadmap)
	stale.StaleSensitive = true
	if got := UserContract(stale); !strings.Contains(got, "include one brief suggestion to use `/mcp`") {
		t.Errorf("Expected /mcp suggestion for stale-sensitive turn:\n%s", got)
	}

	single := UserContract(input(set, intent.Roadmap, gate.Shortcut))
	if !strings.Contains(single, "Use MCP only when it materially improves confidence.") {
		t.Errorf("Expected single-provider coverage line:\n%s", single)
	}
	if !strings.Contains(single, "max 2 MCP calls total") {
		t.Errorf("Expected default cap in posture:\n%s", single)
	}
}

func TestUserContract_SinglePersona(t *testing.T) {
	got := UserContract(input(persona.Set{persona.CEO}, intent.Marketing))
	if !strings.Contains(got, "- Use plain natural prose.") {
		t.Errorf("Expected prose variant:\n%s", got)
	}
	if strings.Contains(got, "[n] ROLE") {
		t.Errorf("Single persona contract should not ask for numbered lines")
	}
}

func TestEnforceUserContract(t *testing.T) {
	in := input(persona.Set{persona.CTO, persona.DEV}, intent.Backend)

	once := EnforceUserContract("@CTO @DEV why is the API slow?", in)
	if !strings.HasPrefix(once, "@CTO @DEV why is the API slow?\n\n"+Heading) {
		t.Errorf("Unexpected enforced text:\n%s", once)
	}
	if twice := EnforceUserContract(once, in); twice != once {
		t.Errorf("Contract appended twice")
	}
}

func TestSystemInstruction(t *testing.T) {
	in := input(persona.Set{persona.CTO, persona.DEV}, intent.Backend, gate.Sentry)
	got := SystemInstruction(in)

	for _, line := range []string{
		"Active agents: @CTO, @DEV.",
		"- Produce around 8 turns using this weighted turn plan: CTO 5, DEV 3.",
		"- The first mentioned role (CTO) is the lead: open the thread and close with the final recommendation.",
		"- Soft MCP mode: MCP is allowed only for these explicitly mentioned providers: Sentry MCP (issues, traces, releases).",
		"- Format every line as [n] ROLE: message",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("Instruction missing line %q\n%s", line, got)
		}
	}

	single := SystemInstruction(input(persona.Set{persona.Research}, intent.Research))
	if !strings.HasPrefix(single, "You are the RESEARCH persona in this turn.") {
		t.Errorf("Unexpected single persona instruction:\n%s", single)
	}
}

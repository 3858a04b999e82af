// Package contract renders the formatting rules handed to the generator:
// a block appended to the user message and a mirroring system instruction.
package contract

import (
	"fmt"
	"strings"

	"mercator-hq/roundtable/pkg/gate"
	"mercator-hq/roundtable/pkg/persona"
	"mercator-hq/roundtable/pkg/turns"
)

// Heading opens the user-message contract block. Its presence marks a
// message as already carrying the contract.
const Heading = "Assistant format contract:"

// Input is everything the contract text depends on.
type Input struct {
	Personas       persona.Set
	Allocation     *turns.Allocation
	Providers      []gate.Provider
	Hints          []string
	StaleSensitive bool

	// CallCap is the call cap quoted in the tool posture.
	CallCap int
}

func (in Input) callCap() int {
	if in.CallCap > 0 {
		return in.CallCap
	}
	return gate.DefaultCallCap
}

func (in Input) providerList() string {
	return strings.Join(gate.Strings(in.Providers), ", ")
}

// UserContract renders the contract block, starting with Heading.
func UserContract(in Input) string {
	if in.Personas.Len() <= 1 {
		return strings.Join([]string{
			Heading,
			"- Provide a full, context-rich answer; avoid greeting-only replies.",
			"- Include concrete recommendations and rationale.",
			in.allowance("- Soft MCP mode: MCP is allowed only for explicitly mentioned providers (%s)."),
			in.coverage("- Multiple providers were explicitly named (%s); use at least one MCP check per named provider when gathering evidence."),
			in.posture("- If confidence is low or data may be stale, briefly suggest using `/mcp`."),
			"- If external context is used, cite the source briefly.",
			"- Do not prefix the response with a role label.",
			"- Do not use markdown or bullet points.",
			"- Use plain natural prose.",
		}, "\n")
	}

	lead := in.Personas.Lead()
	return strings.Join([]string{
		Heading,
		fmt.Sprintf("- Start the response immediately with %s:", lead),
		fmt.Sprintf("- Every line must start with one of: %s", prefixes(in.Personas)),
		"- Prefix each line with sequential numbering: [1], [2], [3], ...",
		fmt.Sprintf("- Follow weighted speaking plan: %s.", in.Allocation.Plan()),
		fmt.Sprintf("- The first role (%s) leads: it opens and closes with the final recommendation.", lead),
		"- Weighted by relevance; do not split airtime evenly.",
		"- Treat speaking plan as hard caps per role.",
		in.omitted("- Omit these tagged roles unless absolutely necessary: %s."),
		"- Keep each turn concise but substantial (1-3 sentences).",
		in.allowance("- Soft MCP mode: MCP is allowed only for these explicitly mentioned providers: %s."),
		in.coverage("- Multiple providers were explicitly named (%s); gather at least one MCP evidence point per named provider unless unavailable."),
		in.posture("- If confidence is low or data may be stale, include one brief suggestion to use `/mcp`."),
		"- If MCP context is used, include a brief source note.",
		"- Add one empty line between lines for bubble-like spacing.",
		"- Do not use markdown or bullet points.",
		"- Use plain lines only: [n] ROLE: message",
	}, "\n")
}

// EnforceUserContract appends the contract to text unless text already
// carries one.
func EnforceUserContract(text string, in Input) string {
	if strings.Contains(text, Heading) {
		return text
	}
	return text + "\n\n" + UserContract(in)
}

// SystemInstruction renders the system-level block mirroring the contract.
func SystemInstruction(in Input) string {
	if in.Personas.Len() <= 1 {
		return strings.Join([]string{
			fmt.Sprintf("You are the %s persona in this turn.", in.Personas.Lead()),
			"Provide a complete, context-rich response, not a greeting-only reply.",
			"Go deeper when useful: include tradeoffs, concrete actions, and rationale.",
			in.allowance("- Soft MCP mode: MCP is allowed only for explicitly mentioned providers (%s)."),
			in.coverage("- Multiple providers were explicitly named (%s); use at least one targeted MCP check per named provider before final recommendations, unless a provider has no accessible data."),
			in.posture("- If confidence is low or information may be stale, suggest using `/mcp` for live context."),
			"- If external context is used, cite it briefly.",
			"Do not prefix the response with the role label.",
			"Return a normal direct answer.",
		}, "\n")
	}

	mentions := make([]string, in.Personas.Len())
	for i, p := range in.Personas {
		mentions[i] = "@" + string(p)
	}

	return strings.Join([]string{
		"You are facilitating a natural multi-agent discussion.",
		fmt.Sprintf("Active agents: %s.", strings.Join(mentions, ", ")),
		"The roles are functional personas, not specific real people.",
		"You must follow these rules exactly:",
		"- Use short back-and-forth turns as a chat thread.",
		fmt.Sprintf("- Produce around %d turns using this weighted turn plan: %s.", in.Allocation.Total(), in.Allocation.Plan()),
		fmt.Sprintf("- The first mentioned role (%s) is the lead: open the thread and close with the final recommendation.", in.Personas.Lead()),
		"- Weight contributions by relevance to the user question; do not force equal airtime.",
		"- Treat the weighted turn plan as strict caps, not suggestions.",
		in.omitted("- These tagged roles are out-of-scope for this prompt and should be omitted unless absolutely needed: %s."),
		"- Keep each turn concise but substantial (1-3 sentences).",
		fmt.Sprintf("- Every line must start with one of: %s", prefixes(in.Personas)),
		"- Prefix each line with a turn number like [1], [2], [3].",
		in.allowance("- Soft MCP mode: MCP is allowed only for these explicitly mentioned providers: %s."),
		in.coverage("- Because multiple providers were explicitly named (%s), include at least one MCP check per named provider before the final recommendation, unless data is unavailable."),
		in.posture("- If confidence is low or information may be stale, add one brief suggestion to use `/mcp`."),
		"- If MCP context is used, add a brief source note in-line.",
		"- Do not output headings, bullets, or narrator text.",
		"- Add one empty line between turns to feel like message bubbles.",
		"- Format every line as [n] ROLE: message",
	}, "\n")
}

func prefixes(set persona.Set) string {
	out := make([]string, set.Len())
	for i, p := range set {
		out[i] = string(p) + ":"
	}
	return strings.Join(out, ", ")
}

// allowance states which providers may be called. format receives the hints.
func (in Input) allowance(format string) string {
	if len(in.Hints) == 0 {
		return "- Soft MCP mode: do not call MCP tools unless a provider is explicitly mentioned."
	}
	return fmt.Sprintf(format, strings.Join(in.Hints, ", "))
}

// coverage asks for one check per provider when several were named. format
// receives the provider names.
func (in Input) coverage(format string) string {
	if len(in.Providers) <= 1 {
		return "- Use MCP only when it materially improves confidence."
	}
	return fmt.Sprintf(format, in.providerList())
}

// posture sets the call budget, or the /mcp stance when nothing was named.
// staleLine is used when the message is stale-sensitive.
func (in Input) posture(staleLine string) string {
	switch {
	case len(in.Hints) > 0:
		return fmt.Sprintf("- Keep MCP usage minimal: max %d MCP calls total unless explicitly asked for deeper investigation.", in.callCap())
	case in.StaleSensitive:
		return staleLine
	default:
		return "- Do not suggest `/mcp` unless the user asks for live/current data."
	}
}

func (in Input) omitted(format string) string {
	omitted := in.Allocation.Omitted()
	if omitted.Empty() {
		return "- Tagged roles that are not relevant may be omitted, or add one brief defer line."
	}
	return fmt.Sprintf(format, strings.Join(omitted.Strings(), ", "))
}

package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"mercator-hq/roundtable/pkg/persona"
)

const (
	// MissingProvidersTrigger opens the missing-provider notice.
	MissingProvidersTrigger = "Need at least one MCP check for:"

	// LiveDataSuggestion is the stale-data follow-up.
	LiveDataSuggestion = "If confidence is low or the data may be stale, we can pull live context with `/mcp` before finalizing."
)

var (
	turnMarkerPattern = regexp.MustCompile(`\[(\d+)\]\s+[A-Za-z]+:`)
	mcpPattern        = regexp.MustCompile(`(?i)/mcp\b`)
)

// NextTurn returns one past the highest "[n] LABEL:" marker in text, or 1
// when there is none.
func NextTurn(text string) int {
	highest := 0
	for _, match := range turnMarkerPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(match[1])
		if err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}

// AppendMissingProviders appends a notice naming the providers that still
// need a check. It is a no-op when missing is empty or the notice is already
// present.
func AppendMissingProviders(text string, lead persona.Persona, numbered bool, missing []string) string {
	if len(missing) == 0 || strings.Contains(text, MissingProvidersTrigger) {
		return text
	}
	notice := fmt.Sprintf("%s %s before final recommendation.", MissingProvidersTrigger, strings.Join(missing, ", "))
	return appendNotice(text, lead, numbered, notice)
}

// AppendLiveDataSuggestion appends the /mcp suggestion unless text already
// mentions /mcp.
func AppendLiveDataSuggestion(text string, lead persona.Persona, numbered bool) string {
	if mcpPattern.MatchString(text) {
		return text
	}
	return appendNotice(text, lead, numbered, LiveDataSuggestion)
}

func appendNotice(text string, lead persona.Persona, numbered bool, notice string) string {
	if !numbered {
		return text + Separator + notice
	}
	line := Line{Persona: lead, Message: notice}
	return text + Separator + line.format(NextTurn(text))
}

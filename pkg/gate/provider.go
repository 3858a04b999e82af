package gate

import (
	"regexp"
	"strings"
)

// Provider is a known external integration.
type Provider string

const (
	Sentry   Provider = "sentry"
	GitHub   Provider = "github"
	Shortcut Provider = "shortcut"
	Nuxt     Provider = "nuxt"
)

type providerSpec struct {
	provider   Provider
	pattern    *regexp.Regexp
	hint       string
	toolPrefix string
}

var providers = []providerSpec{
	{
		provider:   Sentry,
		pattern:    regexp.MustCompile(`(?i)\b(sentry|sentry\.io)\b`),
		hint:       "Sentry MCP (issues, traces, releases)",
		toolPrefix: "sentry_",
	},
	{
		provider:   GitHub,
		pattern:    regexp.MustCompile(`(?i)\b(github|github\.com)\b`),
		hint:       "GitHub MCP (PRs, commits, code context)",
		toolPrefix: "github_",
	},
	{
		provider:   Shortcut,
		pattern:    regexp.MustCompile(`(?i)\b(shortcut)\b`),
		hint:       "Shortcut MCP (stories, epics, milestones)",
		toolPrefix: "shortcut_",
	},
	{
		provider:   Nuxt,
		pattern:    regexp.MustCompile(`(?i)\b(nuxt|nuxt\s*ui|ui\.nuxt\.com)\b`),
		hint:       "Nuxt UI MCP (components, docs, examples)",
		toolPrefix: "nuxt-ui_",
	},
}

var (
	stalePattern = regexp.MustCompile(`(?i)\b(current|latest|today|this week|this month|recent|live|regression|incident|status|right now|fresh|up-to-date)\b`)
	deepPattern  = regexp.MustCompile(`(?i)\b(deeper|deep dive|thorough|comprehensive|full investigation|as needed|as much as needed|exhaustive)\b`)
)

// Known lists every provider.
func Known() []Provider {
	out := make([]Provider, len(providers))
	for i, def := range providers {
		out[i] = def.provider
	}
	return out
}

// Detect returns the providers named in text, in table order.
func Detect(text string) []Provider {
	var out []Provider
	for _, def := range providers {
		if def.pattern.MatchString(text) {
			out = append(out, def.provider)
		}
	}
	return out
}

// Hint returns the human description of p.
func (p Provider) Hint() string {
	for _, def := range providers {
		if def.provider == p {
			return def.hint
		}
	}
	return ""
}

// Hints returns the descriptions of ps in order.
func Hints(ps []Provider) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		if hint := p.Hint(); hint != "" {
			out = append(out, hint)
		}
	}
	return out
}

// FromToolName maps a tool name to its provider by prefix.
func FromToolName(tool string) (Provider, bool) {
	for _, def := range providers {
		if strings.HasPrefix(tool, def.toolPrefix) {
			return def.provider, true
		}
	}
	return "", false
}

// StaleSensitive reports whether text asks about current or live data.
func StaleSensitive(text string) bool {
	return stalePattern.MatchString(text)
}

// DeepInvestigation reports whether text asks for a deeper investigation,
// which raises the call cap.
func DeepInvestigation(text string) bool {
	return deepPattern.MatchString(text)
}

// Strings converts providers to their names.
func Strings(ps []Provider) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

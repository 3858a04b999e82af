package intent

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Group is one keyword matcher. A group contributes at most one point to its
// intent's score, however many of its patterns occur.
type Group struct {
	// Name labels the group in logs and validation errors.
	Name string `yaml:"name" json:"name"`

	// Patterns are regular expression fragments joined into one
	// case-insensitive alternation.
	Patterns []string `yaml:"patterns" json:"patterns"`
}

// Table maps every scored intent to its keyword groups.
type Table struct {
	Intents map[Intent][]Group `yaml:"intents" json:"intents"`
}

// DefaultTable returns the built-in keyword groups, two per category.
func DefaultTable() *Table {
	return &Table{
		Intents: map[Intent][]Group{
			Backend: {
				{Name: "systems", Patterns: []string{"api", "latency", "database", "db", "cache", "query", "service", "backend", "throughput", "p95", "p99", "infra", "performance"}},
				{Name: "reliability", Patterns: []string{"timeout", "retry", "index", `n\+1`, "scaling", "server", "endpoint", "queue"}},
			},
			Design: {
				{Name: "interface", Patterns: []string{"design", "ux", "ui", "prototype", "wireframe", "usability", "interaction", "layout", "visual", "figma"}},
				{Name: "experience", Patterns: []string{"experience", "journey", "information architecture", "a11y", "accessibility"}},
			},
			Marketing: {
				{Name: "messaging", Patterns: []string{"marketing", "positioning", "messaging", "campaign", "launch", "brand", "audience", "copy", "narrative"}},
				{Name: "acquisition", Patterns: []string{"go-to-market", "gtm", "webinar", "case study", "ad", "funnel", "conversion"}},
			},
			Roadmap: {
				{Name: "planning", Patterns: []string{"roadmap", "milestone", "quarter", "timeline", "deadline", "planning", "refinement", "delivery", "scope"}},
				{Name: "delivery", Patterns: []string{"prioritization", "dependency", "release", "backlog", "estimate", "resourcing"}},
			},
			Research: {
				{Name: "discovery", Patterns: []string{"research", "interview", "evidence", "hypothesis", "experiment", "validate", "confidence", "survey"}},
				{Name: "analysis", Patterns: []string{"competitive", "benchmark", "discovery", "analysis", "findings", "insight"}},
			},
		},
	}
}

// TableError aggregates every problem found while validating a table.
type TableError struct {
	Source   string
	Problems []string
}

func (e *TableError) Error() string {
	source := e.Source
	if source == "" {
		source = "intent table"
	}
	if len(e.Problems) == 1 {
		return fmt.Sprintf("%s: %s", source, e.Problems[0])
	}
	return fmt.Sprintf("%s: %d problems:\n  - %s", source, len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

// compiledGroup is a Group with its alternation compiled.
type compiledGroup struct {
	name string
	re   *regexp.Regexp
}

// compiledTable is an immutable, ready-to-match table.
type compiledTable struct {
	groups map[Intent][]compiledGroup
}

// Validate checks the table without keeping the compiled form.
func (t *Table) Validate() error {
	_, err := t.compile("")
	return err
}

func (t *Table) compile(source string) (*compiledTable, error) {
	tableErr := &TableError{Source: source}
	if t == nil || len(t.Intents) == 0 {
		tableErr.Problems = append(tableErr.Problems, "no intents defined")
		return nil, tableErr
	}

	compiled := &compiledTable{groups: make(map[Intent][]compiledGroup, len(t.Intents))}
	for in, groups := range t.Intents {
		if !in.Scored() {
			tableErr.Problems = append(tableErr.Problems, fmt.Sprintf("intent %q cannot carry keyword groups", in))
			continue
		}
		if len(groups) == 0 {
			tableErr.Problems = append(tableErr.Problems, fmt.Sprintf("intent %q has no groups", in))
			continue
		}
		for idx, g := range groups {
			label := g.Name
			if label == "" {
				label = fmt.Sprintf("#%d", idx)
			}
			fragments := make([]string, 0, len(g.Patterns))
			for _, p := range g.Patterns {
				if p = strings.TrimSpace(p); p != "" {
					fragments = append(fragments, p)
				}
			}
			if len(fragments) == 0 {
				tableErr.Problems = append(tableErr.Problems, fmt.Sprintf("intent %q group %s has no patterns", in, label))
				continue
			}
			re, err := regexp.Compile("(?i)(?:" + strings.Join(fragments, "|") + ")")
			if err != nil {
				tableErr.Problems = append(tableErr.Problems, fmt.Sprintf("intent %q group %s: %v", in, label, err))
				continue
			}
			compiled.groups[in] = append(compiled.groups[in], compiledGroup{name: label, re: re})
		}
	}

	if len(tableErr.Problems) > 0 {
		// Map iteration order is random; keep error output stable.
		slices.Sort(tableErr.Problems)
		return nil, tableErr
	}
	return compiled, nil
}

// score counts the groups of each scored intent that match text.
func (c *compiledTable) score(text string) map[Intent]int {
	scores := make(map[Intent]int, len(Priority))
	for _, in := range Priority {
		scores[in] = 0
		for _, g := range c.groups[in] {
			if g.re.MatchString(text) {
				scores[in]++
			}
		}
	}
	return scores
}

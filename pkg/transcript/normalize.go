package transcript

import (
	"fmt"
	"regexp"
	"strings"

	"mercator-hq/roundtable/pkg/persona"
	"mercator-hq/roundtable/pkg/turns"
)

// linePattern matches "[n] LABEL: message" with an optional turn marker.
var linePattern = regexp.MustCompile(`^(?:\[(\d+)\]\s*)?([A-Za-z]+):\s*(.+)$`)

// Separator joins transcript lines.
const Separator = "\n\n"

// Line is one attributed turn.
type Line struct {
	Persona persona.Persona
	Message string
}

func (l Line) format(turn int) string {
	return fmt.Sprintf("[%d] %s: %s", turn, l.Persona, l.Message)
}

// Outcome describes what Normalize did with a reply.
type Outcome string

const (
	// OutcomeSkipped means the conversation has at most one persona.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeUnparsed means no line named an active persona.
	OutcomeUnparsed Outcome = "unparsed"
	// OutcomeOverQuota means lines parsed but every one exceeded its quota.
	OutcomeOverQuota Outcome = "over_quota"
	// OutcomeNormalized means the reply was rewritten.
	OutcomeNormalized Outcome = "normalized"
)

// Report summarizes one normalization.
type Report struct {
	Outcome Outcome
	Parsed  int
	Kept    int
	Dropped int
}

// Parse extracts the candidate lines of text spoken by members of set.
// Labels resolve through the persona alias table; lines with an unknown or
// inactive label or an empty message are skipped.
func Parse(text string, set persona.Set) []Line {
	var lines []Line
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		match := linePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		p, ok := persona.Normalize(match[2])
		if !ok || !set.Contains(p) {
			continue
		}
		msg := strings.TrimSpace(match[3])
		if msg == "" {
			continue
		}
		lines = append(lines, Line{Persona: p, Message: msg})
	}
	return lines
}

// Normalize rewrites text to comply with alloc. See NormalizeWithReport.
func Normalize(text string, set persona.Set, alloc *turns.Allocation) string {
	out, _ := NormalizeWithReport(text, set, alloc)
	return out
}

// NormalizeWithReport filters text to the lines of set, enforces quotas in
// original order, moves the lead's first line to the front and its last line
// to the end, and renumbers from 1. It fails open: if nothing survives, text
// is returned unchanged.
func NormalizeWithReport(text string, set persona.Set, alloc *turns.Allocation) (string, Report) {
	if set.Len() <= 1 {
		return text, Report{Outcome: OutcomeSkipped}
	}

	parsed := Parse(text, set)
	report := Report{Parsed: len(parsed)}
	if len(parsed) == 0 {
		report.Outcome = OutcomeUnparsed
		return text, report
	}

	counts := make(map[persona.Persona]int, set.Len())
	selected := make([]Line, 0, len(parsed))
	for _, line := range parsed {
		if counts[line.Persona] >= alloc.Quota(line.Persona) {
			continue
		}
		counts[line.Persona]++
		selected = append(selected, line)
	}
	report.Kept = len(selected)
	report.Dropped = len(parsed) - len(selected)

	if len(selected) == 0 {
		report.Outcome = OutcomeOverQuota
		return text, report
	}

	selected = leadBookends(selected, set.Lead())

	out := make([]string, len(selected))
	for i, line := range selected {
		out[i] = line.format(i + 1)
	}
	report.Outcome = OutcomeNormalized
	return strings.Join(out, Separator), report
}

// leadBookends moves the lead's first line to the front, then the lead's
// last line to the end. A lead with a single line therefore closes the
// thread rather than opening it.
func leadBookends(lines []Line, lead persona.Persona) []Line {
	first := -1
	for i, line := range lines {
		if line.Persona == lead {
			first = i
			break
		}
	}
	if first > 0 {
		line := lines[first]
		copy(lines[1:first+1], lines[:first])
		lines[0] = line
	}

	last := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i].Persona == lead {
			last = i
			break
		}
	}
	if last >= 0 && last < len(lines)-1 {
		line := lines[last]
		copy(lines[last:], lines[last+1:])
		lines[len(lines)-1] = line
	}
	return lines
}

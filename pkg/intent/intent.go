package intent

import (
	"fmt"
	"strings"
)

// Intent is the dominant topic of a message.
type Intent string

const (
	Backend   Intent = "backend"
	Design    Intent = "design"
	Marketing Intent = "marketing"
	Roadmap   Intent = "roadmap"
	Research  Intent = "research"
	// Mixed is the fallback when no category scores.
	Mixed Intent = "mixed"
)

// Priority is the tie-break order for scored categories. Mixed is never
// scored and is not part of it.
var Priority = []Intent{Backend, Design, Marketing, Roadmap, Research}

// All lists every intent, Mixed last.
var All = []Intent{Backend, Design, Marketing, Roadmap, Research, Mixed}

// Valid reports whether i is a known intent.
func (i Intent) Valid() bool {
	for _, known := range All {
		if i == known {
			return true
		}
	}
	return false
}

// Scored reports whether i is a category that keyword groups can score.
func (i Intent) Scored() bool {
	return i != Mixed && i.Valid()
}

func (i Intent) String() string {
	return string(i)
}

// Parse converts a case-insensitive name into an Intent.
func Parse(name string) (Intent, error) {
	i := Intent(strings.ToLower(strings.TrimSpace(name)))
	if !i.Valid() {
		return "", fmt.Errorf("unknown intent %q", name)
	}
	return i, nil
}

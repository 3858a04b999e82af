package persona

import "strings"

// Persona is a canonical role label.
type Persona string

const (
	// CTO is the technology lead.
	CTO Persona = "CTO"
	// DEV is the implementing engineer.
	DEV Persona = "DEV"
	// PO is the product owner.
	PO Persona = "PO"
	// PM is the product or project manager.
	PM Persona = "PM"
	// CEO is the executive sponsor.
	CEO Persona = "CEO"
	// Marketing owns positioning and go-to-market.
	Marketing Persona = "MARKETING"
	// Research owns discovery and evidence.
	Research Persona = "RESEARCH"
)

// All lists every supported persona in canonical order.
var All = []Persona{CTO, DEV, PO, PM, CEO, Marketing, Research}

// aliases maps lowercase input tokens to canonical personas. Lookups fall
// back to an exact case-insensitive match against All.
var aliases = map[string]Persona{
	"cto":       CTO,
	"dev":       DEV,
	"developer": DEV,
	"po":        PO,
	"pm":        PM,
	"ceo":       CEO,
	"marketing": Marketing,
	"research":  Research,
}

// Normalize maps a raw token to its canonical persona.
func Normalize(raw string) (Persona, bool) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return "", false
	}
	if p, ok := aliases[strings.ToLower(token)]; ok {
		return p, true
	}
	upper := Persona(strings.ToUpper(token))
	for _, p := range All {
		if p == upper {
			return p, true
		}
	}
	return "", false
}

// Valid reports whether p is one of the supported personas.
func (p Persona) Valid() bool {
	for _, known := range All {
		if p == known {
			return true
		}
	}
	return false
}

// String returns the canonical label.
func (p Persona) String() string {
	return string(p)
}

// Set is an ordered, duplicate-free list of personas. The zero value is an
// empty set.
type Set []Persona

// NewSet builds a Set from tokens, normalizing each one and dropping
// unknown tokens and repeats.
func NewSet(tokens ...string) Set {
	var set Set
	for _, token := range tokens {
		if p, ok := Normalize(token); ok {
			set = set.add(p)
		}
	}
	return set
}

func (s Set) add(p Persona) Set {
	if s.Contains(p) {
		return s
	}
	return append(s, p)
}

// Len returns the number of personas.
func (s Set) Len() int {
	return len(s)
}

// Empty reports whether the set has no personas.
func (s Set) Empty() bool {
	return len(s) == 0
}

// Lead returns the first persona, or "" for an empty set.
func (s Set) Lead() Persona {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Contains reports whether p is a member.
func (s Set) Contains(p Persona) bool {
	for _, member := range s {
		if member == p {
			return true
		}
	}
	return false
}

// Index returns the position of p, or -1.
func (s Set) Index(p Persona) int {
	for i, member := range s {
		if member == p {
			return i
		}
	}
	return -1
}

// Strings returns the canonical labels in order.
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = string(p)
	}
	return out
}

// String joins the labels with commas, matching the marker encoding.
func (s Set) String() string {
	return strings.Join(s.Strings(), ",")
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}

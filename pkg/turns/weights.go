package turns

import (
	"fmt"
	"slices"

	"mercator-hq/roundtable/pkg/intent"
	"mercator-hq/roundtable/pkg/persona"
)

// MaxWeight is the highest relevance weight a persona can carry.
const MaxWeight = 5

// WeightTable maps intent to persona to relevance weight.
type WeightTable map[intent.Intent]map[persona.Persona]int

// DefaultWeights returns the built-in relevance table. Mixed weighs everyone
// equally.
func DefaultWeights() WeightTable {
	return WeightTable{
		intent.Backend: {
			persona.CTO: 5, persona.DEV: 5, persona.PM: 2, persona.PO: 2,
			persona.CEO: 1, persona.Marketing: 0, persona.Research: 1,
		},
		intent.Design: {
			persona.CTO: 2, persona.DEV: 2, persona.PM: 4, persona.PO: 4,
			persona.CEO: 1, persona.Marketing: 3, persona.Research: 3,
		},
		intent.Marketing: {
			persona.CTO: 1, persona.DEV: 1, persona.PM: 2, persona.PO: 2,
			persona.CEO: 4, persona.Marketing: 5, persona.Research: 2,
		},
		intent.Roadmap: {
			persona.CTO: 3, persona.DEV: 2, persona.PM: 5, persona.PO: 5,
			persona.CEO: 4, persona.Marketing: 2, persona.Research: 2,
		},
		intent.Research: {
			persona.CTO: 3, persona.DEV: 3, persona.PM: 2, persona.PO: 2,
			persona.CEO: 1, persona.Marketing: 1, persona.Research: 5,
		},
		intent.Mixed: {
			persona.CTO: 2, persona.DEV: 2, persona.PM: 2, persona.PO: 2,
			persona.CEO: 2, persona.Marketing: 2, persona.Research: 2,
		},
	}
}

// Weight returns the weight of p under in. Missing entries weigh zero.
func (w WeightTable) Weight(in intent.Intent, p persona.Persona) int {
	return w[in][p]
}

// Clone returns a deep copy.
func (w WeightTable) Clone() WeightTable {
	out := make(WeightTable, len(w))
	for in, row := range w {
		cp := make(map[persona.Persona]int, len(row))
		for p, v := range row {
			cp[p] = v
		}
		out[in] = cp
	}
	return out
}

// Override returns a copy of w with the entries of overrides applied on
// top. Keys are matched case-insensitively.
func (w WeightTable) Override(overrides map[string]map[string]int) (WeightTable, error) {
	out := w.Clone()
	for rawIntent, row := range overrides {
		in, err := intent.Parse(rawIntent)
		if err != nil {
			return nil, err
		}
		if out[in] == nil {
			out[in] = make(map[persona.Persona]int, len(row))
		}
		for rawPersona, weight := range row {
			p, ok := persona.Normalize(rawPersona)
			if !ok {
				return nil, fmt.Errorf("unknown persona %q in %s weights", rawPersona, in)
			}
			out[in][p] = weight
		}
	}
	return out, out.Validate()
}

// Validate checks that every intent has a row and every weight is in range.
func (w WeightTable) Validate() error {
	var missing []string
	for _, in := range intent.All {
		if _, ok := w[in]; !ok {
			missing = append(missing, string(in))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("weight table missing intents: %v", missing)
	}

	intents := make([]intent.Intent, 0, len(w))
	for in := range w {
		intents = append(intents, in)
	}
	slices.Sort(intents)

	for _, in := range intents {
		if !in.Valid() {
			return fmt.Errorf("weight table has unknown intent %q", in)
		}
		for _, p := range persona.All {
			if v := w[in][p]; v < 0 || v > MaxWeight {
				return fmt.Errorf("weight %s/%s = %d out of range [0,%d]", in, p, v, MaxWeight)
			}
		}
	}
	return nil
}

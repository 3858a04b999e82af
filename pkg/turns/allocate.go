package turns

import (
	"fmt"
	"slices"
	"strings"

	"mercator-hq/roundtable/pkg/intent"
	"mercator-hq/roundtable/pkg/persona"
)

const (
	leadFloor  = 2
	otherFloor = 1
	leadBonus  = 1
)

// TotalTurns returns the turn budget for count personas under in. Backend
// and marketing threads are kept shorter than general threads of the same
// size.
func TotalTurns(count int, in intent.Intent) int {
	if count <= 1 {
		return 0
	}

	switch in {
	case intent.Backend:
		switch {
		case count == 2:
			return 8
		case count <= 4:
			return 10
		default:
			return 12
		}
	case intent.Marketing:
		if count <= 3 {
			return 10
		}
		return 12
	}

	switch {
	case count == 2:
		return 8
	case count == 3:
		return 10
	case count <= 5:
		return 12
	default:
		return 14
	}
}

// Allocation is the per-persona quota for one conversation turn. Quotas are
// defined only over Personas; anyone else implicitly has zero.
type Allocation struct {
	Intent   intent.Intent           `json:"intent"`
	Personas persona.Set             `json:"personas"`
	Quotas   map[persona.Persona]int `json:"quotas"`
}

// Quota returns p's quota.
func (a *Allocation) Quota(p persona.Persona) int {
	if a == nil {
		return 0
	}
	return a.Quotas[p]
}

// Total is the sum of all quotas.
func (a *Allocation) Total() int {
	if a == nil {
		return 0
	}
	total := 0
	for _, p := range a.Personas {
		total += a.Quotas[p]
	}
	return total
}

// Plan renders the speaking plan, e.g. "CTO 5, DEV 3". Personas with a
// zero quota are left out.
func (a *Allocation) Plan() string {
	if a == nil {
		return ""
	}
	parts := make([]string, 0, len(a.Personas))
	for _, p := range a.Personas {
		if q := a.Quotas[p]; q > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", p, q))
		}
	}
	return strings.Join(parts, ", ")
}

// Omitted lists the active personas whose quota is zero.
func (a *Allocation) Omitted() persona.Set {
	if a == nil {
		return nil
	}
	var out persona.Set
	for _, p := range a.Personas {
		if a.Quotas[p] == 0 {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a deep copy.
func (a *Allocation) Clone() *Allocation {
	if a == nil {
		return nil
	}
	quotas := make(map[persona.Persona]int, len(a.Quotas))
	for p, q := range a.Quotas {
		quotas[p] = q
	}
	return &Allocation{Intent: a.Intent, Personas: a.Personas.Clone(), Quotas: quotas}
}

// Allocator computes allocations from a weight table.
type Allocator struct {
	weights WeightTable
}

// NewAllocator creates an allocator. A nil table uses DefaultWeights.
func NewAllocator(weights WeightTable) *Allocator {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Allocator{weights: weights.Clone()}
}

// Weights returns a copy of the allocator's table.
func (a *Allocator) Weights() WeightTable {
	return a.weights.Clone()
}

// Allocate distributes TotalTurns(len(set), in) across set.
func (a *Allocator) Allocate(set persona.Set, in intent.Intent) *Allocation {
	weights := make([]int, len(set))
	for i, p := range set {
		weights[i] = max(0, a.weights.Weight(in, p))
	}
	quotas := distribute(weights, TotalTurns(len(set), in))

	alloc := &Allocation{
		Intent:   in,
		Personas: set.Clone(),
		Quotas:   make(map[persona.Persona]int, len(set)),
	}
	for i, p := range set {
		alloc.Quotas[p] = quotas[i]
	}
	return alloc
}

// distribute splits total across positions with the given weights. Position
// zero is the lead. With fewer than two positions every quota is zero.
func distribute(weights []int, total int) []int {
	n := len(weights)
	quotas := make([]int, n)
	if n <= 1 {
		return quotas
	}

	floorSum := 0
	for i, w := range weights {
		switch {
		case i == 0:
			quotas[i] = leadFloor
		case w > 0:
			quotas[i] = otherFloor
		}
		floorSum += quotas[i]
	}

	// Shrink floors from the tail, never touching the lead.
	for i := n - 1; i > 0 && floorSum > total; i-- {
		if quotas[i] > 0 {
			quotas[i]--
			floorSum--
		}
	}

	remaining := total - floorSum
	if remaining <= 0 {
		return quotas
	}

	effective := make([]int, n)
	weightSum := 0
	for i, w := range weights {
		effective[i] = w
		if i == 0 {
			effective[i] += leadBonus
		}
		weightSum += effective[i]
	}
	if weightSum == 0 {
		quotas[0] += remaining
		return quotas
	}

	// Largest remainder over a common denominator of weightSum.
	rems := make([]int, n)
	assigned := 0
	for i, w := range effective {
		share := remaining * w
		quotas[i] += share / weightSum
		assigned += share / weightSum
		rems[i] = share % weightSum
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return rems[b] - rems[a]
	})

	for extra, k := remaining-assigned, 0; extra > 0; extra, k = extra-1, k+1 {
		quotas[order[k%n]]++
	}
	return quotas
}

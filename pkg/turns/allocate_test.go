package turns

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"mercator-hq/roundtable/pkg/intent"
	"mercator-hq/roundtable/pkg/persona"
)

func TestTotalTurns(t *testing.T) {
	tests := []struct {
		count int
		in    intent.Intent
		want  int
	}{
		{0, intent.Mixed, 0},
		{1, intent.Backend, 0},
		{2, intent.Backend, 8},
		{3, intent.Backend, 10},
		{4, intent.Backend, 10},
		{5, intent.Backend, 12},
		{7, intent.Backend, 12},
		{2, intent.Marketing, 10},
		{3, intent.Marketing, 10},
		{4, intent.Marketing, 12},
		{7, intent.Marketing, 12},
		{2, intent.Design, 8},
		{3, intent.Roadmap, 10},
		{4, intent.Research, 12},
		{5, intent.Mixed, 12},
		{6, intent.Mixed, 14},
		{7, intent.Design, 14},
	}

	for _, tt := range tests {
		if got := TotalTurns(tt.count, tt.in); got != tt.want {
			t.Errorf("TotalTurns(%d, %s) = %d, expected %d", tt.count, tt.in, got, tt.want)
		}
	}
}

func TestAllocate_Scenarios(t *testing.T) {
	a := NewAllocator(nil)

	tests := []struct {
		name  string
		set   persona.Set
		in    intent.Intent
		want  map[persona.Persona]int
		total int
	}{
		{
			name:  "cto and dev on backend",
			set:   persona.Set{persona.CTO, persona.DEV},
			in:    intent.Backend,
			want:  map[persona.Persona]int{persona.CTO: 5, persona.DEV: 3},
			total: 8,
		},
		{
			name:  "marketing trio",
			set:   persona.Set{persona.CEO, persona.Marketing, persona.PM},
			in:    intent.Marketing,
			want:  map[persona.Persona]int{persona.CEO: 5, persona.Marketing: 3, persona.PM: 2},
			total: 10,
		},
		{
			name:  "equal remainders favour the earlier persona",
			set:   persona.Set{persona.CTO, persona.PO, persona.Marketing},
			in:    intent.Marketing,
			want:  map[persona.Persona]int{persona.CTO: 4, persona.PO: 2, persona.Marketing: 4},
			total: 10,
		},
		{
			name:  "irrelevant persona gets nothing",
			set:   persona.Set{persona.CTO, persona.Marketing},
			in:    intent.Backend,
			want:  map[persona.Persona]int{persona.CTO: 8, persona.Marketing: 0},
			total: 8,
		},
		{
			name:  "irrelevant lead still leads",
			set:   persona.Set{persona.Marketing, persona.CTO},
			in:    intent.Backend,
			want:  map[persona.Persona]int{persona.Marketing: 3, persona.CTO: 5},
			total: 8,
		},
		{
			name:  "mixed pair",
			set:   persona.Set{persona.PM, persona.PO},
			in:    intent.Mixed,
			want:  map[persona.Persona]int{persona.PM: 5, persona.PO: 3},
			total: 8,
		},
		{
			name:  "single persona",
			set:   persona.Set{persona.CTO},
			in:    intent.Backend,
			want:  map[persona.Persona]int{persona.CTO: 0},
			total: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := a.Allocate(tt.set, tt.in)
			if diff := cmp.Diff(tt.want, alloc.Quotas); diff != "" {
				t.Errorf("Quotas mismatch (-want +got):\n%s", diff)
			}
			if alloc.Total() != tt.total {
				t.Errorf("Expected total %d, got %d", tt.total, alloc.Total())
			}
		})
	}
}

// subsetsInOrder returns every subset of persona.All with at least two
// members, plus each rotation of it so every member gets to lead.
func subsetsInOrder() []persona.Set {
	var out []persona.Set
	all := persona.All
	n := len(all)
	for mask := 1; mask < 1<<n; mask++ {
		var set persona.Set
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				set = append(set, all[i])
			}
		}
		if len(set) < 2 {
			continue
		}
		out = append(out, set)
		// Rotations move a different persona into the lead.
		for r := 1; r < len(set); r++ {
			rot := append(set[r:].Clone(), set[:r]...)
			out = append(out, rot)
		}
	}
	return out
}

func TestAllocate_SumAndLeadFloorProperties(t *testing.T) {
	a := NewAllocator(nil)

	for _, set := range subsetsInOrder() {
		for _, in := range intent.All {
			alloc := a.Allocate(set, in)
			want := TotalTurns(len(set), in)
			if alloc.Total() != want {
				t.Fatalf("%s %s: total %d, expected %d", set, in, alloc.Total(), want)
			}
			if q := alloc.Quota(set.Lead()); q < 2 {
				t.Fatalf("%s %s: lead quota %d < 2", set, in, q)
			}
			for _, p := range set {
				if alloc.Quota(p) < 0 {
					t.Fatalf("%s %s: negative quota for %s", set, in, p)
				}
			}
		}
	}
}

func TestAllocate_Deterministic(t *testing.T) {
	a := NewAllocator(nil)
	set := persona.Set{persona.Research, persona.PM, persona.CTO, persona.CEO}

	first := a.Allocate(set, intent.Research)
	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(first, a.Allocate(set, intent.Research)); diff != "" {
			t.Fatalf("Allocation changed between calls (-first +got):\n%s", diff)
		}
	}
}

func TestDistribute_FloorRepairFromTail(t *testing.T) {
	// Floors are 2,1,1,1,1 = 6 but only 4 turns exist: the two tail
	// positions lose their floor first.
	got := distribute([]int{1, 1, 1, 1, 1}, 4)
	want := []int{2, 1, 1, 0, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("distribute mismatch (-want +got):\n%s", diff)
	}
}

func TestDistribute_ZeroWeightsGoToLead(t *testing.T) {
	got := distribute([]int{-1, 0, 0}, 10)
	// Lead effective weight is 0 after the bonus, others 0.
	want := []int{10, 0, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("distribute mismatch (-want +got):\n%s", diff)
	}
}

func TestDistribute_RemainderTiesFollowOrder(t *testing.T) {
	// Floors 2,1,1,1 leave 3; effective weights 3,2,2,2 split 3 as
	// 9/9,6/9,6/9,6/9. Two leftover units go to the tied positions 1 and 2,
	// position 3 misses out.
	got := distribute([]int{2, 2, 2, 2}, 8)
	want := []int{3, 2, 2, 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("distribute mismatch (-want +got):\n%s", diff)
	}
}

func TestAllocation_Helpers(t *testing.T) {
	alloc := NewAllocator(nil).Allocate(persona.Set{persona.CTO, persona.Marketing, persona.DEV}, intent.Backend)

	if alloc.Plan() != "CTO 6, DEV 4" {
		t.Errorf("Unexpected plan: %q", alloc.Plan())
	}
	if diff := cmp.Diff(persona.Set{persona.Marketing}, alloc.Omitted()); diff != "" {
		t.Errorf("Omitted mismatch (-want +got):\n%s", diff)
	}

	clone := alloc.Clone()
	clone.Quotas[persona.CTO] = 99
	if alloc.Quota(persona.CTO) == 99 {
		t.Error("Clone shares quota map with original")
	}

	var nilAlloc *Allocation
	if nilAlloc.Total() != 0 || nilAlloc.Plan() != "" || nilAlloc.Quota(persona.CTO) != 0 {
		t.Error("Nil allocation should be empty")
	}
}

func TestWeightTable_Override(t *testing.T) {
	base := DefaultWeights()
	out, err := base.Override(map[string]map[string]int{
		"backend": {"marketing": 2, "developer": 4},
	})
	if err != nil {
		t.Fatalf("Override failed: %v", err)
	}
	if out.Weight(intent.Backend, persona.Marketing) != 2 {
		t.Errorf("Expected override to set MARKETING=2")
	}
	if out.Weight(intent.Backend, persona.DEV) != 4 {
		t.Errorf("Expected override to set DEV=4")
	}
	if base.Weight(intent.Backend, persona.Marketing) != 0 {
		t.Errorf("Override mutated the base table")
	}

	if _, err := base.Override(map[string]map[string]int{"sales": {"cto": 1}}); err == nil {
		t.Error("Expected error for unknown intent")
	}
	if _, err := base.Override(map[string]map[string]int{"backend": {"cfo": 1}}); err == nil {
		t.Error("Expected error for unknown persona")
	}
	if _, err := base.Override(map[string]map[string]int{"backend": {"cto": 9}}); err == nil {
		t.Error("Expected error for out of range weight")
	}
}

func TestDefaultWeights_Valid(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("Default weights invalid: %v", err)
	}
	if err := (WeightTable{}).Validate(); err == nil {
		t.Error("Expected error for empty table")
	}
}

package feed

import "testing"

func TestTracker_GrowthKeepsLoading(t *testing.T) {
	// WHAT: strictly growing counts never stall and never terminate early.
	tr := NewTracker(Thresholds{MaxScrolls: 100})
	for i, count := range []int{5, 12, 20, 31, 45} {
		step := tr.Observe(count)
		if step.Done {
			t.Fatalf("iteration %d: unexpected Done", i)
		}
		if step.Phase != Loading {
			t.Errorf("iteration %d: phase %v, want loading", i, step.Phase)
		}
	}
}

func TestTracker_StallEscalation(t *testing.T) {
	// WHAT: flat counts escalate show-more → alternate scroll → converged
	// at stall counts 3, 5, and 8.
	// WHY: each fallback trigger compensates for a different layout variant;
	// they must fire once, in order.
	tr := NewTracker(Thresholds{MaxScrolls: 100})
	tr.Observe(10) // growth

	var clicked, altScrolled []int
	for stall := 1; ; stall++ {
		step := tr.Observe(10)
		if step.ClickShowMore {
			clicked = append(clicked, stall)
		}
		if step.ScrollAlternate {
			altScrolled = append(altScrolled, stall)
		}
		if step.Done {
			if step.Phase != Converged {
				t.Errorf("terminal phase %v, want converged", step.Phase)
			}
			if stall != 8 {
				t.Errorf("terminated at stall %d, want 8", stall)
			}
			break
		}
		if stall > 20 {
			t.Fatal("tracker never terminated")
		}
	}
	if len(clicked) != 1 || clicked[0] != 3 {
		t.Errorf("show-more fired at %v, want [3]", clicked)
	}
	if len(altScrolled) != 1 || altScrolled[0] != 5 {
		t.Errorf("alternate scroll fired at %v, want [5]", altScrolled)
	}
}

func TestTracker_GrowthResetsStalls(t *testing.T) {
	// WHAT: a count increase resets the stall counter.
	tr := NewTracker(Thresholds{MaxScrolls: 100})
	tr.Observe(10)
	tr.Observe(10) // stall 1
	tr.Observe(10) // stall 2
	step := tr.Observe(15)
	if step.Phase != Loading {
		t.Errorf("phase %v after growth, want loading", step.Phase)
	}
	// Stalls start over: show-more must fire again at stall 3, not earlier.
	tr.Observe(15)
	tr.Observe(15)
	step = tr.Observe(15)
	if !step.ClickShowMore {
		t.Error("show-more did not fire at stall 3 after reset")
	}
}

func TestTracker_CeilingTerminatesImmediately(t *testing.T) {
	// WHAT: reaching the absolute ceiling converges regardless of stall state.
	tr := NewTracker(Thresholds{MaxScrolls: 100})
	step := tr.Observe(200)
	if !step.Done || step.Phase != Converged {
		t.Errorf("step %+v, want converged done", step)
	}
}

func TestTracker_MaxScrollsExhausts(t *testing.T) {
	// WHAT: running out of iterations yields Exhausted, not Converged.
	tr := NewTracker(Thresholds{MaxScrolls: 3})
	tr.Observe(1)
	tr.Observe(2)
	step := tr.Observe(3)
	if !step.Done || step.Phase != Exhausted {
		t.Errorf("step %+v, want exhausted done", step)
	}
}

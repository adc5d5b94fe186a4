// Package feed maximizes the number of listings rendered in the result feed
// before extraction. The source renders listings incrementally as the feed
// scrolls, so the controller repeatedly triggers scroll actions and watches
// the loaded-listing count until it converges.
//
// The stopping logic is a pure state machine over observed counts
// (Loading → Stalling(n) → Converged | Exhausted), kept separate from the
// browser driver so every transition is testable without a page.
package feed

// Phase is the convergence state after an observation.
type Phase int

const (
	// Loading: the count grew on the last observation.
	Loading Phase = iota
	// Stalling: the count has been flat for at least one observation.
	Stalling
	// Converged: no growth within the stall tolerance, or the listing
	// ceiling was reached. Scrolling further is pointless.
	Converged
	// Exhausted: the iteration budget ran out before convergence.
	Exhausted
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Stalling:
		return "stalling"
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

// Thresholds tunes the convergence heuristics. The values are empirical
// against the live source and deliberately configurable.
type Thresholds struct {
	// ShowMoreAfter is the stall count at which a "show more" control is
	// clicked. Default: 3.
	ShowMoreAfter int
	// AltScrollAfter is the stall count at which an alternate ancestor
	// container is scrolled. Default: 5.
	AltScrollAfter int
	// GiveUpAfter is the stall count that terminates the loop. Default: 8.
	GiveUpAfter int
	// Ceiling is the absolute listing count that terminates immediately;
	// the source never renders more. Default: 200.
	Ceiling int
	// MaxScrolls bounds the total iterations. Default: 50.
	MaxScrolls int
}

func (t *Thresholds) defaults() {
	if t.ShowMoreAfter <= 0 {
		t.ShowMoreAfter = 3
	}
	if t.AltScrollAfter <= 0 {
		t.AltScrollAfter = 5
	}
	if t.GiveUpAfter <= 0 {
		t.GiveUpAfter = 8
	}
	if t.Ceiling <= 0 {
		t.Ceiling = 200
	}
	if t.MaxScrolls <= 0 {
		t.MaxScrolls = 50
	}
}

// Step is the decision for one iteration.
type Step struct {
	Phase Phase
	// ClickShowMore: try clicking a "show more" control before the next scroll.
	ClickShowMore bool
	// ScrollAlternate: try scrolling an alternate ancestor container.
	ScrollAlternate bool
	// Done: stop the loop.
	Done bool
}

// Tracker folds observed listing counts into convergence decisions.
// Not safe for concurrent use; one Tracker per search session.
type Tracker struct {
	th         Thresholds
	lastCount  int
	stalls     int
	iterations int
}

// NewTracker creates a Tracker with th (zero fields take defaults).
func NewTracker(th Thresholds) *Tracker {
	th.defaults()
	return &Tracker{th: th}
}

// Iterations returns the number of observations folded so far.
func (t *Tracker) Iterations() int { return t.iterations }

// Observe folds the currently rendered listing count and returns the
// decision for this iteration.
func (t *Tracker) Observe(count int) Step {
	t.iterations++

	if count >= t.th.Ceiling {
		return Step{Phase: Converged, Done: true}
	}

	if count > t.lastCount {
		t.lastCount = count
		t.stalls = 0
	} else {
		t.stalls++
	}

	if t.stalls >= t.th.GiveUpAfter {
		return Step{Phase: Converged, Done: true}
	}
	if t.iterations >= t.th.MaxScrolls {
		return Step{Phase: Exhausted, Done: true}
	}

	step := Step{Phase: Loading}
	if t.stalls > 0 {
		step.Phase = Stalling
		step.ClickShowMore = t.stalls == t.th.ShowMoreAfter
		step.ScrollAlternate = t.stalls == t.th.AltScrollAfter
	}
	return step
}

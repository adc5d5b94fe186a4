package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/internal/listing"
	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/record"
)

func fabricatedRaw(name, id string) listing.Raw {
	return listing.Raw{
		Href:         "https://www.google.com/maps/place/" + name + "/data=!1s" + id,
		Name:         name,
		HasContainer: true,
	}
}

func fabricatedRaws(n int) []listing.Raw {
	raws := make([]listing.Raw, 0, n)
	for i := 0; i < n; i++ {
		raws = append(raws, fabricatedRaw(fmt.Sprintf("Coffee Shop %d", i), fmt.Sprintf("id-%d", i)))
	}
	return raws
}

func testConfig(max int) Config {
	cfg := Config{Query: "coffee shops", MaxResults: max}
	cfg.defaults()
	return cfg
}

func TestAssemble_CapAfterDedup(t *testing.T) {
	// WHAT: with cap 5 and more unique listings available, exactly 5
	// uniquely-identified records come back, each with name and identity.
	sess := newSession(testConfig(5))
	out := sess.assemble(context.Background(), fabricatedRaws(12), nil, nil)

	if len(out) != 5 {
		t.Fatalf("got %d records, want 5", len(out))
	}
	seen := make(map[string]bool)
	for _, b := range out {
		if b.Name == "" || b.Identity == "" {
			t.Errorf("record missing name or identity: %+v", b)
		}
		if seen[b.Identity] {
			t.Errorf("duplicate identity %q", b.Identity)
		}
		seen[b.Identity] = true
	}
}

func TestAssemble_DuplicatesDoNotConsumeCap(t *testing.T) {
	// WHY: the cap must reflect unique listings, not raw scan order. Six
	// raws where the first two collide must still yield five records.
	raws := []listing.Raw{fabricatedRaw("Dup A", "id-0"), fabricatedRaw("Dup A again", "id-0")}
	raws = append(raws, fabricatedRaws(5)[1:]...)
	raws = append(raws, fabricatedRaw("Extra", "id-extra"))

	sess := newSession(testConfig(5))
	out := sess.assemble(context.Background(), raws, nil, nil)
	if len(out) != 5 {
		t.Fatalf("got %d records, want 5", len(out))
	}
}

func TestAssemble_ZeroListings(t *testing.T) {
	// WHAT: a query rendering zero listings yields an empty result, not a
	// failure.
	sess := newSession(testConfig(100))
	out := sess.assemble(context.Background(), nil, nil, nil)
	if len(out) != 0 {
		t.Fatalf("got %d records, want 0", len(out))
	}
	if sess.stats.ExtractedCount != 0 {
		t.Errorf("extracted = %d, want 0", sess.stats.ExtractedCount)
	}
}

func TestAssemble_IdentityCollisionCollapses(t *testing.T) {
	// WHAT: two listings with identical computed identity collapse to one
	// output record.
	sess := newSession(testConfig(100))
	out := sess.assemble(context.Background(), []listing.Raw{
		fabricatedRaw("Cafe One", "shared-id"),
		fabricatedRaw("Cafe One (duplicate render)", "shared-id"),
	}, nil, nil)
	if len(out) != 1 {
		t.Fatalf("got %d records, want 1", len(out))
	}
}

func TestAssemble_DetailFailureKeepsListingFields(t *testing.T) {
	// WHAT: an enrichment phase that fails for every record leaves the
	// listing-level fields intact in the output.
	sess := newSession(testConfig(100))
	enrich := func(ctx context.Context, businesses []record.Business) {
		// Simulates per-business detail timeouts: nothing is written.
	}
	out := sess.assemble(context.Background(), []listing.Raw{fabricatedRaw("Cafe Two", "id-2")}, enrich, nil)
	if len(out) != 1 {
		t.Fatalf("got %d records, want 1", len(out))
	}
	if out[0].Name != "Cafe Two" || out[0].Identity == "" {
		t.Errorf("listing-level fields lost: %+v", out[0])
	}
	if out[0].Address != "" || len(out[0].Hours) != 0 {
		t.Errorf("detail fields unexpectedly set: %+v", out[0])
	}
}

func TestAssemble_HarvestCountsEmails(t *testing.T) {
	sess := newSession(testConfig(100))
	harvest := func(ctx context.Context, businesses []record.Business) int {
		for i := range businesses {
			businesses[i].Emails = []string{"info@cafe.example"}
			businesses[i].Email = "info@cafe.example"
		}
		return len(businesses)
	}
	out := sess.assemble(context.Background(), fabricatedRaws(3), nil, harvest)
	if sess.stats.EmailsExtracted != 3 {
		t.Errorf("emails extracted = %d, want 3", sess.stats.EmailsExtracted)
	}
	for _, b := range out {
		if b.Email == "" {
			t.Errorf("email not attached on %q", b.Name)
		}
	}
}

func TestConfig_Clamps(t *testing.T) {
	cases := []struct {
		in, wantResults int
	}{
		{0, 100},
		{-5, 100},
		{50, 50},
		{500, 200},
	}
	for _, tc := range cases {
		cfg := Config{Query: "q", MaxResults: tc.in}
		cfg.defaults()
		if cfg.MaxResults != tc.wantResults {
			t.Errorf("MaxResults %d → %d, want %d", tc.in, cfg.MaxResults, tc.wantResults)
		}
	}

	cfg := Config{Query: "q", MaxScrolls: 400}
	cfg.defaults()
	if cfg.MaxScrolls != 100 {
		t.Errorf("MaxScrolls = %d, want 100", cfg.MaxScrolls)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{}
	cfg.defaults()
	if err := cfg.validate(); !errors.Is(err, ErrNoQuery) {
		t.Errorf("err = %v, want ErrNoQuery", err)
	}
	cfg.URL = "https://www.google.com/maps/search/coffee"
	if err := cfg.validate(); err != nil {
		t.Errorf("err = %v, want nil", err)
	}
}

func TestConfig_SearchURL(t *testing.T) {
	cfg := Config{Query: "coffee shops berlin"}
	cfg.defaults()
	got := cfg.searchURL()
	if !strings.HasPrefix(got, "https://www.google.com/maps/search/coffee+shops+berlin") {
		t.Errorf("url = %q", got)
	}
	if !strings.Contains(got, "hl=en") {
		t.Errorf("locale missing from %q", got)
	}

	cfg.URL = "https://example.test/direct"
	if cfg.searchURL() != "https://example.test/direct" {
		t.Errorf("direct URL not preferred: %q", cfg.searchURL())
	}
}

func TestConfig_ScrollTuningReachesDriver(t *testing.T) {
	// WHAT: every convergence knob on the public config lands on the
	// scroll driver; none is a hard-coded constant from the caller's view.
	cfg := Config{
		Query:           "coffee",
		MaxScrolls:      10,
		ShowMoreAfter:   2,
		AltScrollAfter:  4,
		GiveUpAfter:     6,
		ListingCeiling:  120,
		ScrollBaseDelay: 500 * time.Millisecond,
		ScrollDelayStep: 50 * time.Millisecond,
	}
	cfg.defaults()
	opts := cfg.feedOptions(nil)
	th := opts.Thresholds
	if th.ShowMoreAfter != 2 || th.AltScrollAfter != 4 || th.GiveUpAfter != 6 {
		t.Errorf("stall thresholds not plumbed: %+v", th)
	}
	if th.Ceiling != 120 || th.MaxScrolls != 10 {
		t.Errorf("ceiling/max scrolls not plumbed: %+v", th)
	}
	if opts.BaseDelay != 500*time.Millisecond || opts.DelayStep != 50*time.Millisecond {
		t.Errorf("delay tuning not plumbed: base=%v step=%v", opts.BaseDelay, opts.DelayStep)
	}
}

func TestConfig_ScrollTuningDefaults(t *testing.T) {
	cfg := Config{Query: "coffee"}
	cfg.defaults()
	if cfg.ShowMoreAfter != 3 || cfg.AltScrollAfter != 5 || cfg.GiveUpAfter != 8 {
		t.Errorf("stall defaults: %d/%d/%d", cfg.ShowMoreAfter, cfg.AltScrollAfter, cfg.GiveUpAfter)
	}
	if cfg.ListingCeiling != 200 {
		t.Errorf("ceiling default = %d", cfg.ListingCeiling)
	}
	if cfg.ScrollBaseDelay != 1200*time.Millisecond || cfg.ScrollDelayStep != 150*time.Millisecond {
		t.Errorf("delay defaults: %v + %v", cfg.ScrollBaseDelay, cfg.ScrollDelayStep)
	}
}

func TestConfig_NavTimeoutScalesForNonASCII(t *testing.T) {
	// WHY: non-ASCII queries render measurably slower, so navigation gets
	// twice the budget.
	ascii := Config{Query: "coffee", NavTimeout: 10 * time.Second}
	wide := Config{Query: "コーヒー", NavTimeout: 10 * time.Second}
	if ascii.navTimeout() != 10*time.Second {
		t.Errorf("ascii timeout = %v", ascii.navTimeout())
	}
	if wide.navTimeout() != 20*time.Second {
		t.Errorf("wide timeout = %v", wide.navTimeout())
	}
}

func TestConfig_WithQueryDerivesCopy(t *testing.T) {
	// WHAT: region variants are derived copies; the base config is never
	// mutated.
	base := Config{Query: "coffee", MaxResults: 7, MultiRegion: true}
	sub := base.withQuery("coffee north")
	if base.Query != "coffee" || !base.MultiRegion {
		t.Errorf("base mutated: %+v", base)
	}
	if sub.Query != "coffee north" || sub.MultiRegion {
		t.Errorf("derived copy wrong: %+v", sub)
	}
	if sub.MaxResults != 7 {
		t.Errorf("derived copy lost settings: %+v", sub)
	}
}

func TestMergeByIdentity(t *testing.T) {
	// WHAT: the merge is a set union keyed by identity, capped, and
	// order-independent across batches.
	mk := func(ids ...string) []record.Business {
		out := make([]record.Business, 0, len(ids))
		for _, id := range ids {
			out = append(out, record.Business{Identity: id, Name: "n-" + id})
		}
		return out
	}
	seen := make(map[string]struct{})
	merged := mergeByIdentity(nil, mk("a", "b"), seen, 3)
	merged = mergeByIdentity(merged, mk("b", "c", "d"), seen, 3)
	if len(merged) != 3 {
		t.Fatalf("got %d, want 3", len(merged))
	}
	got := []string{merged[0].Identity, merged[1].Identity, merged[2].Identity}
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("merged[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSearch_RequiresStart(t *testing.T) {
	s := New(Options{})
	_, err := s.Search(context.Background(), Config{Query: "coffee"})
	if !errors.Is(err, ErrNotStarted) {
		t.Errorf("err = %v, want ErrNotStarted", err)
	}
}

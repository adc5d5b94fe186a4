package detail

import (
	"reflect"
	"testing"

	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/record"
)

func TestApply_AddressLabelPreferred(t *testing.T) {
	// WHAT: the accessible label wins over visible text, with the label
	// prefix stripped.
	b := record.Business{Address: "old"}
	Apply(&b, Raw{
		Address:      "123 Main St · truncated",
		AddressLabel: "Address: 123 Main Street, Springfield",
	}, "en")
	if b.Address != "123 Main Street, Springfield" {
		t.Errorf("address = %q", b.Address)
	}
}

func TestApply_JapanesePostalNormalized(t *testing.T) {
	b := record.Business{}
	Apply(&b, Raw{AddressLabel: "住所: 東京都港区芝公園4-2-8 105-0011"}, "ja")
	if b.Address != "〒105-0011 東京都港区芝公園4-2-8" {
		t.Errorf("address = %q", b.Address)
	}
}

func TestApply_MissKeepsListingFields(t *testing.T) {
	// WHAT: an empty snapshot leaves every listing-level field untouched.
	// WHY: detail parse misses are not errors; the fallback value stands.
	b := record.Business{
		Address: "12 Rose Ave", Phone: "(030) 1234-5678",
		Website: "https://cafe.example", BusinessType: "Coffee shop", PriceLevel: "$$",
	}
	want := b
	Apply(&b, Raw{}, "en")
	if !reflect.DeepEqual(b, want) {
		t.Errorf("record changed on empty snapshot: %+v", b)
	}
}

func TestWebsiteFrom(t *testing.T) {
	cases := []struct{ in, want string }{
		{"https://cafe.example/about", "https://cafe.example/about"},
		{"https://www.google.com/url?q=https://cafe.example&sa=X", "https://cafe.example"},
		{"https://www.google.com/maps/place/x", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := websiteFrom(tc.in); got != tc.want {
			t.Errorf("websiteFrom(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPriceFrom_RejectsLiteralAmounts(t *testing.T) {
	// WHAT: only pure repeated-symbol runs resolve; literal amounts and
	// ranges never do.
	cases := []struct {
		label, ctx, want string
	}{
		{"Price: $$", "", "$$"},
		{"Price: $10–20", "", ""},
		{"Moderate", "", ""},
		{"", "Coffee shop · $$$ ·", "$$$"},
		{"Price: €€", "", "€€"},
	}
	for _, tc := range cases {
		if got := priceFrom(tc.label, tc.ctx); got != tc.want {
			t.Errorf("priceFrom(%q, %q) = %q, want %q", tc.label, tc.ctx, got, tc.want)
		}
	}
}

func TestApply_StructuredHoursPreferred(t *testing.T) {
	b := record.Business{}
	Apply(&b, Raw{
		HoursRows: map[string]string{
			"Tuesday": "9 AM–5 PM",
			"Monday":  "9 AM–5 PM",
		},
		HoursCompact: "Open ⋅ Closes 5 PM",
	}, "en")
	want := []string{"Monday: 9 AM–5 PM", "Tuesday: 9 AM–5 PM"}
	if !reflect.DeepEqual(b.Hours, want) {
		t.Errorf("hours = %v, want %v", b.Hours, want)
	}
	if _, ok := b.HoursRaw["compact"]; ok {
		t.Error("compact text stored despite a structured table")
	}
}

func TestApply_CompactHoursFallback(t *testing.T) {
	// WHAT: when no table rendered, the compact text is kept as a raw
	// diagnostic without fabricating per-day entries.
	b := record.Business{}
	Apply(&b, Raw{HoursCompact: "Mon–Fri 9 AM–5 PM"}, "en")
	if len(b.Hours) != 0 {
		t.Errorf("hours = %v, want none", b.Hours)
	}
	if b.HoursRaw["compact"] != "Mon–Fri 9 AM–5 PM" {
		t.Errorf("raw hours = %v", b.HoursRaw)
	}
}

func TestApply_CategoryRejectsChrome(t *testing.T) {
	b := record.Business{BusinessType: "Coffee shop"}
	Apply(&b, Raw{Category: "Collapse side panel"}, "en")
	if b.BusinessType != "Coffee shop" {
		t.Errorf("type = %q, want listing value kept", b.BusinessType)
	}
}

func TestApply_PhoneFromTelHref(t *testing.T) {
	b := record.Business{}
	Apply(&b, Raw{Phone: "tel:+41441234567"}, "en")
	if b.Phone != "+41441234567" {
		t.Errorf("phone = %q", b.Phone)
	}
}

// Package record defines the data shapes exchanged between the scraper
// pipeline and its consumers: the extracted business record, the run-context
// wrapper handed to persistence, and the per-run statistics snapshot.
package record

import "time"

// Coordinates is a latitude/longitude pair parsed from a listing link.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Business is one extracted listing. Identity is unique within a run and is
// the sole deduplication key. Name is always non-empty; every other field
// is empty or zero when unresolved.
type Business struct {
	Identity     string            `json:"identity"`
	Name         string            `json:"name"`
	Coordinates  *Coordinates      `json:"coordinates,omitempty"`
	Rating       float64           `json:"rating"`
	ReviewCount  int               `json:"review_count"`
	Address      string            `json:"address,omitempty"`
	Phone        string            `json:"phone,omitempty"`
	Website      string            `json:"website,omitempty"`
	BusinessType string            `json:"business_type,omitempty"`
	PriceLevel   string            `json:"price_level,omitempty"`
	Hours        []string          `json:"hours,omitempty"`
	HoursRaw     map[string]string `json:"hours_raw,omitempty"`
	Email        string            `json:"email,omitempty"`
	Emails       []string          `json:"emails,omitempty"`
	SourceURL    string            `json:"source_url,omitempty"`
}

// Record is a Business plus the run context supplied by the caller.
type Record struct {
	Business
	Query     string    `json:"query,omitempty"`
	SearchURL string    `json:"search_url,omitempty"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// Stats is the read-only snapshot exposed after a run.
type Stats struct {
	LoadedCount     int `json:"loaded_count"`
	ExtractedCount  int `json:"extracted_count"`
	ScrollAttempts  int `json:"scroll_attempts"`
	EmailsExtracted int `json:"emails_extracted"`
}

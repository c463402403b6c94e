package models

// ScrapedListing is one normalized listing extracted from a search-result
// page, before reconciliation against the stored set.
type ScrapedListing struct {
	ExternalID string  `json:"id"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	Area       float64 `json:"area"`
	PricePerM2 float64 `json:"price_per_m2"`
	Rooms      *int    `json:"rooms"`
	Floor      *int    `json:"floor"`
	Developer  *string `json:"developer"`
	Address    *string `json:"address"`
	URL        string  `json:"url"`
}

// ScrapeResult is the outcome of extracting one fetched page. A failed
// scrape is normal operating data, not an error condition.
type ScrapeResult struct {
	Success    bool             `json:"success"`
	Listings   []ScrapedListing `json:"listings"`
	TotalFound int              `json:"total_found"`
	Error      string           `json:"error,omitempty"`
}

// RefreshOutcome is the soft result of one full refresh cycle, returned to
// callers even when scraping fails so UIs can render guidance instead of a
// generic failure page.
type RefreshOutcome struct {
	Success     bool   `json:"success"`
	TotalFound  int    `json:"totalFound"`
	Scraped     int    `json:"scraped"`
	New         int    `json:"new"`
	Updated     int    `json:"updated"`
	Deactivated int    `json:"deactivated"`
	Error       string `json:"error,omitempty"`
	Message     string `json:"message,omitempty"`
	Hint        string `json:"hint,omitempty"`
}

package models

import "time"

// MarketType classifies a listing as new-build (primary) or resale (secondary).
type MarketType string

const (
	MarketTypePrimary   MarketType = "primary"
	MarketTypeSecondary MarketType = "secondary"
)

// Market is the refresh-time market filter as accepted by the Otodom search URL.
type Market string

const (
	MarketPrimary   Market = "PRIMARY"
	MarketSecondary Market = "SECONDARY"
	MarketAll       Market = "ALL"
)

// ListingMarketType maps a refresh filter to the market type stored on
// scraped listings. ALL is treated as primary, matching the search default.
func (m Market) ListingMarketType() MarketType {
	if m == MarketSecondary {
		return MarketTypeSecondary
	}
	return MarketTypePrimary
}

// Listing is one advertised unit, identified by (city_id, external_id).
// Records are never deleted by a refresh; listings that disappear from the
// source are flagged inactive so price history stays intact.
type Listing struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	CityID     int64      `json:"city_id" gorm:"uniqueIndex:idx_listings_city_external"`
	ExternalID string     `json:"external_id" gorm:"uniqueIndex:idx_listings_city_external"`
	Title      string     `json:"title"`
	Price      float64    `json:"price"`
	Area       float64    `json:"area"`
	PricePerM2 float64    `json:"price_per_m2"`
	Rooms      *int       `json:"rooms"`
	Floor      *int       `json:"floor"`
	Developer  *string    `json:"developer"`
	Address    *string    `json:"address"`
	URL        *string    `json:"url"`
	MarketType MarketType `json:"market_type"`
	FirstSeen  string     `json:"first_seen"` // YYYY-MM-DD
	LastSeen   string     `json:"last_seen"`  // YYYY-MM-DD
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ListingPriceHistory is an append-only record of a price observed for a
// listing. A new entry is written only when the price actually changed.
type ListingPriceHistory struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	ListingID  int64     `json:"listing_id" gorm:"index"`
	Price      float64   `json:"price"`
	PricePerM2 float64   `json:"price_per_m2"`
	RecordedAt string    `json:"recorded_at"` // YYYY-MM-DD
	CreatedAt  time.Time `json:"created_at"`
}

func (ListingPriceHistory) TableName() string {
	return "listing_price_history"
}

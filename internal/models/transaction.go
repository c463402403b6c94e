package models

import "time"

// DataType selects which series a price snapshot belongs to.
type DataType string

const (
	DataTypeListing     DataType = "listing"
	DataTypeTransaction DataType = "transaction"
)

// Transaction is a manually entered or imported closed-sale observation.
// The engine only consumes transactions for aggregation; they are created
// and deleted through the API layer.
type Transaction struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	CityID          int64     `json:"city_id" gorm:"index"`
	TransactionDate string    `json:"transaction_date"` // YYYY-MM-DD
	Price           float64   `json:"price"`
	Area            float64   `json:"area"`
	PricePerM2      float64   `json:"price_per_m2"`
	Address         *string   `json:"address"`
	PropertyType    string    `json:"property_type"`
	MarketType      string    `json:"market_type"`
	Source          string    `json:"source"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// PriceSnapshot is a monthly price-per-m2 rollup for one city and series.
// At most one snapshot exists per (city_id, month, data_type); recomputation
// overwrites in place.
type PriceSnapshot struct {
	ID               int64     `json:"id" gorm:"primaryKey"`
	CityID           int64     `json:"city_id" gorm:"uniqueIndex:idx_snapshots_key"`
	Month            string    `json:"month" gorm:"uniqueIndex:idx_snapshots_key"` // YYYY-MM
	DataType         DataType  `json:"data_type" gorm:"uniqueIndex:idx_snapshots_key"`
	AvgPricePerM2    float64   `json:"avg_price_per_m2"`
	MedianPricePerM2 float64   `json:"median_price_per_m2"`
	MinPricePerM2    float64   `json:"min_price_per_m2"`
	MaxPricePerM2    float64   `json:"max_price_per_m2"`
	ListingCount     int       `json:"listing_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// RefreshLogEntry is an immutable audit record of one refresh attempt.
type RefreshLogEntry struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	CityID        int64     `json:"city_id" gorm:"index"`
	RefreshedAt   time.Time `json:"refreshed_at"`
	ListingsFound int       `json:"listings_found"`
	Status        string    `json:"status"` // "success" or "error"
	ErrorMessage  *string   `json:"error_message"`
}

func (RefreshLogEntry) TableName() string {
	return "refresh_log"
}

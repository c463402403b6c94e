package models

// ListingStats summarizes the currently active listings of one city.
type ListingStats struct {
	Total            int     `json:"total"`
	Primary          int     `json:"primary"`
	Secondary        int     `json:"secondary"`
	AvgPricePerM2    float64 `json:"avgPricePerM2"`
	MedianPricePerM2 float64 `json:"medianPricePerM2"`
	MinPricePerM2    float64 `json:"minPricePerM2"`
	MaxPricePerM2    float64 `json:"maxPricePerM2"`
	AvgPrice         float64 `json:"avgPrice"`
}

// TransactionStats summarizes the full transaction set of one city.
type TransactionStats struct {
	Total            int     `json:"total"`
	AvgPricePerM2    float64 `json:"avgPricePerM2"`
	MedianPricePerM2 float64 `json:"medianPricePerM2"`
	Last3Months      int     `json:"last3Months"`
}

// PriceTrend is the smoothed direction indicator derived from the most
// recent monthly transaction snapshots.
type PriceTrend struct {
	Direction     string  `json:"direction"` // "up", "down" or "stable"
	ChangePercent float64 `json:"changePercent"`
}

const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

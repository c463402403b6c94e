package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"cenometr/server/internal/database"
	"cenometr/server/internal/models"
)

// summary holds the basic descriptive statistics of one price-per-m2 series.
type summary struct {
	avg    float64
	median float64
	min    float64
	max    float64
	count  int
}

// summarize computes avg, median, min and max over values. The input slice
// is not modified. An empty input yields the zero summary.
func summarize(values []float64) summary {
	if len(values) == 0 {
		return summary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}

	return summary{
		avg:    round2(sum / float64(len(sorted))),
		median: round2(median),
		min:    sorted[0],
		max:    sorted[len(sorted)-1],
		count:  len(sorted),
	}
}

// ListingStats summarizes a set of active listings.
func ListingStats(listings []models.Listing) models.ListingStats {
	values := make([]float64, 0, len(listings))
	stats := models.ListingStats{Total: len(listings)}

	var priceSum float64
	for _, listing := range listings {
		values = append(values, listing.PricePerM2)
		priceSum += listing.Price
		if listing.MarketType == models.MarketTypeSecondary {
			stats.Secondary++
		} else {
			stats.Primary++
		}
	}

	s := summarize(values)
	stats.AvgPricePerM2 = s.avg
	stats.MedianPricePerM2 = s.median
	stats.MinPricePerM2 = s.min
	stats.MaxPricePerM2 = s.max
	if len(listings) > 0 {
		stats.AvgPrice = round2(priceSum / float64(len(listings)))
	}
	return stats
}

// TransactionStats summarizes a city's full transaction set. Last3Months
// counts transactions dated within the three months before now.
func TransactionStats(transactions []models.Transaction, now time.Time) models.TransactionStats {
	values := make([]float64, 0, len(transactions))
	cutoff := now.AddDate(0, -3, 0).Format("2006-01-02")

	stats := models.TransactionStats{Total: len(transactions)}
	for _, transaction := range transactions {
		values = append(values, transaction.PricePerM2)
		if transaction.TransactionDate >= cutoff {
			stats.Last3Months++
		}
	}

	s := summarize(values)
	stats.AvgPricePerM2 = s.avg
	stats.MedianPricePerM2 = s.median
	return stats
}

// RebuildTransactionSnapshots recomputes every monthly transaction snapshot
// of a city from scratch and removes snapshots of months that no longer have
// any transactions.
func RebuildTransactionSnapshots(db *database.Database, cityID int64) error {
	transactions, err := db.GetTransactions(cityID, 0)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	byMonth := make(map[string][]float64)
	for _, transaction := range transactions {
		if len(transaction.TransactionDate) < 7 {
			continue
		}
		month := transaction.TransactionDate[:7]
		byMonth[month] = append(byMonth[month], transaction.PricePerM2)
	}

	months := make([]string, 0, len(byMonth))
	for month, values := range byMonth {
		months = append(months, month)

		s := summarize(values)
		snapshot := models.PriceSnapshot{
			CityID:           cityID,
			Month:            month,
			DataType:         models.DataTypeTransaction,
			AvgPricePerM2:    s.avg,
			MedianPricePerM2: s.median,
			MinPricePerM2:    s.min,
			MaxPricePerM2:    s.max,
			ListingCount:     s.count,
		}
		if err := db.UpsertSnapshot(&snapshot); err != nil {
			return fmt.Errorf("failed to write snapshot for %s: %w", month, err)
		}
	}

	return db.DeleteSnapshotsNotIn(cityID, models.DataTypeTransaction, months)
}

// RebuildListingSnapshot recomputes the listing snapshot of one month from
// the city's currently active listings. A city with no active listings keeps
// its last snapshot untouched.
func RebuildListingSnapshot(db *database.Database, cityID int64, month string) error {
	listings, err := db.GetListings(cityID, "")
	if err != nil {
		return fmt.Errorf("failed to load listings: %w", err)
	}
	if len(listings) == 0 {
		return nil
	}

	values := make([]float64, 0, len(listings))
	for _, listing := range listings {
		values = append(values, listing.PricePerM2)
	}

	s := summarize(values)
	snapshot := models.PriceSnapshot{
		CityID:           cityID,
		Month:            month,
		DataType:         models.DataTypeListing,
		AvgPricePerM2:    s.avg,
		MedianPricePerM2: s.median,
		MinPricePerM2:    s.min,
		MaxPricePerM2:    s.max,
		ListingCount:     s.count,
	}
	return db.UpsertSnapshot(&snapshot)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

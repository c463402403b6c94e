package stats

import (
	"fmt"

	"cenometr/server/internal/database"
	"cenometr/server/internal/models"
)

// trendWindow is how many recent monthly snapshots feed the trend.
const trendWindow = 3

// trendThreshold is the percent change below which movement counts as noise.
const trendThreshold = 1.0

// Trend derives a city's price direction from its most recent transaction
// snapshots. Cities with fewer than two snapshot months are reported stable.
func Trend(db *database.Database, cityID int64) (models.PriceTrend, error) {
	snapshots, err := db.GetRecentSnapshots(cityID, models.DataTypeTransaction, trendWindow)
	if err != nil {
		return models.PriceTrend{}, fmt.Errorf("failed to load snapshots: %w", err)
	}
	return trendFromSnapshots(snapshots), nil
}

// trendFromSnapshots compares the newest monthly average against the oldest
// in the window. Snapshots arrive newest first.
func trendFromSnapshots(snapshots []models.PriceSnapshot) models.PriceTrend {
	if len(snapshots) < 2 {
		return models.PriceTrend{Direction: models.TrendStable, ChangePercent: 0}
	}

	latest := snapshots[0].AvgPricePerM2
	oldest := snapshots[len(snapshots)-1].AvgPricePerM2
	if oldest == 0 {
		return models.PriceTrend{Direction: models.TrendStable, ChangePercent: 0}
	}

	// classify on the raw change; rounding is presentation only
	change := (latest - oldest) / oldest * 100
	direction := models.TrendStable
	switch {
	case change > trendThreshold:
		direction = models.TrendUp
	case change < -trendThreshold:
		direction = models.TrendDown
	}
	return models.PriceTrend{Direction: direction, ChangePercent: round1(change)}
}

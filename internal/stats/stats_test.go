package stats

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cenometr/server/internal/database"
	"cenometr/server/internal/models"
)

func testDatabase(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSummarizeOddCount(t *testing.T) {
	s := summarize([]float64{5400, 5250, 5476})
	assert.Equal(t, 5375.33, s.avg)
	assert.Equal(t, 5400.0, s.median)
	assert.Equal(t, 5250.0, s.min)
	assert.Equal(t, 5476.0, s.max)
	assert.Equal(t, 3, s.count)
}

func TestSummarizeEvenCountMedian(t *testing.T) {
	s := summarize([]float64{5000, 6000, 5500, 7000})
	assert.Equal(t, 5750.0, s.median)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, summary{}, summarize(nil))
}

func TestListingStats(t *testing.T) {
	listings := []models.Listing{
		{Price: 400000, PricePerM2: 8000, MarketType: models.MarketTypePrimary},
		{Price: 300000, PricePerM2: 7500, MarketType: models.MarketTypeSecondary},
		{Price: 500000, PricePerM2: 8200, MarketType: models.MarketTypePrimary},
	}

	s := ListingStats(listings)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Primary)
	assert.Equal(t, 1, s.Secondary)
	assert.Equal(t, 8000.0, s.MedianPricePerM2)
	assert.Equal(t, 7500.0, s.MinPricePerM2)
	assert.Equal(t, 8200.0, s.MaxPricePerM2)
	assert.Equal(t, 400000.0, s.AvgPrice)
}

func TestTransactionStatsLast3Months(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	transactions := []models.Transaction{
		{TransactionDate: "2026-08-01", PricePerM2: 6000},
		{TransactionDate: "2026-06-10", PricePerM2: 5800},
		{TransactionDate: "2026-01-05", PricePerM2: 5500},
	}

	s := TransactionStats(transactions, now)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Last3Months)
	assert.Equal(t, 5800.0, s.MedianPricePerM2)
}

func TestRebuildTransactionSnapshots(t *testing.T) {
	db := testDatabase(t)

	for _, transaction := range []models.Transaction{
		{CityID: 1, TransactionDate: "2026-07-02", Price: 300000, Area: 50, PricePerM2: 6000},
		{CityID: 1, TransactionDate: "2026-07-20", Price: 310000, Area: 50, PricePerM2: 6200},
		{CityID: 1, TransactionDate: "2026-08-05", Price: 320000, Area: 50, PricePerM2: 6400},
	} {
		tx := transaction
		require.NoError(t, db.AddTransaction(&tx))
	}

	require.NoError(t, RebuildTransactionSnapshots(db, 1))

	snapshots, err := db.GetSnapshots(1, models.DataTypeTransaction)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "2026-07", snapshots[0].Month)
	assert.Equal(t, 6100.0, snapshots[0].AvgPricePerM2)
	assert.Equal(t, 2, snapshots[0].ListingCount)
	assert.Equal(t, "2026-08", snapshots[1].Month)
	assert.Equal(t, 6400.0, snapshots[1].MedianPricePerM2)
}

func TestRebuildTransactionSnapshotsRemovesStaleMonths(t *testing.T) {
	db := testDatabase(t)

	transaction := models.Transaction{CityID: 1, TransactionDate: "2026-07-02", Price: 300000, Area: 50, PricePerM2: 6000}
	require.NoError(t, db.AddTransaction(&transaction))
	require.NoError(t, RebuildTransactionSnapshots(db, 1))

	_, err := db.DeleteTransaction(transaction.ID)
	require.NoError(t, err)
	require.NoError(t, RebuildTransactionSnapshots(db, 1))

	snapshots, err := db.GetSnapshots(1, models.DataTypeTransaction)
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestRebuildListingSnapshot(t *testing.T) {
	db := testDatabase(t)

	for _, listing := range []models.Listing{
		{CityID: 1, ExternalID: "a", PricePerM2: 8000, IsActive: true, FirstSeen: "2026-08-01", LastSeen: "2026-08-01"},
		{CityID: 1, ExternalID: "b", PricePerM2: 7000, IsActive: true, FirstSeen: "2026-08-01", LastSeen: "2026-08-01"},
		{CityID: 1, ExternalID: "c", PricePerM2: 9999, IsActive: false, FirstSeen: "2026-07-01", LastSeen: "2026-07-15"},
	} {
		l := listing
		require.NoError(t, db.CreateListing(&l))
	}

	require.NoError(t, RebuildListingSnapshot(db, 1, "2026-08"))

	snapshots, err := db.GetSnapshots(1, models.DataTypeListing)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	// the inactive listing is excluded
	assert.Equal(t, 2, snapshots[0].ListingCount)
	assert.Equal(t, 7500.0, snapshots[0].AvgPricePerM2)
}

func TestRebuildListingSnapshotNoActiveListings(t *testing.T) {
	db := testDatabase(t)
	require.NoError(t, RebuildListingSnapshot(db, 1, "2026-08"))

	snapshots, err := db.GetSnapshots(1, models.DataTypeListing)
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

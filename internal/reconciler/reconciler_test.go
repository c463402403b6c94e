package reconciler

import (
	"path/filepath"
	"testing"

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

func scraped(id string, price, area float64) models.ScrapedListing {
	return models.ScrapedListing{
		ExternalID: id,
		Title:      "Mieszkanie " + id,
		Price:      price,
		Area:       area,
		PricePerM2: price / area,
	}
}

const (
	day1 = "2026-08-01"
	day2 = "2026-08-02"
)

func TestReconcileCreatesNewListings(t *testing.T) {
	db := testDatabase(t)

	batch := []models.ScrapedListing{scraped("a", 400000, 50), scraped("b", 600000, 75)}
	result, err := Reconcile(db, 1, models.MarketPrimary, batch, day1)
	require.NoError(t, err)
	assert.Equal(t, 2, result.New)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Deactivated)

	listings, err := db.GetListings(1, "")
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, day1, listings[0].FirstSeen)
	assert.Equal(t, day1, listings[0].LastSeen)
	assert.Equal(t, models.MarketTypePrimary, listings[0].MarketType)

	// creation seeds one price-history point
	history, err := db.GetPriceHistory(listings[0].ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestReconcilePriceChangeAppendsHistory(t *testing.T) {
	db := testDatabase(t)

	_, err := Reconcile(db, 1, models.MarketPrimary, []models.ScrapedListing{scraped("a", 400000, 50)}, day1)
	require.NoError(t, err)

	result, err := Reconcile(db, 1, models.MarketPrimary, []models.ScrapedListing{scraped("a", 390000, 50)}, day2)
	require.NoError(t, err)
	assert.Equal(t, 0, result.New)
	assert.Equal(t, 1, result.Updated)

	listing, err := db.FindListingByExternalID(1, "a")
	require.NoError(t, err)
	assert.Equal(t, 390000.0, listing.Price)
	assert.Equal(t, day1, listing.FirstSeen)
	assert.Equal(t, day2, listing.LastSeen)
	assert.True(t, listing.IsActive)

	history, err := db.GetPriceHistory(listing.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 390000.0, history[1].Price)
	assert.Equal(t, day2, history[1].RecordedAt)
}

func TestReconcileUnchangedPriceAddsNoHistory(t *testing.T) {
	db := testDatabase(t)

	_, err := Reconcile(db, 1, models.MarketPrimary, []models.ScrapedListing{scraped("a", 400000, 50)}, day1)
	require.NoError(t, err)
	_, err = Reconcile(db, 1, models.MarketPrimary, []models.ScrapedListing{scraped("a", 400000, 50)}, day2)
	require.NoError(t, err)

	listing, err := db.FindListingByExternalID(1, "a")
	require.NoError(t, err)
	history, err := db.GetPriceHistory(listing.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestReconcileDeactivatesMissing(t *testing.T) {
	db := testDatabase(t)

	batch := []models.ScrapedListing{scraped("a", 400000, 50), scraped("b", 600000, 75)}
	_, err := Reconcile(db, 1, models.MarketPrimary, batch, day1)
	require.NoError(t, err)

	result, err := Reconcile(db, 1, models.MarketPrimary, []models.ScrapedListing{scraped("a", 400000, 50)}, day2)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deactivated)

	active, err := db.GetListings(1, "")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "a", active[0].ExternalID)

	// deactivated, not deleted: record and history stay queryable
	gone, err := db.FindListingByExternalID(1, "b")
	require.NoError(t, err)
	assert.False(t, gone.IsActive)
}

func TestReconcileEmptyBatchDeactivatesAll(t *testing.T) {
	db := testDatabase(t)

	batch := []models.ScrapedListing{scraped("a", 400000, 50), scraped("b", 600000, 75)}
	_, err := Reconcile(db, 1, models.MarketPrimary, batch, day1)
	require.NoError(t, err)

	result, err := Reconcile(db, 1, models.MarketPrimary, nil, day2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Deactivated)

	active, err := db.GetListings(1, "")
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestReconcileSameDayRerunCountsAsNew(t *testing.T) {
	db := testDatabase(t)

	batch := []models.ScrapedListing{scraped("a", 400000, 50)}
	_, err := Reconcile(db, 1, models.MarketPrimary, batch, day1)
	require.NoError(t, err)

	result, err := Reconcile(db, 1, models.MarketPrimary, batch, day1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.New)
	assert.Equal(t, 0, result.Updated)
}

func TestReconcileScopesDeactivationToMarket(t *testing.T) {
	db := testDatabase(t)

	_, err := Reconcile(db, 1, models.MarketPrimary, []models.ScrapedListing{scraped("p", 400000, 50)}, day1)
	require.NoError(t, err)
	_, err = Reconcile(db, 1, models.MarketSecondary, []models.ScrapedListing{scraped("s", 300000, 45)}, day1)
	require.NoError(t, err)

	// a secondary-only refresh must not touch the primary listing
	result, err := Reconcile(db, 1, models.MarketSecondary, []models.ScrapedListing{scraped("s", 300000, 45)}, day2)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Deactivated)

	active, err := db.GetListings(1, "")
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cenometr/server/config"
	"cenometr/server/internal/database"
	"cenometr/server/internal/models"
	"cenometr/server/internal/scraping"
)

func testRouter(t *testing.T) (*gin.Engine, *database.Database) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{}
	cfg.Scraping.BaseURL = "http://127.0.0.1:1" // refresh tests stub this out
	cfg.Scraping.PageLimit = 72
	cfg.Scraping.FetchTimeout = 1

	manager := scraping.NewRefreshManager(db, cfg, logger)
	handler := NewHandler(db, manager, logger)

	router := gin.New()
	SetupRoutes(router, handler)
	return router, db
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestGetCities(t *testing.T) {
	router, db := testRouter(t)

	listing := models.Listing{CityID: 1, ExternalID: "a", Price: 400000, PricePerM2: 8000, MarketType: models.MarketTypePrimary, FirstSeen: "2026-08-01", LastSeen: "2026-08-01", IsActive: true}
	require.NoError(t, db.CreateListing(&listing))

	recorder := doRequest(router, http.MethodGet, "/api/cities", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var cards []map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &cards))
	require.Len(t, cards, 2)
	assert.Equal(t, "elk", cards[0]["slug"])
	assert.Equal(t, 1.0, cards[0]["listingCount"])
	assert.Equal(t, 8000.0, cards[0]["avgPricePerM2"])
	assert.Equal(t, 0.0, cards[1]["listingCount"])
}

func TestUnknownCityIs404(t *testing.T) {
	router, _ := testRouter(t)

	for _, path := range []string{
		"/api/listings/gdansk",
		"/api/stats/gdansk",
		"/api/trend/gdansk",
		"/api/transactions/gdansk",
	} {
		recorder := doRequest(router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code, path)
		assert.Contains(t, recorder.Body.String(), "Miasto nie znalezione")
	}

	recorder := doRequest(router, http.MethodPost, "/api/refresh/gdansk", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestRefreshRejectsBadMarket(t *testing.T) {
	router, _ := testRouter(t)

	recorder := doRequest(router, http.MethodPost, "/api/refresh/elk?market=BOGUS", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRefreshFailureIsSoft(t *testing.T) {
	// the configured base URL is unreachable, so the fetch fails fast
	router, _ := testRouter(t)

	recorder := doRequest(router, http.MethodPost, "/api/refresh/elk", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var outcome models.RefreshOutcome
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &outcome))
	assert.False(t, outcome.Success)
	assert.NotEmpty(t, outcome.Error)
	assert.NotEmpty(t, outcome.Hint)
}

func TestGetListingsFiltersMarket(t *testing.T) {
	router, db := testRouter(t)

	for i, marketType := range []models.MarketType{models.MarketTypePrimary, models.MarketTypeSecondary} {
		listing := models.Listing{
			CityID:     1,
			ExternalID: fmt.Sprintf("l%d", i),
			PricePerM2: 8000,
			MarketType: marketType,
			FirstSeen:  "2026-08-01",
			LastSeen:   "2026-08-01",
			IsActive:   true,
		}
		require.NoError(t, db.CreateListing(&listing))
	}

	recorder := doRequest(router, http.MethodGet, "/api/listings/elk?market=secondary", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Count    int              `json:"count"`
		Listings []models.Listing `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Count)
	require.Len(t, response.Listings, 1)
	assert.Equal(t, models.MarketTypeSecondary, response.Listings[0].MarketType)

	recorder = doRequest(router, http.MethodGet, "/api/listings/elk?market=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAddTransaction(t *testing.T) {
	router, db := testRouter(t)

	recorder := doRequest(router, http.MethodPost, "/api/transactions/elk", map[string]interface{}{
		"transaction_date": "2026-08-10",
		"price":            320000,
		"area":             50,
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created models.Transaction
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, 6400.0, created.PricePerM2)
	assert.Equal(t, "mieszkanie", created.PropertyType)
	assert.Equal(t, "manual", created.Source)

	// snapshots were rebuilt as part of the write
	snapshots, err := db.GetSnapshots(1, models.DataTypeTransaction)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, "2026-08", snapshots[0].Month)
}

func TestAddTransactionValidation(t *testing.T) {
	router, _ := testRouter(t)

	recorder := doRequest(router, http.MethodPost, "/api/transactions/elk", map[string]interface{}{
		"transaction_date": "10.08.2026",
		"price":            320000,
		"area":             50,
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = doRequest(router, http.MethodPost, "/api/transactions/elk", map[string]interface{}{
		"transaction_date": "2026-08-10",
		"price":            0,
		"area":             50,
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestImportTransactions(t *testing.T) {
	router, db := testRouter(t)

	recorder := doRequest(router, http.MethodPost, "/api/transactions/elk/import", []map[string]interface{}{
		{"transaction_date": "2026-07-01", "price": 300000, "area": 50},
		{"transaction_date": "2026-08-01", "price": 310000, "area": 50},
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"imported":2`)

	transactions, err := db.GetTransactions(1, 0)
	require.NoError(t, err)
	assert.Len(t, transactions, 2)
	assert.Equal(t, "import", transactions[0].Source)
}

func TestImportTransactionsRejectsBadRow(t *testing.T) {
	router, db := testRouter(t)

	recorder := doRequest(router, http.MethodPost, "/api/transactions/elk/import", []map[string]interface{}{
		{"transaction_date": "2026-07-01", "price": 300000, "area": 50},
		{"transaction_date": "bad", "price": 300000, "area": 50},
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// the whole batch is rejected
	transactions, err := db.GetTransactions(1, 0)
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestDeleteTransaction(t *testing.T) {
	router, db := testRouter(t)

	transaction := models.Transaction{CityID: 1, TransactionDate: "2026-08-01", Price: 300000, Area: 50, PricePerM2: 6000}
	require.NoError(t, db.AddTransaction(&transaction))

	recorder := doRequest(router, http.MethodDelete, fmt.Sprintf("/api/transactions/elk/%d", transaction.ID), nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = doRequest(router, http.MethodDelete, fmt.Sprintf("/api/transactions/elk/%d", transaction.ID), nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestRemoveCityData(t *testing.T) {
	router, db := testRouter(t)

	listing := models.Listing{CityID: 1, ExternalID: "a", FirstSeen: "2026-08-01", LastSeen: "2026-08-01", IsActive: true}
	require.NoError(t, db.CreateListing(&listing))

	recorder := doRequest(router, http.MethodDelete, "/api/cities/elk", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	listings, err := db.GetListings(1, "")
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestGetCityStatsShape(t *testing.T) {
	router, db := testRouter(t)

	listing := models.Listing{CityID: 1, ExternalID: "a", Price: 400000, PricePerM2: 8000, MarketType: models.MarketTypePrimary, FirstSeen: "2026-08-01", LastSeen: "2026-08-01", IsActive: true}
	require.NoError(t, db.CreateListing(&listing))

	recorder := doRequest(router, http.MethodGet, "/api/stats/elk", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	for _, key := range []string{"city", "listings", "transactions", "trend", "priceHistory", "lastRefreshed"} {
		assert.Contains(t, response, key)
	}
}

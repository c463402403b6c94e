package api

import (
	"errors"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cenometr/server/config"
	"cenometr/server/internal/database"
	"cenometr/server/internal/models"
	"cenometr/server/internal/scraping"
	"cenometr/server/internal/stats"
)

// Handler holds the dependencies of all API endpoints.
type Handler struct {
	db      *database.Database
	manager *scraping.RefreshManager
	logger  *logrus.Logger
}

func NewHandler(db *database.Database, manager *scraping.RefreshManager, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:      db,
		manager: manager,
		logger:  logger,
	}
}

// CityCard is the per-city overview row served by GET /api/cities.
type CityCard struct {
	config.City
	ListingCount       int               `json:"listingCount"`
	AvgPricePerM2      float64           `json:"avgPricePerM2"`
	TransactionCount   int               `json:"transactionCount"`
	AvgTransactionPpm2 float64           `json:"avgTransactionPricePerM2"`
	Trend              models.PriceTrend `json:"trend"`
	LastRefreshed      *time.Time        `json:"lastRefreshed"`
}

// GetCities returns an overview card for every tracked city.
func (h *Handler) GetCities(c *gin.Context) {
	cards := make([]CityCard, 0, len(config.TrackedCities))

	for _, city := range config.TrackedCities {
		card := CityCard{City: city}

		listings, err := h.db.GetListings(city.ID, "")
		if err != nil {
			h.serverError(c, err, "failed to load listings")
			return
		}
		listingStats := stats.ListingStats(listings)
		card.ListingCount = listingStats.Total
		card.AvgPricePerM2 = listingStats.AvgPricePerM2

		transactions, err := h.db.GetTransactions(city.ID, 0)
		if err != nil {
			h.serverError(c, err, "failed to load transactions")
			return
		}
		transactionStats := stats.TransactionStats(transactions, time.Now())
		card.TransactionCount = transactionStats.Total
		card.AvgTransactionPpm2 = transactionStats.AvgPricePerM2

		trend, err := stats.Trend(h.db, city.ID)
		if err != nil {
			h.serverError(c, err, "failed to compute trend")
			return
		}
		card.Trend = trend

		lastRefresh, err := h.db.GetLastRefresh(city.ID)
		if err != nil {
			h.serverError(c, err, "failed to load refresh log")
			return
		}
		if lastRefresh != nil {
			card.LastRefreshed = &lastRefresh.RefreshedAt
		}

		cards = append(cards, card)
	}

	c.JSON(http.StatusOK, cards)
}

// RefreshCity triggers a scrape-and-reconcile cycle for one city. Scrape
// failures still answer 200: the outcome body carries the error and a hint
// so the UI can render guidance.
func (h *Handler) RefreshCity(c *gin.Context) {
	city := config.GetCityBySlug(c.Param("slug"))
	if city == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Miasto nie znalezione"})
		return
	}

	market := models.Market(c.DefaultQuery("market", string(models.MarketPrimary)))
	switch market {
	case models.MarketPrimary, models.MarketSecondary, models.MarketAll:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "market must be PRIMARY, SECONDARY or ALL"})
		return
	}

	outcome := h.manager.Refresh(c.Request.Context(), *city, market)
	c.JSON(http.StatusOK, outcome)
}

// GetListings returns a city's active listings, cheapest per m2 first.
func (h *Handler) GetListings(c *gin.Context) {
	city := config.GetCityBySlug(c.Param("slug"))
	if city == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Miasto nie znalezione"})
		return
	}

	marketType := models.MarketType(c.Query("market"))
	switch marketType {
	case "", models.MarketTypePrimary, models.MarketTypeSecondary:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "market must be primary or secondary"})
		return
	}

	listings, err := h.db.GetListings(city.ID, marketType)
	if err != nil {
		h.serverError(c, err, "failed to load listings")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"city":     city,
		"count":    len(listings),
		"listings": listings,
	})
}

// GetCityStats returns the aggregated view of one city: listing and
// transaction summaries, the trend and the monthly snapshot history.
func (h *Handler) GetCityStats(c *gin.Context) {
	city := config.GetCityBySlug(c.Param("slug"))
	if city == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Miasto nie znalezione"})
		return
	}

	listings, err := h.db.GetListings(city.ID, "")
	if err != nil {
		h.serverError(c, err, "failed to load listings")
		return
	}
	transactions, err := h.db.GetTransactions(city.ID, 0)
	if err != nil {
		h.serverError(c, err, "failed to load transactions")
		return
	}
	trend, err := stats.Trend(h.db, city.ID)
	if err != nil {
		h.serverError(c, err, "failed to compute trend")
		return
	}
	snapshots, err := h.db.GetSnapshots(city.ID, "")
	if err != nil {
		h.serverError(c, err, "failed to load snapshots")
		return
	}
	lastRefresh, err := h.db.GetLastRefresh(city.ID)
	if err != nil {
		h.serverError(c, err, "failed to load refresh log")
		return
	}
	var lastRefreshed *time.Time
	if lastRefresh != nil {
		lastRefreshed = &lastRefresh.RefreshedAt
	}

	c.JSON(http.StatusOK, gin.H{
		"city":          city,
		"listings":      stats.ListingStats(listings),
		"transactions":  stats.TransactionStats(transactions, time.Now()),
		"trend":         gin.H{"direction": trend.Direction, "changePercent": trend.ChangePercent, "period": "3m"},
		"priceHistory":  snapshots,
		"lastRefreshed": lastRefreshed,
	})
}

// GetPriceSnapshots returns a city's monthly snapshots, optionally filtered
// by series via ?type=listing|transaction.
func (h *Handler) GetPriceSnapshots(c *gin.Context) {
	city := config.GetCityBySlug(c.Param("slug"))
	if city == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Miasto nie znalezione"})
		return
	}

	dataType := models.DataType(c.Query("type"))
	switch dataType {
	case "", models.DataTypeListing, models.DataTypeTransaction:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be listing or transaction"})
		return
	}

	snapshots, err := h.db.GetSnapshots(city.ID, dataType)
	if err != nil {
		h.serverError(c, err, "failed to load snapshots")
		return
	}
	c.JSON(http.StatusOK, gin.H{"city": city, "snapshots": snapshots})
}

// GetTrend returns just the price-direction indicator for one city.
func (h *Handler) GetTrend(c *gin.Context) {
	city := config.GetCityBySlug(c.Param("slug"))
	if city == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Miasto nie znalezione"})
		return
	}

	trend, err := stats.Trend(h.db, city.ID)
	if err != nil {
		h.serverError(c, err, "failed to compute trend")
		return
	}
	c.JSON(http.StatusOK, gin.H{"direction": trend.Direction, "changePercent": trend.ChangePercent, "period": "3m"})
}

// GetTransactions returns a city's transactions, newest first. ?limit=N caps
// the result.
func (h *Handler) GetTransactions(c *gin.Context) {
	city := config.GetCityBySlug(c.Param("slug"))
	if city == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Miasto nie znalezione"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	transactions, err := h.db.GetTransactions(city.ID, limit)
	if err != nil {
		h.serverError(c, err, "failed to load transactions")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"city":         city,
		"count":        len(transactions),
		"transactions": transactions,
	})
}

// transactionRequest is the payload for adding one transaction.
type transactionRequest struct {
	TransactionDate string  `json:"transaction_date"`
	Price           float64 `json:"price"`
	Area            float64 `json:"area"`
	Address         *string `json:"address"`
	PropertyType    string  `json:"property_type"`
	MarketType      string  `json:"market_type"`
	Source          string  `json:"source"`
	Notes           *string `json:"notes"`
}

func (r *transactionRequest) toModel(cityID int64, defaultSource string) (models.Transaction, string) {
	if _, err := time.Parse("2006-01-02", r.TransactionDate); err != nil {
		return models.Transaction{}, "transaction_date must be YYYY-MM-DD"
	}
	if r.Price <= 0 || r.Area <= 0 {
		return models.Transaction{}, "price and area must be positive"
	}

	transaction := models.Transaction{
		CityID:          cityID,
		TransactionDate: r.TransactionDate,
		Price:           r.Price,
		Area:            r.Area,
		PricePerM2:      roundMoney(r.Price / r.Area),
		Address:         r.Address,
		PropertyType:    r.PropertyType,
		MarketType:      r.MarketType,
		Source:          r.Source,
		Notes:           r.Notes,
	}
	if transaction.PropertyType == "" {
		transaction.PropertyType = "mieszkanie"
	}
	if transaction.MarketType == "" {
		transaction.MarketType = "pierwotny"
	}
	if transaction.Source == "" {
		transaction.Source = defaultSource
	}
	return transaction, ""
}

// AddTransaction records one manually entered transaction and rebuilds the
// city's transaction snapshots.
func (h *Handler) AddTransaction(c *gin.Context) {
	city := config.GetCityBySlug(c.Param("slug"))
	if city == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Miasto nie znalezione"})
		return
	}

	var request transactionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	transaction, problem := request.toModel(city.ID, "manual")
	if problem != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": problem})
		return
	}

	if err := h.db.AddTransaction(&transaction); err != nil {
		h.serverError(c, err, "failed to save transaction")
		return
	}
	if err := stats.RebuildTransactionSnapshots(h.db, city.ID); err != nil {
		h.logger.WithError(err).Error("Failed to rebuild transaction snapshots")
	}

	c.JSON(http.StatusCreated, transaction)
}

// ImportTransactions records a batch of transactions in one store
// transaction. The whole batch is rejected when any row is invalid.
func (h *Handler) ImportTransactions(c *gin.Context) {
	city := config.GetCityBySlug(c.Param("slug"))
	if city == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Miasto nie znalezione"})
		return
	}

	var requests []transactionRequest
	if err := c.ShouldBindJSON(&requests); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(requests) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty transaction list"})
		return
	}

	transactions := make([]models.Transaction, 0, len(requests))
	for i, request := range requests {
		transaction, problem := request.toModel(city.ID, "import")
		if problem != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": problem, "row": i})
			return
		}
		transactions = append(transactions, transaction)
	}

	imported, err := h.db.AddTransactionsBulk(transactions)
	if err != nil {
		h.serverError(c, err, "failed to import transactions")
		return
	}
	if err := stats.RebuildTransactionSnapshots(h.db, city.ID); err != nil {
		h.logger.WithError(err).Error("Failed to rebuild transaction snapshots")
	}

	c.JSON(http.StatusCreated, gin.H{"imported": imported})
}

// DeleteTransaction removes one transaction and rebuilds the owning city's
// snapshots.
func (h *Handler) DeleteTransaction(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	cityID, err := h.db.DeleteTransaction(id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}
	if err != nil {
		h.serverError(c, err, "failed to delete transaction")
		return
	}

	if err := stats.RebuildTransactionSnapshots(h.db, cityID); err != nil {
		h.logger.WithError(err).Error("Failed to rebuild transaction snapshots")
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// RemoveCityData wipes everything stored for a city: listings, price
// history, transactions, snapshots and the refresh log.
func (h *Handler) RemoveCityData(c *gin.Context) {
	city := config.GetCityBySlug(c.Param("slug"))
	if city == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Miasto nie znalezione"})
		return
	}

	if err := h.db.DeleteCityData(city.ID); err != nil {
		h.serverError(c, err, "failed to remove city data")
		return
	}

	h.logger.WithField("city", city.Slug).Info("City data removed")
	c.JSON(http.StatusOK, gin.H{"removed": city.Slug})
}

func (h *Handler) serverError(c *gin.Context, err error, message string) {
	h.logger.WithError(err).Error(message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

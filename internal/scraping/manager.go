package scraping

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"cenometr/server/config"
	"cenometr/server/internal/database"
	"cenometr/server/internal/models"
	"cenometr/server/internal/reconciler"
	"cenometr/server/internal/stats"
)

// RefreshManager runs the full refresh cycle for one city: fetch, extract,
// reconcile against the store, recompute the month's listing snapshot and
// record the attempt in the refresh log.
type RefreshManager struct {
	db        *database.Database
	fetcher   *Fetcher
	extractor *Extractor
	logger    *logrus.Logger
}

func NewRefreshManager(db *database.Database, cfg *config.Config, logger *logrus.Logger) *RefreshManager {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &RefreshManager{
		db:        db,
		fetcher:   NewFetcher(cfg, logger),
		extractor: NewExtractor(logger),
		logger:    logger,
	}
}

// Refresh runs one refresh cycle. Failures are soft: the outcome carries the
// error and a user-facing message, the stored listing set stays untouched and
// the attempt is logged either way.
func (m *RefreshManager) Refresh(ctx context.Context, city config.City, market models.Market) models.RefreshOutcome {
	log := m.logger.WithFields(logrus.Fields{
		"city":   city.Slug,
		"market": market,
	})
	log.Info("Starting refresh")

	body, err := m.fetcher.Fetch(ctx, city.VoivodeshipSlug, city.OtodomCitySlug, market)
	if err != nil {
		return m.failOutcome(city, err.Error())
	}

	result := m.extractor.Extract(body)
	if !result.Success {
		return m.failOutcome(city, result.Error)
	}

	today := time.Now().Format("2006-01-02")
	merged, err := reconciler.Reconcile(m.db, city.ID, market, result.Listings, today)
	if err != nil {
		return m.failOutcome(city, err.Error())
	}

	if err := stats.RebuildListingSnapshot(m.db, city.ID, today[:7]); err != nil {
		log.WithError(err).Error("Failed to rebuild listing snapshot")
	}
	if err := m.db.LogRefresh(city.ID, len(result.Listings), "success", ""); err != nil {
		log.WithError(err).Error("Failed to write refresh log")
	}

	log.WithFields(logrus.Fields{
		"total_found": result.TotalFound,
		"scraped":     len(result.Listings),
		"new":         merged.New,
		"updated":     merged.Updated,
		"deactivated": merged.Deactivated,
	}).Info("Refresh finished")

	return models.RefreshOutcome{
		Success:     true,
		TotalFound:  result.TotalFound,
		Scraped:     len(result.Listings),
		New:         merged.New,
		Updated:     merged.Updated,
		Deactivated: merged.Deactivated,
	}
}

func (m *RefreshManager) failOutcome(city config.City, message string) models.RefreshOutcome {
	m.logger.WithFields(logrus.Fields{
		"city":  city.Slug,
		"error": message,
	}).Warn("Refresh failed")

	if err := m.db.LogRefresh(city.ID, 0, "error", message); err != nil {
		m.logger.WithError(err).Error("Failed to write refresh log")
	}

	return models.RefreshOutcome{
		Success: false,
		Error:   message,
		Message: "Nie udało się pobrać danych z Otodom. " + message,
		Hint:    "Otodom może blokować automatyczne zapytania. Spróbuj ponownie później lub dodaj oferty ręcznie.",
	}
}

package reconciler

import (
	"errors"
	"fmt"

	"cenometr/server/internal/database"
	"cenometr/server/internal/models"
)

// Result counts what one reconciliation pass did to the stored listing set.
type Result struct {
	New         int
	Updated     int
	Deactivated int
}

// Reconcile merges one scraped batch into the stored listing set of a city.
// The whole pass runs in a single transaction so a storage failure midway
// leaves the prior set untouched.
//
// Per listing: a known external id refreshes the stored record in place and
// appends a price-history point when the price moved; an unknown id creates
// a new record. Listings absent from the batch are deactivated, never
// deleted. A listing first seen before today counts as updated, one first
// seen today counts as new even on a same-day re-run.
func Reconcile(db *database.Database, cityID int64, market models.Market, batch []models.ScrapedListing, today string) (Result, error) {
	var result Result

	err := db.Transaction(func(tx *database.Database) error {
		presentIDs := make([]string, 0, len(batch))
		marketType := market.ListingMarketType()

		for _, scraped := range batch {
			presentIDs = append(presentIDs, scraped.ExternalID)

			existing, err := tx.FindListingByExternalID(cityID, scraped.ExternalID)
			switch {
			case err == nil:
				updated, err := refreshExisting(tx, existing, scraped, today)
				if err != nil {
					return err
				}
				if updated {
					result.Updated++
				} else {
					result.New++
				}
			case errors.Is(err, database.ErrNotFound):
				if err := createListing(tx, cityID, marketType, scraped, today); err != nil {
					return err
				}
				result.New++
			default:
				return fmt.Errorf("failed to look up listing %s: %w", scraped.ExternalID, err)
			}
		}

		// when both markets were fetched the absence check spans both
		scope := marketType
		if market == models.MarketAll {
			scope = ""
		}
		deactivated, err := tx.DeactivateMissing(cityID, scope, presentIDs)
		if err != nil {
			return fmt.Errorf("failed to deactivate missing listings: %w", err)
		}
		result.Deactivated = int(deactivated)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

// refreshExisting overwrites the mutable fields of a stored listing with the
// freshly scraped values. The market type is never overwritten: the stored
// value reflects the filter the listing was first scraped under. Returns
// whether the listing predates today.
func refreshExisting(tx *database.Database, existing *models.Listing, scraped models.ScrapedListing, today string) (bool, error) {
	if existing.Price != scraped.Price {
		entry := models.ListingPriceHistory{
			ListingID:  existing.ID,
			Price:      scraped.Price,
			PricePerM2: scraped.PricePerM2,
			RecordedAt: today,
		}
		if err := tx.AppendPriceHistory(&entry); err != nil {
			return false, fmt.Errorf("failed to record price change for %s: %w", existing.ExternalID, err)
		}
	}

	existing.Title = scraped.Title
	existing.Price = scraped.Price
	existing.Area = scraped.Area
	existing.PricePerM2 = scraped.PricePerM2
	existing.Rooms = scraped.Rooms
	existing.Floor = scraped.Floor
	existing.Developer = scraped.Developer
	existing.Address = scraped.Address
	if scraped.URL != "" {
		url := scraped.URL
		existing.URL = &url
	}
	existing.LastSeen = today
	existing.IsActive = true

	if err := tx.SaveListing(existing); err != nil {
		return false, fmt.Errorf("failed to save listing %s: %w", existing.ExternalID, err)
	}
	return existing.FirstSeen < today, nil
}

func createListing(tx *database.Database, cityID int64, marketType models.MarketType, scraped models.ScrapedListing, today string) error {
	listing := models.Listing{
		CityID:     cityID,
		ExternalID: scraped.ExternalID,
		Title:      scraped.Title,
		Price:      scraped.Price,
		Area:       scraped.Area,
		PricePerM2: scraped.PricePerM2,
		Rooms:      scraped.Rooms,
		Floor:      scraped.Floor,
		Developer:  scraped.Developer,
		Address:    scraped.Address,
		MarketType: marketType,
		FirstSeen:  today,
		LastSeen:   today,
		IsActive:   true,
	}
	if scraped.URL != "" {
		url := scraped.URL
		listing.URL = &url
	}

	if err := tx.CreateListing(&listing); err != nil {
		return fmt.Errorf("failed to create listing %s: %w", scraped.ExternalID, err)
	}

	entry := models.ListingPriceHistory{
		ListingID:  listing.ID,
		Price:      scraped.Price,
		PricePerM2: scraped.PricePerM2,
		RecordedAt: today,
	}
	if err := tx.AppendPriceHistory(&entry); err != nil {
		return fmt.Errorf("failed to seed price history for %s: %w", scraped.ExternalID, err)
	}
	return nil
}

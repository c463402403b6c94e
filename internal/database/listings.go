package database

import (
	"cenometr/server/internal/models"
)

// GetListings returns the active listings of a city sorted ascending by
// price per m2. An empty marketType returns both markets.
func (d *Database) GetListings(cityID int64, marketType models.MarketType) ([]models.Listing, error) {
	query := d.db.Where("city_id = ? AND is_active = ?", cityID, true)
	if marketType != "" {
		query = query.Where("market_type = ?", marketType)
	}

	var listings []models.Listing
	if err := query.Order("price_per_m2 ASC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// FindListingByExternalID looks a listing up by its reconciliation key.
func (d *Database) FindListingByExternalID(cityID int64, externalID string) (*models.Listing, error) {
	var listing models.Listing
	err := d.db.Where("city_id = ? AND external_id = ?", cityID, externalID).First(&listing).Error
	if err != nil {
		return nil, translate(err)
	}
	return &listing, nil
}

func (d *Database) CreateListing(listing *models.Listing) error {
	return translate(d.db.Create(listing).Error)
}

func (d *Database) SaveListing(listing *models.Listing) error {
	return translate(d.db.Save(listing).Error)
}

func (d *Database) AppendPriceHistory(entry *models.ListingPriceHistory) error {
	return translate(d.db.Create(entry).Error)
}

// GetPriceHistory returns the recorded price points of one listing, oldest
// first.
func (d *Database) GetPriceHistory(listingID int64) ([]models.ListingPriceHistory, error) {
	var entries []models.ListingPriceHistory
	err := d.db.Where("listing_id = ?", listingID).Order("recorded_at ASC, id ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// DeactivateMissing flags every active listing of the city whose external id
// is absent from presentIDs. When marketType is set only listings of that
// market are considered. Returns the number of listings deactivated.
func (d *Database) DeactivateMissing(cityID int64, marketType models.MarketType, presentIDs []string) (int64, error) {
	query := d.db.Model(&models.Listing{}).Where("city_id = ? AND is_active = ?", cityID, true)
	if marketType != "" {
		query = query.Where("market_type = ?", marketType)
	}
	if len(presentIDs) > 0 {
		query = query.Where("external_id NOT IN ?", presentIDs)
	}

	result := query.Update("is_active", false)
	return result.RowsAffected, result.Error
}

// DeleteCityData removes every record belonging to a city: listings, their
// price history, transactions, snapshots and the refresh log. This is the
// only physical-delete path for listings.
func (d *Database) DeleteCityData(cityID int64) error {
	return d.Transaction(func(tx *Database) error {
		listingIDs := tx.db.Model(&models.Listing{}).Select("id").Where("city_id = ?", cityID)
		if err := tx.db.Where("listing_id IN (?)", listingIDs).Delete(&models.ListingPriceHistory{}).Error; err != nil {
			return err
		}
		if err := tx.db.Where("city_id = ?", cityID).Delete(&models.Listing{}).Error; err != nil {
			return err
		}
		if err := tx.db.Where("city_id = ?", cityID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.db.Where("city_id = ?", cityID).Delete(&models.PriceSnapshot{}).Error; err != nil {
			return err
		}
		return tx.db.Where("city_id = ?", cityID).Delete(&models.RefreshLogEntry{}).Error
	})
}

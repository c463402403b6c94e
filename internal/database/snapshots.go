package database

import (
	"errors"

	"cenometr/server/internal/models"
)

// UpsertSnapshot writes a snapshot, overwriting any existing one with the
// same (city_id, month, data_type) key in place.
func (d *Database) UpsertSnapshot(snapshot *models.PriceSnapshot) error {
	var existing models.PriceSnapshot
	err := d.db.Where("city_id = ? AND month = ? AND data_type = ?",
		snapshot.CityID, snapshot.Month, snapshot.DataType).First(&existing).Error

	switch {
	case err == nil:
		snapshot.ID = existing.ID
		return translate(d.db.Save(snapshot).Error)
	case errors.Is(translate(err), ErrNotFound):
		return translate(d.db.Create(snapshot).Error)
	default:
		return err
	}
}

// GetSnapshots returns a city's snapshots ordered by month ascending,
// optionally filtered to one series.
func (d *Database) GetSnapshots(cityID int64, dataType models.DataType) ([]models.PriceSnapshot, error) {
	query := d.db.Where("city_id = ?", cityID)
	if dataType != "" {
		query = query.Where("data_type = ?", dataType)
	}

	var snapshots []models.PriceSnapshot
	if err := query.Order("month ASC").Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

// GetRecentSnapshots returns up to limit snapshots of one series, most
// recent month first.
func (d *Database) GetRecentSnapshots(cityID int64, dataType models.DataType, limit int) ([]models.PriceSnapshot, error) {
	var snapshots []models.PriceSnapshot
	err := d.db.Where("city_id = ? AND data_type = ?", cityID, dataType).
		Order("month DESC").Limit(limit).Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

// DeleteSnapshotsNotIn removes snapshots of one series whose month is no
// longer present in months. An empty months slice removes the whole series.
// Keeps a full rebuild consistent after transaction deletes.
func (d *Database) DeleteSnapshotsNotIn(cityID int64, dataType models.DataType, months []string) error {
	query := d.db.Where("city_id = ? AND data_type = ?", cityID, dataType)
	if len(months) > 0 {
		query = query.Where("month NOT IN ?", months)
	}
	return query.Delete(&models.PriceSnapshot{}).Error
}

package database

import (
	"errors"
	"time"

	"cenometr/server/internal/models"
)

// LogRefresh appends one immutable audit record of a refresh attempt.
func (d *Database) LogRefresh(cityID int64, listingsFound int, status string, errorMessage string) error {
	entry := models.RefreshLogEntry{
		CityID:        cityID,
		RefreshedAt:   time.Now(),
		ListingsFound: listingsFound,
		Status:        status,
	}
	if errorMessage != "" {
		entry.ErrorMessage = &errorMessage
	}
	return translate(d.db.Create(&entry).Error)
}

// GetLastRefresh returns the most recent refresh attempt for a city, or nil
// when the city has never been refreshed.
func (d *Database) GetLastRefresh(cityID int64) (*models.RefreshLogEntry, error) {
	var entry models.RefreshLogEntry
	err := d.db.Where("city_id = ?", cityID).Order("refreshed_at DESC, id DESC").First(&entry).Error
	if errors.Is(translate(err), ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

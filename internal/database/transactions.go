package database

import (
	"cenometr/server/internal/models"
)

// GetTransactions returns a city's transactions, newest first. A limit of 0
// returns all of them.
func (d *Database) GetTransactions(cityID int64, limit int) ([]models.Transaction, error) {
	query := d.db.Where("city_id = ?", cityID).Order("transaction_date DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (d *Database) AddTransaction(transaction *models.Transaction) error {
	return translate(d.db.Create(transaction).Error)
}

// AddTransactionsBulk inserts a batch of transactions in one store
// transaction and returns the number inserted.
func (d *Database) AddTransactionsBulk(transactions []models.Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}
	err := d.Transaction(func(tx *Database) error {
		return tx.db.Create(&transactions).Error
	})
	if err != nil {
		return 0, translate(err)
	}
	return len(transactions), nil
}

// DeleteTransaction removes one transaction and returns the city it belonged
// to so the caller can rebuild that city's snapshots.
func (d *Database) DeleteTransaction(id int64) (int64, error) {
	var transaction models.Transaction
	if err := d.db.First(&transaction, id).Error; err != nil {
		return 0, translate(err)
	}
	if err := d.db.Delete(&models.Transaction{}, id).Error; err != nil {
		return 0, err
	}
	return transaction.CityID, nil
}

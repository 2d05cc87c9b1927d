package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-reservation/database"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

// CustomerDirectory mencari atau membuat customer berdasarkan email.
type CustomerDirectory struct {
	db *gorm.DB
}

func NewCustomerDirectory(db *gorm.DB) *CustomerDirectory {
	return &CustomerDirectory{db: db}
}

func (d *CustomerDirectory) FindByContact(ctx context.Context, email string) (models.Customer, error) {
	var customer models.Customer
	err := d.db.WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Customer{}, ErrCustomerNotFound
		}
		return models.Customer{}, persistenceError("find customer", err)
	}
	return customer, nil
}

func (d *CustomerDirectory) Create(ctx context.Context, customer models.Customer) (models.Customer, error) {
	customer.ID = 0
	customer.Email = models.NormalizeEmail(customer.Email)
	if err := d.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return models.Customer{}, persistenceError("create customer", err)
	}
	return customer, nil
}

// FindOrCreate resolves a customer by email. When a concurrent request wins the
// insert, the duplicate-key conflict is recovered by re-reading that row.
func (d *CustomerDirectory) FindOrCreate(ctx context.Context, customer models.Customer) (models.Customer, error) {
	found, err := d.FindByContact(ctx, customer.Email)
	if err == nil {
		return found, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.Customer{}, err
	}

	created, err := d.Create(ctx, customer)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, database.ErrDuplicateKey) {
		return models.Customer{}, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"email": models.NormalizeEmail(customer.Email),
	}).Info("Customer created concurrently, re-reading existing record")
	return d.FindByContact(ctx, customer.Email)
}

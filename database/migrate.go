package database

import (
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

// partialIndexes speeds up occupancy sums; mysql has no partial indexes and
// falls back to idx_reservations_slot.
var partialIndexes = map[string][]string{
	"postgres": {
		`CREATE INDEX IF NOT EXISTS idx_reservations_active_slot
		   ON reservations (restaurant_id, starts_at) WHERE status <> 'cancelled'`,
		`CREATE INDEX IF NOT EXISTS idx_reservation_events_pending
		   ON reservation_events (id) WHERE processed = false`,
	},
	"sqlite": {
		`CREATE INDEX IF NOT EXISTS idx_reservations_active_slot
		   ON reservations (restaurant_id, starts_at) WHERE status <> 'cancelled'`,
	},
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Customer{},
		&models.Reservation{},
		&models.ReservationEvent{},
	)
	if err != nil {
		return err
	}

	for _, stmt := range partialIndexes[db.Dialector.Name()] {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

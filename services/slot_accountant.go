package services

import (
	"time"

	"github.com/yeremiapane/restaurant-reservation/database"
	"github.com/yeremiapane/restaurant-reservation/models"
)

type SlotAccountant struct{}

func NewSlotAccountant() *SlotAccountant {
	return &SlotAccountant{}
}

// ReservedTables sums table_count of non-cancelled reservations for exactly
// (restaurantID, slotStart). It runs on tx so it sees the same snapshot as
// the capacity lock. No rows means 0.
func (a *SlotAccountant) ReservedTables(tx *database.Tx, restaurantID uint, slotStart time.Time) (int, error) {
	var reserved int64
	err := tx.Conn().Model(&models.Reservation{}).
		Select("COALESCE(SUM(table_count), 0)").
		Where("restaurant_id = ? AND starts_at = ? AND status <> ?",
			restaurantID, slotStart.UTC(), models.StatusCancelled).
		Scan(&reserved).Error
	if err != nil {
		return 0, persistenceError("sum reserved tables", err)
	}
	return int(reserved), nil
}

// PeakReservedFrom is the largest slot occupancy at or after from. Used to
// guard capacity edits.
func (a *SlotAccountant) PeakReservedFrom(tx *database.Tx, restaurantID uint, from time.Time) (int, error) {
	var rows []struct {
		Reserved int64
	}
	err := tx.Conn().Model(&models.Reservation{}).
		Select("SUM(table_count) AS reserved").
		Where("restaurant_id = ? AND starts_at >= ? AND status <> ?",
			restaurantID, from.UTC(), models.StatusCancelled).
		Group("starts_at").
		Scan(&rows).Error
	if err != nil {
		return 0, persistenceError("peak reserved tables", err)
	}
	peak := 0
	for _, r := range rows {
		if int(r.Reserved) > peak {
			peak = int(r.Reserved)
		}
	}
	return peak, nil
}

// ActiveSlotsFrom lists the distinct slot starts at or after from that still
// hold tables. Used to check opening-hour edits against booked slots.
func (a *SlotAccountant) ActiveSlotsFrom(tx *database.Tx, restaurantID uint, from time.Time) ([]time.Time, error) {
	var reservations []models.Reservation
	err := tx.Conn().Model(&models.Reservation{}).
		Distinct("starts_at").
		Where("restaurant_id = ? AND starts_at >= ? AND status <> ?",
			restaurantID, from.UTC(), models.StatusCancelled).
		Order("starts_at ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, persistenceError("list active slots", err)
	}
	slots := make([]time.Time, 0, len(reservations))
	for _, r := range reservations {
		slots = append(slots, r.StartsAt)
	}
	return slots, nil
}

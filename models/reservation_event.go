package models

import "time"

const (
	EventReservationCreated   = "reservation.created"
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
)

// ReservationEvent adalah baris outbox yang ditulis dalam transaksi yang sama
// dengan perubahan reservasi, lalu dikirim oleh EventRelay.
type ReservationEvent struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	Type          string            `gorm:"type:varchar(40);not null" json:"type"`
	RestaurantID  uint              `gorm:"not null" json:"restaurant_id"`
	ReservationID uint              `gorm:"not null;index" json:"reservation_id"`
	TableCount    int               `gorm:"not null" json:"table_count"`
	StartsAt      time.Time         `gorm:"not null" json:"starts_at"`
	Status        ReservationStatus `gorm:"type:varchar(20);not null" json:"status"`
	Processed     bool              `gorm:"not null;default:false;index:idx_reservation_events_processed" json:"-"`
	CreatedAt     time.Time         `gorm:"not null" json:"created_at"`
}

func NewReservationEvent(r Reservation) ReservationEvent {
	eventType := EventReservationCreated
	switch r.Status {
	case StatusConfirmed:
		eventType = EventReservationConfirmed
	case StatusCancelled:
		eventType = EventReservationCancelled
	}
	return ReservationEvent{
		Type:          eventType,
		RestaurantID:  r.RestaurantID,
		ReservationID: r.ID,
		TableCount:    r.TableCount,
		StartsAt:      r.StartsAt,
		Status:        r.Status,
	}
}

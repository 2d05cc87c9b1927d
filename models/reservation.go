package models

import (
	"fmt"
	"strings"
	"time"
)

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// allowedTransitions: cancelled tidak punya transisi keluar.
var allowedTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
}

func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown reservation status %q", s)
	}
	return status, nil
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Active reports whether a reservation in this status still holds its tables.
func (s ReservationStatus) Active() bool {
	return s != StatusCancelled
}

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	RestaurantID uint              `gorm:"not null;index:idx_reservations_slot,priority:1" json:"restaurant_id"`
	Restaurant   Restaurant        `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CustomerID   uint              `gorm:"not null;index" json:"customer_id"`
	Customer     Customer          `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	TableCount   int               `gorm:"not null" json:"table_count"`
	StartsAt     time.Time         `gorm:"not null;index:idx_reservations_slot,priority:2" json:"starts_at"`
	Status       ReservationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt    time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null" json:"updated_at"`
}

// WithStatus returns a copy of r carrying status; r itself is left untouched.
func (r Reservation) WithStatus(status ReservationStatus) Reservation {
	r.Status = status
	return r
}

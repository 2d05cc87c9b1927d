package models

import "time"

type SlotAvailability struct {
	StartsAt        time.Time `json:"starts_at"`
	StartTime       ClockTime `json:"start_time"`
	AvailableTables int       `json:"available_tables"`
}

// Availability adalah grid meja kosong per jam untuk satu restoran pada satu tanggal.
type Availability struct {
	RestaurantID uint               `json:"restaurant_id"`
	Date         Date               `json:"date"`
	Slots        []SlotAvailability `json:"slots"`
}

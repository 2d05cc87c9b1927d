package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const MaxTotalTables = 1000

// Restaurant menyimpan kapasitas meja dan jam operasional.
type Restaurant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(200);not null;index:idx_restaurants_name" json:"name"`
	Address     string    `gorm:"type:varchar(500)" json:"address"`
	Phone       string    `gorm:"type:varchar(50)" json:"phone"`
	Timezone    string    `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	OpenTime    ClockTime `gorm:"type:varchar(5);not null" json:"open_time"`
	CloseTime   ClockTime `gorm:"type:varchar(5);not null" json:"close_time"`
	TotalTables int       `gorm:"not null" json:"total_tables"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r Restaurant) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return errors.New("name is required")
	case len(r.Name) > 200:
		return errors.New("name must be at most 200 characters")
	case len(r.Address) > 500:
		return errors.New("address must be at most 500 characters")
	case len(r.Phone) > 50:
		return errors.New("phone must be at most 50 characters")
	case r.TotalTables < 1 || r.TotalTables > MaxTotalTables:
		return fmt.Errorf("total_tables must be between 1 and %d", MaxTotalTables)
	case !r.OpenTime.OnTheHour() || !r.CloseTime.OnTheHour():
		return errors.New("opening hours must start and end on the hour")
	case r.OpenTime >= r.CloseTime:
		return errors.New("open_time must be before close_time")
	case r.CloseTime > endOfDay:
		return errors.New("close_time must not be after 24:00")
	}
	if r.Timezone != "" {
		if _, err := time.LoadLocation(r.Timezone); err != nil {
			return fmt.Errorf("unknown timezone %q", r.Timezone)
		}
	}
	return nil
}

// Location is the zone of the restaurant's operating day. Unknown zones fall back to UTC.
func (r Restaurant) Location() *time.Location {
	if r.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlotStarts returns every hourly slot start from open (inclusive) to close (exclusive) on d.
// Slots are real instants one hour apart, so a DST day has one slot fewer or one more.
func (r Restaurant) SlotStarts(d Date) []time.Time {
	loc := r.Location()
	end := d.At(r.CloseTime, loc)
	slots := make([]time.Time, 0, r.CloseTime.Hour()-r.OpenTime.Hour()+1)
	for t := d.At(r.OpenTime, loc); t.Before(end); t = t.Add(time.Hour) {
		slots = append(slots, t)
	}
	return slots
}

// CheckSlot reports why start cannot be a slot of this restaurant, or nil.
func (r Restaurant) CheckSlot(start time.Time) error {
	local := start.In(r.Location())
	if local.Minute() != 0 || local.Second() != 0 || local.Nanosecond() != 0 {
		return fmt.Errorf("slot %s is not aligned to the hour", local.Format(time.RFC3339))
	}
	c := ClockOf(local)
	if c < r.OpenTime || c >= r.CloseTime {
		return fmt.Errorf("slot %s is outside opening hours %s-%s",
			local.Format(time.RFC3339), r.OpenTime, r.CloseTime)
	}
	return nil
}

package models

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRestaurant() Restaurant {
	return Restaurant{
		Name:        "Warung Padang",
		Timezone:    "UTC",
		OpenTime:    NewClockTime(10, 0),
		CloseTime:   NewClockTime(14, 0),
		TotalTables: 8,
	}
}

func TestRestaurantValidate(t *testing.T) {
	require.NoError(t, testRestaurant().Validate())

	lateNight := testRestaurant()
	lateNight.OpenTime, lateNight.CloseTime = NewClockTime(18, 0), endOfDay
	assert.NoError(t, lateNight.Validate())

	tests := map[string]func(r *Restaurant){
		"blank name":       func(r *Restaurant) { r.Name = "" },
		"long name":        func(r *Restaurant) { r.Name = strings.Repeat("x", 201) },
		"long phone":       func(r *Restaurant) { r.Phone = strings.Repeat("1", 51) },
		"no tables":        func(r *Restaurant) { r.TotalTables = 0 },
		"too many tables":  func(r *Restaurant) { r.TotalTables = MaxTotalTables + 1 },
		"quarter past":     func(r *Restaurant) { r.CloseTime = NewClockTime(14, 15) },
		"closed all day":   func(r *Restaurant) { r.CloseTime = r.OpenTime },
		"past midnight":    func(r *Restaurant) { r.CloseTime = endOfDay + 60 },
		"unknown timezone": func(r *Restaurant) { r.Timezone = "Atlantis/Capital" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			r := testRestaurant()
			mutate(&r)
			assert.Error(t, r.Validate())
		})
	}
}

func TestSlotStartsAndCheckSlot(t *testing.T) {
	r := testRestaurant()
	day := Date{Year: 2030, Month: time.June, Day: 1}

	starts := r.SlotStarts(day)
	require.Len(t, starts, 4)
	for i, s := range starts {
		assert.Equal(t, 10+i, s.Hour())
		assert.NoError(t, r.CheckSlot(s))
	}

	assert.Error(t, r.CheckSlot(starts[0].Add(-time.Hour)))
	assert.Error(t, r.CheckSlot(starts[3].Add(time.Hour)))
	assert.Error(t, r.CheckSlot(starts[1].Add(30*time.Minute)))
	assert.Error(t, r.CheckSlot(starts[1].Add(time.Second)))

	r.Timezone = "Asia/Jakarta"
	// 04:00 UTC = 11:00 WIB
	assert.NoError(t, r.CheckSlot(time.Date(2030, 6, 1, 4, 0, 0, 0, time.UTC)))
	assert.Error(t, r.CheckSlot(time.Date(2030, 6, 1, 11, 0, 0, 0, time.UTC)))

	r.Timezone = ""
	assert.Equal(t, time.UTC, r.Location())
}

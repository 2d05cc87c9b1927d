package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRestaurantRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	body := restaurantBody("Soto Betawi", 4)

	code, _ := s.do(t, http.MethodPost, "/admin/restaurants", "", body)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodPost, "/admin/restaurants", s.staff, body)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp := s.do(t, http.MethodPost, "/admin/restaurants", s.admin, body)
	require.Equal(t, http.StatusCreated, code, resp.Message)
	var created struct {
		ID          uint   `json:"id"`
		Name        string `json:"name"`
		OpenTime    string `json:"open_time"`
		CloseTime   string `json:"close_time"`
		TotalTables int    `json:"total_tables"`
	}
	decode(t, resp.Data, &created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "10:00", created.OpenTime)
	assert.Equal(t, "22:00", created.CloseTime)
	assert.Equal(t, 4, created.TotalTables)

	code, resp = s.do(t, http.MethodGet, fmt.Sprintf("/restaurants/%d", created.ID), "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), "Soto Betawi")
}

func TestCreateRestaurantValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		mutate func(b map[string]interface{})
	}{
		{"missing open time", func(b map[string]interface{}) { delete(b, "open_time") }},
		{"close before open", func(b map[string]interface{}) { b["close_time"] = "09:00" }},
		{"half hour", func(b map[string]interface{}) { b["open_time"] = "10:30" }},
		{"garbage clock", func(b map[string]interface{}) { b["open_time"] = "ten" }},
		{"zero tables", func(b map[string]interface{}) { b["total_tables"] = 0 }},
		{"bad timezone", func(b map[string]interface{}) { b["timezone"] = "Nowhere/City" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := restaurantBody("Bakso", 3)
			tt.mutate(body)
			code, resp := s.do(t, http.MethodPost, "/admin/restaurants", s.admin, body)
			assert.Equal(t, http.StatusBadRequest, code, resp.Message)
		})
	}
}

func TestUpdateRestaurantCapacityGuard(t *testing.T) {
	s := newTestServer(t)
	restaurantID := s.createRestaurant(t, 6)
	code, _ := s.do(t, http.MethodPost, "/reservations", "", reservationBody(restaurantID, 4, upcomingSlot(18), "a@example.com"))
	require.Equal(t, http.StatusCreated, code)

	path := fmt.Sprintf("/admin/restaurants/%d", restaurantID)
	code, _ = s.do(t, http.MethodPut, path, s.admin, restaurantBody("Warung Test", 3))
	assert.Equal(t, http.StatusConflict, code)

	code, resp := s.do(t, http.MethodPut, path, s.admin, restaurantBody("Warung Test", 4))
	require.Equal(t, http.StatusOK, code, resp.Message)

	code, _ = s.do(t, http.MethodPut, "/admin/restaurants/999", s.admin, restaurantBody("Ghost", 4))
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGetAvailabilityEndpoint(t *testing.T) {
	s := newTestServer(t)
	restaurantID := s.createRestaurant(t, 5)
	slot := upcomingSlot(12)
	code, _ := s.do(t, http.MethodPost, "/reservations", "", reservationBody(restaurantID, 2, slot, "a@example.com"))
	require.Equal(t, http.StatusCreated, code)

	path := fmt.Sprintf("/restaurants/%d/availability?date=%s", restaurantID, slot.Format("2006-01-02"))
	code, resp := s.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, code, resp.Message)

	var availability struct {
		RestaurantID uint   `json:"restaurant_id"`
		Date         string `json:"date"`
		Slots        []struct {
			StartTime       string `json:"start_time"`
			AvailableTables int    `json:"available_tables"`
		} `json:"slots"`
	}
	decode(t, resp.Data, &availability)
	assert.Equal(t, restaurantID, availability.RestaurantID)
	assert.Equal(t, slot.Format("2006-01-02"), availability.Date)
	require.Len(t, availability.Slots, 12)
	assert.Equal(t, "10:00", availability.Slots[0].StartTime)
	assert.Equal(t, 5, availability.Slots[0].AvailableTables)
	assert.Equal(t, "12:00", availability.Slots[2].StartTime)
	assert.Equal(t, 3, availability.Slots[2].AvailableTables)

	code, _ = s.do(t, http.MethodGet, fmt.Sprintf("/restaurants/%d/availability", restaurantID), "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(t, http.MethodGet, "/restaurants/999/availability?date=2030-01-01", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestListRestaurants(t *testing.T) {
	s := newTestServer(t)
	s.createRestaurant(t, 2)
	s.createRestaurant(t, 3)

	code, resp := s.do(t, http.MethodGet, "/restaurants?size=1", "", nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Items []struct {
			ID uint `json:"id"`
		} `json:"items"`
		Meta struct {
			Size int `json:"size"`
		} `json:"meta"`
	}
	decode(t, resp.Data, &page)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Meta.Size)
}

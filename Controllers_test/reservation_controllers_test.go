package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetReservation(t *testing.T) {
	s := newTestServer(t)
	restaurantID := s.createRestaurant(t, 5)
	slot := upcomingSlot(12)

	code, resp := s.do(t, http.MethodPost, "/reservations", "", reservationBody(restaurantID, 3, slot, "budi@example.com"))
	require.Equal(t, http.StatusCreated, code, resp.Message)
	assert.True(t, resp.Status)

	var created reservationDTO
	decode(t, resp.Data, &created)
	assert.NotZero(t, created.ID)
	assert.NotZero(t, created.CustomerID)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, 3, created.TableCount)
	assert.True(t, slot.Equal(created.StartsAt))

	code, resp = s.do(t, http.MethodGet, fmt.Sprintf("/reservations/%d", created.ID), "", nil)
	require.Equal(t, http.StatusOK, code)
	var fetched reservationDTO
	decode(t, resp.Data, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, restaurantID, fetched.RestaurantID)
}

func TestCreateReservationOverCapacity(t *testing.T) {
	s := newTestServer(t)
	restaurantID := s.createRestaurant(t, 5)
	slot := upcomingSlot(19)

	code, _ := s.do(t, http.MethodPost, "/reservations", "", reservationBody(restaurantID, 3, slot, "a@example.com"))
	require.Equal(t, http.StatusCreated, code)

	code, resp := s.do(t, http.MethodPost, "/reservations", "", reservationBody(restaurantID, 3, slot, "b@example.com"))
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, resp.Status)
	assert.Contains(t, resp.Message, "capacity exceeded")

	code, _ = s.do(t, http.MethodPost, "/reservations", "", reservationBody(restaurantID, 2, slot, "b@example.com"))
	assert.Equal(t, http.StatusCreated, code)
}

func TestCreateReservationBadRequests(t *testing.T) {
	s := newTestServer(t)
	restaurantID := s.createRestaurant(t, 5)

	tests := []struct {
		name string
		body map[string]interface{}
		code int
	}{
		{"zero tables", reservationBody(restaurantID, 0, upcomingSlot(12), "a@example.com"), http.StatusBadRequest},
		{"bad email", reservationBody(restaurantID, 1, upcomingSlot(12), "not-an-email"), http.StatusBadRequest},
		{"before opening", reservationBody(restaurantID, 1, upcomingSlot(8), "a@example.com"), http.StatusBadRequest},
		{"unaligned", reservationBody(restaurantID, 1, upcomingSlot(12).Add(15*time.Minute), "a@example.com"), http.StatusBadRequest},
		{"unknown restaurant", reservationBody(restaurantID+100, 1, upcomingSlot(12), "a@example.com"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := s.do(t, http.MethodPost, "/reservations", "", tt.body)
			assert.Equal(t, tt.code, code, resp.Message)
		})
	}
}

func TestReservationLifecycleEndpoints(t *testing.T) {
	s := newTestServer(t)
	restaurantID := s.createRestaurant(t, 5)

	code, resp := s.do(t, http.MethodPost, "/reservations", "", reservationBody(restaurantID, 2, upcomingSlot(13), "c@example.com"))
	require.Equal(t, http.StatusCreated, code)
	var r reservationDTO
	decode(t, resp.Data, &r)

	confirmPath := fmt.Sprintf("/admin/reservations/%d/confirm", r.ID)
	code, _ = s.do(t, http.MethodPost, confirmPath, "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, resp = s.do(t, http.MethodPost, confirmPath, s.staff, nil)
	require.Equal(t, http.StatusOK, code, resp.Message)
	decode(t, resp.Data, &r)
	assert.Equal(t, "confirmed", r.Status)

	code, _ = s.do(t, http.MethodPost, confirmPath, s.staff, nil)
	assert.Equal(t, http.StatusConflict, code)

	cancelPath := fmt.Sprintf("/reservations/%d/cancel", r.ID)
	code, resp = s.do(t, http.MethodPost, cancelPath, "", nil)
	require.Equal(t, http.StatusOK, code, resp.Message)
	decode(t, resp.Data, &r)
	assert.Equal(t, "cancelled", r.Status)

	code, resp = s.do(t, http.MethodPost, cancelPath, "", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, resp.Message, "invalid status transition")

	statusPath := fmt.Sprintf("/admin/reservations/%d/status", r.ID)
	code, _ = s.do(t, http.MethodPost, statusPath, s.staff, map[string]string{"status": "PENDING"})
	assert.Equal(t, http.StatusConflict, code)
	code, _ = s.do(t, http.MethodPost, statusPath, s.staff, map[string]string{"status": "seated"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, "/reservations/9999/cancel", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.do(t, http.MethodGet, "/reservations/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestListReservationsForStaff(t *testing.T) {
	s := newTestServer(t)
	restaurantID := s.createRestaurant(t, 10)
	slot := upcomingSlot(12)

	for i, hour := range []int{14, 12, 13} {
		code, _ := s.do(t, http.MethodPost, "/reservations", "",
			reservationBody(restaurantID, 1, upcomingSlot(hour), fmt.Sprintf("g%d@example.com", i)))
		require.Equal(t, http.StatusCreated, code)
	}

	path := fmt.Sprintf("/admin/restaurants/%d/reservations?date=%s", restaurantID, slot.Format("2006-01-02"))
	code, resp := s.do(t, http.MethodGet, path, s.staff, nil)
	require.Equal(t, http.StatusOK, code, resp.Message)

	var page struct {
		Items []reservationDTO `json:"items"`
		Meta  struct {
			Count int `json:"count"`
		} `json:"meta"`
	}
	decode(t, resp.Data, &page)
	require.Len(t, page.Items, 3)
	assert.Equal(t, 3, page.Meta.Count)
	assert.Equal(t, 12, page.Items[0].StartsAt.Hour())
	assert.Equal(t, 14, page.Items[2].StartsAt.Hour())

	code, _ = s.do(t, http.MethodGet, path+"&size=0", s.staff, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(t, http.MethodGet, fmt.Sprintf("/admin/restaurants/%d/reservations?date=tomorrow", restaurantID), s.staff, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestFindCustomer(t *testing.T) {
	s := newTestServer(t)
	restaurantID := s.createRestaurant(t, 5)
	code, _ := s.do(t, http.MethodPost, "/reservations", "", reservationBody(restaurantID, 1, upcomingSlot(12), "Rina@Example.com"))
	require.Equal(t, http.StatusCreated, code)

	code, resp := s.do(t, http.MethodGet, "/admin/customers?email=rina@example.com", s.staff, nil)
	require.Equal(t, http.StatusOK, code)
	var customer struct {
		Email string `json:"email"`
	}
	decode(t, resp.Data, &customer)
	assert.Equal(t, "rina@example.com", customer.Email)

	code, _ = s.do(t, http.MethodGet, "/admin/customers?email=none@example.com", s.staff, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.do(t, http.MethodGet, "/admin/customers", s.staff, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
}

func NewReservationController(reservations *services.ReservationService) *ReservationController {
	return &ReservationController{Reservations: reservations}
}

// CreateReservation -> customer memesan meja, tanpa login
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		RestaurantID  uint      `json:"restaurant_id" binding:"required"`
		CustomerName  string    `json:"customer_name" binding:"required,max=200"`
		CustomerPhone string    `json:"customer_phone" binding:"required,max=50"`
		CustomerEmail string    `json:"customer_email" binding:"required,email"`
		TableCount    int       `json:"table_count" binding:"required,min=1"`
		StartsAt      time.Time `json:"starts_at" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Reservations.CreateReservation(c.Request.Context(), services.ReservationRequest{
		RestaurantID:  req.RestaurantID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		TableCount:    req.TableCount,
		StartsAt:      req.StartsAt,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

func (rc *ReservationController) GetReservation(c *gin.Context) {
	id, ok := parseID(c, "reservation_id")
	if !ok {
		return
	}
	reservation, err := rc.Reservations.GetReservation(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

func (rc *ReservationController) CancelReservation(c *gin.Context) {
	rc.transition(c, models.StatusCancelled, "Reservation cancelled")
}

func (rc *ReservationController) ConfirmReservation(c *gin.Context) {
	rc.transition(c, models.StatusConfirmed, "Reservation confirmed")
}

// UpdateStatus -> POST /admin/reservations/:reservation_id/status {"status": "..."}
func (rc *ReservationController) UpdateStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	status, err := models.ParseReservationStatus(body.Status)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	rc.transition(c, status, "Reservation status updated")
}

func (rc *ReservationController) transition(c *gin.Context, status models.ReservationStatus, message string) {
	id, ok := parseID(c, "reservation_id")
	if !ok {
		return
	}
	reservation, err := rc.Reservations.TransitionStatus(c.Request.Context(), id, status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, message, reservation)
}

// ListReservations -> GET /admin/restaurants/:restaurant_id/reservations?date=&page=&size=
func (rc *ReservationController) ListReservations(c *gin.Context) {
	restaurantID, ok := parseID(c, "restaurant_id")
	if !ok {
		return
	}
	date, ok := parseDate(c)
	if !ok {
		return
	}
	page, size, ok := parsePage(c)
	if !ok {
		return
	}

	reservations, err := rc.Reservations.ListReservations(c.Request.Context(), restaurantID, date, page, size)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondPage(c, "List of reservations", reservations, page, size, len(reservations))
}

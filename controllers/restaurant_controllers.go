package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

type RestaurantController struct {
	Restaurants  *services.RestaurantService
	Availability *services.AvailabilityService
}

func NewRestaurantController(restaurants *services.RestaurantService, availability *services.AvailabilityService) *RestaurantController {
	return &RestaurantController{Restaurants: restaurants, Availability: availability}
}

type restaurantRequest struct {
	Name        string            `json:"name" binding:"required,max=200"`
	Address     string            `json:"address" binding:"max=500"`
	Phone       string            `json:"phone" binding:"max=50"`
	Timezone    string            `json:"timezone"`
	OpenTime    *models.ClockTime `json:"open_time" binding:"required"`
	CloseTime   *models.ClockTime `json:"close_time" binding:"required"`
	TotalTables int               `json:"total_tables" binding:"required,min=1,max=1000"`
}

func (r restaurantRequest) toModel() models.Restaurant {
	return models.Restaurant{
		Name:        r.Name,
		Address:     r.Address,
		Phone:       r.Phone,
		Timezone:    r.Timezone,
		OpenTime:    *r.OpenTime,
		CloseTime:   *r.CloseTime,
		TotalTables: r.TotalTables,
	}
}

// ListRestaurants -> GET /restaurants?page=&size=
func (rc *RestaurantController) ListRestaurants(c *gin.Context) {
	page, size, ok := parsePage(c)
	if !ok {
		return
	}
	restaurants, err := rc.Restaurants.List(c.Request.Context(), page, size)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondPage(c, "List of restaurants", restaurants, page, size, len(restaurants))
}

func (rc *RestaurantController) GetRestaurant(c *gin.Context) {
	id, ok := parseID(c, "restaurant_id")
	if !ok {
		return
	}
	restaurant, err := rc.Restaurants.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurant)
}

// CreateRestaurant -> onboarding restoran baru (admin)
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	var req restaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	restaurant, err := rc.Restaurants.Create(c.Request.Context(), req.toModel())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

// UpdateRestaurant -> ubah data & kapasitas (admin)
func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	id, ok := parseID(c, "restaurant_id")
	if !ok {
		return
	}
	var req restaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	restaurant, err := rc.Restaurants.Update(c.Request.Context(), id, req.toModel())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}

// GetAvailability -> GET /restaurants/:restaurant_id/availability?date=YYYY-MM-DD
func (rc *RestaurantController) GetAvailability(c *gin.Context) {
	id, ok := parseID(c, "restaurant_id")
	if !ok {
		return
	}
	date, ok := parseDate(c)
	if !ok {
		return
	}
	if date == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date query parameter is required"))
		return
	}

	availability, err := rc.Availability.GetAvailability(c.Request.Context(), id, *date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Availability", availability)
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

var (
	ErrNoPermission = errors.New("you do not have permission")
	errInternal     = errors.New("internal server error")
)

// StatusFor memetakan jenis error service ke status HTTP.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrCapacityExceeded),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrPersistenceConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondServiceError(c *gin.Context, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		utils.ErrorLogger.WithField("path", c.FullPath()).WithError(err).Error("Request failed")
		utils.RespondError(c, code, errInternal)
		return
	}
	utils.RespondError(c, code, err)
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid "+param))
		return 0, false
	}
	return uint(id), true
}

// parsePage membaca ?page= (default 0) dan ?size= (default 20).
func parsePage(c *gin.Context) (int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid page"))
		return 0, 0, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(services.DefaultPageSize)))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid size"))
		return 0, 0, false
	}
	return page, size, true
}

// parseDate reads an optional ?date=YYYY-MM-DD. nil means absent.
func parseDate(c *gin.Context) (*models.Date, bool) {
	raw := c.Query("date")
	if raw == "" {
		return nil, true
	}
	date, err := models.ParseDate(raw)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return nil, false
	}
	return &date, true
}

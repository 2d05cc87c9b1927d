package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

type CustomerController struct {
	Customers *services.CustomerDirectory
}

func NewCustomerController(customers *services.CustomerDirectory) *CustomerController {
	return &CustomerController{Customers: customers}
}

// FindCustomer -> GET /admin/customers?email= (staff mencari customer di host-stand)
func (cc *CustomerController) FindCustomer(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("email query parameter is required"))
		return
	}
	customer, err := cc.Customers.FindByContact(c.Request.Context(), email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer detail", customer)
}

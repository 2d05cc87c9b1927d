package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-reservation/live"
	"github.com/yeremiapane/restaurant-reservation/models"
)

type LiveController struct {
	Hub      *live.Hub
	upgrader websocket.Upgrader
}

func NewLiveController(hub *live.Hub, allowedOrigin string) *LiveController {
	return &LiveController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

// Connect -> GET /ws/:role?token=&restaurant_id=
// Dashboard host-stand menerima event reservasi secara real-time.
func (lc *LiveController) Connect(c *gin.Context) {
	role := c.GetString("role")
	if role != models.RoleStaff && role != models.RoleAdmin {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	var restaurantID uint
	if raw := c.Query("restaurant_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		restaurantID = uint(id)
	}

	ws, err := lc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	lc.Hub.Register(ws, role, restaurantID)

	// Client hanya mendengarkan; loop baca untuk mendeteksi disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	lc.Hub.Unregister(ws)
}

package live

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	role         string
	restaurantID uint // 0 = semua restoran

	// satu writer per koneksi (aturan gorilla/websocket)
	writeMu sync.Mutex
}

// Hub menampung koneksi websocket host-stand (staff, admin) dan menyiarkan
// event reservasi ke client yang berlangganan restoran terkait.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

func (h *Hub) Register(conn *websocket.Conn, role string, restaurantID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = &client{role: role, restaurantID: restaurantID}
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) Name() string { return "websocket" }

// Publish never fails: clients that cannot be written to are dropped.
func (h *Hub) Publish(_ context.Context, event models.ReservationEvent) error {
	h.Broadcast(event.RestaurantID, Message{Event: event.Type, Data: event})
	return nil
}

// Broadcast only holds the hub lock while picking targets, so a slow client
// never blocks registration or other broadcasts.
func (h *Hub) Broadcast(restaurantID uint, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("Error marshaling websocket message")
		return
	}

	for conn, c := range h.targets(restaurantID) {
		if err := c.write(conn, data); err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{
				"role":  c.role,
				"event": msg.Event,
			}).WithError(err).Warn("Dropping websocket client")
			h.Unregister(conn)
		}
	}
}

func (h *Hub) targets(restaurantID uint) map[*websocket.Conn]*client {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	targets := make(map[*websocket.Conn]*client, len(h.clients))
	for conn, c := range h.clients {
		if c.restaurantID != 0 && c.restaurantID != restaurantID {
			continue
		}
		targets[conn] = c
	}
	return targets
}

func (c *client) write(conn *websocket.Conn, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reservation/controllers"
	"github.com/yeremiapane/restaurant-reservation/database"
	"github.com/yeremiapane/restaurant-reservation/router"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error")
	utils.SetJWTSecret("controllers-test-secret", time.Hour)
}

// setupTestDB menggunakan SQLite in-memory untuk testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.NewGormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

type testServer struct {
	db     *gorm.DB
	router *gin.Engine
	admin  string
	staff  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := setupTestDB(t)
	s := &testServer{db: db, router: router.SetupRouter(db, router.Options{})}
	s.admin = s.tokenFor(t, "admin")
	s.staff = s.tokenFor(t, "staff")
	return s
}

func (s *testServer) tokenFor(t *testing.T, role string) string {
	t.Helper()
	user, err := controllers.CreateUser(s.db, "Test "+role, role+"@example.com", "password123", role)
	require.NoError(t, err)
	token, err := utils.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return token
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

// upcomingSlot: jam tertentu seminggu dari sekarang, UTC.
func upcomingSlot(hour int) time.Time {
	d := time.Now().UTC().AddDate(0, 0, 7)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}

func restaurantBody(name string, tables int) map[string]interface{} {
	return map[string]interface{}{
		"name":         name,
		"address":      "Jl. Sudirman 1",
		"timezone":     "UTC",
		"open_time":    "10:00",
		"close_time":   "22:00",
		"total_tables": tables,
	}
}

func (s *testServer) createRestaurant(t *testing.T, tables int) uint {
	t.Helper()
	code, resp := s.do(t, http.MethodPost, "/admin/restaurants", s.admin, restaurantBody("Warung Test", tables))
	require.Equal(t, http.StatusCreated, code, resp.Message)
	var out struct {
		ID uint `json:"id"`
	}
	decode(t, resp.Data, &out)
	return out.ID
}

func reservationBody(restaurantID uint, tables int, startsAt time.Time, email string) map[string]interface{} {
	return map[string]interface{}{
		"restaurant_id":  restaurantID,
		"customer_name":  "Budi",
		"customer_phone": "+62-811-000",
		"customer_email": email,
		"table_count":    tables,
		"starts_at":      startsAt.Format(time.RFC3339),
	}
}

type reservationDTO struct {
	ID           uint      `json:"id"`
	RestaurantID uint      `json:"restaurant_id"`
	CustomerID   uint      `json:"customer_id"`
	TableCount   int       `json:"table_count"`
	StartsAt     time.Time `json:"starts_at"`
	Status       string    `json:"status"`
}

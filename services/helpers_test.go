package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-reservation/database"
	"github.com/yeremiapane/restaurant-reservation/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

// setupTestDB: satu database in-memory per test. Satu koneksi saja, jadi
// transaksi yang berjalan bersamaan antre seperti pada row lock.
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

type testEnv struct {
	db           *gorm.DB
	tx           *database.Transactor
	store        *RestaurantStore
	slots        *SlotAccountant
	ledger       *ReservationLedger
	customers    *CustomerDirectory
	cache        *memoryCache
	restaurants  *RestaurantService
	reservations *ReservationService
	availability *AvailabilityService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	env := &testEnv{
		db:        db,
		tx:        database.NewTransactor(db, time.Second),
		store:     NewRestaurantStore(db),
		slots:     NewSlotAccountant(),
		ledger:    NewReservationLedger(db),
		customers: NewCustomerDirectory(db),
		cache:     newMemoryCache(),
	}
	env.restaurants = NewRestaurantService(env.tx, env.store, env.slots, env.cache).
		WithClock(func() time.Time { return testNow })
	env.reservations = NewReservationService(env.tx, env.store, env.slots, env.ledger, env.customers, env.cache).
		WithClock(func() time.Time { return testNow })
	env.availability = NewAvailabilityService(env.store, env.ledger, env.cache)
	return env
}

func (e *testEnv) seedRestaurant(t *testing.T, tables int, open, close string) models.Restaurant {
	t.Helper()
	openTime, err := models.ParseClockTime(open)
	require.NoError(t, err)
	closeTime, err := models.ParseClockTime(close)
	require.NoError(t, err)

	restaurant, err := e.restaurants.Create(context.Background(), models.Restaurant{
		Name:        "Warung " + uuid.NewString()[:8],
		Timezone:    "UTC",
		OpenTime:    openTime,
		CloseTime:   closeTime,
		TotalTables: tables,
	})
	require.NoError(t, err)
	return restaurant
}

func slotAt(day, hour int) time.Time {
	return time.Date(2030, time.June, day, hour, 0, 0, 0, time.UTC)
}

func request(restaurantID uint, tables int, startsAt time.Time, email string) ReservationRequest {
	return ReservationRequest{
		RestaurantID:  restaurantID,
		CustomerName:  "Budi",
		CustomerPhone: "+62-811-000",
		CustomerEmail: email,
		TableCount:    tables,
		StartsAt:      startsAt,
	}
}

func (e *testEnv) countEvents(t *testing.T, eventType string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.ReservationEvent{}).Where("type = ?", eventType).Count(&n).Error)
	return n
}

type memoryCache struct {
	mu            sync.Mutex
	items         map[string]cachedGrid
	dateGen       map[string]int
	restaurantGen map[uint]int
	invalidations int
}

type cachedGrid struct {
	generation   string
	availability models.Availability
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		items:         make(map[string]cachedGrid),
		dateGen:       make(map[string]int),
		restaurantGen: make(map[uint]int),
	}
}

func cacheKey(restaurantID uint, date models.Date) string {
	return fmt.Sprintf("%d:%s", restaurantID, date)
}

func (c *memoryCache) generation(restaurantID uint, date models.Date) string {
	return fmt.Sprintf("%d.%d", c.restaurantGen[restaurantID], c.dateGen[cacheKey(restaurantID, date)])
}

func (c *memoryCache) Get(_ context.Context, restaurantID uint, date models.Date) (models.Availability, string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.generation(restaurantID, date)
	item, ok := c.items[cacheKey(restaurantID, date)]
	if !ok || item.generation != gen {
		return models.Availability{}, gen, false, nil
	}
	return item.availability, gen, true, nil
}

func (c *memoryCache) Set(_ context.Context, a models.Availability, generation string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[cacheKey(a.RestaurantID, a.Date)] = cachedGrid{generation: generation, availability: a}
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, restaurantID uint, date models.Date) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dateGen[cacheKey(restaurantID, date)]++
	c.invalidations++
	return nil
}

func (c *memoryCache) InvalidateRestaurant(_ context.Context, restaurantID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restaurantGen[restaurantID]++
	c.invalidations++
	return nil
}

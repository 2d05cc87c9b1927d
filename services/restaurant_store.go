package services

import (
	"context"
	"errors"

	"github.com/yeremiapane/restaurant-reservation/database"
	"github.com/yeremiapane/restaurant-reservation/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RestaurantStore adalah capacity store: data restoran dan akses kunci baris.
type RestaurantStore struct {
	db *gorm.DB
}

func NewRestaurantStore(db *gorm.DB) *RestaurantStore {
	return &RestaurantStore{db: db}
}

func (s *RestaurantStore) Get(ctx context.Context, id uint) (models.Restaurant, error) {
	return s.first(s.db.WithContext(ctx), id)
}

// GetForUpdate mengunci baris restoran (SELECT ... FOR UPDATE) sampai tx selesai.
// Semua keputusan admisi untuk restoran yang sama diserialkan lewat kunci ini.
func (s *RestaurantStore) GetForUpdate(tx *database.Tx, id uint) (models.Restaurant, error) {
	return s.first(tx.Conn().Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (s *RestaurantStore) first(q *gorm.DB, id uint) (models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := q.First(&restaurant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Restaurant{}, ErrRestaurantNotFound
		}
		return models.Restaurant{}, persistenceError("get restaurant", err)
	}
	return restaurant, nil
}

func (s *RestaurantStore) Create(ctx context.Context, restaurant models.Restaurant) (models.Restaurant, error) {
	if err := s.db.WithContext(ctx).Create(&restaurant).Error; err != nil {
		return models.Restaurant{}, persistenceError("create restaurant", err)
	}
	return restaurant, nil
}

// Update writes the full record inside tx.
func (s *RestaurantStore) Update(tx *database.Tx, restaurant models.Restaurant) (models.Restaurant, error) {
	res := tx.Conn().Model(&models.Restaurant{ID: restaurant.ID}).Updates(map[string]interface{}{
		"name":         restaurant.Name,
		"address":      restaurant.Address,
		"phone":        restaurant.Phone,
		"timezone":     restaurant.Timezone,
		"open_time":    restaurant.OpenTime,
		"close_time":   restaurant.CloseTime,
		"total_tables": restaurant.TotalTables,
	})
	if res.Error != nil {
		return models.Restaurant{}, persistenceError("update restaurant", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Restaurant{}, ErrRestaurantNotFound
	}
	return s.first(tx.Conn(), restaurant.ID)
}

func (s *RestaurantStore) List(ctx context.Context, page, size int) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := s.db.WithContext(ctx).
		Order("name ASC").Order("id ASC").
		Limit(size).Offset(page * size).
		Find(&restaurants).Error
	if err != nil {
		return nil, persistenceError("list restaurants", err)
	}
	return restaurants, nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-reservation/database"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

type RestaurantService struct {
	tx          *database.Transactor
	restaurants *RestaurantStore
	slots       *SlotAccountant
	cache       AvailabilityCache
	now         func() time.Time
}

func NewRestaurantService(tx *database.Transactor, restaurants *RestaurantStore, slots *SlotAccountant, cache AvailabilityCache) *RestaurantService {
	if cache == nil {
		cache = NoopCache{}
	}
	return &RestaurantService{tx: tx, restaurants: restaurants, slots: slots, cache: cache, now: time.Now}
}

func (s *RestaurantService) WithClock(now func() time.Time) *RestaurantService {
	s.now = now
	return s
}

func (s *RestaurantService) Create(ctx context.Context, restaurant models.Restaurant) (models.Restaurant, error) {
	if restaurant.Timezone == "" {
		restaurant.Timezone = "UTC"
	}
	if err := restaurant.Validate(); err != nil {
		return models.Restaurant{}, validationError("%v", err)
	}
	restaurant.ID = 0

	created, err := s.restaurants.Create(ctx, restaurant)
	if err != nil {
		return models.Restaurant{}, err
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"restaurant_id": created.ID,
		"total_tables":  created.TotalTables,
	}).Info("Restaurant created")
	return created, nil
}

func (s *RestaurantService) Get(ctx context.Context, id uint) (models.Restaurant, error) {
	return s.restaurants.Get(ctx, id)
}

func (s *RestaurantService) List(ctx context.Context, page, size int) ([]models.Restaurant, error) {
	if err := checkPage(page, size); err != nil {
		return nil, err
	}
	return s.restaurants.List(ctx, page, size)
}

// Update mengambil lock kapasitas yang sama dengan admisi. Jumlah meja tidak boleh
// diturunkan di bawah okupansi slot mana pun yang belum lewat, dan jam buka atau
// timezone baru harus tetap memuat setiap slot yang sudah dipesan.
func (s *RestaurantService) Update(ctx context.Context, id uint, restaurant models.Restaurant) (models.Restaurant, error) {
	if restaurant.Timezone == "" {
		restaurant.Timezone = "UTC"
	}
	if err := restaurant.Validate(); err != nil {
		return models.Restaurant{}, validationError("%v", err)
	}
	restaurant.ID = id

	var updated models.Restaurant
	err := s.tx.RunInTx(ctx, func(tx *database.Tx) error {
		current, err := s.restaurants.GetForUpdate(tx, id)
		if err != nil {
			return err
		}
		from := s.now().Truncate(time.Hour)
		if restaurant.TotalTables < current.TotalTables {
			peak, err := s.slots.PeakReservedFrom(tx, id, from)
			if err != nil {
				return err
			}
			if peak > restaurant.TotalTables {
				return fmt.Errorf("%w: %d tables already reserved in an upcoming slot",
					ErrCapacityExceeded, peak)
			}
		}
		if hoursChanged(current, restaurant) {
			booked, err := s.slots.ActiveSlotsFrom(tx, id, from)
			if err != nil {
				return err
			}
			for _, start := range booked {
				if err := restaurant.CheckSlot(start); err != nil {
					return fmt.Errorf("%w: reserved %v", ErrCapacityExceeded, err)
				}
			}
		}
		updated, err = s.restaurants.Update(tx, restaurant)
		return err
	})
	if err != nil {
		return models.Restaurant{}, txError("update restaurant", err)
	}
	if err := s.cache.InvalidateRestaurant(ctx, id); err != nil {
		utils.ErrorLogger.WithError(err).Warn("Availability cache invalidation failed")
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"restaurant_id": updated.ID,
		"total_tables":  updated.TotalTables,
	}).Info("Restaurant updated")
	return updated, nil
}

func hoursChanged(current, next models.Restaurant) bool {
	return current.OpenTime != next.OpenTime ||
		current.CloseTime != next.CloseTime ||
		current.Location().String() != next.Location().String()
}

package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

// AvailabilityCache menyimpan grid availability per (restoran, tanggal).
//
// Get returns the current generation of the entry even on a miss. Set stores
// the grid under that generation, and Invalidate bumps it, so a grid computed
// before an invalidation is never served afterwards.
type AvailabilityCache interface {
	Get(ctx context.Context, restaurantID uint, date models.Date) (availability models.Availability, generation string, ok bool, err error)
	Set(ctx context.Context, availability models.Availability, generation string) error
	Invalidate(ctx context.Context, restaurantID uint, date models.Date) error
	InvalidateRestaurant(ctx context.Context, restaurantID uint) error
}

type NoopCache struct{}

func (NoopCache) Get(context.Context, uint, models.Date) (models.Availability, string, bool, error) {
	return models.Availability{}, "", false, nil
}
func (NoopCache) Set(context.Context, models.Availability, string) error { return nil }

func (NoopCache) Invalidate(context.Context, uint, models.Date) error { return nil }

func (NoopCache) InvalidateRestaurant(context.Context, uint) error { return nil }

// AvailabilityService menghitung grid meja kosong. Hanya membaca, tanpa lock,
// jadi hasilnya bisa sedikit tertinggal dari admisi yang sedang berjalan.
type AvailabilityService struct {
	restaurants *RestaurantStore
	ledger      *ReservationLedger
	cache       AvailabilityCache
}

func NewAvailabilityService(restaurants *RestaurantStore, ledger *ReservationLedger, cache AvailabilityCache) *AvailabilityService {
	if cache == nil {
		cache = NoopCache{}
	}
	return &AvailabilityService{restaurants: restaurants, ledger: ledger, cache: cache}
}

func (s *AvailabilityService) GetAvailability(ctx context.Context, restaurantID uint, date models.Date) (models.Availability, error) {
	if date.IsZero() {
		return models.Availability{}, validationError("date is required")
	}

	// generation dibaca sebelum query DB
	cached, generation, ok, err := s.cache.Get(ctx, restaurantID, date)
	cacheUp := err == nil
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("Availability cache read failed")
	} else if ok {
		return cached, nil
	}

	restaurant, err := s.restaurants.Get(ctx, restaurantID)
	if err != nil {
		return models.Availability{}, err
	}

	loc := restaurant.Location()
	from, to := date.Bounds(loc)
	reservations, err := s.ledger.ListActiveBetween(ctx, restaurantID, from, to)
	if err != nil {
		return models.Availability{}, err
	}

	reservedBySlot := make(map[int64]int)
	for _, r := range reservations {
		reservedBySlot[r.StartsAt.UTC().Unix()] += r.TableCount
	}

	availability := models.Availability{
		RestaurantID: restaurant.ID,
		Date:         date,
		Slots:        make([]models.SlotAvailability, 0),
	}
	for _, start := range restaurant.SlotStarts(date) {
		availability.Slots = append(availability.Slots, models.SlotAvailability{
			StartsAt:        start.UTC(),
			StartTime:       models.ClockOf(start),
			AvailableTables: max(restaurant.TotalTables-reservedBySlot[start.Unix()], 0),
		})
	}

	if !cacheUp {
		return availability, nil
	}
	if err := s.cache.Set(ctx, availability, generation); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"restaurant_id": restaurantID,
			"date":          date.String(),
		}).WithError(err).Warn("Availability cache write failed")
	}
	return availability, nil
}

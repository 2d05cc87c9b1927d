package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-reservation/database"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

type ReservationRequest struct {
	RestaurantID  uint
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	TableCount    int
	StartsAt      time.Time
}

// ReservationService adalah admission controller: menerima atau menolak reservasi
// baru terhadap kapasitas slot, dan menjalankan transisi status.
type ReservationService struct {
	tx          *database.Transactor
	restaurants *RestaurantStore
	slots       *SlotAccountant
	ledger      *ReservationLedger
	customers   *CustomerDirectory
	cache       AvailabilityCache
	now         func() time.Time
}

func NewReservationService(
	tx *database.Transactor,
	restaurants *RestaurantStore,
	slots *SlotAccountant,
	ledger *ReservationLedger,
	customers *CustomerDirectory,
	cache AvailabilityCache,
) *ReservationService {
	if cache == nil {
		cache = NoopCache{}
	}
	return &ReservationService{
		tx:          tx,
		restaurants: restaurants,
		slots:       slots,
		ledger:      ledger,
		customers:   customers,
		cache:       cache,
		now:         time.Now,
	}
}

// WithClock overrides the clock used to reject slots in the past.
func (s *ReservationService) WithClock(now func() time.Time) *ReservationService {
	s.now = now
	return s
}

func (r ReservationRequest) validate() error {
	switch {
	case r.RestaurantID == 0:
		return validationError("restaurant_id is required")
	case r.TableCount < 1:
		return validationError("table_count must be at least 1")
	case r.StartsAt.IsZero():
		return validationError("starts_at is required")
	case strings.TrimSpace(r.CustomerName) == "":
		return validationError("customer_name is required")
	case strings.TrimSpace(r.CustomerEmail) == "":
		return validationError("customer_email is required")
	}
	return nil
}

// CreateReservation menjalankan admisi dalam satu transaksi: kunci baris restoran,
// hitung okupansi slot, bandingkan dengan total meja, lalu insert PENDING atau tolak.
func (s *ReservationService) CreateReservation(ctx context.Context, req ReservationRequest) (models.Reservation, error) {
	if err := req.validate(); err != nil {
		return models.Reservation{}, err
	}

	// Customer tidak ikut invariant kapasitas, jadi di-resolve di luar transaksi.
	customer, err := s.customers.FindOrCreate(ctx, models.Customer{
		Name:  strings.TrimSpace(req.CustomerName),
		Phone: strings.TrimSpace(req.CustomerPhone),
		Email: req.CustomerEmail,
	})
	if err != nil {
		return models.Reservation{}, err
	}

	var (
		restaurant models.Restaurant
		created    models.Reservation
	)
	err = s.tx.RunInTx(ctx, func(tx *database.Tx) error {
		var err error
		restaurant, err = s.restaurants.GetForUpdate(tx, req.RestaurantID)
		if err != nil {
			return err
		}
		if err := restaurant.CheckSlot(req.StartsAt); err != nil {
			return validationError("%v", err)
		}
		if !req.StartsAt.After(s.now()) {
			return validationError("slot %s is in the past", req.StartsAt.UTC().Format(time.RFC3339))
		}

		reserved, err := s.slots.ReservedTables(tx, restaurant.ID, req.StartsAt)
		if err != nil {
			return err
		}
		if reserved+req.TableCount > restaurant.TotalTables {
			return fmt.Errorf("%w: %d of %d tables free at %s, %d requested",
				ErrCapacityExceeded, restaurant.TotalTables-reserved, restaurant.TotalTables,
				req.StartsAt.UTC().Format(time.RFC3339), req.TableCount)
		}

		created, err = s.ledger.Insert(tx, models.Reservation{
			RestaurantID: restaurant.ID,
			CustomerID:   customer.ID,
			TableCount:   req.TableCount,
			StartsAt:     req.StartsAt,
			Status:       models.StatusPending,
		})
		if err != nil {
			return err
		}
		return s.ledger.AppendEvent(tx, created)
	})
	if err != nil {
		err = txError("create reservation", err)
		if errors.Is(err, ErrCapacityExceeded) {
			utils.InfoLogger.WithFields(logrus.Fields{
				"restaurant_id": req.RestaurantID,
				"starts_at":     req.StartsAt.UTC(),
				"table_count":   req.TableCount,
			}).Info("Reservation rejected, slot full")
		}
		return models.Reservation{}, err
	}

	s.invalidate(ctx, restaurant, created)
	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id": created.ID,
		"restaurant_id":  created.RestaurantID,
		"starts_at":      created.StartsAt,
		"table_count":    created.TableCount,
	}).Info("Reservation admitted")
	return created, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id uint) (models.Reservation, error) {
	return s.ledger.FindByID(ctx, id)
}

// TransitionStatus mengunci baris reservasi lalu memvalidasi transisi. Kapasitas
// tidak perlu dicek ulang: pending sudah dihitung, cancel selalu mengurangi.
func (s *ReservationService) TransitionStatus(ctx context.Context, id uint, status models.ReservationStatus) (models.Reservation, error) {
	if !status.Valid() {
		return models.Reservation{}, validationError("unknown status %q", status)
	}

	var previous, updated models.Reservation
	err := s.tx.RunInTx(ctx, func(tx *database.Tx) error {
		current, err := s.ledger.FindForUpdate(tx, id)
		if err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
		}
		previous = current

		updated, err = s.ledger.UpdateStatus(tx, current.WithStatus(status))
		if err != nil {
			return err
		}
		return s.ledger.AppendEvent(tx, updated)
	})
	if err != nil {
		return models.Reservation{}, txError("transition reservation", err)
	}

	if restaurant, err := s.restaurants.Get(ctx, updated.RestaurantID); err == nil {
		s.invalidate(ctx, restaurant, updated)
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id": updated.ID,
		"from":           previous.Status,
		"to":             updated.Status,
	}).Info("Reservation status changed")
	return updated, nil
}

func (s *ReservationService) Cancel(ctx context.Context, id uint) (models.Reservation, error) {
	return s.TransitionStatus(ctx, id, models.StatusCancelled)
}

func (s *ReservationService) Confirm(ctx context.Context, id uint) (models.Reservation, error) {
	return s.TransitionStatus(ctx, id, models.StatusConfirmed)
}

// ListReservations returns a page ordered by (starts_at, id). date, when set,
// is a day in the restaurant's timezone.
func (s *ReservationService) ListReservations(ctx context.Context, restaurantID uint, date *models.Date, page, size int) ([]models.Reservation, error) {
	if err := checkPage(page, size); err != nil {
		return nil, err
	}
	restaurant, err := s.restaurants.Get(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	filter := ListFilter{RestaurantID: restaurantID, Page: page, Size: size}
	if date != nil {
		filter.From, filter.To = date.Bounds(restaurant.Location())
	}
	return s.ledger.ListByRestaurant(ctx, filter)
}

func (s *ReservationService) invalidate(ctx context.Context, restaurant models.Restaurant, r models.Reservation) {
	date := models.DateOf(r.StartsAt.In(restaurant.Location()))
	if err := s.cache.Invalidate(ctx, r.RestaurantID, date); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"restaurant_id": r.RestaurantID,
			"date":          date.String(),
		}).WithError(err).Warn("Availability cache invalidation failed")
	}
}

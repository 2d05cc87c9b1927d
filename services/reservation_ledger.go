package services

import (
	"context"
	"errors"
	"time"

	"github.com/yeremiapane/restaurant-reservation/database"
	"github.com/yeremiapane/restaurant-reservation/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationLedger menyimpan reservasi. Reservasi tidak pernah dihapus;
// pembatalan hanyalah perubahan status.
type ReservationLedger struct {
	db *gorm.DB
}

func NewReservationLedger(db *gorm.DB) *ReservationLedger {
	return &ReservationLedger{db: db}
}

// Insert assigns the id and created_at. A rejected write comes back as ErrPersistenceConflict.
func (l *ReservationLedger) Insert(tx *database.Tx, reservation models.Reservation) (models.Reservation, error) {
	reservation.ID = 0
	reservation.StartsAt = reservation.StartsAt.UTC()
	if err := tx.Conn().Omit(clause.Associations).Create(&reservation).Error; err != nil {
		return models.Reservation{}, persistenceError("insert reservation", err)
	}
	return reservation, nil
}

func (l *ReservationLedger) FindByID(ctx context.Context, id uint) (models.Reservation, error) {
	return l.first(l.db.WithContext(ctx), id)
}

// FindForUpdate locks the reservation row until tx ends.
func (l *ReservationLedger) FindForUpdate(tx *database.Tx, id uint) (models.Reservation, error) {
	return l.first(tx.Conn().Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (l *ReservationLedger) first(q *gorm.DB, id uint) (models.Reservation, error) {
	var reservation models.Reservation
	if err := q.First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Reservation{}, ErrReservationNotFound
		}
		return models.Reservation{}, persistenceError("get reservation", err)
	}
	return reservation, nil
}

// UpdateStatus menulis ulang seluruh record. Validasi transisi dilakukan pemanggil.
func (l *ReservationLedger) UpdateStatus(tx *database.Tx, reservation models.Reservation) (models.Reservation, error) {
	res := tx.Conn().Model(&models.Reservation{ID: reservation.ID}).Updates(map[string]interface{}{
		"restaurant_id": reservation.RestaurantID,
		"customer_id":   reservation.CustomerID,
		"table_count":   reservation.TableCount,
		"starts_at":     reservation.StartsAt.UTC(),
		"status":        reservation.Status,
	})
	if res.Error != nil {
		return models.Reservation{}, persistenceError("update reservation", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Reservation{}, ErrReservationNotFound
	}
	return l.first(tx.Conn(), reservation.ID)
}

// ListFilter: zero From/To means no date filter.
type ListFilter struct {
	RestaurantID uint
	From, To     time.Time
	Page, Size   int
}

// ListByRestaurant returns one page ordered by (starts_at, id). No locks.
func (l *ReservationLedger) ListByRestaurant(ctx context.Context, f ListFilter) ([]models.Reservation, error) {
	q := l.db.WithContext(ctx).Where("restaurant_id = ?", f.RestaurantID)
	if !f.From.IsZero() {
		q = q.Where("starts_at >= ? AND starts_at < ?", f.From.UTC(), f.To.UTC())
	}

	var reservations []models.Reservation
	err := q.Order("starts_at ASC").Order("id ASC").
		Limit(f.Size).Offset(f.Page * f.Size).
		Find(&reservations).Error
	if err != nil {
		return nil, persistenceError("list reservations", err)
	}
	return reservations, nil
}

// ListActiveBetween returns non-cancelled reservations with starts_at in [from, to).
func (l *ReservationLedger) ListActiveBetween(ctx context.Context, restaurantID uint, from, to time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := l.db.WithContext(ctx).
		Where("restaurant_id = ? AND starts_at >= ? AND starts_at < ? AND status <> ?",
			restaurantID, from.UTC(), to.UTC(), models.StatusCancelled).
		Order("starts_at ASC").Order("id ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, persistenceError("list active reservations", err)
	}
	return reservations, nil
}

// AppendEvent writes the outbox row for reservation inside tx.
func (l *ReservationLedger) AppendEvent(tx *database.Tx, reservation models.Reservation) error {
	event := models.NewReservationEvent(reservation)
	if err := tx.Conn().Create(&event).Error; err != nil {
		return persistenceError("append reservation event", err)
	}
	return nil
}

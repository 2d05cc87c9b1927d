package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

// EventSink menerima event reservasi dari outbox (websocket hub, RabbitMQ, ...).
type EventSink interface {
	Name() string
	Publish(ctx context.Context, event models.ReservationEvent) error
}

// EventRelay mem-polling tabel reservation_events dan meneruskan event yang belum
// diproses ke semua sink, berurutan menurut id. Event ditandai processed hanya
// setelah semua sink menerimanya (at-least-once).
type EventRelay struct {
	DB        *gorm.DB
	Sinks     []EventSink
	Interval  time.Duration
	BatchSize int
	StopChan  chan struct{}

	stopOnce sync.Once
	done     chan struct{}
}

func NewEventRelay(db *gorm.DB, sinks ...EventSink) *EventRelay {
	return &EventRelay{
		DB:        db,
		Sinks:     sinks,
		Interval:  1 * time.Second,
		BatchSize: 100,
		StopChan:  make(chan struct{}),
	}
}

func (er *EventRelay) Start(ctx context.Context) {
	er.done = make(chan struct{})
	go func() {
		defer close(er.done)
		ticker := time.NewTicker(er.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := er.RelayOnce(ctx); err != nil {
					utils.ErrorLogger.WithError(err).Warn("Event relay batch stopped")
				}
			case <-er.StopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop menghentikan loop dan menunggu batch yang sedang berjalan selesai.
func (er *EventRelay) Stop() {
	er.stopOnce.Do(func() {
		close(er.StopChan)
	})
	if er.done != nil {
		<-er.done
	}
}

// RelayOnce forwards one batch and returns how many events were marked processed.
// The batch stops at the first sink failure so later events are not delivered
// ahead of an earlier one.
func (er *EventRelay) RelayOnce(ctx context.Context) (int, error) {
	var events []models.ReservationEvent
	err := er.DB.WithContext(ctx).
		Where("processed = ?", false).
		Order("id ASC").
		Limit(er.BatchSize).
		Find(&events).Error
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, event := range events {
		for _, sink := range er.Sinks {
			if err := sink.Publish(ctx, event); err != nil {
				utils.ErrorLogger.WithFields(logrus.Fields{
					"event_id": event.ID,
					"type":     event.Type,
					"sink":     sink.Name(),
				}).WithError(err).Warn("Sink rejected reservation event")
				return processed, err
			}
		}

		if err := er.DB.WithContext(ctx).
			Model(&models.ReservationEvent{}).
			Where("id = ?", event.ID).
			Update("processed", true).Error; err != nil {
			return processed, err
		}
		processed++
	}

	if processed > 0 {
		utils.InfoLogger.WithField("count", processed).Debug("Relayed reservation events")
	}
	return processed, nil
}

package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-reservation/cache"
	"github.com/yeremiapane/restaurant-reservation/database"
	"github.com/yeremiapane/restaurant-reservation/live"
	"github.com/yeremiapane/restaurant-reservation/queue"
	"github.com/yeremiapane/restaurant-reservation/router"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

func newServeCmd(load configLoader) *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reservation event relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errors.New("JWT_SECRET is required to serve")
			}
			if cfg.GinMode == gin.ReleaseMode {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := openDB(cfg, migrateUp)
			if err != nil {
				return err
			}
			defer closeDB(db)

			// Redis opsional: tanpa REDIS_ADDR availability selalu dihitung dari DB
			var availabilityCache services.AvailabilityCache = services.NoopCache{}
			redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
			if err != nil {
				utils.ErrorLogger.WithError(err).Warn("Redis unavailable, availability cache disabled")
			} else if redisClient != nil {
				defer redisClient.Close()
				availabilityCache = cache.NewAvailabilityCache(redisClient, cfg.Redis.AvailabilityTTL)
			}

			hub := live.NewHub()
			sinks := []services.EventSink{hub}
			if cfg.AMQP.URL != "" {
				publisher := queue.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Queue)
				defer publisher.Close()
				sinks = append(sinks, publisher)
			}

			relay := services.NewEventRelay(db, sinks...)
			relay.Interval = cfg.Relay.Interval
			relay.BatchSize = cfg.Relay.BatchSize
			relay.Start(ctx)
			defer relay.Stop()

			tx := database.NewTransactor(db, cfg.DB.LockTimeout)
			engine := router.NewEngine(db, router.NewServices(tx, availabilityCache), router.Options{
				CORSOrigin:         cfg.CORSOrigin,
				RateLimitPerSecond: cfg.RateLimitPerSecond,
				Hub:                hub,
				Transactor:         tx,
			})

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           engine,
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			utils.InfoLogger.Println("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	return cmd
}

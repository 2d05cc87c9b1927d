package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/controllers"
	"github.com/yeremiapane/restaurant-reservation/database"
	"github.com/yeremiapane/restaurant-reservation/live"
	"github.com/yeremiapane/restaurant-reservation/middlewares"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/services"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type Options struct {
	CORSOrigin         string
	RateLimitPerSecond int
	Cache              services.AvailabilityCache
	Hub                *live.Hub
	Transactor         *database.Transactor
}

// Services dibangun sekali dan dipakai bersama oleh router dan command serve.
type Services struct {
	Restaurants  *services.RestaurantService
	Reservations *services.ReservationService
	Availability *services.AvailabilityService
	Customers    *services.CustomerDirectory
}

func NewServices(tx *database.Transactor, cache services.AvailabilityCache) *Services {
	db := tx.DB()
	restaurants := services.NewRestaurantStore(db)
	slots := services.NewSlotAccountant()
	ledger := services.NewReservationLedger(db)
	customers := services.NewCustomerDirectory(db)

	return &Services{
		Restaurants:  services.NewRestaurantService(tx, restaurants, slots, cache),
		Reservations: services.NewReservationService(tx, restaurants, slots, ledger, customers, cache),
		Availability: services.NewAvailabilityService(restaurants, ledger, cache),
		Customers:    customers,
	}
}

func SetupRouter(db *gorm.DB, opts Options) *gin.Engine {
	if opts.Transactor == nil {
		opts.Transactor = database.NewTransactor(db, 0)
	}
	if opts.Hub == nil {
		opts.Hub = live.NewHub()
	}
	return NewEngine(db, NewServices(opts.Transactor, opts.Cache), opts)
}

func NewEngine(db *gorm.DB, svc *Services, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.CORSOrigin))
	if opts.RateLimitPerSecond > 0 {
		limiter := middlewares.NewRateLimiter(rate.Limit(opts.RateLimitPerSecond), opts.RateLimitPerSecond)
		r.Use(limiter.RateLimit())
	}

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	restaurantCtrl := controllers.NewRestaurantController(svc.Restaurants, svc.Availability)
	reservationCtrl := controllers.NewReservationController(svc.Reservations)
	customerCtrl := controllers.NewCustomerController(svc.Customers)
	liveCtrl := controllers.NewLiveController(opts.Hub, opts.CORSOrigin)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Rate limiter ketat untuk login
	r.POST("/login", middlewares.NewStrictRateLimiter().RateLimit(), userCtrl.Login)

	r.GET("/restaurants", restaurantCtrl.ListRestaurants)
	r.GET("/restaurants/:restaurant_id", restaurantCtrl.GetRestaurant)
	r.GET("/restaurants/:restaurant_id/availability", restaurantCtrl.GetAvailability)

	// Customer memesan & membatalkan tanpa login
	r.POST("/reservations", reservationCtrl.CreateReservation)
	r.GET("/reservations/:reservation_id", reservationCtrl.GetReservation)
	r.POST("/reservations/:reservation_id/cancel", reservationCtrl.CancelReservation)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.POST("/logout", userCtrl.Logout)

	staff := auth.Group("")
	staff.Use(middlewares.RequireRole(models.RoleStaff))
	{
		staff.GET("/restaurants/:restaurant_id/reservations", reservationCtrl.ListReservations)
		staff.POST("/reservations/:reservation_id/confirm", reservationCtrl.ConfirmReservation)
		staff.POST("/reservations/:reservation_id/cancel", reservationCtrl.CancelReservation)
		staff.POST("/reservations/:reservation_id/status", reservationCtrl.UpdateStatus)
		staff.GET("/customers", customerCtrl.FindCustomer)
	}

	admin := auth.Group("")
	admin.Use(middlewares.RequireRole(models.RoleAdmin))
	{
		admin.POST("/users", userCtrl.Register)
		admin.POST("/restaurants", restaurantCtrl.CreateRestaurant)
		admin.PUT("/restaurants/:restaurant_id", restaurantCtrl.UpdateRestaurant)
	}

	// WebSocket endpoint dengan middleware khusus
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware(), middlewares.RoleCheck())
	{
		wsGroup.GET("/:role", liveCtrl.Connect)
	}

	return r
}

package router

import (
	"net/http"

	"github.com/Cole-Dreyer/Restaurant-Reservation/controllers"
	"github.com/Cole-Dreyer/Restaurant-Reservation/middlewares"
	"github.com/Cole-Dreyer/Restaurant-Reservation/models"
	"github.com/Cole-Dreyer/Restaurant-Reservation/realtime"
	"github.com/Cole-Dreyer/Restaurant-Reservation/services"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"github.com/Cole-Dreyer/Restaurant-Reservation/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options wires the API. Zero values give an open API with in-memory rate
// limiting and no message broker.
type Options struct {
	AuthRequired   bool
	CORSOrigin     string
	RateLimitRPS   float64
	RateLimitBurst int
	CapacityPolicy services.CapacityPolicy
	Rules          validation.Rules

	Hub       *realtime.Hub
	Publisher services.EventPublisher
	Redis     *redis.Client
	Tokens    *utils.TokenManager
}

func SetupRouter(db *gorm.DB, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(utils.RecoveryHandler))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.CORSOrigin))

	// A zero rate disables both the API limiter and the login limiter.
	var strict gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if opts.RateLimitRPS > 0 {
		r.Use(middlewares.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst, opts.Redis).RateLimit())
		strict = middlewares.NewStrictRateLimiter(opts.Redis)
	}

	hub := opts.Hub
	if hub == nil {
		hub = realtime.NewHub()
	}
	tokens := opts.Tokens
	if tokens == nil {
		// Tokens signed with a throwaway secret do not survive a restart.
		tokens = utils.NewTokenManager(uuid.NewString(), 0)
	}
	if opts.Rules.Closing == 0 {
		defaults := validation.DefaultRules()
		defaults.Now = opts.Rules.Now
		if opts.Rules.Location != nil {
			defaults.Location = opts.Rules.Location
		}
		opts.Rules = defaults
	}
	notifier := services.NewNotifier(hub, opts.Publisher)
	reservationSvc := services.NewReservationService(db)
	tableSvc := services.NewTableService(db, opts.CapacityPolicy)

	reservationCtrl := controllers.NewReservationController(reservationSvc, notifier, opts.Rules)
	tableCtrl := controllers.NewTableController(tableSvc, notifier)
	dashboardCtrl := controllers.NewDashboardController(reservationSvc, tableSvc, opts.Rules)
	realtimeCtrl := controllers.NewRealtimeController(hub, opts.CORSOrigin)
	userCtrl := controllers.NewUserController(db, tokens)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	health := func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, gin.H{"message": "pong"})
	}
	r.GET("/ping", health)
	r.GET("/healthz", health)

	authGroup := r.Group("/auth")
	authGroup.POST("/register", strict, userCtrl.Register)
	authGroup.POST("/login", strict, userCtrl.Login)
	authGroup.POST("/logout", middlewares.AuthMiddleware(tokens), userCtrl.Logout)
	authGroup.GET("/profile", middlewares.AuthMiddleware(tokens), userCtrl.GetProfile)

	// ----------------------------------------------------------------
	//                      STAFF ROUTES
	// ----------------------------------------------------------------
	staff := r.Group("/")
	var adminOnly gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if opts.AuthRequired {
		staff.Use(middlewares.AuthMiddleware(tokens))
		adminOnly = middlewares.RequireRole(models.RoleAdmin)
	}

	staff.POST("/reservations", reservationCtrl.CreateReservation)
	staff.GET("/reservations", reservationCtrl.ListReservations)
	staff.GET("/reservations/:reservation_id", reservationCtrl.GetReservation)
	staff.PUT("/reservations/:reservation_id", reservationCtrl.UpdateReservation)
	staff.PUT("/reservations/:reservation_id/status", reservationCtrl.UpdateReservationStatus)

	staff.POST("/tables", adminOnly, tableCtrl.CreateTable)
	staff.GET("/tables", tableCtrl.GetAllTables)
	staff.PUT("/tables/:table_id/seat", tableCtrl.SeatTable)
	staff.DELETE("/tables/:table_id/seat", tableCtrl.FinishTable)

	staff.GET("/dashboard/stats", dashboardCtrl.GetStats)
	staff.GET("/reports/reservations.pdf", dashboardCtrl.ExportPDF)

	if opts.AuthRequired {
		r.GET("/ws", middlewares.WebSocketAuthMiddleware(tokens), realtimeCtrl.Connect)
	} else {
		r.GET("/ws", realtimeCtrl.Connect)
	}

	r.NoRoute(func(c *gin.Context) {
		utils.RespondError(c, utils.NotFound("Path not found: %s", c.Request.URL.Path))
	})

	return r
}

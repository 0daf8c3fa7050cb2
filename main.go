package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Cole-Dreyer/Restaurant-Reservation/broker"
	"github.com/Cole-Dreyer/Restaurant-Reservation/config"
	"github.com/Cole-Dreyer/Restaurant-Reservation/database"
	"github.com/Cole-Dreyer/Restaurant-Reservation/realtime"
	"github.com/Cole-Dreyer/Restaurant-Reservation/router"
	"github.com/Cole-Dreyer/Restaurant-Reservation/services"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"github.com/Cole-Dreyer/Restaurant-Reservation/validation"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFmt)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg.DB)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	if cfg.SeedTables {
		if _, err := database.SeedTables(context.Background(), db); err != nil {
			utils.ErrorLogger.Printf("Error seeding tables: %v", err)
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to resolve restaurant time zone: %v", err)
	}
	rules := validation.DefaultRules()
	rules.Location = loc

	rdb := config.NewRedisClient(cfg)
	if rdb != nil {
		defer rdb.Close()
		utils.InfoLogger.Printf("Using Redis at %s for rate limiting", cfg.RedisAddr)
	}

	opts := router.Options{
		AuthRequired:   cfg.AuthRequired,
		CORSOrigin:     cfg.CORSOrigin,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		CapacityPolicy: services.CapacityPolicy(cfg.CapacityPolicy),
		Rules:          rules,
		Hub:            realtime.NewHub(),
		Redis:          rdb,
	}
	if cfg.JWTSecret != "" {
		opts.Tokens = utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	}
	if cfg.AMQPURL != "" {
		publisher, err := broker.Dial(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			utils.ErrorLogger.Printf("RabbitMQ unavailable, events stay local: %v", err)
		} else {
			defer publisher.Close()
			opts.Publisher = publisher
		}
	}

	monitor := services.NewDashboardMonitor(
		services.NewReservationService(db),
		services.NewNotifier(opts.Hub, opts.Publisher),
	)
	monitor.Interval = cfg.MonitorInterval
	monitor.Location = loc
	monitor.Start()
	defer monitor.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.SetupRouter(db, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Printf("Shutdown error: %v", err)
	}
}

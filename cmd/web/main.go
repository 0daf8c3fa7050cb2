package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Cole-Dreyer/Restaurant-Reservation/client"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"github.com/Cole-Dreyer/Restaurant-Reservation/web"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	utils.InitLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	if os.Getenv("GIN_MODE") == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	loc := time.Local
	if tz := os.Getenv("RESTAURANT_TIMEZONE"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			utils.ErrorLogger.Fatalf("Invalid RESTAURANT_TIMEZONE %q: %v", tz, err)
		}
		loc = l
	}

	port := os.Getenv("WEB_PORT")
	if port == "" {
		port = "3000"
	}

	api := client.FromEnv()
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           web.NewServer(api, loc).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.InfoLogger.Printf("Staff pages on port %s, API at %s", port, api.BaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Printf("Shutdown error: %v", err)
	}
}

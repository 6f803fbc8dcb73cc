package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dukerupert/fintrack/internal/database"
	"github.com/dukerupert/fintrack/internal/email"
	"github.com/dukerupert/fintrack/internal/logging"
	"github.com/dukerupert/fintrack/internal/notify"
	"github.com/dukerupert/fintrack/internal/server"
	"github.com/dukerupert/fintrack/internal/storage"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	logger := logging.Setup(os.Getenv("FINTRACK_LOG_LEVEL"), os.Getenv("FINTRACK_LOG_FORMAT"))

	port := env("FINTRACK_PORT", "8080")
	dbPath := env("FINTRACK_DB_PATH", "fintrack.db")

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("failed to open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	emailClient := email.NewClient(
		os.Getenv("FINTRACK_RESEND_API_KEY"),
		env("FINTRACK_FROM_EMAIL", "reminders@fintrack.local"),
	)
	if !emailClient.Configured() {
		logger.Warn("email sending disabled: FINTRACK_RESEND_API_KEY not set")
	}

	docStorage := storage.NewDocumentStorage(storage.S3Config{
		Endpoint:  os.Getenv("FINTRACK_S3_ENDPOINT"),
		Bucket:    os.Getenv("FINTRACK_S3_BUCKET"),
		Region:    env("FINTRACK_S3_REGION", "auto"),
		AccessKey: os.Getenv("FINTRACK_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("FINTRACK_S3_SECRET_KEY"),
	})
	if !docStorage.Configured() {
		logger.Warn("document uploads disabled: S3 credentials not set")
	}

	srv := server.New(db, emailClient, docStorage, logger)

	scheduler, err := notify.NewScheduler(srv.Dispatcher(), env("FINTRACK_NOTIFY_SCHEDULE", notify.DefaultSchedule), logger)
	if err != nil {
		logger.Error("invalid notification schedule", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Expire stale rate-limit buckets in the background.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			srv.RateLimiter().Cleanup()
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("FinTrack running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"visitor-backend/config"
	"visitor-backend/controllers"
	"visitor-backend/routes"
	"visitor-backend/services"
	"visitor-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	log.Println("✅ Database connection established and migrations applied")

	// Initialize services
	visitorService := services.NewVisitorService(db)
	passService := services.NewPassService(db)
	notificationService := services.NewNotificationService(db)
	lifecycleService := services.NewLifecycleService(db, notificationService)
	reportService := services.NewReportService(db)

	// Initialize controllers
	passController := controllers.NewPassController(visitorService, passService)
	lifecycleController := controllers.NewLifecycleController(lifecycleService, reportService)
	notificationController := controllers.NewNotificationController(notificationService)

	// Build router
	router := routes.SetupRouter(passController, lifecycleController, notificationController)

	// Scheduler: currently-inside sweep + outbox redelivery
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	sweepSpec := utils.EnvOrDefault("SWEEP_CRON", "0 * * * *")
	if _, err := scheduler.AddFunc(sweepSpec, func() {
		count, sent, err := notificationService.NotifyCurrentlyInside()
		if err != nil {
			log.Printf("⚠️  currently-inside sweep failed: %v", err)
			return
		}
		if count > 0 {
			log.Printf("currently-inside sweep: %d inside, mail sent=%v", count, sent)
		}
	}); err != nil {
		log.Fatalf("❌ invalid SWEEP_CRON %q: %v", sweepSpec, err)
	}
	if _, err := scheduler.AddFunc("*/5 * * * *", notificationService.RedeliverPending); err != nil {
		log.Fatalf("❌ failed to schedule outbox redelivery: %v", err)
	}
	scheduler.Start()

	// Port from env (prefer), fallback to 8080
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("✅ Server stopped gracefully")
}

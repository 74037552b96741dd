// File: spotly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spotly/config"
	"spotly/database"
	reservationRepoPkg "spotly/database/repository/reservation"
	slotRepoPkg "spotly/database/repository/slot"
	spaceRepoPkg "spotly/database/repository/space"
	"spotly/handlers"
	"spotly/middleware"
	"spotly/routes"
	"spotly/services/reservation"
	"spotly/services/schedule"
	"spotly/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.RegisterMetrics()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	spaceRepo := spaceRepoPkg.NewMongoSpaceRepo()
	reservationRepo := reservationRepoPkg.NewMongoReservationRepo()

	if err := slotRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure slot indexes: %v", err)
	}
	if err := reservationRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure reservation indexes: %v", err)
	}

	// services.
	listCache := schedule.NewListCache(utils.GetCacheClient(), time.Duration(config.AppConfig.SlotCacheTTL)*time.Second)
	schedulingService := schedule.NewDefaultSchedulingService(slotRepo, spaceRepo, listCache)
	reservationService := reservation.NewDefaultReservationService(reservationRepo, spaceRepo, schedulingService)

	slotHandler := handlers.NewSlotHandler(schedulingService, spaceRepo)
	reservationHandler := handlers.NewReservationHandler(reservationService)

	// Register routes.
	routes.RegisterRoutes(router, slotHandler, reservationHandler)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

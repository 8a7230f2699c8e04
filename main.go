// File: slotwise/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotwise/config"
	"slotwise/cron"
	"slotwise/database"
	availabilityRepo "slotwise/database/repository/availability"
	schedulerRepo "slotwise/database/repository/scheduler"
	"slotwise/handlers"
	"slotwise/middleware"
	"slotwise/routes"
	"slotwise/services/booking"
	"slotwise/services/provider"
	"slotwise/services/tasks"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// repositories.
	var (
		bookingRepo schedulerRepo.SchedulerRepository
		availRepo   availabilityRepo.AvailabilityRepository
		mongoClient *mongo.Client
	)
	if config.UsesMemoryStore() {
		logger.Warn("Using in-memory store, data is lost on restart")
		bookingRepo = schedulerRepo.NewMemorySchedulerRepo()
		availRepo = availabilityRepo.NewMemoryAvailabilityRepo()
	} else {
		database.InitDB()
		mongoClient = database.MongoClient
		db := database.Database()

		mongoBookings := schedulerRepo.NewMongoSchedulerRepo(db)
		if err := mongoBookings.EnsureIndexes(rootCtx); err != nil {
			logger.Fatal("Failed to create booking indexes", zap.Error(err))
		}
		mongoAvailability := availabilityRepo.NewMongoAvailabilityRepo(db)
		if err := mongoAvailability.EnsureIndexes(rootCtx); err != nil {
			logger.Fatal("Failed to create availability indexes", zap.Error(err))
		}
		bookingRepo, availRepo = mongoBookings, mongoAvailability
	}

	engine := &booking.DefaultSchedulingEngine{
		Repo:         bookingRepo,
		Availability: availRepo,
		Logger:       logger.Named("booking"),
		Options: booking.Options{
			MaxRangeDays:    config.AppConfig.MaxSlotRangeDays,
			MaxHistoryDepth: config.AppConfig.HistoryMaxDepth,
		},
	}
	providerService, err := provider.NewDefaultProviderService(availRepo, nil, logger.Named("provider"))
	if err != nil {
		logger.Fatal("Failed to build provider service", zap.Error(err))
	}

	// redis-backed collaborators are optional.
	var (
		redisClients []*redis.Client
		asynqClient  *asynq.Client
		worker       *asynq.Server
	)
	if config.AppConfig.RedisAddr != "" {
		utils.InitRedis()
		redisClients = []*redis.Client{utils.GetCacheClient(), utils.GetLockClient()}

		slotCache := utils.NewRedisSlotCache(utils.GetCacheClient(), config.AppConfig.SlotCacheTTL)
		engine.Cache = slotCache
		providerService.Cache = slotCache
		engine.Locker = utils.NewRedisProviderLocker(utils.GetLockClient(), config.AppConfig.BookingLockTTL, config.AppConfig.BookingLockWait)

		queueOpts := asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisReminderQueueDB,
		}
		asynqClient = asynq.NewClient(queueOpts)
		engine.Reminders = tasks.NewAsynqReminderScheduler(asynqClient, config.AppConfig.ReminderLead)
		worker = cron.StartReminderWorker(queueOpts, bookingRepo, logger.Named("reminders"))
	}
	utils.StartHealthMonitor(rootCtx, redisClients, mongoClient)

	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))

	routes.RegisterRoutes(router, &handlers.HandlerBundle{
		Booking:           handlers.NewBookingHandler(engine),
		Provider:          handlers.NewProviderHandler(providerService),
		JWTSecret:         []byte(config.AppConfig.JWTSecret),
		MaxRequestsPerMin: config.AppConfig.MaxRequestsPerMin,
		CORSOrigins:       config.AppConfig.CORSOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", config.AppConfig.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	if asynqClient != nil {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("Failed to close task client", zap.Error(err))
		}
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("Failed to disconnect MongoDB", zap.Error(err))
	}
	logger.Info("Server exited")
}

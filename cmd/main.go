package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"reviewhub/internal/app/reviews/config"
	"reviewhub/internal/app/reviews/entity"
	"reviewhub/internal/app/reviews/handler"
	"reviewhub/internal/app/reviews/infrastructure/messaging"
	"reviewhub/internal/app/reviews/processor"
	"reviewhub/internal/app/reviews/repository"
	"reviewhub/internal/app/reviews/service"
	"reviewhub/internal/app/reviews/util"
	"reviewhub/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init("reviewhub", logLevel)

	logstashAddr := os.Getenv("LOGSTASH_ADDR")
	if logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, "reviewhub", logLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
		}
	}

	// MongoDB - хранилище отзывов
	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().
		Str("database", cfg.MongoDB.Database).
		Msg("Connected to MongoDB")

	mongoDB := mongoClient.Database(cfg.MongoDB.Database)

	// PostgreSQL - площадки дистрибуции и настройки синхронизации
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().Msg("Connected to PostgreSQL")

	if err := db.AutoMigrate(&entity.Endpoint{}, &entity.SyncSettings{}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Redis - кэш опубликованных отзывов и OAuth токены
	redisClient, err := util.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Msg("Connected to Redis")

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Msg("Initialized Kafka producer")

	reviewRepo := repository.NewReviewRepository(mongoDB)
	endpointRepo := repository.NewEndpointRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	tokenRepo := repository.NewRedisTokenRepository(redisClient)

	publishedCache := util.NewPublishedCache(redisClient, cfg.Redis.CacheTTL)

	var source service.ReviewSource
	if cfg.Google.Provider == "business_profile" {
		source = service.NewBusinessProfileClient(
			cfg.Google.AccountID,
			cfg.Google.LocationID,
			tokenRepo,
			cfg.Distribution.TimeoutSec,
		)
	} else {
		source = service.NewPlacesClient(
			cfg.Google.PlacesAPIKey,
			cfg.Google.PlaceID,
			cfg.Distribution.TimeoutSec,
		)
	}
	logger.Info().Str("provider", source.Provider()).Msg("Configured review source")

	oauthClient := service.NewGoogleOAuthClient(
		cfg.Google.ClientID,
		cfg.Google.ClientSecret,
		cfg.Google.RedirectURI,
	)

	reviewService := service.NewReviewService(reviewRepo, publishedCache, kafkaProducer)
	distributionService := service.NewDistributionService(
		reviewRepo,
		endpointRepo,
		publishedCache,
		kafkaProducer,
		cfg.Distribution.TimeoutSec,
	)
	endpointService := service.NewEndpointService(endpointRepo, cfg.API.MasterKey)
	syncService := service.NewSyncService(source, reviewService, distributionService, settingsRepo, kafkaProducer)

	sessionMiddleware := handler.NewSessionMiddleware(cfg.JWT.Secret)
	apiKeyMiddleware := handler.NewAPIKeyMiddleware(endpointService)

	reviewHandler := handler.NewReviewHandler(reviewService, distributionService, source)
	endpointHandler := handler.NewEndpointHandler(endpointService)
	syncHandler := handler.NewSyncHandler(syncService)
	authHandler := handler.NewAuthHandler(oauthClient, tokenRepo, cfg.JWT.Secret, cfg.JWT.SessionTTL)

	router := handler.SetupRoutes(
		reviewHandler,
		endpointHandler,
		syncHandler,
		authHandler,
		sessionMiddleware,
		apiKeyMiddleware,
	)

	// Планировщик периодической синхронизации
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()

	scheduler := processor.NewCronScheduler(syncService)
	if err := scheduler.Start(schedulerCtx, cfg.Sync.CronSchedule, cfg.Sync.RunOnStart); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start sync scheduler")
	}
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting ReviewHub")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down ReviewHub...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("ReviewHub stopped gracefully")
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err = mongo.Connect(ctx, clientOptions)
		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer pingCancel()

			if err = client.Ping(pingCtx, nil); err == nil {
				return client, nil
			}
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else {
				pingErr := sqlDB.Ping()
				if pingErr != nil {
					err = pingErr
				} else {
					sqlDB.SetMaxOpenConns(25)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(5 * time.Minute)
					sqlDB.SetConnMaxIdleTime(1 * time.Minute)
					return db, nil
				}
			}
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}

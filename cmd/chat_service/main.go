package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "classifieds_service/internal/catalog/app"
	catalogrepo "classifieds_service/internal/catalog/repository"
	"classifieds_service/internal/conversation/app"
	"classifieds_service/internal/conversation/domain"
	"classifieds_service/internal/conversation/repository"
	"classifieds_service/internal/conversation/router"
	"classifieds_service/pkg"
	"classifieds_service/pkg/config"
	"classifieds_service/pkg/database"
	"classifieds_service/pkg/logger"
	testtool "classifieds_service/pkg/test_tool"
	"classifieds_service/pkg/token"

	_ "classifieds_service/cmd/chat_service/docs" // 引入生成的 Swagger 文档

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatService, config.EnvConfig.ChatServiceLogPath)
	defer logger.Log.Sync()

	cfg := config.LoadConfig[config.Chat](config.EnvConfig.ChatService, config.EnvConfig.ChatServiceYAMLPath)
	token.SetSecret(cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Mongo (對話與訊息)
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.MongoSQL.User, cfg.MongoSQL.Password, cfg.MongoSQL.Host, cfg.MongoSQL.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    uri,
			RetryCount:    cfg.MongoSQL.RetryCount,
			RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval) * time.Second,
		},
		cfg.MongoSQL.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s:%d]", cfg.MongoSQL.Host, cfg.MongoSQL.Port)),
			zap.Error(err),
		)
	}
	defer mongo.Close(context.Background())

	convRepo := repository.NewMongoConversationRepository(mongo.Database)
	msgRepo := repository.NewMongoMessageRepository(mongo.Database)
	if err := convRepo.EnsureIndexes(ctx); err != nil {
		logger.Log.Fatal("ensure conversation indexes", zap.Error(err))
	}

	// 2. PostgreSQL (users / listings 只讀)
	sqlParams := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	pgConn := database.Connection{
		ConnectStr:    sqlParams,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	}
	pool, err := database.NewDatabaseConnection(pgConn)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s:%d]", cfg.PostgreSQL.Host, cfg.PostgreSQL.Port)),
			zap.Error(err),
		)
	}
	defer pool.Close()

	gormDB, err := database.NewPGConnection(pgConn)
	if err != nil {
		logger.Log.Fatal("Unable to open gorm connection", zap.Error(err))
	}

	listingRepo := catalogrepo.NewListingRepo(gormDB)
	if config.IsLocal() {
		if err := listingRepo.AutoMigrate(); err != nil {
			logger.Log.Fatal("auto migrate listings", zap.Error(err))
		}
	}

	// 3. Redis (display name cache + pub/sub)
	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.Addr, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}
	defer redisClient.Close()

	directory := catalogapp.NewDirectory(
		catalogrepo.NewUserRepository(pool),
		listingRepo,
		database.NewRedisRepository[domain.User](redisClient, catalogapp.UserCachePrefix),
		cfg.Notifier.UserCacheTTL,
	)

	// 4. Kafka activity events, optional
	events := repository.NewNopEventPublisher()
	if brokers := pkg.Unique(cfg.Kafka.Brokers); len(brokers) > 0 {
		writer, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
			Brokers:       brokers,
			Topic:         cfg.Kafka.Topic,
			RetryCount:    cfg.Kafka.RetryCount,
			RetryInterval: time.Duration(cfg.Kafka.RetryInterval),
		})
		if err != nil {
			logger.Log.Warn("kafka unavailable, activity events disabled", zap.Error(err))
		} else {
			events = repository.NewKafkaEventPublisher(writer)
		}
	}
	defer events.Close()

	// 5. Realtime notifier
	var broker app.Broker
	if cfg.Notifier.UseRedis {
		broker = repository.NewRedisPubSub(redisClient)
	}
	hub := app.NewHub(broker, cfg.Notifier.BufferSize)
	if err := hub.Run(ctx); err != nil {
		logger.Log.Fatal("subscribe conversation channels", zap.Error(err))
	}

	// 6. UseCases
	convUC := app.NewConversationUseCase(convRepo, msgRepo, directory, events)
	msgUC := app.NewMessageUseCase(convUC, msgRepo, hub)

	// 7. gRPC health
	grpcServer, healthServer := database.NewHealthServer(config.EnvConfig.ChatService)
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("Failed to listen Port(%s): ", cfg.GRPCPort), zap.Error(err))
	}
	go func() {
		logger.Log.Info(fmt.Sprintf("gRPC health listening on : %s", cfg.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Log.Error("grpc server stopped", zap.Error(err))
		}
	}()

	testtool.StartPprof()

	// 8. Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.ChatServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file, // 将日志输出到文件
	}))

	router.RegisterRoutes(r, app.NewHTTPHandler(convUC, msgUC), app.NewChatWebsocketHandler(convUC, msgUC, hub))

	healthServer.SetServingStatus(config.EnvConfig.ChatService, healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		logger.Log.Info("shutting down chat service")
		healthServer.SetServingStatus(config.EnvConfig.ChatService, healthpb.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		if err := r.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Log.Warn("fiber shutdown", zap.Error(err))
		}
		grpcServer.GracefulStop()
	}()

	port := ":" + cfg.Port
	logger.Log.Info(fmt.Sprintf("Chat Service listening on %s", port))
	if err := r.Listen(port); err != nil {
		logger.Log.Fatal("Failed to start Fiber", zap.Error(err))
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dealshare/dealshare/internal/auth"
	"github.com/dealshare/dealshare/internal/config"
	httpAPI "github.com/dealshare/dealshare/internal/http"
	"github.com/dealshare/dealshare/internal/http/controller"
	"github.com/dealshare/dealshare/internal/http/middleware"
	"github.com/dealshare/dealshare/internal/logger"
	"github.com/dealshare/dealshare/internal/media"
	"github.com/dealshare/dealshare/internal/metrics"
	"github.com/dealshare/dealshare/internal/repository/sql"
	"github.com/dealshare/dealshare/internal/service"
	sqspkg "github.com/dealshare/dealshare/internal/sqs"
	"github.com/gin-gonic/gin"
)

const outboxPollInterval = 2 * time.Second

func main() {
	logger.InitJSONLogger()

	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	ctx := context.Background()
	db, err := sql.StartDB(ctx, conf.Database)
	handleErr("starting database", err)

	// Create repositories
	productRepository := sql.NewProductRepository(db)
	userRepository := sql.NewUserRepository(db)
	wishlistRepository := sql.NewWishlistRepository(db)
	eventRepository := sql.NewEventRepository(db)
	unitOfWork := sql.NewUnitOfWork(db)

	// Initialize AWS SQS for the deal lifecycle events
	sqsClient, err := sqspkg.NewClient(ctx, conf.AWS.Region, conf.AWS.Endpoint)
	handleErr("loading AWS config", err)
	sqsPublisher := sqspkg.NewPublisher(sqsClient, conf.AWS.SQSQueueURL)

	// Image backing store: a media service when configured, in-memory otherwise
	var mediaStore media.Store
	if conf.Media.BaseURL != "" {
		mediaStore = media.NewHTTPStore(conf.Media.BaseURL, conf.Media.APIKey)
	} else {
		mediaStore = media.NewMemoryStore()
	}

	// Create services
	submissionService := service.NewSubmissionService(productRepository, unitOfWork, mediaStore)
	moderationEngine := service.NewModerationEngine(productRepository, unitOfWork, mediaStore)
	engagementTracker := service.NewEngagementTracker(productRepository, unitOfWork)
	catalogService := service.NewCatalogService(productRepository, userRepository)
	wishlistService := service.NewWishlistService(productRepository, wishlistRepository)

	// Start outbox worker to publish pending events
	outboxWorker := service.NewOutboxWorker(eventRepository, sqsPublisher, outboxPollInterval)
	go outboxWorker.Start(ctx)

	// Start HTTP server
	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	mw := middleware.New(auth.NewVerifier(conf.JWTSecret))
	ctr := controller.New()
	productCtr := controller.NewProductController(submissionService, moderationEngine, engagementTracker, catalogService)
	wishlistCtr := controller.NewWishlistController(wishlistService)
	httpServer := gin.Default()
	httpServer = httpAPI.InitRouter(httpServer, mw, ctr, productCtr, wishlistCtr)

	go func() {
		if err := httpServer.Run(":" + conf.HTTPServer.Port); err != nil {
			handleErr("listening to HTTP requests", err)
		}
	}()

	// Start metrics server
	metrics.StartMetricsServer(conf)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutting down gracefully...")
	outboxWorker.Stop()
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}

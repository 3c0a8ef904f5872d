package main

import (
	"context"
	"medichat-service/internal/app/config"
	"medichat-service/internal/app/delivery/http/controllers"
	"medichat-service/internal/app/delivery/http/middlewares"
	"medichat-service/internal/app/delivery/http/routers"
	"medichat-service/internal/app/drivers/database"
	"medichat-service/internal/app/drivers/logger"
	"medichat-service/internal/app/drivers/messaging"
	"medichat-service/internal/app/services/core/approvals"
	"medichat-service/internal/app/services/core/consultations"
	"medichat-service/internal/app/services/core/contextextract"
	"medichat-service/internal/app/services/core/diagnostics"
	"medichat-service/internal/app/services/core/emergency"
	"medichat-service/internal/app/services/core/translation"
	"medichat-service/internal/app/services/shared/jwtmanager"
	"medichat-service/internal/app/services/shared/knowledge"
	"medichat-service/internal/app/services/shared/locker"
	"medichat-service/internal/app/services/shared/modelgateway"
	"medichat-service/internal/app/services/shared/notifier"
	redisrepo "medichat-service/internal/app/services/shared/redis"
	"medichat-service/internal/app/services/shared/stats"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewLogrusLogger(internalConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	defer zapLogger.Sync()

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrapingTheApp(config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}, log)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap config.Bootstrap, log *logrus.Logger) {
	// Redis
	redisRepository := redisrepo.NewRedisRepository(bootstrap.Redis)
	sessionRepository := consultations.NewSessionRedisRepository(redisRepository)
	lockService := locker.NewLockService(redisRepository, bootstrap.Logger)

	// Knowledge snapshot
	knowledgeStore, err := knowledge.NewCSVKnowledgeStore(bootstrap.InternalConfig, bootstrap.Logger)
	if err != nil {
		log.Fatalf("Failed to load knowledge snapshot: %v", err)
	}

	// Model gateway
	ollamaClient := modelgateway.NewOllamaClient(bootstrap.DriverConfig.Ollama.BaseUrl)
	modelGateway := modelgateway.NewModelGateway(ollamaClient, bootstrap.InternalConfig, bootstrap.Logger)

	// Notifications
	queuePublisher, err := notifier.NewQueuePublisher(bootstrap.RabbitMQ, bootstrap.InternalConfig.RabbitMQ.NotificationQueue, bootstrap.Logger)
	if err != nil {
		log.Fatalf("Failed to set up notification queue: %v", err)
	}
	dispatcher := notifier.NewNotificationDispatcher(queuePublisher, bootstrap.Logger)

	// Translation is shared by the consultation pipeline and the
	// approval delivery path.
	translationCoordinator := translation.NewTranslationCoordinator(modelGateway, bootstrap.InternalConfig, bootstrap.Logger)

	// Approvals
	approvalRepository := approvals.NewApprovalMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	approvalUsecase := approvals.NewApprovalUsecase(
		approvalRepository,
		sessionRepository,
		translationCoordinator,
		dispatcher,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)

	// Consultation pipeline
	statsRecorder := stats.NewStatsRecorder()
	emergencyDetector := emergency.NewEmergencyDetector(bootstrap.Logger)
	contextExtractor := contextextract.NewContextExtractor(bootstrap.Logger)
	diagnosticPipeline := diagnostics.NewDiagnosticPipeline(modelGateway, knowledgeStore, bootstrap.InternalConfig, bootstrap.Logger)
	consultationUsecase := consultations.NewConsultationUsecase(
		sessionRepository,
		lockService,
		emergencyDetector,
		contextExtractor,
		translationCoordinator,
		diagnosticPipeline,
		approvalUsecase,
		statsRecorder,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)

	// Auth
	jwtManager, err := jwtmanager.NewJWTManager(bootstrap.InternalConfig, bootstrap.Logger)
	if err != nil {
		log.Fatalf("Failed to set up JWT manager: %v", err)
	}

	// Middlewares
	appMiddlewares := middlewares.NewMiddlewares(bootstrap.Logger, jwtManager, bootstrap.InternalConfig)
	bootstrap.Router.Use(appMiddlewares.RequestIDMiddleware)
	bootstrap.Router.Use(appMiddlewares.Logging(bootstrap.Logger))

	// Controllers
	consultationController := controllers.NewConsultationController(bootstrap.Logger, consultationUsecase, bootstrap.InternalConfig)
	approvalController := controllers.NewApprovalController(bootstrap.Logger, approvalUsecase)
	notificationController := controllers.NewNotificationController(bootstrap.Logger, dispatcher)
	healthController := controllers.NewHealthController(bootstrap.Logger, statsRecorder, bootstrap.InternalConfig)

	routers.SetupRoutes(
		bootstrap.Router,
		bootstrap.InternalConfig,
		appMiddlewares,
		consultationController,
		approvalController,
		notificationController,
		healthController,
	)
}

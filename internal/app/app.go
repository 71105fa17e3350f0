package app

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/RoberSamy04/natours/internal/config"
	"github.com/RoberSamy04/natours/internal/email"
	"github.com/RoberSamy04/natours/internal/handlers"
	"github.com/RoberSamy04/natours/internal/imageprocessor"
	"github.com/RoberSamy04/natours/internal/logger"
	"github.com/RoberSamy04/natours/internal/middleware"
	"github.com/RoberSamy04/natours/internal/repositories"
	"github.com/RoberSamy04/natours/internal/routes"
	"github.com/RoberSamy04/natours/internal/services"
	"github.com/RoberSamy04/natours/internal/storage"
	"github.com/RoberSamy04/natours/internal/validator"
	"github.com/RoberSamy04/natours/pkg/apperrors"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	apperrors.SetDebug(!cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	stripe.Key = cfg.Stripe.SecretKey

	logger.Info("Connecting to MongoDB...")
	client, err := repositories.Connect(cfg.Database.URI)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer repositories.Disconnect(client)
	logger.Info("Database connected", "name", cfg.Database.Name)

	db := client.Database(cfg.Database.Name)

	if err := repositories.EnsureIndexes(db); err != nil {
		logger.Fatal("Failed to create database indexes", "error", err)
	}

	ginRouter, _ := SetupRouter(cfg, db)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter собирает полностью сконфигурированный gin.Engine.
// Контейнер сервисов возвращается для интеграционных тестов.
func SetupRouter(cfg *config.Config, db *mongo.Database) (*gin.Engine, *services.ServiceContainer) {
	storageInstance, err := storage.NewLocalStorage(cfg.Upload.BasePath)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}

	emailProvider := initEmailProvider(cfg)

	// 1. Репозитории
	userRepo := repositories.NewUserRepository(db)
	tourRepo := repositories.NewTourRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)

	// 2. Сервисы
	serviceContainer := &services.ServiceContainer{
		AuthService:    services.NewAuthService(userRepo, emailProvider),
		UserService:    services.NewUserService(userRepo),
		TourService:    services.NewTourService(tourRepo, reviewRepo, userRepo),
		ReviewService:  services.NewReviewService(reviewRepo, bookingRepo, tourRepo),
		BookingService: services.NewBookingService(bookingRepo, tourRepo),
		UploadService:  services.NewUploadService(imageprocessor.NewProcessor(cfg.Upload.ImageQuality), storageInstance),
		EmailService:   emailProvider,
		Storage:        storageInstance,
	}

	// 3. Хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	// 4. Gin
	ginRouter := initializeGinRouter(cfg)

	// 5. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers, userRepo)

	return ginRouter, serviceContainer
}

// initEmailProvider собирает SMTP провайдер. Без SMTP-настроек (dev
// окружение) письма уходят в лог вместо сети.
func initEmailProvider(cfg *config.Config) email.Provider {
	templates, err := email.NewTemplateManager(cfg.Email.TemplatesDir)
	if err != nil {
		logger.Fatal("Failed to load email templates", "error", err)
	}

	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP is not configured, emails will be logged instead of sent")
		return email.NewLogProvider(templates)
	}

	provider, err := email.NewSMTPProvider(email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, templates)
	if err != nil {
		logger.Fatal("Failed to initialize SMTP provider", "error", err)
	}
	return provider
}

func initializeHandlers(sc *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:    handlers.NewAuthHandler(baseHandler, sc.AuthService),
		UserHandler:    handlers.NewUserHandler(baseHandler, sc.UserService, sc.UploadService),
		TourHandler:    handlers.NewTourHandler(baseHandler, sc.TourService, sc.UploadService),
		ReviewHandler:  handlers.NewReviewHandler(baseHandler, sc.ReviewService),
		BookingHandler: handlers.NewBookingHandler(baseHandler, sc.BookingService),
		ViewHandler:    handlers.NewViewHandler(baseHandler, sc.TourService, sc.BookingService),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	}))
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
	}))

	// Ограничение размера тела запроса: защита от раздутых JSON
	router.MaxMultipartMemory = 10 << 20

	router.LoadHTMLGlob("web/templates/*.html")
	router.Static("/img", cfg.Upload.BasePath)

	return router
}

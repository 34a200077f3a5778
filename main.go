package main

import (
	"database/sql"
	"log"

	"mailbot/internal/ai"
	"mailbot/internal/config"
	"mailbot/internal/gmail"
	"mailbot/internal/handler"
	"mailbot/internal/logger"
	"mailbot/internal/notify"
	"mailbot/internal/repository"
	"mailbot/internal/repository/file"
	"mailbot/internal/repository/postgres"
	"mailbot/internal/router"
	"mailbot/internal/scheduler"
	"mailbot/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatal("Config validation failed:", err)
	}

	// Initialize logger
	appLogger := logger.New()

	// Initialize repository (postgres when DATABASE_URL is set, signed
	// credential files otherwise)
	var userRepo repository.UserRepository

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		if err := postgres.InitializeDatabase(db); err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		userRepo = postgres.NewPostgresUserRepository(db, cfg.SigningSecret, appLogger)

		appLogger.Info("Using PostgreSQL user repository")
	} else {
		userRepo, err = file.NewFileUserRepository(cfg.CredentialsDir, cfg.SigningSecret, appLogger)
		if err != nil {
			log.Fatal("Failed to initialize credential store:", err)
		}

		appLogger.Info("Using file user repository in", cfg.CredentialsDir)
	}

	// Initialize clients
	mailClient := gmail.NewFetcher(appLogger)
	aiClient := ai.NewAIClient(cfg, appLogger)

	var appNotifier service.Notifier
	if cfg.SMTPAddr != "" {
		appNotifier = notify.NewSMTPNotifier(cfg.SMTPAddr, cfg.SMTPUsername, cfg.SMTPPassword, cfg.NotifyFrom, appLogger)
		appLogger.Info("Using SMTP notifier via", cfg.SMTPAddr)
	} else {
		appNotifier = notify.NewResendNotifier(cfg.ResendAPIKey, cfg.NotifyFrom, appLogger)
		appLogger.Info("Using Resend notifier")
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, gmail.FetchUserInfo, appLogger)
	emailService := service.NewEmailService(mailClient, aiClient, appNotifier, cfg.MaxEmails, appLogger)
	digestService := service.NewDigestService(userRepo, mailClient, aiClient, appNotifier, gmail.FetchUserInfo, appLogger)

	// Start the digest scheduler in a separate goroutine
	digestJob := scheduler.NewDigestJob(userRepo, digestService, appLogger)
	go digestJob.Start()
	defer digestJob.Stop()

	// Initialize handlers
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	authHandler := handler.NewAuthHandler(authService, cfg, appLogger)
	emailHandler := handler.NewEmailHandler(emailService, digestService, appLogger)

	// Setup routes
	router.SetupRoutes(e, authHandler, emailHandler)

	// Start server
	appLogger.Info("Starting server on port", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		appLogger.Error("Failed to start server:", err)
	}
}

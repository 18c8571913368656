package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/coded/configs"
	"github.com/anjiri1684/coded/database"
	"github.com/anjiri1684/coded/handlers"
	"github.com/anjiri1684/coded/jobs"
	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/notifications"
	"github.com/anjiri1684/coded/routes"
	"github.com/anjiri1684/coded/services"
	"github.com/anjiri1684/coded/websocket"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", "error", err)
	}
	if cfg.SeedCatalog {
		if err := database.SeedCatalog(db); err != nil {
			log.Fatal("failed to seed catalog", "error", err)
		}
	}

	hub := websocket.NewHub(log)
	rewards := services.NewRewardService(db, log, hub)
	progress := services.NewProgressService(db, log, rewards)

	var mailer services.Mailer
	if email := notifications.NewEmailService(cfg, log); email != nil {
		mailer = email
	}

	var cld *cloudinary.Cloudinary
	var uploader services.FileUploader
	if cfg.CloudinaryURL != "" {
		if cld, err = cloudinary.NewFromURL(cfg.CloudinaryURL); err != nil {
			log.Fatal("failed to initialize cloudinary", "error", err)
		}
		if uploader, err = services.NewCloudinaryUploader(cfg.CloudinaryURL, services.CertificateFolder); err != nil {
			log.Fatal("failed to initialize certificate uploads", "error", err)
		}
	}
	certificates := services.NewCertificateService(db, log, cfg.AppName, uploader, nil)
	if cfg.CertificatesEnabled {
		if uploader == nil {
			log.Fatal("CERTIFICATES_ENABLED requires CLOUDINARY_URL")
		}
		progress.OnModuleCompleted(certificates.OnModuleCompleted)
	}

	auth := services.NewAuthService(db, log, cfg.JWTSecret, cfg.SessionTTL, mailer)

	scheduler := cron.New()
	if err := jobs.Schedule(scheduler, cfg, auth, log); err != nil {
		log.Fatal("failed to schedule jobs", "error", err)
	}
	scheduler.Start()
	log.Info("cron jobs scheduled", "streak", cfg.StreakJobSpec, "session_purge", cfg.SessionPurgeJobSpec)

	h := handlers.New(handlers.Deps{
		Auth:         auth,
		Profile:      services.NewProfileService(db, log),
		Learning:     services.NewLearningService(db, log),
		Progress:     progress,
		Games:        services.NewGameService(db, log, rewards),
		Rewards:      rewards,
		Dashboard:    services.NewDashboardService(db, log),
		Projects:     services.NewProjectService(db, log),
		Certificates: certificates,
		Hub:          hub,
		Cloudinary:   cld,
		CookieSecure: cfg.CookieSecure,
	}, log)

	app := fiber.New(fiber.Config{
		Prefork:       false,
		AppName:       cfg.AppName,
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  handlers.ErrorHandler(log),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: cfg.CORSAllowOrigins != "*",
		ExposeHeaders:    "Content-Length",
		MaxAge:           86400,
	}))
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "success", "message": "Welcome to " + cfg.AppName + " API"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.Setup(app, h)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		<-scheduler.Stop().Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("server is running", "addr", cfg.Addr())
	if err := app.Listen(cfg.Addr()); err != nil {
		log.Fatal("server failed to start", "error", err)
	}
}

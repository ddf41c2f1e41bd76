package main

import (
	"coachhub/config"
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/relay"
	authRoutes "coachhub/routers/authRoutes"
	coachRoutes "coachhub/routers/coachRoutes"
	contentRoutes "coachhub/routers/contentRoutes"
	gameRoutes "coachhub/routers/gameRoutes"
	lineRoutes "coachhub/routers/lineRoutes"
	missionRoutes "coachhub/routers/missionRoutes"
	notificationRoutes "coachhub/routers/notificationRoutes"
	pageRoutes "coachhub/routers/pageRoutes"
	reportRoutes "coachhub/routers/reportRoutes"
	scheduleRoutes "coachhub/routers/scheduleRoutes"
	sportRoutes "coachhub/routers/sportRoutes"
	studentRoutes "coachhub/routers/studentRoutes"
	systemRoutes "coachhub/routers/systemRoutes"
	"coachhub/utils"
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"golang.org/x/sync/errgroup"
)

// NewApp builds the fiber application with every route registered.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    10 << 20,
	})

	app.Use(middleware.Recovery())
	app.Use(middleware.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization,Accept-Language,X-Request-ID,X-Line-Signature",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))
	app.Use(middleware.RateLimiter(200, time.Minute))

	app.Static("/uploads", config.AppConfig.UploadDir)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Use(middleware.Locale("/api", "/uploads", "/health"))

	authRoutes.SetupAuthRoutes(app)
	coachRoutes.SetupCoachRoutes(app)
	coachRoutes.SetupCertificationRoutes(app)
	studentRoutes.SetupStudentRoutes(app)
	studentRoutes.SetupEvaluationRoutes(app)
	studentRoutes.SetupBadgeRoutes(app)
	studentRoutes.SetupAttendanceRoutes(app)
	sportRoutes.SetupSportRoutes(app)
	missionRoutes.SetupMissionRoutes(app)
	scheduleRoutes.SetupScheduleRoutes(app)
	contentRoutes.SetupContentRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)
	reportRoutes.SetupReportRoutes(app)
	lineRoutes.SetupLineRoutes(app)
	gameRoutes.SetupGameRoutes(app)
	systemRoutes.SetupSystemRoutes(app)
	pageRoutes.SetupPageRoutes(app)

	return app
}

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	if err := utils.InitLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.SyncLogger()

	utils.SetLocation(cfg.Timezone)
	database.ConnectDb()
	defer database.Close()

	utils.InitMailer(cfg)
	utils.InitLine(cfg)
	utils.InitPayments(cfg)

	if cfg.CronEnabled {
		scheduler, err := utils.InitializeCertificationScheduler(cfg.CertCheckSpec)
		if err != nil {
			utils.Log.Fatalf("Failed to start certification scheduler: %v", err)
		}
		defer func() {
			<-scheduler.Stop().Done()
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := NewApp()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.Log.Infof("Server is running on port %s", cfg.Port)
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		return relay.ListenAndServe(gctx, ":"+cfg.RelayPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.Log.Info("Shutting down...")
		return app.ShutdownWithTimeout(10 * time.Second)
	})

	if err := g.Wait(); err != nil {
		utils.Log.Errorf("Server stopped: %v", err)
	}
}

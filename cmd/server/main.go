package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/hr-onboarding/internal/config"
	"github.com/fadilmartias/hr-onboarding/internal/domain/fiber/handler"
	"github.com/fadilmartias/hr-onboarding/internal/middleware"
	"github.com/fadilmartias/hr-onboarding/internal/repository"
	"github.com/fadilmartias/hr-onboarding/internal/retry"
	"github.com/fadilmartias/hr-onboarding/internal/seed"
	"github.com/fadilmartias/hr-onboarding/internal/service"
	"github.com/fadilmartias/hr-onboarding/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/joho/godotenv"
)

type routes interface {
	RegisterRoutes(router fiber.Router)
}

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	extractionConfig := config.LoadExtractionConfig()

	app := fiber.New(fiber.Config{
		AppName:   appConfig.Name,
		BodyLimit: int(appConfig.MaxUploadBytes) + 1<<20,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}
			return ctx.Status(code).JSON(fiber.Map{"success": false, "message": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.BaseURL,
		AllowCredentials: appConfig.BaseURL != "",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	db, err := repository.Connect(config.LoadDBConfig(), appConfig.IsProduction())
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer repository.Close(db)

	userRepo := repository.NewUserRepository(db)
	jobRepo := repository.NewJobPostingRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	extractionJobRepo := repository.NewExtractionJobRepository(db)
	parsedResumeRepo := repository.NewParsedResumeRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	onboardingRepo := repository.NewOnboardingRepository(db)
	chatLogRepo := repository.NewChatLogRepository(db)

	catalogPath := config.LoadCatalogConfig().Path
	if catalog, err := seed.Load(catalogPath); err != nil {
		log.Printf("Skipping onboarding catalog %s: %v", catalogPath, err)
	} else if err := catalog.Apply(ctx, onboardingRepo); err != nil {
		log.Fatalf("Could not seed onboarding catalog: %v", err)
	}

	var embedder usecase.Embedder
	gemini, err := service.NewGeminiService(ctx, config.LoadGeminiConfig(), config.LoadChatConfig())
	if err != nil {
		log.Printf("Gemini disabled: %v", err)
	} else {
		embedder = gemini
	}
	chat := service.NewChatService(config.LoadChatConfig(), gemini)
	log.Printf("Chat provider: %s", chat.Provider())

	onboardingUc := usecase.NewOnboardingUsecase(userRepo, jobRepo, onboardingRepo)
	gateway := repository.NewGateway(db, onboardingUc, extractionConfig.RawPayloadWarnBytes)
	authUc := usecase.NewAuthUsecase(userRepo)
	ingestionUc := usecase.NewIngestionUsecase(
		service.NewExtractionService(extractionConfig),
		extractionJobRepo,
		documentRepo,
		applicationRepo,
		jobRepo,
		gateway,
		pollPolicy(extractionConfig),
		usecase.UploadLimits{
			Dir:         appConfig.UploadDir,
			MaxBytes:    appConfig.MaxUploadBytes,
			MaxPDFPages: appConfig.MaxPDFPages,
		},
	)

	store := session.New(session.Config{
		Expiration:     appConfig.SessionTTL,
		CookieHTTPOnly: true,
		CookieSecure:   appConfig.IsProduction(),
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
	auth := middleware.NewAuth(store, authUc)
	app.Use(auth.Authenticate())
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	handlers := []routes{
		handler.NewAuthHandler(authUc, auth),
		handler.NewJobHandler(usecase.NewJobUsecase(jobRepo, parsedResumeRepo, embedder)),
		handler.NewResumeHandler(ingestionUc),
		handler.NewApplicationHandler(usecase.NewApplicationUsecase(applicationRepo, parsedResumeRepo, gateway)),
		handler.NewOnboardingHandler(onboardingUc),
		handler.NewChatHandler(usecase.NewChatUsecase(chat, chatLogRepo, onboardingUc)),
	}
	for _, h := range handlers {
		h.RegisterRoutes(app)
	}

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			log.Printf("Active goroutines: %d", runtime.NumGoroutine())
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down")
		if err := app.ShutdownWithTimeout(extractionConfig.PollMaxDelay + 30*time.Second); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	log.Println("Server running on ", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}
}

func pollPolicy(cfg *config.ExtractionConfig) retry.Policy {
	return retry.Policy{
		Delay:       cfg.PollDelay,
		Multiplier:  cfg.PollMultiplier,
		MaxDelay:    cfg.PollMaxDelay,
		MaxAttempts: cfg.PollMaxAttempts,
	}
}

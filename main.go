package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	"github.com/finquest/finquest/config"
	"github.com/finquest/finquest/database"
	"github.com/finquest/finquest/database/repositories"
	"github.com/finquest/finquest/handlers"
	"github.com/finquest/finquest/logger"
	"github.com/finquest/finquest/middleware"
	"github.com/finquest/finquest/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := config.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	slog.Info("Starting FinQuest API",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbStartTime := time.Now()
	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		logger.LogError("Failed to connect to database", err)
		os.Exit(-1)
	}
	defer db.Close()

	if err := db.CreateSchema(ctx); err != nil {
		logger.LogError("Failed to create schema", err)
		os.Exit(-1)
	}
	logger.LogSystem("Database ready",
		slog.Duration("startup_time", time.Since(dbStartTime)))

	bunDB := db.BunDB()
	userRepo := repositories.NewUserRepository(bunDB)
	questRepo := repositories.NewQuestRepository(bunDB)
	userQuestRepo := repositories.NewUserQuestRepository(bunDB)
	achievementRepo := repositories.NewAchievementRepository(bunDB)
	gameRepo := repositories.NewGameRepository(bunDB)
	videoRepo := repositories.NewVideoRepository(bunDB)

	hasher := services.NewArgon2idHasher()
	tokens := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL())
	rewards := services.NewRewardService(userRepo, achievementRepo)

	webApp := &handlers.WebApp{
		Config:       cfg,
		DB:           db,
		AuthService:  services.NewAuthService(userRepo, hasher, tokens, cfg.Auth.GoogleClientID),
		QuestService: services.NewQuestService(bunDB, questRepo, userQuestRepo, rewards),
		UserService:  services.NewUserService(bunDB, userRepo, achievementRepo, rewards),
		GameService:  services.NewGameService(bunDB, gameRepo, rewards),
		VideoService: services.NewVideoService(videoRepo),
		ChatService:  services.NewChatService(cfg.Chat),
		Version:      version,
	}

	app := fiber.New(fiber.Config{
		AppName:      "FinQuest API",
		ServerHeader: "FinQuest",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(middleware.LoggingMiddleware())

	setupRoutes(app, webApp, tokens)

	g, gctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		slog.Info("Starting server", slog.String("address", cfg.Server.Address()))
		return app.Listen(cfg.Server.Address())
	})

	g.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sig:
			slog.Info("Shutting down...")
		case <-gctx.Done():
			return gctx.Err()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server exited with error", slog.Any("error", err))
	}
	slog.Info("Shutdown complete")
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App, webApp *handlers.WebApp, tokens *services.TokenService) {
	authRequired := middleware.AuthRequired(tokens)

	app.Get("/health", handlers.HealthCheck(webApp))
	app.Get("/health/db", handlers.HealthCheckDB(webApp))

	auth := app.Group("/auth")
	auth.Post("/signup", handlers.Signup(webApp))
	auth.Post("/login", handlers.Login(webApp))
	auth.Get("/callback/google", handlers.GoogleCallback(webApp))

	quests := app.Group("/quests")
	quests.Get("/user/current", authRequired, handlers.ListUserQuests(webApp))
	quests.Get("/user/completed", authRequired, handlers.ListCompletedQuests(webApp))
	quests.Post("/start/:id", authRequired, handlers.StartQuest(webApp))
	quests.Put("/:id/progress", authRequired, handlers.UpdateQuestProgress(webApp))
	quests.Get("/", handlers.ListQuests(webApp))
	quests.Get("/:id", handlers.GetQuest(webApp))
	quests.Post("/", authRequired, handlers.CreateQuest(webApp))
	quests.Put("/:id", authRequired, handlers.UpdateQuest(webApp))
	quests.Delete("/:id", authRequired, handlers.DeleteQuest(webApp))

	users := app.Group("/users", authRequired)
	users.Get("/me", handlers.GetProfile(webApp))
	users.Get("/me/achievements", handlers.ListUserAchievements(webApp))
	users.Get("/me/videos", handlers.ListSavedVideos(webApp))
	users.Get("/leaderboard", handlers.Leaderboard(webApp))

	achievements := app.Group("/achievements", authRequired)
	achievements.Get("/", handlers.ListAchievements(webApp))
	achievements.Post("/:id/grant", handlers.GrantAchievement(webApp))

	games := app.Group("/games", authRequired)
	games.Get("/", handlers.ListGames(webApp))
	games.Get("/uncompleted", handlers.ListUncompletedGames(webApp))
	games.Get("/storyline", handlers.ListStorylineGames(webApp))
	games.Post("/:id/complete", handlers.RecordGamePlay(webApp))

	videos := app.Group("/videos", authRequired)
	videos.Get("/", handlers.ListVideos(webApp))
	videos.Post("/:id/save", handlers.SaveVideo(webApp))

	app.Post("/chat", authRequired, handlers.Chat(webApp))
}

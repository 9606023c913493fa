package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"soundscope/config"
	"soundscope/controllers/account"
	"soundscope/controllers/analysis"
	"soundscope/logger"
	"soundscope/middleware"
	"soundscope/services/spotify"
)

func init() {
	env := os.Getenv("ENV")
	if env == "" {
		log.Println("==⚠️ WARNING: env variable not set. Using dev ⚠️==")
		env = "dev"
	}
	err := godotenv.Load(".env." + env)
	if err != nil {
		log.Println("Error reading the env file")
		log.Println(err)
	}
}

func status(ctx *fiber.Ctx) error {
	return ctx.Status(http.StatusOK).JSON(fiber.Map{
		"status":    "Backend is running!",
		"endpoints": []string{"/login", "/callback", "/analyze", "/user_dashboard"},
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	zlog := logger.NewZapSentryLogger(&logger.Options{RequestID: "startup"})
	defer func() {
		_ = zlog.Sync()
	}()

	// redis is optional: it only backs the app-token cache. Without it
	// every anonymous /analyze pays one extra token round trip.
	var redisClient *redis.Client
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisOpts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Printf("Error parsing redis url")
			panic(err)
		}
		redisClient = redis.NewClient(redisOpts)
		if redisClient.Ping(context.Background()).Err() != nil {
			log.Printf("\n[main] [error] - Could not connect to redis. Are you sure redis is configured correctly?")
			panic("Could not connect to redis. Please check your redis configuration.")
		}
		log.Println("Connected to redis")
	} else {
		log.Printf("\n[main] [warning] - REDIS_URL not set. Running without the app token cache\n")
	}

	spotifyService := spotify.NewService(cfg, redisClient)
	authMiddleware := middleware.NewAuthMiddleware(cfg)
	userController := account.NewUserController(cfg)
	analysisController := analysis.NewController(spotifyService, cfg, zlog)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}), authMiddleware.LogIncomingRequest)

	app.Get("/", status)
	app.Get("/login", userController.Login)
	app.Get("/callback", userController.Callback)
	app.Post("/analyze", authMiddleware.ResolveAccessToken, analysisController.AnalyzePlaylist)
	app.Get("/user_dashboard", authMiddleware.ResolveAccessToken, analysisController.UserDashboard)

	port := fmt.Sprintf(":%s", cfg.Port)
	zlog.Info("server starting", zap.String("port", port))
	log.Printf("Server is up and running on port: %s", port)

	if err := app.Listen(port); err != nil {
		log.Printf("Error starting server: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"app/config"
	"app/database"
	"app/routes"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	// Load configuration
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	cacheTTL := 300
	if raw := os.Getenv("SUMMARY_CACHE_TTL_SECONDS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			cacheTTL = parsed
		}
	}

	// Set up the application configuration
	config.AppConfig.JWTSecret = jwtSecret
	config.AppConfig.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	config.AppConfig.CacheTTL = time.Duration(cacheTTL) * time.Second

	// Initialize database
	database.Connect(databaseURL)
	defer database.Close()

	// Initialize the Redis response cache (optional)
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		database.ConnectCache(redisURL)
		defer database.CloseCache()
	} else {
		log.Println("REDIS_URL is not set, summary caching disabled")
	}

	app := fiber.New()

	// Add CORS middleware
	app.Use(cors.New())

	// Basic per-client rate limit
	maxRequests := 120
	if raw := os.Getenv("RATE_LIMIT_PER_MINUTE"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			maxRequests = parsed
		}
	}
	app.Use(limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: time.Minute,
	}))

	// Setup routes
	routes.SetupRoutes(app)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	log.Fatal(app.Listen(":" + port))
}

package main

import (
	"context"
	"time"

	"animal_identifier_go_backend/cmd/api/config"
	"animal_identifier_go_backend/internal/api"
	"animal_identifier_go_backend/internal/database"
	"animal_identifier_go_backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found")
	}

	cfg := config.NewConfig()

	if !cfg.HasValidAPIKey() {
		log.Warn().Msg("GEMINI_API_KEY is not configured; identification requests will be rejected")
	}

	ctx := context.Background()

	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create GenAI client")
	}
	defer genaiClient.Close()

	if database.Configured() {
		if err := database.InitDB(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
	} else {
		log.Info().Msg("No database configured; analytics events are log-only")
	}

	// Initialize internal services
	model := services.NewIdentificationModel(genaiClient, cfg.ModelName)
	visionService := services.NewVisionService(model, cfg.VisionTimeout)
	parser := services.NewResponseParser()
	usageTracker := services.NewUsageTracker(cfg.DailyFreeLimit, cfg.UsageRetention, cfg.UsagePruneInterval)
	analyticsService := services.NewAnalyticsService(database.DB)

	r := gin.Default()

	// CORS middleware configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Device-ID", "X-Admin-Key"},
		MaxAge:       12 * time.Hour,
	}))

	api.SetupRoutes(r, cfg, visionService, parser, usageTracker, analyticsService)

	log.Info().Str("port", cfg.Port).Str("model", cfg.ModelName).Msg("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

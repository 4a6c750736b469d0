package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"animal_identifier_go_backend/cmd/api/config"
	apperrors "animal_identifier_go_backend/internal/errors"
	"animal_identifier_go_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, identifier services.AnimalIdentifier, parser *services.ResponseParser, usageTracker *services.UsageTracker, analyticsService *services.AnalyticsService) {
	r.GET("/health", healthHandler)

	api := r.Group("/api")
	{
		api.POST("/identify", identifyHandler(cfg, identifier, parser, usageTracker))
		api.GET("/user/status", userStatusHandler(usageTracker))
		api.POST("/admin/reset-credits", adminResetHandler(cfg, usageTracker))
		api.POST("/track", trackHandler(analyticsService))
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func identifyHandler(cfg *config.Config, identifier services.AnimalIdentifier, parser *services.ResponseParser, usageTracker *services.UsageTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		deviceID := c.GetHeader("X-Device-ID")

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cfg.MaxImageBytes)

		var request struct {
			Image string `json:"image"`
		}
		if err := c.ShouldBindJSON(&request); err != nil || request.Image == "" {
			apperrors.HandleError(c, apperrors.New400Error("No image provided", "Attach a base64-encoded image and try again."))
			return
		}

		// Quota is checked before anything is sent upstream.
		if !usageTracker.Allow(deviceID) {
			log.Info().Str("device_id", deviceID).Msg("Device hit daily limit")
			message := fmt.Sprintf("You've used all %d free identifications today. Try again tomorrow or upgrade to Premium!", usageTracker.Limit())
			apperrors.HandleError(c, apperrors.New402Error(message).WithMeta(gin.H{"creditsRemaining": 0}))
			return
		}

		if !cfg.HasValidAPIKey() {
			apperrors.HandleError(c, apperrors.New500Error(
				"Server configuration error",
				"AI service not configured. Please contact support.",
				errors.New("GEMINI_API_KEY is missing or set to the placeholder value"),
			))
			return
		}

		imageBytes, err := base64.StdEncoding.DecodeString(request.Image)
		if err != nil {
			apperrors.HandleError(c, apperrors.New400Error("Invalid image encoding", "The image must be base64-encoded JPEG data."))
			return
		}

		log.Info().Str("device_id", deviceID).Int("image_bytes", len(imageBytes)).Msg("Calling vision model")

		result, err := identifier.IdentifyAnimal(c.Request.Context(), imageBytes)
		if err != nil {
			apperrors.HandleError(c, translateVisionError(err, time.Since(startTime)))
			return
		}

		structured := parser.Parse(result.Text)

		// Usage is only recorded once the answer is confirmed, so a failed
		// remote call never burns a credit.
		usageTracker.RecordUsage(deviceID)

		processingTime := time.Since(startTime)
		log.Info().Str("device_id", deviceID).Dur("processing_time", processingTime).Msg("Identification complete")

		c.JSON(http.StatusOK, gin.H{
			"success":          true,
			"result":           result.Text,
			"structured":       structured,
			"creditsRemaining": usageTracker.Remaining(deviceID),
			"tier":             "free",
			"processingTime":   processingTime.Milliseconds(),
			"usage":            result.Usage,
		})
	}
}

// translateVisionError maps remote failure categories onto user-facing
// responses; the underlying detail is logged, never returned.
func translateVisionError(err error, elapsed time.Duration) *apperrors.CustomError {
	switch {
	case errors.Is(err, services.ErrRemoteRateLimited):
		return apperrors.New429Error(err)
	case errors.Is(err, services.ErrRemoteAuthInvalid):
		return apperrors.New500Error("Configuration error", "Server API key is invalid. Please contact support.", err)
	case errors.Is(err, services.ErrEmptyRemoteResponse):
		return apperrors.New500Error("No content in response", "The AI could not identify the animal. Please try with a clearer image.", err)
	case errors.Is(err, services.ErrRemoteUnavailable):
		return apperrors.New503Error(err)
	default:
		return apperrors.New500Error("AI service error", "Failed to process image. Please try again.", err).
			WithMeta(gin.H{"processingTime": elapsed.Milliseconds()})
	}
}

func userStatusHandler(usageTracker *services.UsageTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.GetHeader("X-Device-ID")
		limit := usageTracker.Limit()

		if deviceID == "" {
			c.JSON(http.StatusOK, gin.H{
				"tier":    "free",
				"credits": limit,
				"used":    0,
				"message": "Using anonymous free tier",
			})
			return
		}

		usage := usageTracker.GetUsage(deviceID)
		remaining := usageTracker.Remaining(deviceID)

		message := fmt.Sprintf("%d identifications remaining today", remaining)
		if usage.Count >= limit {
			message = "Daily limit reached"
		}

		c.JSON(http.StatusOK, gin.H{
			"tier":      usage.Tier,
			"credits":   limit,
			"used":      usage.Count,
			"remaining": remaining,
			"resetTime": "Daily at midnight UTC",
			"message":   message,
		})
	}
}

func adminResetHandler(cfg *config.Config, usageTracker *services.UsageTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminKey := c.GetHeader("X-Admin-Key")

		if cfg.AdminKey == "" || adminKey != cfg.AdminKey {
			apperrors.HandleError(c, apperrors.New401Error())
			return
		}

		usageTracker.ResetAll()
		log.Info().Msg("All device usage reset")

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "All usage data reset successfully",
		})
	}
}

func trackHandler(analyticsService *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Event  string          `json:"event"`
			Data   json.RawMessage `json:"data"`
			UserID string          `json:"userId"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.New400Error("Invalid event payload", "Send a JSON body with event, data and userId."))
			return
		}

		analyticsService.Track(request.UserID, request.Event, request.Data)

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

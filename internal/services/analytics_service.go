package services

import (
	"encoding/json"

	"animal_identifier_go_backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AnalyticsService records client-side tracking events. Events are always
// logged; they are additionally persisted when a database is configured.
// Recording never fails the caller.
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService accepts a nil db, in which case events are log-only.
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

func (as *AnalyticsService) Track(userID, event string, payload json.RawMessage) {
	eventID := uuid.New()

	entry := log.Info().
		Str("event_id", eventID.String()).
		Str("user_id", userID).
		Str("event", event)
	if len(payload) > 0 {
		entry = entry.RawJSON("data", payload)
	}
	entry.Msg("Analytics event")

	if as.db == nil {
		return
	}

	record := models.TrackEvent{
		EventID: eventID,
		UserID:  userID,
		Event:   event,
		Payload: payload,
	}
	if err := as.db.Create(&record).Error; err != nil {
		log.Error().Err(err).Str("event", event).Msg("Failed to persist analytics event")
	}
}

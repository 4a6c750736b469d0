package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyticsService_LogOnlyWithoutDatabase(t *testing.T) {
	service := NewAnalyticsService(nil)

	assert.NotPanics(t, func() {
		service.Track("user-1", "identify_tapped", json.RawMessage(`{"screen":"camera"}`))
		service.Track("", "app_opened", nil)
	})
}

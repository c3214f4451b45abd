package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEventPublisher(t *testing.T) {
	publisher := NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))

	published := NewFormPublishedEvent(7, "Survey", "user-1", 3, time.Now())
	require.NoError(t, publisher.Publish(context.Background(), published))
	require.NoError(t, publisher.Publish(context.Background(), NewFormUnpublishedEvent(7, "Survey", "user-1")))

	events := publisher.GetPublishedEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventFormPublished, events[0].Type)
	assert.Equal(t, EventFormUnpublished, events[1].Type)

	publisher.ClearEvents()
	assert.Empty(t, publisher.GetPublishedEvents())
	assert.NoError(t, publisher.Close())
}

func TestEventEnvelope(t *testing.T) {
	score := 8.0
	event := NewResponseSubmittedEvent(ResponseSubmittedEvent{
		ResponseID:           11,
		FormID:               7,
		CompletionPercentage: 100,
		TotalScore:           &score,
	})

	assert.True(t, strings.HasPrefix(event.ID, "evt_"))
	assert.Equal(t, "form-service", event.Source)
	assert.Equal(t, "1.0", event.Version)

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "response.submitted", decoded["type"])
	payload := decoded["data"].(map[string]any)
	assert.Equal(t, 11.0, payload["response_id"])
	assert.Equal(t, 8.0, payload["total_score"])
	assert.NotContains(t, payload, "respondent_id")
}

func TestGenerateEventID_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateEventID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

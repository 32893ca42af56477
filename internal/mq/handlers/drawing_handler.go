package handlers

import (
	"context"
	"encoding/json"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"strconv"
	"takeoff-engine/internal/database/postgres/repositories"
	"takeoff-engine/internal/mq"
	"takeoff-engine/internal/mq/messages"
	"time"
)

type DrawingHandler struct {
	drawingRepository *repositories.DrawingRepository
	topicManager      *mq.TopicManager
	client            *mq.Client
	logger            zerolog.Logger
}

func NewDrawingHandler(
	topicManager *mq.TopicManager,
	client *mq.Client,
	drawingRepository *repositories.DrawingRepository,
	logger zerolog.Logger,
) *DrawingHandler {
	return &DrawingHandler{
		drawingRepository: drawingRepository,
		topicManager:      topicManager,
		client:            client,
		logger:            logger,
	}
}

func (h *DrawingHandler) HandleMessage(client mqtt.Client, msg mqtt.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := msg.Topic()
	payload := msg.Payload()

	if len(payload) == 0 {
		return
	}

	rawID, err := h.topicManager.ExtractDrawingId(topic, mq.DrawingSettingsTopicTemplate)
	if err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Msg("Invalid drawing settings topic")
		return
	}

	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		h.logger.Error().Err(err).
			Str("drawing_id", rawID).
			Msg("Invalid drawing id in settings topic")
		return
	}
	drawingID := uint(id)

	var message messages.DrawingSettingsMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Str("payload", string(payload)).
			Msg("Could not parse drawing settings")
		return
	}

	if message.Source == mq.MessageSource {
		return
	}

	if err := message.Validate(); err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Msg("Invalid drawing settings")
		return
	}

	if err := h.drawingRepository.UpdateQuantityMultiplier(ctx, drawingID, *message.Data.QuantityMultiplier); err != nil {
		h.logger.Error().Err(err).
			Uint("drawing_id", drawingID).
			Msg("Error updating quantity multiplier")
		return
	}

	eventTopic := h.topicManager.GetEventTopic("drawings", "updated")
	if err := h.client.PublishJSON(eventTopic, map[string]interface{}{
		"drawing_id":          drawingID,
		"quantity_multiplier": *message.Data.QuantityMultiplier,
	}); err != nil {
		h.logger.Error().Err(err).
			Uint("drawing_id", drawingID).
			Msg("Error publishing drawing update")
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"strconv"
	"takeoff-engine/internal/models"
	"takeoff-engine/internal/mq"
	"takeoff-engine/internal/mq/messages"
	"takeoff-engine/internal/services"
	"time"
)

type VariationHandler struct {
	variationService *services.VariationService
	topicManager     *mq.TopicManager
	client           *mq.Client
	logger           zerolog.Logger
}

func NewVariationHandler(
	topicManager *mq.TopicManager,
	client *mq.Client,
	variationService *services.VariationService,
	logger zerolog.Logger,
) *VariationHandler {
	return &VariationHandler{
		variationService: variationService,
		topicManager:     topicManager,
		client:           client,
		logger:           logger,
	}
}

func (h *VariationHandler) HandleMessage(client mqtt.Client, msg mqtt.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := msg.Topic()
	payload := msg.Payload()

	if len(payload) == 0 {
		return
	}

	variationID, err := h.topicManager.ExtractVariationId(topic)
	if err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Msg("Invalid variation topic")
		return
	}

	var message messages.VariationPreviewMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Str("payload", string(payload)).
			Msg("Could not parse variation preview request")
		return
	}

	if message.Source == mq.MessageSource {
		return
	}

	if err := message.Validate(); err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Msg("Invalid variation preview request")
		return
	}

	result, err := h.preview(ctx, variationID, message.Data)
	if err != nil {
		h.logger.Error().Err(err).
			Str("variation_id", variationID).
			Msg("Error computing variation preview")
		return
	}

	eventTopic := h.topicManager.GetEventTopic("variations", "previewed")
	if err := h.client.PublishJSON(eventTopic, map[string]interface{}{
		"variation_id": variationID,
		"preview":      result,
	}); err != nil {
		h.logger.Error().Err(err).
			Str("variation_id", variationID).
			Msg("Error publishing variation preview")
	}
}

func (h *VariationHandler) preview(ctx context.Context, variationID string, data messages.VariationPreviewDto) (*services.PreviewResult, error) {
	if len(data.Items) == 0 {
		id, err := strconv.ParseUint(variationID, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid variation id %q: %w", variationID, err)
		}
		return h.variationService.PreviewSaved(ctx, uint(id))
	}

	items := make([]services.PreviewRequestItem, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, services.PreviewRequestItem{
			ConditionID: item.ConditionID,
			Quantity:    item.Quantity,
		})
	}

	if data.Save {
		variation := &models.Variation{
			ProjectID: data.ProjectID,
			Name:      data.Name,
		}
		if id, err := strconv.ParseUint(variationID, 10, 32); err == nil {
			variation.ID = uint(id)
		}
		if err := h.variationService.SaveDraft(ctx, variation, items); err != nil {
			return nil, err
		}
	}

	return h.variationService.Preview(ctx, items)
}

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"takeoff-engine/internal/mq"
	"takeoff-engine/internal/mq/messages"
	"takeoff-engine/internal/services"
	"time"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
	topicManager   *mq.TopicManager
	client         *mq.Client
	logger         zerolog.Logger
}

func NewCatalogHandler(
	topicManager *mq.TopicManager,
	client *mq.Client,
	catalogService *services.CatalogService,
	logger zerolog.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		topicManager:   topicManager,
		client:         client,
		logger:         logger,
	}
}

func (h *CatalogHandler) HandleMessage(client mqtt.Client, msg mqtt.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := msg.Topic()
	payload := msg.Payload()

	if len(payload) == 0 {
		return
	}

	var message messages.CatalogRequestMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Str("payload", string(payload)).
			Msg("Could not parse catalog request")
		return
	}

	if message.Source == mq.MessageSource {
		return
	}

	if err := message.Validate(); err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Msg("Invalid catalog request")
		return
	}

	result, err := h.resolve(ctx, message.Data)
	if err != nil {
		h.logger.Error().Err(err).
			Str("request_id", message.Data.RequestID).
			Str("action", string(message.Data.Action)).
			Msg("Error handling catalog request")
		return
	}

	resultTopic := h.topicManager.GetEventTopic("catalog", "results")
	if err := h.client.PublishJSON(resultTopic, map[string]interface{}{
		"request_id": message.Data.RequestID,
		"action":     message.Data.Action,
		"result":     result,
	}); err != nil {
		h.logger.Error().Err(err).
			Str("request_id", message.Data.RequestID).
			Msg("Error publishing catalog result")
	}
}

func (h *CatalogHandler) resolve(ctx context.Context, req messages.CatalogRequestDto) (interface{}, error) {
	switch req.Action {
	case messages.CatalogActionSearchMaterials:
		return h.catalogService.SearchMaterials(ctx, req.Query, req.LocationID, req.Limit)
	case messages.CatalogActionSearchLabour:
		return h.catalogService.SearchLabourCodes(ctx, req.Query, req.Limit)
	case messages.CatalogActionMaterialLineItem:
		return h.catalogService.MaterialLineItem(ctx, req.MaterialID, req.LocationID)
	case messages.CatalogActionLabourLineItem:
		return h.catalogService.LabourLineItem(ctx, req.CodeID)
	}
	return nil, fmt.Errorf("unknown catalog action %q", req.Action)
}

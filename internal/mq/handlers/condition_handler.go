package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"strconv"
	"takeoff-engine/internal/mq"
	"takeoff-engine/internal/mq/messages"
	"takeoff-engine/internal/services"
	"time"
)

type ConditionHandler struct {
	conditionService   *services.ConditionService
	measurementService *services.MeasurementService
	topicManager       *mq.TopicManager
	client             *mq.Client
	logger             zerolog.Logger
}

func NewConditionHandler(
	topicManager *mq.TopicManager,
	client *mq.Client,
	conditionService *services.ConditionService,
	measurementService *services.MeasurementService,
	logger zerolog.Logger,
) *ConditionHandler {
	return &ConditionHandler{
		conditionService:   conditionService,
		measurementService: measurementService,
		topicManager:       topicManager,
		client:             client,
		logger:             logger,
	}
}

func (h *ConditionHandler) HandleMessage(client mqtt.Client, msg mqtt.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := msg.Topic()
	payload := msg.Payload()

	if len(payload) == 0 {
		return
	}

	rawID, err := h.topicManager.ExtractConditionId(topic)
	if err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Msg("Invalid condition topic")
		return
	}

	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		h.logger.Error().Err(err).
			Str("condition_id", rawID).
			Msg("Invalid condition id in topic")
		return
	}
	conditionID := uint(id)

	var message messages.ConditionMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Str("payload", string(payload)).
			Msg("Could not parse condition message")
		return
	}

	if message.Source == mq.MessageSource {
		return
	}

	if err := message.Validate(); err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Msg("Invalid condition message")
		return
	}

	if err := h.apply(ctx, conditionID, message.Data); err != nil {
		h.logger.Error().Err(err).
			Uint("condition_id", conditionID).
			Str("action", string(message.Data.Action)).
			Msg("Error handling condition action")
	}
}

func (h *ConditionHandler) apply(ctx context.Context, conditionID uint, data messages.ConditionDto) error {
	switch data.Action {
	case messages.ConditionActionRecalculate:
		if data.DrawingID == nil {
			return fmt.Errorf("recalculate action requires drawing_id")
		}
		return h.measurementService.RecalculateCosts(ctx, *data.DrawingID)

	case messages.ConditionActionGrid:
		grid, err := h.conditionService.Grid(ctx, conditionID)
		if err != nil {
			return err
		}
		topic := h.topicManager.GetEventTopic("conditions", "grid")
		return h.client.PublishJSON(topic, grid)

	case messages.ConditionActionSaveLineItems:
		if err := h.conditionService.SaveLineItems(ctx, conditionID, data.LineItems); err != nil {
			return err
		}
		grid, err := h.conditionService.Grid(ctx, conditionID)
		if err != nil {
			return err
		}
		topic := h.topicManager.GetEventTopic("conditions", "grid")
		return h.client.PublishJSON(topic, grid)
	}

	return fmt.Errorf("unknown condition action %q", data.Action)
}

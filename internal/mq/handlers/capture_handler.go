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

type CaptureHandler struct {
	captureService *services.CaptureService
	topicManager   *mq.TopicManager
	client         *mq.Client
	logger         zerolog.Logger
}

func NewCaptureHandler(
	topicManager *mq.TopicManager,
	client *mq.Client,
	captureService *services.CaptureService,
	logger zerolog.Logger,
) *CaptureHandler {
	return &CaptureHandler{
		captureService: captureService,
		topicManager:   topicManager,
		client:         client,
		logger:         logger,
	}
}

func (h *CaptureHandler) HandleMessage(client mqtt.Client, msg mqtt.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := msg.Topic()
	payload := msg.Payload()

	if len(payload) == 0 {
		return
	}

	drawingID, err := h.topicManager.ExtractDrawingId(topic, mq.CaptureTopicTemplate)
	if err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Msg("Invalid capture topic")
		return
	}

	var message messages.CaptureEventMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Str("payload", string(payload)).
			Msg("Could not parse capture event")
		return
	}

	if message.Source == mq.MessageSource {
		return
	}

	if err := message.Validate(); err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Msg("Invalid capture event")
		return
	}

	if err := h.dispatch(ctx, drawingID, message.Data); err != nil {
		h.logger.Error().Err(err).
			Str("session_id", message.Data.SessionID).
			Str("event", string(message.Data.Event)).
			Msg("Error handling capture event")
	}
}

func (h *CaptureHandler) dispatch(ctx context.Context, drawingID string, event messages.CaptureEventDto) error {
	switch event.Event {
	case messages.CaptureEventStart:
		id, err := strconv.ParseUint(drawingID, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid drawing id %q: %w", drawingID, err)
		}
		sessionID, err := h.captureService.StartSession(ctx, uint(id))
		if err != nil {
			return err
		}
		topic := h.topicManager.GetEventTopic("sessions", "started")
		return h.client.PublishJSON(topic, map[string]interface{}{
			"session_id": sessionID,
			"drawing_id": uint(id),
		})

	case messages.CaptureEventEnd:
		h.captureService.EndSession(event.SessionID)
		return nil

	case messages.CaptureEventClick:
		return h.captureService.Click(event.SessionID, *event.Point, event.Shift)

	case messages.CaptureEventDoubleClick:
		return h.captureService.DoubleClick(event.SessionID)

	case messages.CaptureEventMove:
		return h.captureService.MouseMove(event.SessionID, *event.Point, event.Shift)

	case messages.CaptureEventEnter:
		return h.captureService.PressEnter(event.SessionID)

	case messages.CaptureEventEscape:
		return h.captureService.PressEscape(event.SessionID)

	case messages.CaptureEventRightClick, messages.CaptureEventUndo:
		return h.captureService.Undo(event.SessionID)

	case messages.CaptureEventSetMode:
		return h.captureService.SetMode(event.SessionID, event.Mode)
	}

	return fmt.Errorf("unknown capture event %q", event.Event)
}

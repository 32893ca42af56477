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

type CalibrationHandler struct {
	calibrationService *services.CalibrationService
	captureService     *services.CaptureService
	topicManager       *mq.TopicManager
	logger             zerolog.Logger
}

func NewCalibrationHandler(
	topicManager *mq.TopicManager,
	calibrationService *services.CalibrationService,
	captureService *services.CaptureService,
	logger zerolog.Logger,
) *CalibrationHandler {
	return &CalibrationHandler{
		calibrationService: calibrationService,
		captureService:     captureService,
		topicManager:       topicManager,
		logger:             logger,
	}
}

func (h *CalibrationHandler) HandleMessage(client mqtt.Client, msg mqtt.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := msg.Topic()
	payload := msg.Payload()

	if len(payload) == 0 {
		return
	}

	rawID, err := h.topicManager.ExtractDrawingId(topic, mq.CalibrationTopicTemplate)
	if err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Msg("Invalid calibration topic")
		return
	}

	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		h.logger.Error().Err(err).
			Str("drawing_id", rawID).
			Msg("Invalid drawing id in calibration topic")
		return
	}
	drawingID := uint(id)

	var message messages.CalibrationMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Str("payload", string(payload)).
			Msg("Could not parse calibration message")
		return
	}

	if message.Source == mq.MessageSource {
		return
	}

	if err := message.Validate(); err != nil {
		h.logger.Error().Err(err).
			Str("topic", topic).
			Msg("Invalid calibration message")
		return
	}

	if err := h.apply(ctx, drawingID, message.Data); err != nil {
		h.logger.Error().Err(err).
			Uint("drawing_id", drawingID).
			Str("action", string(message.Data.Action)).
			Msg("Error applying calibration change")
	}
}

func (h *CalibrationHandler) apply(ctx context.Context, drawingID uint, data messages.CalibrationDto) error {
	switch data.Action {
	case messages.CalibrationActionSave:
		saved, err := h.calibrationService.Save(ctx, drawingID, *data.Input)
		if err != nil {
			return err
		}
		h.captureService.RefreshCalibration(drawingID, saved.PixelsPerUnit, saved.Unit)
		return nil

	case messages.CalibrationActionDelete:
		if err := h.calibrationService.Delete(ctx, drawingID); err != nil {
			return err
		}
		h.captureService.RefreshCalibration(drawingID, 0, "")
		return nil
	}

	return fmt.Errorf("unknown calibration action %q", data.Action)
}

package listeners

import (
	"context"
	"fmt"
	"github.com/rs/zerolog"
	"takeoff-engine/internal/mq"
)

type MeasurementTableListener struct {
	*BaseTableListener
	logger       zerolog.Logger
	mqttClient   *mq.Client
	topicManager *mq.TopicManager
}

func NewMeasurementTableListener(
	logger zerolog.Logger,
	mqttClient *mq.Client,
	topicManager *mq.TopicManager,
) *MeasurementTableListener {
	return &MeasurementTableListener{
		BaseTableListener: NewBaseTableListener("measurements"),
		logger:            logger,
		mqttClient:        mqttClient,
		topicManager:      topicManager,
	}
}

func (l *MeasurementTableListener) HandleChange(ctx context.Context, event *TableChangeEvent) error {
	l.logger.Debug().
		Str("operation", string(event.Operation)).
		Str("table", event.Table).
		Time("timestamp", event.Timestamp).
		Msg("Measurement table change detected")

	switch event.Operation {
	case InsertOperation:
		return l.publish("created", map[string]interface{}{
			"event":       "measurement_created",
			"measurement": event.NewData,
			"timestamp":   event.Timestamp,
		})
	case UpdateOperation:
		return l.publish("updated", map[string]interface{}{
			"event":     "measurement_updated",
			"old_data":  event.OldData,
			"new_data":  event.NewData,
			"timestamp": event.Timestamp,
		})
	case DeleteOperation:
		return l.publish("deleted", map[string]interface{}{
			"event":        "measurement_deleted",
			"deleted_data": event.OldData,
			"timestamp":    event.Timestamp,
		})
	default:
		return fmt.Errorf("unknown operation: %s", event.Operation)
	}
}

func (l *MeasurementTableListener) publish(action string, payload map[string]interface{}) error {
	topic := l.topicManager.GetEventTopic("measurements", action)
	if err := l.mqttClient.PublishJSON(topic, payload); err != nil {
		l.logger.Error().Err(err).
			Str("topic", topic).
			Msg("Failed to publish measurement sync event")
	}
	return nil
}

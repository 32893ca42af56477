package mq

import (
	"fmt"
	"github.com/rs/zerolog"
	"regexp"
	"strings"
)

type TopicManager struct {
	BaseTopic string
	logger    zerolog.Logger
}

func NewTopicManager(baseTopic string, logger zerolog.Logger) *TopicManager {
	return &TopicManager{
		BaseTopic: baseTopic,
		logger:    logger,
	}
}

const (
	CaptureTopicTemplate     = "%s/v1/drawings/+/capture"
	CalibrationTopicTemplate = "%s/v1/drawings/+/calibration"
	ConditionTopicTemplate   = "%s/v1/conditions/+"
	VariationTopicTemplate   = "%s/v1/variations/+/preview"
	CatalogTopicTemplate     = "%s/v1/catalog/requests"

	DrawingSettingsTopicTemplate = "%s/v1/drawings/+/settings"
)

func (m *TopicManager) GetCaptureTopic() string {
	return fmt.Sprintf(CaptureTopicTemplate, m.BaseTopic)
}

func (m *TopicManager) GetCalibrationTopic() string {
	return fmt.Sprintf(CalibrationTopicTemplate, m.BaseTopic)
}

func (m *TopicManager) GetConditionTopic() string {
	return fmt.Sprintf(ConditionTopicTemplate, m.BaseTopic)
}

func (m *TopicManager) GetVariationTopic() string {
	return fmt.Sprintf(VariationTopicTemplate, m.BaseTopic)
}

func (m *TopicManager) GetCatalogTopic() string {
	return fmt.Sprintf(CatalogTopicTemplate, m.BaseTopic)
}

func (m *TopicManager) GetDrawingSettingsTopic() string {
	return fmt.Sprintf(DrawingSettingsTopicTemplate, m.BaseTopic)
}

// GetPreviewTopic is where live capture previews for a drawing go out.
func (m *TopicManager) GetPreviewTopic(drawingID string) string {
	return fmt.Sprintf("%s/v1/drawings/%s/preview", m.BaseTopic, drawingID)
}

// GetEventTopic addresses outbound sync events, e.g. events/measurements/created.
func (m *TopicManager) GetEventTopic(entity, action string) string {
	return fmt.Sprintf("%s/events/%s/%s", m.BaseTopic, entity, action)
}

func (m *TopicManager) buildTopicRegex(template string) *regexp.Regexp {
	pattern := strings.ReplaceAll(template, "%s", m.BaseTopic)
	pattern = strings.ReplaceAll(pattern, "+", "([^/]+)")
	pattern = "^" + pattern + "$"

	return regexp.MustCompile(pattern)
}

func (m *TopicManager) ExtractIdFromTopic(topic, template string) (string, error) {
	regex := m.buildTopicRegex(template)
	matches := regex.FindStringSubmatch(topic)

	if len(matches) < 2 {
		return "", fmt.Errorf("could not extract ID from topic: %s", topic)
	}

	return matches[1], nil
}

func (m *TopicManager) ExtractDrawingId(topic, template string) (string, error) {
	return m.ExtractIdFromTopic(topic, template)
}

func (m *TopicManager) ExtractConditionId(topic string) (string, error) {
	return m.ExtractIdFromTopic(topic, ConditionTopicTemplate)
}

func (m *TopicManager) ExtractVariationId(topic string) (string, error) {
	return m.ExtractIdFromTopic(topic, VariationTopicTemplate)
}

func (m *TopicManager) GetBaseTopic() string {
	if strings.HasSuffix(m.BaseTopic, "/") {
		return m.BaseTopic[:len(m.BaseTopic)-1]
	}
	return m.BaseTopic
}

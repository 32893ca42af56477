package mq

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTopicManager() *TopicManager {
	return NewTopicManager("takeoff", zerolog.Nop())
}

func TestTopicTemplates(t *testing.T) {
	tm := newTestTopicManager()

	assert.Equal(t, "takeoff/v1/drawings/+/capture", tm.GetCaptureTopic())
	assert.Equal(t, "takeoff/v1/drawings/+/calibration", tm.GetCalibrationTopic())
	assert.Equal(t, "takeoff/v1/conditions/+", tm.GetConditionTopic())
	assert.Equal(t, "takeoff/v1/variations/+/preview", tm.GetVariationTopic())
	assert.Equal(t, "takeoff/v1/catalog/requests", tm.GetCatalogTopic())
	assert.Equal(t, "takeoff/v1/drawings/+/settings", tm.GetDrawingSettingsTopic())
	assert.Equal(t, "takeoff/v1/drawings/42/preview", tm.GetPreviewTopic("42"))
	assert.Equal(t, "takeoff/events/measurements/created", tm.GetEventTopic("measurements", "created"))
}

func TestExtractDrawingId(t *testing.T) {
	tm := newTestTopicManager()

	id, err := tm.ExtractDrawingId("takeoff/v1/drawings/17/capture", CaptureTopicTemplate)
	require.NoError(t, err)
	assert.Equal(t, "17", id)

	id, err = tm.ExtractDrawingId("takeoff/v1/drawings/9/settings", DrawingSettingsTopicTemplate)
	require.NoError(t, err)
	assert.Equal(t, "9", id)

	_, err = tm.ExtractDrawingId("takeoff/v1/drawings/17/calibration", CaptureTopicTemplate)
	require.Error(t, err)
}

func TestExtractConditionAndVariationIds(t *testing.T) {
	tm := newTestTopicManager()

	id, err := tm.ExtractConditionId("takeoff/v1/conditions/33")
	require.NoError(t, err)
	assert.Equal(t, "33", id)

	id, err = tm.ExtractVariationId("takeoff/v1/variations/5/preview")
	require.NoError(t, err)
	assert.Equal(t, "5", id)

	_, err = tm.ExtractConditionId("takeoff/v1/conditions/33/extra")
	require.Error(t, err)
}

package influx

import (
	"context"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/rs/zerolog"
	"takeoff-engine/internal/models"
	"time"
)

// HistoryWriter streams committed measurement values and recomputed
// costs as time-series points.
type HistoryWriter struct {
	writeAPI api.WriteAPI
	logger   zerolog.Logger
}

func NewHistoryWriter(writeAPI api.WriteAPI, logger zerolog.Logger) *HistoryWriter {
	return &HistoryWriter{
		writeAPI: writeAPI,
		logger:   logger,
	}
}

func (w *HistoryWriter) WriteMeasurement(ctx context.Context, measurement *models.Measurement) error {
	point := influxdb2.NewPoint(
		"takeoff_measurements",
		measurement.ToInfluxTags(),
		measurement.ToInfluxFields(),
		time.Now(),
	)

	w.writeAPI.WritePoint(point)

	w.logger.Debug().
		Uint("measurement_id", measurement.ID).
		Uint("drawing_id", measurement.DrawingID).
		Str("type", string(measurement.Type)).
		Msg("Added measurement point to influxDB")

	return nil
}

func (w *HistoryWriter) WriteBatch(ctx context.Context, measurements []*models.Measurement) error {
	for _, measurement := range measurements {
		if err := w.WriteMeasurement(ctx, measurement); err != nil {
			return err
		}
	}
	return nil
}

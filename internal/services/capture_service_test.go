package services

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"takeoff-engine/internal/capture"
	"takeoff-engine/internal/config"
	"takeoff-engine/internal/geometry"
	"takeoff-engine/internal/models"
)

func newReapTestService() *CaptureService {
	return &CaptureService{
		serviceConfig: config.ServiceConfig{SessionTimeout: 30 * time.Minute},
		logger:        zerolog.Nop(),
		sessions:      make(map[string]*captureSession),
	}
}

func addAgedSession(s *CaptureService, age time.Duration) string {
	machine := capture.NewMachine(capture.Config{PixelWidth: 100, PixelHeight: 100}, nil, nil, nil)
	id := machine.ID.String()
	then := time.Now().Add(-age)
	s.sessions[id] = &captureSession{
		machine:    machine,
		drawing:    &models.Drawing{ID: 1},
		started:    then,
		lastActive: then,
	}
	return id
}

func TestReapStaleDropsIdleSessions(t *testing.T) {
	s := newReapTestService()
	id := addAgedSession(s, time.Hour)

	s.ReapStale()

	_, err := s.session(id)
	require.Error(t, err)
}

func TestReapStaleKeepsActiveSessions(t *testing.T) {
	s := newReapTestService()
	id := addAgedSession(s, time.Hour)

	// A long-running session that still receives input stays alive.
	require.NoError(t, s.MouseMove(id, geometry.Point{X: 0.5, Y: 0.5}, false))

	s.ReapStale()

	_, err := s.session(id)
	require.NoError(t, err)
}

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"takeoff-engine/internal/capture"
	"takeoff-engine/internal/config"
	"takeoff-engine/internal/database/postgres/repositories"
	"takeoff-engine/internal/geometry"
	"takeoff-engine/internal/models"
	"takeoff-engine/internal/mq"
)

type captureSession struct {
	machine    *capture.Machine
	drawing    *models.Drawing
	started    time.Time
	lastActive time.Time
}

// CaptureService owns the live capture machines, one per session, and
// bridges them to persistence and the preview topic.
type CaptureService struct {
	drawingRepository  *repositories.DrawingRepository
	measurementService *MeasurementService
	serviceConfig      config.ServiceConfig
	client             *mq.Client
	topicManager       *mq.TopicManager
	logger             zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*captureSession
}

func NewCaptureService(
	drawingRepository *repositories.DrawingRepository,
	measurementService *MeasurementService,
	serviceConfig config.ServiceConfig,
	client *mq.Client,
	topicManager *mq.TopicManager,
	logger zerolog.Logger,
) *CaptureService {
	return &CaptureService{
		drawingRepository:  drawingRepository,
		measurementService: measurementService,
		serviceConfig:      serviceConfig,
		client:             client,
		topicManager:       topicManager,
		logger:             logger,
		sessions:           make(map[string]*captureSession),
	}
}

// StartSession creates a capture machine bound to a drawing and
// returns its session id.
func (s *CaptureService) StartSession(ctx context.Context, drawingID uint) (string, error) {
	drawing, err := s.drawingRepository.FindById(ctx, drawingID)
	if err != nil {
		return "", fmt.Errorf("loading drawing: %w", err)
	}

	previewTopic := s.topicManager.GetPreviewTopic(fmt.Sprintf("%d", drawing.ID))
	sink := capture.PreviewFunc(func(p capture.Preview) {
		if err := s.client.PublishTransient(previewTopic, p); err != nil {
			s.logger.Debug().Err(err).
				Str("topic", previewTopic).
				Msg("Failed to publish capture preview")
		}
	})

	machine := capture.NewMachine(
		capture.Config{
			PixelWidth:      drawing.PixelWidth,
			PixelHeight:     drawing.PixelHeight,
			PPU:             drawing.PixelsPerUnit(),
			Unit:            drawing.Unit(),
			ClickDelay:      s.serviceConfig.ClickDelay,
			SnapThresholdPx: s.serviceConfig.SnapThresholdPx,
		},
		sink,
		s.shapeHandler(drawing),
		s.calibrationHandler(drawing),
	)

	if candidates, err := s.measurementService.SnapCandidates(ctx, drawing.ID); err == nil {
		machine.SetSnapCandidates(candidates)
	} else {
		s.logger.Warn().Err(err).
			Uint("drawing_id", drawing.ID).
			Msg("Failed to load snap candidates")
	}

	sessionID := machine.ID.String()

	now := time.Now()
	s.mu.Lock()
	s.sessions[sessionID] = &captureSession{
		machine:    machine,
		drawing:    drawing,
		started:    now,
		lastActive: now,
	}
	s.mu.Unlock()

	s.logger.Info().
		Str("session_id", sessionID).
		Uint("drawing_id", drawing.ID).
		Msg("Capture session started")

	return sessionID, nil
}

func (s *CaptureService) shapeHandler(drawing *models.Drawing) func(capture.Shape) {
	return func(shape capture.Shape) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			measurement, err := s.measurementService.CreateFromShape(ctx, drawing, shape)
			if err != nil {
				s.logger.Error().Err(err).
					Uint("drawing_id", drawing.ID).
					Msg("Failed to persist captured shape")
				return
			}

			s.refreshSnapCandidates(ctx, drawing.ID)

			topic := s.topicManager.GetEventTopic("measurements", "captured")
			if err := s.client.PublishJSON(topic, measurement.ToDto()); err != nil {
				s.logger.Error().Err(err).
					Str("topic", topic).
					Msg("Failed to publish captured measurement")
			}
		}()
	}
}

// calibrationHandler publishes the picked reference points. The known
// distance arrives afterwards in a calibration save message.
func (s *CaptureService) calibrationHandler(drawing *models.Drawing) func(a, b geometry.Point) {
	return func(a, b geometry.Point) {
		topic := s.topicManager.GetEventTopic("calibrations", "points_picked")
		if err := s.client.PublishJSON(topic, map[string]interface{}{
			"drawing_id": drawing.ID,
			"point_a":    a,
			"point_b":    b,
		}); err != nil {
			s.logger.Error().Err(err).
				Str("topic", topic).
				Msg("Failed to publish calibration points")
		}
	}
}

func (s *CaptureService) refreshSnapCandidates(ctx context.Context, drawingID uint) {
	candidates, err := s.measurementService.SnapCandidates(ctx, drawingID)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		if session.drawing.ID == drawingID {
			session.machine.SetSnapCandidates(candidates)
		}
	}
}

func (s *CaptureService) session(sessionID string) (*captureSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("unknown capture session %s", sessionID)
	}
	session.lastActive = time.Now()
	return session, nil
}

// Click forwards a primary click into the session's machine.
func (s *CaptureService) Click(sessionID string, p geometry.Point, shift bool) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.machine.Click(p, capture.Modifiers{Shift: shift})
	return nil
}

func (s *CaptureService) DoubleClick(sessionID string) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.machine.DoubleClick()
	return nil
}

func (s *CaptureService) MouseMove(sessionID string, p geometry.Point, shift bool) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.machine.MouseMove(p, capture.Modifiers{Shift: shift})
	return nil
}

func (s *CaptureService) PressEnter(sessionID string) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.machine.PressEnter()
	return nil
}

func (s *CaptureService) PressEscape(sessionID string) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.machine.PressEscape()
	return nil
}

func (s *CaptureService) Undo(sessionID string) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.machine.Undo()
	return nil
}

func (s *CaptureService) SetMode(sessionID string, mode capture.Mode) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.machine.SetMode(mode)
	return nil
}

// RefreshCalibration pushes a new scale into every session on the
// drawing so live tooltips use it immediately.
func (s *CaptureService) RefreshCalibration(drawingID uint, ppu float64, unit string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		if session.drawing.ID == drawingID {
			session.machine.SetCalibration(ppu, unit)
			if session.drawing.Calibration != nil {
				session.drawing.Calibration.PixelsPerUnit = ppu
				session.drawing.Calibration.Unit = unit
			}
		}
	}
}

// EndSession tears down one capture machine.
func (s *CaptureService) EndSession(sessionID string) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if ok {
		session.machine.Close()
		s.logger.Info().
			Str("session_id", sessionID).
			Msg("Capture session ended")
	}
}

// ReapStale closes sessions that have seen no input for longer than
// the configured timeout.
func (s *CaptureService) ReapStale() {
	cutoff := time.Now().Add(-s.serviceConfig.SessionTimeout)

	s.mu.Lock()
	var stale []string
	for id, session := range s.sessions {
		if session.lastActive.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	s.mu.Unlock()

	for _, id := range stale {
		s.EndSession(id)
	}
}

// Close tears down every session.
func (s *CaptureService) Close() {
	s.mu.Lock()
	sessions := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		sessions = append(sessions, id)
	}
	s.mu.Unlock()

	for _, id := range sessions {
		s.EndSession(id)
	}
}

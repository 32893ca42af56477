package main

import (
	"context"
	"fmt"
	"github.com/rs/zerolog/log"
	"os"
	"os/signal"
	"syscall"
	"takeoff-engine/internal/config"
	"takeoff-engine/internal/database/influx"
	"takeoff-engine/internal/database/postgres"
	"takeoff-engine/internal/database/postgres/listeners"
	"takeoff-engine/internal/database/postgres/repositories"
	"takeoff-engine/internal/logger"
	"takeoff-engine/internal/mq"
	"takeoff-engine/internal/mq/handlers"
	"takeoff-engine/internal/services"
	"time"
)

type Application struct {
	config *config.Config

	postgresDB      *postgres.PostgresDB
	listenerManager *listeners.ListenerManager
	influxDB        *influx.InfluxDB

	drawingRepository     *repositories.DrawingRepository
	measurementRepository *repositories.MeasurementRepository
	calibrationRepository *repositories.CalibrationRepository
	conditionRepository   *repositories.ConditionRepository
	catalogRepository     *repositories.CatalogRepository
	variationRepository   *repositories.VariationRepository

	historyWriter *influx.HistoryWriter

	measurementService *services.MeasurementService
	calibrationService *services.CalibrationService
	conditionService   *services.ConditionService
	variationService   *services.VariationService
	catalogService     *services.CatalogService
	captureService     *services.CaptureService

	mqttClient         *mq.Client
	topicManager       *mq.TopicManager
	captureHandler     *handlers.CaptureHandler
	calibrationHandler *handlers.CalibrationHandler
	conditionHandler   *handlers.ConditionHandler
	variationHandler   *handlers.VariationHandler
	catalogHandler     *handlers.CatalogHandler
	drawingHandler     *handlers.DrawingHandler

	shutdownChan chan os.Signal
	ctx          context.Context
	cancelFunc   context.CancelFunc
}

func main() {
	app := &Application{}

	if err := app.initialize(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	if err := app.run(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run application")
	}
}

func (app *Application) initialize() error {
	var err error

	app.config, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	logger.NewLogger(app.config.Logger)
	log.Info().
		Str("component", "main").
		Str("version", app.config.Service.Version).
		Msg("Setting up service...")

	app.ctx, app.cancelFunc = context.WithCancel(context.Background())
	app.shutdownChan = make(chan os.Signal, 1)
	signal.Notify(app.shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	if err := app.initializeDatabases(); err != nil {
		return fmt.Errorf("error while initialize databases: %w", err)
	}

	if err := app.initializeMQTT(); err != nil {
		return fmt.Errorf("error while initializing MQTT: %w", err)
	}

	if err := app.initializeRepositories(); err != nil {
		return fmt.Errorf("error while initializing repositories: %w", err)
	}

	if err := app.initializeServices(); err != nil {
		return fmt.Errorf("error while initializing services: %w", err)
	}

	if err := app.setupTopicHandlers(); err != nil {
		return fmt.Errorf("error while setting up topic handlers: %w", err)
	}

	if err := app.setupTableListeners(); err != nil {
		return fmt.Errorf("error while setting up table listeners: %w", err)
	}

	log.Info().Msg("Successfully initialized application")
	return nil
}

func (app *Application) initializeDatabases() error {
	var err error

	app.postgresDB, err = postgres.NewConnection(app.config.Postgres)
	if err != nil {
		return fmt.Errorf("could not connect to PostgreSQL: %w", err)
	}

	app.influxDB, err = influx.NewConnection(&app.config.InfluxDB)
	if err != nil {
		return fmt.Errorf("could not connect to InfluxDB: %w", err)
	}

	log.Info().
		Str("component", "main").
		Str("host", app.config.Postgres.Host).
		Msg("Successfully initialized databases")
	return nil
}

func (app *Application) initializeMQTT() error {
	var err error

	app.topicManager = mq.NewTopicManager(app.config.MQTT.BaseTopic, logger.GetLogger("topic-manager"))

	app.mqttClient, err = mq.NewClient(app.config.MQTT, logger.GetLogger("mq-client"))
	if err != nil {
		return fmt.Errorf("could not create MQTT client: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(app.ctx, 30*time.Second)
	defer cancel()

	if err := app.mqttClient.Connect(connectCtx); err != nil {
		return fmt.Errorf("could not connect to MQTT broker: %w", err)
	}

	log.Info().
		Str("component", "main").
		Msg("Successfully initialized MQTT client")

	return nil
}

func (app *Application) initializeRepositories() error {
	db := app.postgresDB.GetDB()

	app.drawingRepository = repositories.NewDrawingRepository(db)
	app.measurementRepository = repositories.NewMeasurementRepository(db)
	app.calibrationRepository = repositories.NewCalibrationRepository(db)
	app.conditionRepository = repositories.NewConditionRepository(db)
	app.catalogRepository = repositories.NewCatalogRepository(db)
	app.variationRepository = repositories.NewVariationRepository(db)

	log.Info().
		Str("component", "main").
		Msg("Successfully initialized repositories")
	return nil
}

func (app *Application) initializeServices() error {
	app.historyWriter = influx.NewHistoryWriter(
		app.influxDB.GetWriteAPI(),
		logger.GetLogger("history-writer"),
	)

	app.measurementService = services.NewMeasurementService(
		app.measurementRepository,
		app.drawingRepository,
		app.historyWriter,
		logger.GetLogger("measurement-service"),
	)

	app.calibrationService = services.NewCalibrationService(
		app.calibrationRepository,
		app.drawingRepository,
		app.measurementService,
		logger.GetLogger("calibration-service"),
	)

	app.conditionService = services.NewConditionService(
		app.conditionRepository,
		app.measurementRepository,
		app.drawingRepository,
		logger.GetLogger("condition-service"),
	)

	app.variationService = services.NewVariationService(
		app.conditionRepository,
		app.variationRepository,
		logger.GetLogger("variation-service"),
	)

	app.catalogService = services.NewCatalogService(
		app.catalogRepository,
		logger.GetLogger("catalog-service"),
	)

	app.captureService = services.NewCaptureService(
		app.drawingRepository,
		app.measurementService,
		app.config.Service,
		app.mqttClient,
		app.topicManager,
		logger.GetLogger("capture-service"),
	)

	log.Info().
		Str("component", "main").
		Msg("Successfully initialized services")
	return nil
}

func (app *Application) setupTopicHandlers() error {
	app.captureHandler = handlers.NewCaptureHandler(
		app.topicManager,
		app.mqttClient,
		app.captureService,
		logger.GetLogger("capture-handler"),
	)
	if err := app.mqttClient.Subscribe(app.topicManager.GetCaptureTopic(), app.captureHandler.HandleMessage); err != nil {
		return fmt.Errorf("error subscribing to capture topic: %w", err)
	}

	app.calibrationHandler = handlers.NewCalibrationHandler(
		app.topicManager,
		app.calibrationService,
		app.captureService,
		logger.GetLogger("calibration-handler"),
	)
	if err := app.mqttClient.Subscribe(app.topicManager.GetCalibrationTopic(), app.calibrationHandler.HandleMessage); err != nil {
		return fmt.Errorf("error subscribing to calibration topic: %w", err)
	}

	app.conditionHandler = handlers.NewConditionHandler(
		app.topicManager,
		app.mqttClient,
		app.conditionService,
		app.measurementService,
		logger.GetLogger("condition-handler"),
	)
	if err := app.mqttClient.Subscribe(app.topicManager.GetConditionTopic(), app.conditionHandler.HandleMessage); err != nil {
		return fmt.Errorf("error subscribing to condition topic: %w", err)
	}

	app.variationHandler = handlers.NewVariationHandler(
		app.topicManager,
		app.mqttClient,
		app.variationService,
		logger.GetLogger("variation-handler"),
	)
	if err := app.mqttClient.Subscribe(app.topicManager.GetVariationTopic(), app.variationHandler.HandleMessage); err != nil {
		return fmt.Errorf("error subscribing to variation topic: %w", err)
	}

	app.catalogHandler = handlers.NewCatalogHandler(
		app.topicManager,
		app.mqttClient,
		app.catalogService,
		logger.GetLogger("catalog-handler"),
	)
	if err := app.mqttClient.Subscribe(app.topicManager.GetCatalogTopic(), app.catalogHandler.HandleMessage); err != nil {
		return fmt.Errorf("error subscribing to catalog topic: %w", err)
	}

	app.drawingHandler = handlers.NewDrawingHandler(
		app.topicManager,
		app.mqttClient,
		app.drawingRepository,
		logger.GetLogger("drawing-handler"),
	)
	if err := app.mqttClient.Subscribe(app.topicManager.GetDrawingSettingsTopic(), app.drawingHandler.HandleMessage); err != nil {
		return fmt.Errorf("error subscribing to drawing settings topic: %w", err)
	}

	return nil
}

func (app *Application) setupTableListeners() error {
	app.listenerManager = listeners.NewListenerManager(
		app.postgresDB.GetDB(),
		app.config.Postgres.Dsn,
		logger.GetLogger("listener-manager"),
	)

	measurementListener := listeners.NewMeasurementTableListener(
		logger.GetLogger("measurement-listener"),
		app.mqttClient,
		app.topicManager,
	)
	if err := app.listenerManager.RegisterListener(measurementListener); err != nil {
		return fmt.Errorf("failed to register measurement listener: %w", err)
	}

	conditionListener := listeners.NewConditionTableListener(
		logger.GetLogger("condition-listener"),
		app.mqttClient,
		app.topicManager,
	)
	if err := app.listenerManager.RegisterListener(conditionListener); err != nil {
		return fmt.Errorf("failed to register condition listener: %w", err)
	}

	if err := app.listenerManager.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize listener manager: %w", err)
	}

	app.listenerManager.Start()

	log.Info().Msg("All table listeners initialized and started")
	return nil
}

func (app *Application) run() error {
	go app.reapSessions()

	select {
	case sig := <-app.shutdownChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case <-app.ctx.Done():
		log.Info().Msg("context cancelled, shutting down application")
	}

	return app.shutdown()
}

// reapSessions drops capture sessions that have seen no input for
// longer than the configured session timeout.
func (app *Application) reapSessions() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			app.captureService.ReapStale()
		case <-app.ctx.Done():
			return
		}
	}
}

func (app *Application) shutdown() error {
	if app.captureService != nil {
		app.captureService.Close()
	}

	if app.listenerManager != nil {
		app.listenerManager.Stop()
	}

	if app.mqttClient != nil {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		app.mqttClient.Disconnect(disconnectCtx)
		cancel()
	}

	if app.influxDB != nil {
		app.influxDB.Close()
	}

	if app.postgresDB != nil {
		if err := app.postgresDB.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing PostgreSQL connection")
		}
	}

	app.cancelFunc()
	return nil
}

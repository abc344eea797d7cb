package app

import (
	"context"
	"time"

	"google.golang.org/api/idtoken"

	"github.com/adanyl0v/scrum-ai-master/internal/calendar"
	"github.com/adanyl0v/scrum-ai-master/internal/config"
	"github.com/adanyl0v/scrum-ai-master/internal/events"
	"github.com/adanyl0v/scrum-ai-master/internal/gateway"
	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/services"
	"github.com/adanyl0v/scrum-ai-master/internal/store"
)

var (
	globalStore   *store.Store
	globalGateway gateway.Gateway
	globalHub     *events.Hub
	globalSyncer  *calendar.Syncer

	globalIdentityService  services.IdentityService
	globalBoardService     services.BoardService
	globalReviewService    services.ReviewService
	globalMeetingService   services.MeetingService
	globalAssistantService services.AssistantService
	globalIngestionService services.IngestionService

	backgroundCancel context.CancelFunc
)

// MustInitBoard loads the board and builds every service over it.
func MustInitBoard() {
	cfg := config.Global()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Storage.SaveTimeout)
	seed := globalSnapshotter.Load(ctx)
	cancel()

	meeting := &models.Meeting{
		Time:      cfg.Board.MeetingTime,
		Scheduled: true,
		Attendees: make([]string, len(seed.Members)),
	}
	for i, m := range seed.Members {
		meeting.Attendees[i] = m.ID
	}

	globalStore = store.New(globalLogger, seed, meeting,
		store.WithSaver(globalSnapshotter),
		store.WithSaveTimeout(cfg.Storage.SaveTimeout))
	globalLogger.Info().
		Int("tasks", len(seed.Tasks)).
		Int("members", len(seed.Members)).
		Msg("loaded board")

	mustInitGateway()
	mustInitIdentity()

	logger := globalLogger
	globalReviewService = services.NewReviewService(logger, globalStore, globalGateway)
	globalBoardService = services.NewBoardService(logger, globalStore, globalReviewService)
	globalMeetingService = services.NewMeetingService(logger, globalStore, globalGateway)
	globalAssistantService = services.NewAssistantService(logger, globalStore, globalMeetingService, globalGateway)
	globalIngestionService = services.NewIngestionService(logger, globalStore, globalGateway,
		services.WithMaxArtifactBytes(cfg.Ingestion.MaxBytes))

	globalHub = events.NewHub(logger)
	globalStore.Subscribe(globalHub.Publish)

	mustInitCalendar()
}

// StartBackground runs the events hub and calendar sync until
// StopBackground.
func StartBackground() {
	ctx, cancel := context.WithCancel(context.Background())
	backgroundCancel = cancel

	go globalHub.Run(ctx)
	if globalSyncer != nil {
		go globalSyncer.Run(ctx)
	}
	globalLogger.Info().Msg("started background workers")
}

func StopBackground() {
	if backgroundCancel != nil {
		backgroundCancel()
	}
	globalLogger.Info().Msg("stopped background workers")
}

func mustInitGateway() {
	cfg := config.Global().Gemini

	gemini, err := gateway.NewGemini(context.Background(), globalLogger, cfg.APIKey, cfg.Model, cfg.Timeout)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to init gemini gateway")
		panic(err)
	}
	globalGateway = gemini
	globalLogger.Info().
		Str("model", cfg.Model).
		Msg("initialized gemini gateway")
}

func mustInitIdentity() {
	cfg := config.Global().Auth

	var validator services.TokenValidator
	if cfg.GoogleClientID != "" {
		v, err := idtoken.NewValidator(context.Background())
		if err != nil {
			globalLogger.Error().
				Err(err).
				Msg("failed to create id token validator")
			panic(err)
		}
		validator = v
	}

	globalIdentityService = services.NewIdentityService(
		globalLogger,
		validator,
		cfg.GoogleClientID,
		cfg.JWTIssuer,
		[]byte(cfg.JWTSigningKey),
		cfg.JWTAccessTokenTTL,
	)
	globalLogger.Info().
		Bool("enabled", globalIdentityService.Enabled()).
		Msg("initialized identity")
}

func mustInitCalendar() {
	cfg := config.Global().Calendar
	if cfg.CalendarID == "" {
		globalLogger.Info().Msg("calendar sync disabled")
		return
	}

	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("time_zone", cfg.TimeZone).
			Msg("failed to load calendar time zone")
		panic(err)
	}

	client, err := calendar.NewEventsClient(context.Background(), cfg.CredentialsFile, cfg.CalendarID)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to create calendar client")
		panic(err)
	}

	globalSyncer = calendar.NewSyncer(globalLogger, client, location)
	globalStore.Subscribe(globalSyncer.Observe)
	globalSyncer.Observe(store.Event{Kind: store.EventMeetingChanged, Meeting: globalStore.Meeting()})
	globalLogger.Info().
		Str("calendar_id", cfg.CalendarID).
		Msg("calendar sync enabled")
}

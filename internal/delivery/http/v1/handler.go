package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/scrum-ai-master/internal/services"
)

type Handler interface {
	HandleGoogleSignIn(c *gin.Context)
	HandleMe(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleSetTaskStatus(c *gin.Context)

	HandleGetMembers(c *gin.Context)
	HandleAddMember(c *gin.Context)

	HandleGetMeeting(c *gin.Context)
	HandleCancelMeeting(c *gin.Context)
	HandleRescheduleMeeting(c *gin.Context)
	HandleRemoveMeeting(c *gin.Context)
	HandleMeetingSummary(c *gin.Context)

	HandleGetMessages(c *gin.Context)
	HandleSendMessage(c *gin.Context)
	HandleResetMessages(c *gin.Context)
	HandleStandupSummary(c *gin.Context)

	HandleGetPendingReview(c *gin.Context)
	HandleDismissReview(c *gin.Context)

	HandleIngestTranscript(c *gin.Context)
	HandleGetStaged(c *gin.Context)
	HandleConfirmStaged(c *gin.Context)

	HandleGetMetrics(c *gin.Context)
	HandleEvents(c *gin.Context)
}

type handlerImpl struct {
	logger         zerolog.Logger
	identity       services.IdentityService
	board          services.BoardService
	reviews        services.ReviewService
	meetings       services.MeetingService
	assistant      services.AssistantService
	ingestion      services.IngestionService
	events         http.Handler
	maxUploadBytes int64
}

func New(
	logger zerolog.Logger,
	identityService services.IdentityService,
	boardService services.BoardService,
	reviewService services.ReviewService,
	meetingService services.MeetingService,
	assistantService services.AssistantService,
	ingestionService services.IngestionService,
	events http.Handler,
	maxUploadBytes int64,
) Handler {
	return &handlerImpl{
		logger:         logger,
		identity:       identityService,
		board:          boardService,
		reviews:        reviewService,
		meetings:       meetingService,
		assistant:      assistantService,
		ingestion:      ingestionService,
		events:         events,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes mounts the API under /api/v1.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router = router.Group("/api/v1")

	authRouter := router.Group("/auth")
	authRouter.POST("/google", h.HandleGoogleSignIn)
	authRouter.POST("/logout", h.HandleLogout)
	authRouter.GET("/me", h.HandleAuthMiddleware, h.HandleMe)

	router = router.Group("", h.HandleAuthMiddleware)

	router.GET("/tasks", h.HandleGetTasks)
	router.POST("/tasks", h.HandleCreateTask)
	router.GET("/tasks/:id", h.HandleGetTask)
	router.PUT("/tasks/:id/status", h.HandleSetTaskStatus)

	router.GET("/members", h.HandleGetMembers)
	router.POST("/members", h.HandleAddMember)

	router.GET("/meeting", h.HandleGetMeeting)
	router.DELETE("/meeting", h.HandleRemoveMeeting)
	router.POST("/meeting/cancel", h.HandleCancelMeeting)
	router.POST("/meeting/reschedule", h.HandleRescheduleMeeting)
	router.GET("/meeting/summary", h.HandleMeetingSummary)

	router.GET("/assistant/messages", h.HandleGetMessages)
	router.POST("/assistant/messages", h.HandleSendMessage)
	router.DELETE("/assistant/messages", h.HandleResetMessages)
	router.POST("/assistant/summary", h.HandleStandupSummary)

	router.GET("/reviews/pending", h.HandleGetPendingReview)
	router.DELETE("/reviews/:id", h.HandleDismissReview)

	router.POST("/transcripts", h.HandleIngestTranscript)
	router.GET("/transcripts/staged", h.HandleGetStaged)
	router.POST("/transcripts/staged/:id/confirm", h.HandleConfirmStaged)

	router.GET("/metrics", h.HandleGetMetrics)
	router.GET("/events", h.HandleEvents)
}

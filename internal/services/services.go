package services

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
)

var (
	ErrTaskNotFound          = errors.New("task not found")
	ErrTransitionUnavailable = errors.New("status transition not available")
	ErrEmptyTitle            = errors.New("title is required")
	ErrInvalidPriority       = errors.New("invalid task priority")
	ErrInvalidStatus         = errors.New("invalid task status")
	ErrMissingMemberFields   = errors.New("name, role and daily update are required")

	ErrReviewNotFound = errors.New("review request not found")

	ErrEmptyMessage  = errors.New("message is empty")
	ErrAssistantBusy = errors.New("assistant is still answering the previous message")

	ErrEmptyArtifact       = errors.New("please select a transcript or recording file first")
	ErrUnsupportedArtifact = errors.New("only text, audio and video files can be summarized")
	ErrArtifactTooLarge    = errors.New("file is too large to summarize")
	ErrIngestionBusy       = errors.New("a file is already being summarized")
	ErrIngestionFailed     = errors.New("failed to summarize the file, the format may not be supported")
	ErrStagedTaskNotFound  = errors.New("staged task not found")
	ErrAssigneeNotFound    = errors.New("team member not found")

	ErrMeetingNotScheduled = errors.New("meeting is not scheduled")
	ErrEmptyMeetingTime    = errors.New("meeting time is required")
	ErrNoRecipients        = errors.New("no team member has an email address")

	ErrIdentityDisabled   = errors.New("sign-in is not configured")
	ErrInvalidCredential  = errors.New("invalid identity credential")
	ErrInvalidAccessToken = errors.New("invalid access token")
)

type BoardService interface {
	Tasks() []models.Task
	Task(taskID string) (models.Task, error)

	// CreateTask adds a task. An empty status means To Do and an empty
	// priority means Medium.
	CreateTask(params CreateTaskParams) (models.Task, error)

	// SetTaskStatus moves a task along the workflow.
	//
	// It returns ErrTaskNotFound for an unknown id or
	// ErrTransitionUnavailable if the board does not offer the move.
	// Entering In Review opens a review request, returned in the result.
	SetTaskStatus(params SetTaskStatusParams) (*StatusResult, error)

	Members() []models.TeamMember
	AddTeamMember(params AddTeamMemberParams) (models.TeamMember, error)
}

type ReviewService interface {
	// Open replaces the pending review request with one for task and
	// starts resolving a reviewer suggestion in the background.
	Open(task models.Task) models.ReviewRequest

	// Pending returns the open review request. Its Suggestion is nil until
	// resolved.
	Pending() (*models.ReviewRequest, bool)

	// Dismiss closes the pending request. The task keeps its status.
	Dismiss(requestID string) error

	// Suggest picks a reviewer for task. It never fails: gateway problems
	// produce a manual-selection fallback.
	Suggest(ctx context.Context, task models.Task, members []models.TeamMember) models.ReviewSuggestion
}

type AssistantService interface {
	// Send appends the user's message, asks the model and appends the
	// reply. Only one message may be outstanding; a concurrent call gets
	// ErrAssistantBusy.
	Send(ctx context.Context, text string) (models.AiMessage, error)

	// StandupSummary starts a new conversation with a summary of the
	// members' daily updates.
	StandupSummary(ctx context.Context) (models.AiMessage, error)

	Messages() []models.AiMessage

	// Reset clears the conversation. It fails with ErrAssistantBusy while a
	// Send or StandupSummary is in flight.
	Reset() error
}

type IngestionService interface {
	// Ingest summarizes an artifact and stages the proposed tasks,
	// replacing any previous staged result.
	//
	// Gateway failures are reported as ErrIngestionFailed and leave
	// nothing staged.
	Ingest(ctx context.Context, artifact Artifact) (*models.StagedSummary, error)

	Staged() (*models.StagedSummary, bool)

	// Confirm commits one staged task to the board and unstages it.
	//
	// It returns ErrStagedTaskNotFound if nothing is staged under the id
	// or ErrAssigneeNotFound if the assignee is not on the roster, in which
	// case the task stays staged.
	Confirm(stagedTaskID string) (models.Task, error)
}

type MeetingService interface {
	Meeting() *models.Meeting

	// Cancel marks the meeting as not scheduled. It is a no-op without a
	// meeting.
	Cancel() *models.Meeting

	// Reschedule sets the time and schedules the meeting, inviting every
	// member if there was no meeting.
	Reschedule(meetingTime string) (*models.Meeting, error)

	Remove()

	// Summary summarizes the members' updates for a scheduled meeting and
	// builds a mailto link for every member with an email.
	Summary(ctx context.Context) (*MeetingSummaryResult, error)
}

type IdentityService interface {
	Enabled() bool
	DefaultUser() models.User

	// SignIn verifies an identity-provider credential and issues an
	// access token for the user it names.
	SignIn(ctx context.Context, credential string) (*SignInResult, error)

	// ParseAccessToken returns the user an access token was issued to.
	ParseAccessToken(token string) (*models.User, error)
}

type CreateTaskParams struct {
	Title       string
	Description string
	AssigneeID  string
	Status      models.TaskStatus
	Points      int
	Priority    models.TaskPriority
}

type SetTaskStatusParams struct {
	TaskID string
	Status models.TaskStatus
}

type StatusResult struct {
	Task   models.Task
	From   models.TaskStatus
	Review *models.ReviewRequest
}

type AddTeamMemberParams struct {
	Name        string
	Role        string
	DailyUpdate string
	Email       string
}

type Artifact struct {
	Name     string
	MimeType string
	Data     []byte
}

type MeetingSummaryResult struct {
	Summary    string
	MailtoURL  string
	Recipients []string
}

type SignInResult struct {
	User                 models.User
	AccessToken          string
	AccessTokenExpiresAt time.Time
}

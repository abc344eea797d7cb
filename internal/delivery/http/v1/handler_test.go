package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"google.golang.org/api/idtoken"

	"github.com/adanyl0v/scrum-ai-master/internal/gateway"
	"github.com/adanyl0v/scrum-ai-master/internal/models"
	"github.com/adanyl0v/scrum-ai-master/internal/services"
	"github.com/adanyl0v/scrum-ai-master/internal/store"
)

type stubGateway struct {
	reply *gateway.Reply
	media *models.MeetingSummary
}

func (g stubGateway) Summarize(context.Context, string) (string, error) {
	return "Everyone is on track.", nil
}

func (g stubGateway) Converse(context.Context, string, []models.TeamMember, []models.Task) (*gateway.Reply, error) {
	if g.reply == nil {
		return nil, errors.New("unavailable")
	}
	return g.reply, nil
}

func (g stubGateway) SuggestReviewer(context.Context, models.Task, *models.TeamMember, []models.TeamMember) (*models.ReviewSuggestion, error) {
	return nil, errors.New("unavailable")
}

func (g stubGateway) SummarizeMedia(context.Context, []byte, string, []models.TeamMember) (*models.MeetingSummary, error) {
	if g.media == nil {
		return nil, errors.New("unavailable")
	}
	return g.media, nil
}

type stubValidator struct{}

func (stubValidator) Validate(_ context.Context, token, _ string) (*idtoken.Payload, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &idtoken.Payload{Subject: "1", Claims: map[string]any{"name": "Alice", "email": "alice@example.com"}}, nil
}

func newTestRouter(t *testing.T, gw gateway.Gateway, identity services.IdentityService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zerolog.Nop()
	boardStore := store.New(logger, models.Snapshot{
		Members: []models.TeamMember{
			{ID: "U-1", Name: "Alice Johnson", Role: "Frontend Developer", DailyUpdate: "No blockers.", Email: "alice@example.com"},
			{ID: "U-2", Name: "Bob Williams", Role: "Backend Developer", DailyUpdate: "Working on the API."},
		},
		Tasks: []models.Task{
			{ID: "T-1", Title: "Login page", AssigneeID: "U-1", Status: models.StatusToDo, Points: 5, Priority: models.PriorityHigh},
			{ID: "T-2", Title: "Database", AssigneeID: "U-2", Status: models.StatusInProgress, Points: 8, Priority: models.PriorityUrgent},
		},
	}, &models.Meeting{Time: "09:30 AM", Scheduled: true, Attendees: []string{"U-1", "U-2"}})

	if identity == nil {
		identity = services.NewIdentityService(logger, nil, "", "test", []byte("k"), time.Hour)
	}
	reviews := services.NewReviewService(logger, boardStore, gw)
	meetings := services.NewMeetingService(logger, boardStore, gw)
	h := New(
		logger,
		identity,
		services.NewBoardService(logger, boardStore, reviews),
		reviews,
		meetings,
		services.NewAssistantService(logger, boardStore, meetings, gw),
		services.NewIngestionService(logger, boardStore, gw),
		nil,
		1<<20,
	)

	router := gin.New()
	RegisterRoutes(router, h)
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("Unmarshal %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestTasksLifecycle(t *testing.T) {
	router := newTestRouter(t, stubGateway{}, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/tasks", map[string]any{
		"title": "Write docs", "assignee_id": "U-2", "points": 3,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", rec.Code, rec.Body)
	}
	created := decode[taskResponse](t, rec)
	if created.ID != "T-3" || created.Status != "To Do" || created.Priority != "Medium" {
		t.Errorf("created = %+v", created)
	}
	if len(created.Actions) != 1 || created.Actions[0].Label != "Start Progress" {
		t.Errorf("actions = %+v", created.Actions)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/tasks", map[string]any{"points": 3})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing title: status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/tasks", nil)
	if tasks := decode[[]taskResponse](t, rec); len(tasks) != 3 {
		t.Errorf("tasks = %d, want 3", len(tasks))
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/tasks/T-404", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown task: status = %d", rec.Code)
	}
}

func TestSetTaskStatus(t *testing.T) {
	router := newTestRouter(t, stubGateway{}, nil)

	rec := doJSON(t, router, http.MethodPut, "/api/v1/tasks/T-1/status", map[string]any{"status": "Done"})
	if rec.Code != http.StatusConflict {
		t.Errorf("unoffered move: status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut, "/api/v1/tasks/T-2/status", map[string]any{"status": "In Review"})
	if rec.Code != http.StatusOK {
		t.Fatalf("request review: status = %d, body = %s", rec.Code, rec.Body)
	}
	result := decode[setTaskStatusResponse](t, rec)
	if result.From != "In Progress" || result.Review == nil {
		t.Fatalf("result = %+v", result)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/reviews/pending", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("pending review: status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/reviews/"+result.Review.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("dismiss: status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/tasks/T-2", nil)
	if task := decode[taskResponse](t, rec); task.Status != "In Review" {
		t.Errorf("status after dismiss = %q", task.Status)
	}
}

func TestMembers(t *testing.T) {
	router := newTestRouter(t, stubGateway{}, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/members", map[string]any{"name": "Eve", "role": "QA Engineer"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing update: status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/members", map[string]any{
		"name": "Eve", "role": "QA Engineer", "daily_update": "Blocked by flaky CI.",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add: status = %d, body = %s", rec.Code, rec.Body)
	}
	member := decode[memberResponse](t, rec)
	if member.ID != "U-3" || !member.MentionsBlocker {
		t.Errorf("member = %+v", member)
	}
}

func TestAssistantCreatesTask(t *testing.T) {
	gw := stubGateway{reply: &gateway.Reply{FunctionCall: &gateway.FunctionCall{
		Name: gateway.FunctionCreateTask,
		Args: map[string]any{"title": "Fix CI", "assigneeName": "bob williams", "points": float64(2)},
	}}}
	router := newTestRouter(t, gw, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/assistant/messages", map[string]any{"text": "Bob should fix CI"})
	if rec.Code != http.StatusOK {
		t.Fatalf("send: status = %d, body = %s", rec.Code, rec.Body)
	}
	reply := decode[messageResponse](t, rec)
	if !strings.HasPrefix(reply.Text, `OK, I've created the task "Fix CI"`) {
		t.Errorf("reply = %q", reply.Text)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/assistant/messages", nil)
	if messages := decode[[]messageResponse](t, rec); len(messages) != 2 {
		t.Errorf("messages = %d, want 2", len(messages))
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/metrics", nil)
	if metrics := decode[metricsResponse](t, rec); metrics.TasksTotal != 3 || metrics.PointsTotal != 15 {
		t.Errorf("metrics = %+v", metrics)
	}
}

type heldGateway struct {
	stubGateway
	entered chan struct{}
	release chan struct{}
}

func (g heldGateway) Converse(ctx context.Context, text string, members []models.TeamMember, tasks []models.Task) (*gateway.Reply, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.stubGateway.Converse(ctx, text, members, tasks)
}

func TestResetMessagesConflictsWhileAnswering(t *testing.T) {
	gw := heldGateway{
		stubGateway: stubGateway{reply: &gateway.Reply{Text: "done"}},
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	router := newTestRouter(t, gw, nil)

	sent := make(chan int)
	go func() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/messages", strings.NewReader(`{"text":"status?"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		sent <- rec.Code
	}()
	<-gw.entered

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/assistant/messages", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("reset while answering: status = %d, want 409", rec.Code)
	}

	close(gw.release)
	if code := <-sent; code != http.StatusOK {
		t.Fatalf("send: status = %d", code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/assistant/messages", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("reset: status = %d, want 204", rec.Code)
	}
}

func TestMeetingEndpoints(t *testing.T) {
	router := newTestRouter(t, stubGateway{}, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/meeting/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary: status = %d, body = %s", rec.Code, rec.Body)
	}
	summary := decode[meetingSummaryResponse](t, rec)
	if !strings.HasPrefix(summary.MailtoURL, "mailto:alice@example.com?subject=Daily%20Scrum%20Summary") {
		t.Errorf("mailto = %q", summary.MailtoURL)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/meeting/cancel", nil)
	if m := decode[meetingResponse](t, rec); m.Scheduled {
		t.Errorf("cancelled meeting = %+v", m)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/meeting/summary", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("summary of cancelled meeting: status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/meeting", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("remove: status = %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/v1/meeting", nil)
	if strings.TrimSpace(rec.Body.String()) != "null" {
		t.Errorf("removed meeting = %s", rec.Body)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/meeting/reschedule", map[string]any{"time": "10:15 AM"})
	if m := decode[meetingResponse](t, rec); !m.Scheduled || len(m.Attendees) != 2 {
		t.Errorf("rescheduled meeting = %+v", m)
	}
}

func uploadTranscript(t *testing.T, router http.Handler, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = part.Write(content)
	if err = w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcripts", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTranscriptIngestion(t *testing.T) {
	gw := stubGateway{media: &models.MeetingSummary{
		Summary: "Discussed CI.",
		Tasks:   []models.SummarizedTask{{Title: "Fix CI", AssigneeName: "Alice Johnson", Status: models.StatusToDo, Points: 2}},
	}}
	router := newTestRouter(t, gw, nil)

	rec := uploadTranscript(t, router, "standup.txt", []byte("Alice: I'll fix CI."))
	if rec.Code != http.StatusCreated {
		t.Fatalf("ingest: status = %d, body = %s", rec.Code, rec.Body)
	}
	staged := decode[stagedSummaryResponse](t, rec)
	if len(staged.Tasks) != 1 {
		t.Fatalf("staged = %+v", staged)
	}

	path := "/api/v1/transcripts/staged/" + staged.Tasks[0].ID + "/confirm"
	if rec = doJSON(t, router, http.MethodPost, path, nil); rec.Code != http.StatusCreated {
		t.Fatalf("confirm: status = %d, body = %s", rec.Code, rec.Body)
	}
	if rec = doJSON(t, router, http.MethodPost, path, nil); rec.Code != http.StatusNotFound {
		t.Errorf("repeated confirm: status = %d", rec.Code)
	}
}

func TestTranscriptIngestionFailure(t *testing.T) {
	router := newTestRouter(t, stubGateway{}, nil)

	rec := uploadTranscript(t, router, "standup.txt", []byte("hello"))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decode[map[string]string](t, rec); body["error"] != ingestionFailedMessage {
		t.Errorf("error = %q", body["error"])
	}

	rec = uploadTranscript(t, router, "photo.png", []byte("\x89PNG\r\n\x1a\n"))
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("image: status = %d", rec.Code)
	}
}

func TestAuthentication(t *testing.T) {
	identity := services.NewIdentityService(zerolog.Nop(), stubValidator{}, "client", "test", []byte("k"), time.Hour)
	router := newTestRouter(t, stubGateway{}, identity)

	if rec := doJSON(t, router, http.MethodGet, "/api/v1/tasks", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/google", map[string]any{"credential": "bad"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad credential: status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/google", map[string]any{"credential": "good"})
	if rec.Code != http.StatusOK {
		t.Fatalf("sign in: status = %d, body = %s", rec.Code, rec.Body)
	}
	signIn := decode[signInResponse](t, rec)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+signIn.AccessToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if me := decode[userResponse](t, rec); me.Email != "alice@example.com" {
		t.Errorf("me = %+v", me)
	}
}

func TestDefaultUser(t *testing.T) {
	router := newTestRouter(t, stubGateway{}, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", nil)
	if me := decode[userResponse](t, rec); me.Name != "Scrum Master" {
		t.Errorf("me = %+v", me)
	}
}

package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/adanyl0v/scrum-ai-master/internal/models"
)

type fakeGenerator struct {
	resp *genai.GenerateContentResponse
	err  error

	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(
	_ context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: string(genai.RoleModel), Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

var testMembers = []models.TeamMember{
	{ID: "U-1", Name: "Alice", Role: "Frontend Dev", DailyUpdate: "Login page done."},
	{ID: "U-2", Name: "Bob", Role: "Backend Dev"},
}

func TestSummarizeUsesDefaultModel(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("  **Done:** login  ")}
	g := newGemini(zerolog.Nop(), gen, "", 0)

	got, err := g.Summarize(context.Background(), "Alice: login done")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if got != "**Done:** login" {
		t.Errorf("unexpected summary %q", got)
	}
	if gen.model != DefaultModel {
		t.Errorf("expected model %s, got %s", DefaultModel, gen.model)
	}
}

func TestSummarizeEmptyResponse(t *testing.T) {
	g := newGemini(zerolog.Nop(), &fakeGenerator{resp: &genai.GenerateContentResponse{}}, "", 0)

	_, err := g.Summarize(context.Background(), "x")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestConverseReturnsFunctionCall(t *testing.T) {
	gen := &fakeGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{
				FunctionCall: &genai.FunctionCall{
					Name: FunctionCreateTask,
					Args: map[string]any{"title": "Fix bug", "assigneeName": "bob", "points": 3.0},
				},
			}}},
		}},
	}}
	g := newGemini(zerolog.Nop(), gen, "test-model", 0)

	reply, err := g.Converse(context.Background(), "create a task", testMembers, nil)
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if reply.FunctionCall == nil || reply.FunctionCall.Name != FunctionCreateTask {
		t.Fatalf("expected createTask call, got %+v", reply)
	}
	if reply.FunctionCall.Args["assigneeName"] != "bob" {
		t.Errorf("unexpected args %v", reply.FunctionCall.Args)
	}

	if gen.config == nil || len(gen.config.Tools) != 1 || len(gen.config.Tools[0].FunctionDeclarations) != 2 {
		t.Fatalf("expected both function declarations to be offered, got %+v", gen.config)
	}
	instruction := gen.config.SystemInstruction.Parts[0].Text
	if !strings.Contains(instruction, "Alice, Bob") {
		t.Errorf("expected assignee names in instruction, got %q", instruction)
	}
}

func TestConverseReturnsText(t *testing.T) {
	g := newGemini(zerolog.Nop(), &fakeGenerator{resp: textResponse("Bob is blocked.")}, "", 0)

	reply, err := g.Converse(context.Background(), "blockers?", testMembers, nil)
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if reply.FunctionCall != nil || reply.Text != "Bob is blocked." {
		t.Errorf("unexpected reply %+v", reply)
	}
}

func TestConverseWrapsTransportError(t *testing.T) {
	cause := errors.New("connection reset")
	g := newGemini(zerolog.Nop(), &fakeGenerator{err: cause}, "", 0)

	_, err := g.Converse(context.Background(), "hi", testMembers, nil)
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped transport error, got %v", err)
	}
}

func TestSuggestReviewerDecodesJSON(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(`{"reviewerName":"Bob","reason":"Fellow developer."}`)}
	g := newGemini(zerolog.Nop(), gen, "", 0)

	task := models.Task{ID: "T-3", Title: "Login UI", AssigneeID: "U-1"}
	got, err := g.SuggestReviewer(context.Background(), task, &testMembers[0], testMembers[1:])
	if err != nil {
		t.Fatalf("SuggestReviewer failed: %v", err)
	}
	if got.ReviewerName != "Bob" || got.Reason != "Fellow developer." {
		t.Errorf("unexpected suggestion %+v", got)
	}
	if gen.config.ResponseMIMEType != mimeTypeJSON {
		t.Errorf("expected JSON response type, got %q", gen.config.ResponseMIMEType)
	}
}

func TestSuggestReviewerRejectsMalformedJSON(t *testing.T) {
	for _, body := range []string{`not json`, `{"reviewerName":"Bob"}`} {
		g := newGemini(zerolog.Nop(), &fakeGenerator{resp: textResponse(body)}, "", 0)

		_, err := g.SuggestReviewer(context.Background(), models.Task{}, nil, testMembers)
		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("%s: expected ErrMalformedResponse, got %v", body, err)
		}
	}
}

func TestSummarizeMediaSendsInlineData(t *testing.T) {
	body := `{"summary":"Discussed login.","tasks":[{"title":"[Bug Fix] Password check","assigneeName":"Alice","status":"To Do","points":2.6}]}`
	gen := &fakeGenerator{resp: textResponse(body)}
	g := newGemini(zerolog.Nop(), gen, "", 0)

	got, err := g.SummarizeMedia(context.Background(), []byte("Alice: I'll fix it."), "text/plain", testMembers)
	if err != nil {
		t.Fatalf("SummarizeMedia failed: %v", err)
	}
	if got.Summary != "Discussed login." || len(got.Tasks) != 1 {
		t.Fatalf("unexpected summary %+v", got)
	}
	if task := got.Tasks[0]; task.Status != models.StatusToDo || task.Points != 3 || task.AssigneeName != "Alice" {
		t.Errorf("unexpected task %+v", task)
	}

	blob := gen.contents[0].Parts[0].InlineData
	if blob == nil || blob.MIMEType != "text/plain" || string(blob.Data) != "Alice: I'll fix it." {
		t.Errorf("unexpected inline data %+v", blob)
	}
}
